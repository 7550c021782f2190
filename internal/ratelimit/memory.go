package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/vanotis720/SampleTaskAPI/internal/config"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps a token bucket per key. Idle buckets are swept every
// cleanup interval.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	stop     chan struct{}
	once     sync.Once
}

func NewMemoryLimiter(cfg config.RateLimitConfig) *MemoryLimiter {
	perMinute := cfg.RequestsPerMin
	if perMinute <= 0 {
		perMinute = 60
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = perMinute
	}
	idle := cfg.CleanupInterval
	if idle <= 0 {
		idle = 10 * time.Minute
	}

	l := &MemoryLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		idle:     idle,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := time.Now()

	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	reservation := v.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return Result{Allowed: false, Limit: l.burst, RetryAfter: delay}, nil
	}

	remaining := int(math.Floor(v.limiter.TokensAt(now)))
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: true, Limit: l.burst, Remaining: remaining}, nil
}

func (l *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(l.idle)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			l.mu.Lock()
			for key, v := range l.visitors {
				if now.Sub(v.lastSeen) > l.idle {
					delete(l.visitors, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

func (l *MemoryLimiter) Close() {
	l.once.Do(func() { close(l.stop) })
}
