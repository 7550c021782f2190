package ratelimit

import (
	"context"
	"time"

	"github.com/vanotis720/SampleTaskAPI/internal/config"

	"github.com/redis/go-redis/v9"
)

// Result describes the outcome of one attempt against a key's budget.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// New returns an in-process limiter, or a Redis limiter guarded by a circuit
// breaker that falls back to the in-process one when client is set.
func New(cfg config.RateLimitConfig, client *redis.Client) Limiter {
	memory := NewMemoryLimiter(cfg)
	if client == nil {
		return memory
	}
	return NewFallbackLimiter(NewRedisLimiter(client, cfg.RequestsPerMin, time.Minute), memory, nil)
}
