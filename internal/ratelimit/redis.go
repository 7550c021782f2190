package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/vanotis720/SampleTaskAPI/internal/config"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
}

// RedisLimiter counts attempts per key in fixed windows shared by every
// instance talking to the same Redis.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	if limit <= 0 {
		limit = 60
	}
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	redisKey := keyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("failed to count attempt: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("failed to set window: %w", err)
		}
	}

	if count > int64(l.limit) {
		ttl, err := l.client.PTTL(ctx, redisKey).Result()
		if err != nil {
			return Result{}, fmt.Errorf("failed to read window: %w", err)
		}
		if ttl < 0 {
			ttl = l.window
		}
		return Result{Allowed: false, Limit: l.limit, RetryAfter: ttl}, nil
	}

	return Result{Allowed: true, Limit: l.limit, Remaining: l.limit - int(count)}, nil
}

func (l *RedisLimiter) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return l.client.Ping(ctx).Err()
}
