package ratelimit

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// FallbackLimiter sends attempts to primary while its breaker is closed and
// to fallback otherwise, so a Redis outage degrades to per-instance limits
// instead of failing requests.
type FallbackLimiter struct {
	primary  Limiter
	fallback Limiter
	breaker  *CircuitBreaker
}

func NewFallbackLimiter(primary, fallback Limiter, breaker *CircuitBreaker) *FallbackLimiter {
	if breaker == nil {
		breaker = NewCircuitBreaker(nil)
	}
	return &FallbackLimiter{primary: primary, fallback: fallback, breaker: breaker}
}

func (l *FallbackLimiter) Allow(ctx context.Context, key string) (Result, error) {
	var result Result
	err := l.breaker.Execute(func() error {
		var err error
		result, err = l.primary.Allow(ctx, key)
		return err
	})
	if err == nil {
		return result, nil
	}

	if !errors.Is(err, ErrCircuitBreakerOpen) {
		zap.L().Warn("rate limiter backend failed, using fallback",
			zap.Error(err),
			zap.String("breaker_state", l.breaker.GetState().String()),
		)
	}
	return l.fallback.Allow(ctx, key)
}

func (l *FallbackLimiter) Breaker() *CircuitBreaker {
	return l.breaker
}

// Close stops the fallback's background work. The primary's client is owned
// by the caller.
func (l *FallbackLimiter) Close() {
	if closer, ok := l.fallback.(interface{ Close() }); ok {
		closer.Close()
	}
}
