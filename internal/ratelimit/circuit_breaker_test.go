package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestBreaker(maxFailures, halfOpenCalls int) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker(&CircuitBreakerConfig{
		MaxFailures:      maxFailures,
		Timeout:          30 * time.Second,
		HalfOpenMaxCalls: halfOpenCalls,
	})
	cb.now = clock.Now
	return cb, clock
}

func fail() error    { return fmt.Errorf("backend down") }
func succeed() error { return nil }

func TestCircuitBreakerBasicFlow(t *testing.T) {
	cb, _ := newTestBreaker(3, 2)

	if cb.GetState() != CircuitBreakerClosed {
		t.Errorf("Expected initial state to be Closed, got %v", cb.GetState())
	}

	if err := cb.Execute(succeed); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if cb.GetState() != CircuitBreakerClosed {
		t.Errorf("Expected state to remain Closed after success, got %v", cb.GetState())
	}
}

func TestCircuitBreakerFailureTransition(t *testing.T) {
	cb, _ := newTestBreaker(2, 2)

	if err := cb.Execute(fail); err == nil {
		t.Error("Expected error, got nil")
	}
	if cb.GetState() != CircuitBreakerClosed {
		t.Errorf("Expected state to be Closed after first failure, got %v", cb.GetState())
	}

	if err := cb.Execute(fail); err == nil {
		t.Error("Expected error, got nil")
	}
	if cb.GetState() != CircuitBreakerOpen {
		t.Errorf("Expected state to be Open after reaching failure threshold, got %v", cb.GetState())
	}
}

func TestCircuitBreakerSuccessResetsFailures(t *testing.T) {
	cb, _ := newTestBreaker(2, 2)

	cb.Execute(fail)
	cb.Execute(succeed)
	cb.Execute(fail)

	if cb.GetState() != CircuitBreakerClosed {
		t.Errorf("Expected non-consecutive failures to keep the breaker Closed, got %v", cb.GetState())
	}
}

func TestCircuitBreakerOpenState(t *testing.T) {
	cb, _ := newTestBreaker(1, 2)

	cb.Execute(fail)

	err := cb.Execute(func() error {
		t.Error("Operation should not be executed when circuit is open")
		return nil
	})
	if err != ErrCircuitBreakerOpen {
		t.Errorf("Expected ErrCircuitBreakerOpen, got %v", err)
	}
}

func TestCircuitBreakerHalfOpenCloses(t *testing.T) {
	cb, clock := newTestBreaker(1, 2)

	cb.Execute(fail)
	clock.Advance(31 * time.Second)

	if err := cb.Execute(succeed); err != nil {
		t.Errorf("Expected probe to run after timeout, got %v", err)
	}
	if cb.GetState() != CircuitBreakerHalfOpen {
		t.Errorf("Expected HalfOpen after first probe, got %v", cb.GetState())
	}

	if err := cb.Execute(succeed); err != nil {
		t.Errorf("Expected second probe to run, got %v", err)
	}
	if cb.GetState() != CircuitBreakerClosed {
		t.Errorf("Expected Closed after %d successful probes, got %v", 2, cb.GetState())
	}
}

func TestCircuitBreakerHalfOpenReopens(t *testing.T) {
	cb, clock := newTestBreaker(1, 2)

	cb.Execute(fail)
	clock.Advance(31 * time.Second)

	cb.Execute(fail)
	if cb.GetState() != CircuitBreakerOpen {
		t.Errorf("Expected failed probe to reopen the breaker, got %v", cb.GetState())
	}

	if err := cb.Execute(succeed); err != ErrCircuitBreakerOpen {
		t.Errorf("Expected reopened breaker to reject calls, got %v", err)
	}
}

func TestCircuitBreakerHalfOpenLimitsProbes(t *testing.T) {
	cb, clock := newTestBreaker(1, 2)

	cb.Execute(fail)
	clock.Advance(31 * time.Second)

	// Two probes are admitted while neither has finished.
	if !cb.allow() || !cb.allow() {
		t.Fatal("Expected two probes to be admitted")
	}
	if cb.allow() {
		t.Error("Expected third concurrent probe to be rejected")
	}
}

func TestCircuitBreakerStats(t *testing.T) {
	cb, _ := newTestBreaker(3, 2)

	cb.Execute(fail)
	stats := cb.GetStats()

	if stats.State != "closed" {
		t.Errorf("Expected state closed, got %s", stats.State)
	}
	if stats.FailureCount != 1 {
		t.Errorf("Expected failure count 1, got %d", stats.FailureCount)
	}
	if stats.LastFailureTime.IsZero() {
		t.Error("Expected last failure time to be recorded")
	}
}

func TestCircuitBreakerConcurrency(t *testing.T) {
	cb := NewCircuitBreaker(nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				cb.Execute(func() error {
					if (id+j)%3 == 0 {
						return fmt.Errorf("failure %d-%d", id, j)
					}
					return nil
				})
			}
		}(i)
	}
	wg.Wait()

	err := cb.Execute(succeed)
	if err != nil && err != ErrCircuitBreakerOpen {
		t.Errorf("Unexpected error after concurrent operations: %v", err)
	}
}
