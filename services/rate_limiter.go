package services

import (
	"context"
	"sync"
	"time"
)

// RateLimiter enforces a sliding-window cap on outbound AI calls. Acquire
// blocks until a slot frees up or the context is cancelled; the window is
// re-evaluated against the wall clock on every check so slots expire exactly
// windowSeconds after they were taken.
type RateLimiter struct {
	mu       sync.Mutex
	maxCalls int
	window   time.Duration
	calls    []time.Time
	now      func() time.Time
}

func NewRateLimiter(maxCalls int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxCalls: maxCalls,
		window:   window,
		now:      time.Now,
	}
}

// Acquire takes one call slot, sleeping until the oldest in-window call ages
// out if the limiter is saturated. Returns the context's error if cancelled
// while waiting.
func (rl *RateLimiter) Acquire(ctx context.Context) error {
	for {
		rl.mu.Lock()
		now := rl.now()
		rl.prune(now)
		if len(rl.calls) < rl.maxCalls {
			rl.calls = append(rl.calls, now)
			rl.mu.Unlock()
			return nil
		}
		wait := rl.calls[0].Add(rl.window).Sub(now)
		rl.mu.Unlock()

		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// TryAcquire takes a slot without blocking. Returns false if the window is
// full.
func (rl *RateLimiter) TryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	rl.prune(now)
	if len(rl.calls) >= rl.maxCalls {
		return false
	}
	rl.calls = append(rl.calls, now)
	return true
}

// InFlight reports how many calls are currently counted against the window.
func (rl *RateLimiter) InFlight() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.prune(rl.now())
	return len(rl.calls)
}

func (rl *RateLimiter) prune(now time.Time) {
	cutoff := now.Add(-rl.window)
	i := 0
	for i < len(rl.calls) && !rl.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		rl.calls = append(rl.calls[:0], rl.calls[i:]...)
	}
}
