package scrape

import (
	"context"
	"time"
)

// Clock abstracts wall-clock access so rate limiting can be tested
// without real delays.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SystemClock returns the wall-clock implementation used outside tests.
func SystemClock() Clock { return systemClock{} }

// Limiter enforces a minimum delay between consecutive physical fetches.
// It owns the last-fetch timestamp; fetches served from cache must not
// go through it.
type Limiter struct {
	clock    Clock
	minDelay time.Duration
	last     time.Time
}

func NewLimiter(minDelay time.Duration, clock Clock) *Limiter {
	if clock == nil {
		clock = systemClock{}
	}
	return &Limiter{clock: clock, minDelay: minDelay}
}

// Wait blocks until at least the configured delay has passed since the
// previous call returned, then records the new fetch timestamp.
func (l *Limiter) Wait(ctx context.Context) error {
	now := l.clock.Now()
	if !l.last.IsZero() {
		if remaining := l.minDelay - now.Sub(l.last); remaining > 0 {
			if err := l.clock.Sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	l.last = l.clock.Now()
	return nil
}
