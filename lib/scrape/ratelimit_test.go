package scrape

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterFirstCallDoesNotWait(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	limiter := NewLimiter(time.Second*2, clock)

	require.NoError(t, limiter.Wait(context.Background()))
	require.Empty(t, clock.sleeps)
}

func TestLimiterEnforcesMinimumDelay(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	limiter := NewLimiter(time.Second*2, clock)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx))
	require.NoError(t, limiter.Wait(ctx))
	require.Equal(t, []time.Duration{time.Second * 2}, clock.sleeps)

	// elapsed time counts toward the delay
	clock.now = clock.now.Add(time.Millisecond * 1500)
	require.NoError(t, limiter.Wait(ctx))
	require.Equal(t, []time.Duration{time.Second * 2, time.Millisecond * 500}, clock.sleeps)
}

func TestLimiterSkipsWaitAfterLongGap(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	limiter := NewLimiter(time.Second*2, clock)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx))
	clock.now = clock.now.Add(time.Minute)
	require.NoError(t, limiter.Wait(ctx))
	require.Empty(t, clock.sleeps)
}

func TestLimiterCancellation(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	limiter := NewLimiter(time.Second*2, clock)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, limiter.Wait(ctx))
	cancel()
	require.ErrorIs(t, limiter.Wait(ctx), context.Canceled)
}
