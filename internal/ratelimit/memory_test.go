package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(start time.Time) (*MemoryLimiter, *time.Time) {
	cur := start
	l := NewMemoryLimiter()
	l.now = func() time.Time { return cur }
	return l, &cur
}

func TestMemoryLimiterAdmitsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "k", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d should be admitted", i+1)
		assert.Equal(t, 3, res.Limit)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := l.Allow(ctx, "k", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
}

func TestMemoryLimiterRejectionNotCounted(t *testing.T) {
	l, cur := newTestLimiter(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := l.Allow(ctx, "k", 3, time.Minute)
		require.NoError(t, err)
	}
	// rejected attempts must not extend the window
	for i := 0; i < 50; i++ {
		res, err := l.Allow(ctx, "k", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
	}

	// once the admitted timestamps age out, capacity is fully restored
	*cur = cur.Add(61 * time.Second)
	res, err := l.Allow(ctx, "k", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)
}

func TestMemoryLimiterSlidingWindow(t *testing.T) {
	l, cur := newTestLimiter(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := l.Allow(ctx, "k", 2, time.Minute)
	require.NoError(t, err)
	*cur = cur.Add(40 * time.Second)
	_, err = l.Allow(ctx, "k", 2, time.Minute)
	require.NoError(t, err)

	// both slots taken, first expires in 20s
	res, err := l.Allow(ctx, "k", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	*cur = cur.Add(21 * time.Second)
	res, err = l.Allow(ctx, "k", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "oldest timestamp left the window")
}

func TestMemoryLimiterKeysIndependent(t *testing.T) {
	l, _ := newTestLimiter(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := l.Allow(ctx, "a", 1, time.Minute)
	require.NoError(t, err)
	res, err := l.Allow(ctx, "a", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	res, err = l.Allow(ctx, "b", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemoryLimiterRemaining(t *testing.T) {
	l, _ := newTestLimiter(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	rem, err := l.Remaining(ctx, "k", 5, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 5, rem)

	_, err = l.Allow(ctx, "k", 5, time.Minute)
	require.NoError(t, err)
	_, err = l.Allow(ctx, "k", 5, time.Minute)
	require.NoError(t, err)

	rem, err = l.Remaining(ctx, "k", 5, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 3, rem)
}

func TestMemoryLimiterConcurrentAdmission(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()

	const workers = 50
	const limit = 10

	var wg sync.WaitGroup
	admitted := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := l.Allow(ctx, "k", limit, time.Minute)
			if err == nil && res.Allowed {
				admitted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(admitted)

	n := 0
	for range admitted {
		n++
	}
	assert.Equal(t, limit, n, "exactly limit requests admitted under contention")
}

func TestMemoryLimiterSweepEvictsIdleKeys(t *testing.T) {
	l, cur := newTestLimiter(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := l.Allow(ctx, "idle", 5, time.Minute)
	require.NoError(t, err)
	_, err = l.Allow(ctx, "busy", 5, time.Minute)
	require.NoError(t, err)

	*cur = cur.Add(2 * time.Minute)
	_, err = l.Allow(ctx, "busy", 5, time.Minute)
	require.NoError(t, err)

	l.Sweep(time.Minute)

	l.mu.Lock()
	_, idle := l.m["idle"]
	_, busy := l.m["busy"]
	l.mu.Unlock()
	assert.False(t, idle, "idle key evicted")
	assert.True(t, busy, "active key kept")
}
