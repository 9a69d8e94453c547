package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter keeps a per-key ordered queue of admission timestamps.
// A single mutex guards the whole map: admission checks on the same key
// are serialized, so two concurrent requests can never both take the last
// slot.  Entries are created lazily; Sweep evicts keys whose queues have
// drained so long-running processes do not accumulate one entry per IP
// forever.
type MemoryLimiter struct {
	mu  sync.Mutex
	now func() time.Time // injectable clock for tests
	m   map[string][]time.Time
}

// NewMemoryLimiter returns an empty in-memory limiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{now: time.Now, m: make(map[string][]time.Time)}
}

// prune drops timestamps older than the window start and returns the
// surviving queue.  Caller holds the mutex.
func (l *MemoryLimiter) prune(key string, cutoff time.Time) []time.Time {
	q := l.m[key]
	i := 0
	for i < len(q) && !q[i].After(cutoff) {
		i++
	}
	if i > 0 {
		q = q[i:]
		if len(q) == 0 {
			delete(l.m, key)
		} else {
			l.m[key] = q
		}
	}
	return q
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	q := l.prune(key, now.Add(-window))
	res := Result{Limit: limit, Reset: now.Add(window)}
	if len(q) >= limit {
		res.Remaining = 0
		return res, nil
	}
	l.m[key] = append(q, now)
	res.Allowed = true
	res.Remaining = limit - len(q) - 1
	return res, nil
}

// Remaining implements Limiter.
func (l *MemoryLimiter) Remaining(_ context.Context, key string, limit int, window time.Duration) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	q := l.prune(key, l.now().Add(-window))
	if rem := limit - len(q); rem > 0 {
		return rem, nil
	}
	return 0, nil
}

// Sweep removes every key whose queue holds no timestamp newer than the
// window.  Called periodically to bound memory.
func (l *MemoryLimiter) Sweep(window time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-window)
	for key, q := range l.m {
		if len(q) == 0 || !q[len(q)-1].After(cutoff) {
			delete(l.m, key)
		}
	}
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (l *MemoryLimiter) StartSweeper(ctx context.Context, interval, window time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Sweep(window)
			}
		}
	}()
}
