// Package ratelimit implements sliding-window request limiting keyed by
// caller identity.  The window trails "now" rather than aligning to the
// calendar: a request is admitted when fewer than limit requests were
// admitted in the previous window.  Rejected requests are not recorded,
// so they never count against the limit.
//
// Two implementations satisfy Limiter: an in-memory one for single-process
// deployments and a Redis-backed one for horizontal scaling.  The memory
// limiter's state is process-local, which silently multiplies the
// effective limit when several instances run side by side; inject the
// Redis limiter in that topology.
package ratelimit

import (
	"context"
	"time"
)

// Result reports the outcome of an admission check.  Limit, Remaining and
// Reset are surfaced to clients as X-RateLimit-* response headers, so they
// are part of the external contract, not just telemetry.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int       // admissions left in the current window
	Reset     time.Time // when a rejected caller may retry
}

// Limiter is the admission-control contract used by the middleware.
type Limiter interface {
	// Allow checks whether one more request under key fits in the window
	// and, if so, records it.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)

	// Remaining returns how many admissions are left without recording
	// anything.
	Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}
