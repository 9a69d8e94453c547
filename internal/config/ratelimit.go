package config

import (
	"time"
)

// RateLimitConfig controls the sliding-window rate limiter.  Limits are
// expressed as requests per window and selected per identity class by the
// rate-limit middleware: anonymous traffic gets PublicLimit keyed by client
// IP, API-key traffic gets the key's own limit (APIKeyLimit is the default
// for keys created without one), and admin-sensitive routes accessed with a
// bearer token get AdminLimit keyed by IP.
type RateLimitConfig struct {
	Enabled     bool
	Window      time.Duration // sliding window length
	PublicLimit int           // requests per window for anonymous callers
	APIKeyLimit int           // default per-key limit when a key has none
	AdminLimit  int           // requests per window on admin-sensitive routes
	SweepEvery  time.Duration // how often the in-memory limiter evicts idle keys
	Debug       bool
}

// LoadRateLimitConfig builds a RateLimitConfig from environment variables
// with the documented per-class defaults (60/200/500 per minute).
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:     envBool("RATE_LIMIT_ENABLED", true),
		Window:      envDur("RATE_LIMIT_WINDOW", time.Minute),
		PublicLimit: envInt("RATE_LIMIT_PUBLIC", 60),
		APIKeyLimit: envInt("RATE_LIMIT_API_KEY", 200),
		AdminLimit:  envInt("RATE_LIMIT_ADMIN", 500),
		SweepEvery:  envDur("RATE_LIMIT_SWEEP_EVERY", 5*time.Minute),
		Debug:       envBool("RATE_LIMIT_DEBUG", false),
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.PublicLimit < 1 {
		cfg.PublicLimit = 1
	}
	if cfg.APIKeyLimit < 1 {
		cfg.APIKeyLimit = 1
	}
	if cfg.AdminLimit < 1 {
		cfg.AdminLimit = 1
	}
	return cfg
}
