package config

import "time"

// CacheConfig controls the Redis response cache applied to the public
// categorized-showtimes endpoint.  When Enabled is false or no Redis client
// is available, the cache middleware is a pass-through.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration // lifetime of a cached response
	Prefix  string        // key namespace
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 30*time.Second),
		Prefix:  envStr("CACHE_PREFIX", "cache"),
	}
}
