package config

import "time"

// CacheConfig defines settings for the response cache middleware that
// fronts the public read endpoints (venue/resource listings and
// availability queries).  When Enabled is false or no Redis client is
// configured, caching is disabled and requests pass straight through.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// The short default TTL keeps availability responses honest: a freshly
// booked slot disappears from cached answers within seconds.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 15*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
