package config

import "time"

// CacheConfig defines settings for the response cache middleware.
// When Enabled is false or no Redis client is configured, caching is disabled.
// Methods lists the HTTP methods whose responses are cached.  A request
// with any other method invalidates every cached entry when
// InvalidateOnWrite is set, whatever status it ends with.
type CacheConfig struct {
    Enabled           bool
    Methods           map[string]bool
    TTL               time.Duration
    KeyStrategy       string // "path" or "path_query"
    Prefix            string
    MaxBodyBytes      int
    InvalidateOnWrite bool
}

// LoadCacheConfig reads environment variables to build a CacheConfig.  Defaults
// are used when variables are not set.  All methods are upper-cased.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:           envBool("CACHE_ENABLED", true),
        Methods:           parseList(getenv("CACHE_METHODS", "GET"), true),
        TTL:               envDur("CACHE_TTL", 30*time.Second),
        KeyStrategy:       getenv("CACHE_KEY_STRATEGY", "path_query"),
        Prefix:            getenv("CACHE_PREFIX", "cache"),
        MaxBodyBytes:      envInt("CACHE_MAX_BODY_BYTES", 1<<20),
        InvalidateOnWrite: envBool("CACHE_INVALIDATE_ON_WRITE", true),
    }
}
