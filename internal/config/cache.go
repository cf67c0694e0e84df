package config

import "os"

// CacheConfig selects the backend of the catalog cache. With Driver "redis"
// the client from RedisConfig.Connect is used; if Redis is unreachable, or
// the driver is "memory", an in-process cache is used instead.
type CacheConfig struct {
	Driver string // CACHE_DRIVER: redis or memory
	Prefix string // CACHE_PREFIX: namespace for every key
}

// LoadCacheConfig reads CACHE_DRIVER and CACHE_PREFIX.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Driver: getenv("CACHE_DRIVER", "memory"),
		Prefix: getenv("CACHE_PREFIX", "parking"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
