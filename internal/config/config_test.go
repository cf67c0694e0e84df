package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMemoryDriverNeedsNoDatabase(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_USER", "")
	t.Setenv("EVENTS_ENABLED", "yes")
	t.Setenv("CATALOG_CACHE_TTL", "90s")

	cfg := Load()
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "9090", cfg.Port)
	assert.Empty(t, cfg.DBUser)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, 90*time.Second, cfg.CatalogCacheTTL)
}

func TestLoadDatabaseDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_USER", "parking")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_NAME", "playas")
	t.Setenv("BCRYPT_COST", "12")

	cfg := Load()
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "playas", cfg.DBName)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestRateLimitDefaults(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 5, rl.Capacity)
	assert.Equal(t, 1, rl.RefillTokens)
	assert.Equal(t, 2*time.Second, rl.RefillInterval)
	assert.Equal(t, 10*time.Second, rl.TTL, "TTL is raised to five refill intervals")
	assert.Equal(t, "ip_route", rl.KeyStrategy)
}

func TestCacheConfigDefaults(t *testing.T) {
	t.Setenv("CACHE_DRIVER", "")
	cc := LoadCacheConfig()
	assert.Equal(t, "memory", cc.Driver)
	assert.Equal(t, "parking", cc.Prefix)
}

func TestLoadRedisConfig(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_TLS", "1")
	t.Setenv("REDIS_PING_TIMEOUT", "")

	rc := LoadRedisConfig()
	assert.Equal(t, "cache:6380", rc.Addr)
	assert.Equal(t, 2, rc.DB)
	assert.True(t, rc.TLS)
	assert.Equal(t, 2*time.Second, rc.PingTimeout)

	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	assert.Equal(t, "redis:6379", LoadRedisConfig().Addr, "host and port win over the shorthand")
}

func TestRedisWanted(t *testing.T) {
	assert.False(t, RedisWanted(CacheConfig{Driver: "memory"}, RateLimitConfig{}))
	assert.True(t, RedisWanted(CacheConfig{Driver: "redis"}, RateLimitConfig{}))
	assert.True(t, RedisWanted(CacheConfig{Driver: "memory"}, RateLimitConfig{Enabled: true}))
}

func TestRedisConnectReportsUnreachableServer(t *testing.T) {
	rc := RedisConfig{Addr: "127.0.0.1:1", PingTimeout: time.Second}
	client, err := rc.Connect(context.Background())
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "127.0.0.1:1")

	rc = RedisConfig{Addr: "no-port", TLS: true, PingTimeout: time.Second}
	_, err = rc.Connect(context.Background())
	assert.ErrorContains(t, err, "no-port")
}
