package config

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig locates the Redis server shared by the catalog cache and the
// rate limiter.
type RedisConfig struct {
	Addr        string        // REDIS_HOST+REDIS_PORT, else REDIS_ADDR, else localhost:6379
	Password    string        // REDIS_PASSWORD
	DB          int           // REDIS_DB
	TLS         bool          // REDIS_TLS
	PingTimeout time.Duration // REDIS_PING_TIMEOUT
}

// LoadRedisConfig reads the Redis settings from the environment.
func LoadRedisConfig() RedisConfig {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = net.JoinHostPort(host, port)
	}
	return RedisConfig{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DB:          envInt("REDIS_DB", 0),
		TLS:         envBool("REDIS_TLS", false),
		PingTimeout: envDur("REDIS_PING_TIMEOUT", 2*time.Second),
	}
}

// RedisWanted reports whether either Redis consumer is configured to use it.
func RedisWanted(cache CacheConfig, rl RateLimitConfig) bool {
	return cache.Driver == "redis" || rl.Enabled
}

// Connect opens a client and pings it. When the server cannot be reached
// the client is closed and the ping error returned; callers then keep the
// catalog cache in process and run without rate limiting.
func (c RedisConfig) Connect(ctx context.Context) (*redis.Client, error) {
	opts := &redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB}
	if c.TLS {
		host, _, err := net.SplitHostPort(c.Addr)
		if err != nil {
			return nil, fmt.Errorf("redis addr %q: %w", c.Addr, err)
		}
		opts.TLSConfig = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, c.PingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", c.Addr, err)
	}
	return client, nil
}
