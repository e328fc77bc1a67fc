// Package cache opens the shared Redis client and the in-process fallback
// used for timetable reads.
package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/sma-timetable-api/pkg/config"
)

const (
	dialTimeout = 2 * time.Second
	pingTimeout = 3 * time.Second
)

// NewRedis connects to Redis and pings it once. The client is closed again
// when the ping fails.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", client.Options().Addr, err)
	}
	return client, nil
}

// NewMemory returns the process-local cache. Expired items are purged every
// two TTLs; a non-positive TTL disables expiry.
func NewMemory(defaultTTL time.Duration) *gocache.Cache {
	if defaultTTL <= 0 {
		return gocache.New(gocache.NoExpiration, 0)
	}
	return gocache.New(defaultTTL, 2*defaultTTL)
}
