package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/talent-api/internal/application/ports"
	"github.com/jhoicas/talent-api/pkg/config"
)

var _ ports.CredentialCache = (*RedisCache)(nil)

const keyPrefix = "talent:credential:"

// RedisCache keeps issued credentials in Redis with a TTL so several API
// instances share them.
type RedisCache struct {
	c   *redis.Client
	ttl time.Duration
}

// NewRedisClient opens and pings a client for cfg.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return c, nil
}

// NewRedisCache wraps an open client.
func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{c: c, ttl: ttl}
}

func (r *RedisCache) Put(ctx context.Context, requestID, password string) error {
	return r.c.Set(ctx, keyPrefix+requestID, password, r.ttl).Err()
}

func (r *RedisCache) Get(ctx context.Context, requestID string) (string, bool, error) {
	val, err := r.c.Get(ctx, keyPrefix+requestID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisCache) Delete(ctx context.Context, requestID string) error {
	return r.c.Del(ctx, keyPrefix+requestID).Err()
}
