package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Service using Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a Redis cache client.
func NewRedisCache(opts ...RedisOption) (*RedisCache, error) {
	cfg := &RedisConfig{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		PoolSize:     10,
		PoolTimeout:  30 * time.Second,
		MinIdleConns: 5,
		Prefix:       "healthpulse",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		PoolTimeout:  cfg.PoolTimeout,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisCache{
		client: client,
		prefix: cfg.Prefix,
	}, nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.wrapKey(key), data, expiration).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.wrapKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	return c.client.Unlink(ctx, c.wrapKeys(keys...)...).Err()
}

func (c *RedisCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	result, err := c.client.Exists(ctx, c.wrapKeys(keys...)...).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

func (c *RedisCache) wrapKey(key string) string {
	return fmt.Sprintf("%s:%s", c.prefix, key)
}

func (c *RedisCache) wrapKeys(keys ...string) []string {
	wrapped := make([]string, len(keys))
	for i, key := range keys {
		wrapped[i] = c.wrapKey(key)
	}
	return wrapped
}
