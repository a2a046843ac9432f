package cache

import (
	"context"
	"encoding/json"
	"time"
)

// LayeredCache implements two-level cache (L1: Memory, L2: Redis) so several
// dashboard replicas can share fetched data.
type LayeredCache struct {
	memCache   *MemoryCache
	redisCache *RedisCache
}

// NewLayeredCache creates a layered cache with memory and Redis.
func NewLayeredCache(redisCache *RedisCache, opts ...MemoryOption) *LayeredCache {
	return &LayeredCache{
		memCache:   NewMemoryCache(opts...),
		redisCache: redisCache,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	// Write-through: Redis first, then memory
	if err := lc.redisCache.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	_ = lc.memCache.Set(ctx, key, value, expiration)
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	// L1: Try memory first
	if err := lc.memCache.Get(ctx, key, dest); err == nil {
		return nil
	}

	// L2: Try Redis
	if err := lc.redisCache.Get(ctx, key, dest); err != nil {
		return err
	}

	// Store in memory for next time
	_ = lc.memCache.Set(ctx, key, json.RawMessage(mustMarshal(dest)), 0)
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.memCache.Delete(ctx, keys...)
	return lc.redisCache.Delete(ctx, keys...)
}

func (lc *LayeredCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	return lc.redisCache.Exists(ctx, keys...)
}

// Close closes both cache layers.
func (lc *LayeredCache) Close() error {
	_ = lc.memCache.Close()
	return lc.redisCache.Close()
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return b
}
