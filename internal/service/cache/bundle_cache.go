package cache

import (
	"context"
	"time"

	"HealthPulse/internal/domain/models"
	pkgcache "HealthPulse/pkg/cache"
)

const keyPrefix = "bundle"

// Entry is one cached bundle with its store timestamp.
type Entry struct {
	Bundle   models.Bundle `json:"bundle"`
	CachedAt time.Time     `json:"cached_at"`
}

// BundleCache maps country code to a complete indicator bundle. Entries are
// never explicitly evicted at this level; a stale entry is simply re-fetched
// and overwritten. The backing store may be memory-only or layered with
// Redis.
type BundleCache struct {
	store pkgcache.Service
	ttl   time.Duration
	now   func() time.Time
}

// New creates a bundle cache over the given store.
func New(store pkgcache.Service, ttl time.Duration) *BundleCache {
	return &BundleCache{store: store, ttl: ttl, now: time.Now}
}

// Get returns the entry for a country, fresh or not.
func (c *BundleCache) Get(ctx context.Context, countryCode string) (Entry, bool) {
	var e Entry
	if err := c.store.Get(ctx, pkgcache.GenerateKey(keyPrefix, countryCode), &e); err != nil {
		return Entry{}, false
	}
	return e, true
}

// Put stores a bundle with the current timestamp. The store expiration is
// kept longer than the freshness window so the timestamp rule governs.
func (c *BundleCache) Put(ctx context.Context, countryCode string, bundle models.Bundle) error {
	e := Entry{Bundle: bundle, CachedAt: c.now()}
	return c.store.Set(ctx, pkgcache.GenerateKey(keyPrefix, countryCode), e, 2*c.ttl)
}

// IsFresh reports whether strictly less than the TTL has elapsed since the
// entry was stored.
func (c *BundleCache) IsFresh(e Entry) bool {
	return c.now().Sub(e.CachedAt) < c.ttl
}

// TTL returns the freshness window.
func (c *BundleCache) TTL() time.Duration {
	return c.ttl
}
