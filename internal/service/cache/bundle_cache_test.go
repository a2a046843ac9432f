package cache

import (
	"context"
	"testing"
	"time"

	"HealthPulse/internal/domain/models"
	pkgcache "HealthPulse/pkg/cache"
)

func testBundle() models.Bundle {
	return models.Bundle{
		"life_expectancy": {{Year: 2019, Value: 70.5}},
	}
}

func newFixedClockCache(t *testing.T, ttl time.Duration) (*BundleCache, *time.Time) {
	t.Helper()
	store := pkgcache.NewMemoryCache()
	t.Cleanup(func() { _ = store.Close() })

	c := New(store, ttl)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestGetMiss(t *testing.T) {
	c, _ := newFixedClockCache(t, 10*time.Minute)
	if _, ok := c.Get(context.Background(), "BRA"); ok {
		t.Fatalf("expected miss on empty cache")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	c, now := newFixedClockCache(t, 10*time.Minute)
	ctx := context.Background()

	if err := c.Put(ctx, "BRA", testBundle()); err != nil {
		t.Fatalf("put: %v", err)
	}

	e, ok := c.Get(ctx, "BRA")
	if !ok {
		t.Fatalf("expected hit")
	}
	if !e.CachedAt.Equal(*now) {
		t.Fatalf("expected CachedAt %v, got %v", *now, e.CachedAt)
	}
	if got := e.Bundle["life_expectancy"]; len(got) != 1 || got[0].Value != 70.5 {
		t.Fatalf("unexpected bundle %+v", e.Bundle)
	}
}

func TestFreshnessBoundaryIsStrict(t *testing.T) {
	ttl := 10 * time.Minute
	c, now := newFixedClockCache(t, ttl)
	ctx := context.Background()

	if err := c.Put(ctx, "BRA", testBundle()); err != nil {
		t.Fatalf("put: %v", err)
	}
	e, ok := c.Get(ctx, "BRA")
	if !ok {
		t.Fatalf("expected hit")
	}

	*now = e.CachedAt.Add(ttl - time.Nanosecond)
	if !c.IsFresh(e) {
		t.Fatalf("expected fresh just under the window")
	}

	*now = e.CachedAt.Add(ttl)
	if c.IsFresh(e) {
		t.Fatalf("expected stale exactly at the window")
	}
}

func TestPutOverwrites(t *testing.T) {
	c, now := newFixedClockCache(t, 10*time.Minute)
	ctx := context.Background()

	if err := c.Put(ctx, "BRA", testBundle()); err != nil {
		t.Fatalf("put: %v", err)
	}
	first, _ := c.Get(ctx, "BRA")

	*now = now.Add(time.Minute)
	updated := models.Bundle{"life_expectancy": {{Year: 2020, Value: 71.0}}}
	if err := c.Put(ctx, "BRA", updated); err != nil {
		t.Fatalf("put again: %v", err)
	}

	second, ok := c.Get(ctx, "BRA")
	if !ok {
		t.Fatalf("expected hit")
	}
	if !second.CachedAt.After(first.CachedAt) {
		t.Fatalf("expected refreshed timestamp")
	}
	if got := second.Bundle["life_expectancy"]; got[0].Year != 2020 {
		t.Fatalf("expected overwritten bundle, got %+v", got)
	}
}
