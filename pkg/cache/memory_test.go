package cache

import (
	"context"
	"testing"
	"time"
)

type testPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T, opts ...MemoryOption) *MemoryCache {
	t.Helper()
	mc := NewMemoryCache(opts...)
	t.Cleanup(func() { _ = mc.Close() })
	return mc
}

func TestMemoryCacheSetGet(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	in := testPayload{Name: "bundle", Count: 4}
	if err := mc.Set(ctx, "k", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out testPayload
	if err := mc.Get(ctx, "k", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != in {
		t.Fatalf("expected %+v, got %+v", in, out)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := newTestCache(t)

	var out testPayload
	if err := mc.Get(context.Background(), "absent", &out); err != ErrCacheMiss {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	if err := mc.Set(ctx, "k", testPayload{Name: "x"}, 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(25 * time.Millisecond)

	var out testPayload
	if err := mc.Get(ctx, "k", &out); err != ErrCacheMiss {
		t.Fatalf("expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	mc := newTestCache(t, WithMemoryMaxSize(2))
	ctx := context.Background()

	if err := mc.Set(ctx, "a", 1, time.Minute); err != nil {
		t.Fatalf("set a: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := mc.Set(ctx, "b", 2, time.Minute); err != nil {
		t.Fatalf("set b: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := mc.Set(ctx, "c", 3, time.Minute); err != nil {
		t.Fatalf("set c: %v", err)
	}

	var out int
	if err := mc.Get(ctx, "a", &out); err != ErrCacheMiss {
		t.Fatalf("expected oldest key evicted, got %v", err)
	}
	if err := mc.Get(ctx, "c", &out); err != nil || out != 3 {
		t.Fatalf("expected c present, got %v/%d", err, out)
	}
}

func TestMemoryCacheDeleteAndExists(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	_ = mc.Set(ctx, "k", 1, time.Minute)
	ok, err := mc.Exists(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected exists, got %v/%v", ok, err)
	}

	if err := mc.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, err = mc.Exists(ctx, "k")
	if err != nil || ok {
		t.Fatalf("expected deleted, got %v/%v", ok, err)
	}
}

func TestGenerateKey(t *testing.T) {
	if got := GenerateKey("bundle", "BRA"); got != "bundle:BRA" {
		t.Fatalf("unexpected key %q", got)
	}
}
