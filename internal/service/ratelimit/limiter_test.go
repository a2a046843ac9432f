package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowConsumesBurst(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 0.0001) {
			t.Fatalf("expected token %d available", i)
		}
	}
	if l.Allow("k", 3, 0.0001) {
		t.Fatalf("expected bucket drained")
	}
}

func TestAllowRefills(t *testing.T) {
	l := New()
	if !l.Allow("k", 1, 50) {
		t.Fatalf("expected first token")
	}
	if l.Allow("k", 1, 50) {
		t.Fatalf("expected empty bucket")
	}
	time.Sleep(40 * time.Millisecond)
	if !l.Allow("k", 1, 50) {
		t.Fatalf("expected refilled token")
	}
}

func TestWaitHonorsContext(t *testing.T) {
	l := New()
	if !l.Allow("k", 1, 0.0001) {
		t.Fatalf("expected first token")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "k", 1, 0.0001); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestBucketsAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0.0001) {
		t.Fatalf("expected token for a")
	}
	if !l.Allow("b", 1, 0.0001) {
		t.Fatalf("expected token for b")
	}
}
