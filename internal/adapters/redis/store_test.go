package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "trip_planner/internal/adapters/redis"
)

func newStore(t *testing.T, prefix string) (*redisad.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := redisad.New(mr.Addr(), "", 0, prefix)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestStore_MissThenSetThenHit(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, "")

	if _, ok, err := s.Get(ctx, "tripApp_reviews"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "tripApp_reviews", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, "tripApp_reviews")
	if err != nil || !ok || string(v) != "[]" {
		t.Fatalf("unexpected get: %q ok=%v err=%v", v, ok, err)
	}
}

func TestStore_PrefixAndNoTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t, "trip:")

	if err := s.Set(ctx, "tripApp_darkMode", []byte("true")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := mr.Get("trip:tripApp_darkMode")
	if err != nil || got != "true" {
		t.Fatalf("expected prefixed key, got %q err=%v", got, err)
	}
	if ttl := mr.TTL("trip:tripApp_darkMode"); ttl != 0 {
		t.Fatalf("expected no TTL, got %v", ttl)
	}
}

func TestStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, "")

	_ = s.Set(ctx, "k", []byte("one"))
	_ = s.Set(ctx, "k", []byte("two"))
	v, _, _ := s.Get(ctx, "k")
	if string(v) != "two" {
		t.Fatalf("last write should win, got %q", v)
	}
}

func TestStore_BackendDown(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t, "")
	mr.Close()

	if _, _, err := s.Get(ctx, "k"); err == nil {
		t.Fatalf("expected error when redis is down")
	}
	if err := s.Set(ctx, "k", []byte("v")); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
