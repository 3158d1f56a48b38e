package cacheinfra

import (
	"context"
	"testing"
	"time"
)

type tagStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, tags []string, ttl time.Duration) error
	InvalidateTags(ctx context.Context, tags ...string) error
}

// runStoreContract exercises the behavior every tag store backend shares.
func runStoreContract(t *testing.T, newStore func(t *testing.T) tagStore) {
	t.Helper()
	ctx := context.Background()

	mustSet := func(t *testing.T, s tagStore, key, value string, tags ...string) {
		t.Helper()
		if err := s.Set(ctx, key, []byte(value), tags, time.Minute); err != nil {
			t.Fatalf("Set(%q) failed: %v", key, err)
		}
	}

	assertValue := func(t *testing.T, s tagStore, key, want string) {
		t.Helper()
		got, ok, err := s.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", key, err)
		}
		if !ok {
			t.Fatalf("Get(%q) expected hit, got miss", key)
		}
		if string(got) != want {
			t.Errorf("Get(%q) = %q, want %q", key, got, want)
		}
	}

	assertMissing := func(t *testing.T, s tagStore, key string) {
		t.Helper()
		_, ok, err := s.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", key, err)
		}
		if ok {
			t.Errorf("Get(%q) expected miss, got hit", key)
		}
	}

	t.Run("get missing key", func(t *testing.T) {
		assertMissing(t, newStore(t), "missing")
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		mustSet(t, s, "products::1", "one", "products")
		assertValue(t, s, "products::1", "one")
	})

	t.Run("invalidate removes every entry sharing a tag", func(t *testing.T) {
		s := newStore(t)
		mustSet(t, s, "products::page0", "p0", "products")
		mustSet(t, s, "products::page1", "p1", "products")
		mustSet(t, s, "mixed", "m", "stocks", "products")
		mustSet(t, s, "stocks::page0", "s0", "stocks")

		if err := s.InvalidateTags(ctx, "products"); err != nil {
			t.Fatalf("InvalidateTags failed: %v", err)
		}

		assertMissing(t, s, "products::page0")
		assertMissing(t, s, "products::page1")
		assertMissing(t, s, "mixed")
		assertValue(t, s, "stocks::page0", "s0")
	})

	t.Run("invalidate accepts several tags", func(t *testing.T) {
		s := newStore(t)
		mustSet(t, s, "a", "a", "t1")
		mustSet(t, s, "b", "b", "t2")
		mustSet(t, s, "c", "c", "t3")

		if err := s.InvalidateTags(ctx, "t1", "t2"); err != nil {
			t.Fatalf("InvalidateTags failed: %v", err)
		}

		assertMissing(t, s, "a")
		assertMissing(t, s, "b")
		assertValue(t, s, "c", "c")
	})

	t.Run("overwrite replaces the tag set", func(t *testing.T) {
		s := newStore(t)
		mustSet(t, s, "key", "old", "old-tag")
		mustSet(t, s, "key", "new", "new-tag")

		if err := s.InvalidateTags(ctx, "old-tag"); err != nil {
			t.Fatalf("InvalidateTags failed: %v", err)
		}
		assertValue(t, s, "key", "new")

		if err := s.InvalidateTags(ctx, "new-tag"); err != nil {
			t.Fatalf("InvalidateTags failed: %v", err)
		}
		assertMissing(t, s, "key")
	})

	t.Run("untagged entries survive invalidation", func(t *testing.T) {
		s := newStore(t)
		mustSet(t, s, "plain", "v")

		if err := s.InvalidateTags(ctx, "products"); err != nil {
			t.Fatalf("InvalidateTags failed: %v", err)
		}
		assertValue(t, s, "plain", "v")
	})

	t.Run("invalidating unknown or empty tags is a no-op", func(t *testing.T) {
		s := newStore(t)
		if err := s.InvalidateTags(ctx, "nobody-uses-this"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if err := s.InvalidateTags(ctx); err != nil {
			t.Errorf("expected no error for empty tags, got %v", err)
		}
	})

	t.Run("cancelled context is reported", func(t *testing.T) {
		s := newStore(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		if err := s.Set(cancelled, "k", []byte("v"), nil, time.Minute); err == nil {
			t.Error("expected Set to fail on cancelled context")
		}
	})
}
