package engine

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache(clock *fakeClock, maxEntries int) *TieredCache {
	return NewTieredCache(CacheOptions{TTL: 600 * time.Second, MaxEntries: maxEntries, Now: clock.Now})
}

func TestCacheKey(t *testing.T) {
	base := CacheKey{Credentials: "key-1", Keyword: "ai story", WindowHours: 24}

	t.Run("deterministic", func(t *testing.T) {
		if base.String() != (CacheKey{Credentials: "key-1", Keyword: "ai story", WindowHours: 24}).String() {
			t.Error("same key hashed differently")
		}
	})

	t.Run("every field matters", func(t *testing.T) {
		others := []CacheKey{
			{Credentials: "key-2", Keyword: "ai story", WindowHours: 24},
			{Credentials: "key-1", Keyword: "ai stories", WindowHours: 24},
			{Credentials: "key-1", Keyword: "ai story", WindowHours: 48},
		}
		for _, o := range others {
			if o.String() == base.String() {
				t.Errorf("%+v collides with %+v", o, base)
			}
		}
	})

	t.Run("hides credentials", func(t *testing.T) {
		s := base.String()
		if !strings.HasPrefix(s, "gv:") {
			t.Errorf("expected gv: prefix, got %q", s)
		}
		if strings.Contains(s, "key-1") {
			t.Errorf("raw credential leaked into %q", s)
		}
	})
}

func TestCacheGetSet(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
	c := newTestCache(clock, 100)
	ctx := context.Background()
	key := CacheKey{Credentials: "k", Keyword: "ai story", WindowHours: 24}

	if _, ok := c.Get(ctx, key); ok {
		t.Fatal("expected miss on empty cache")
	}

	val := RankResult{Keyword: "ai story", WindowHours: 24, Status: StatusOK, Videos: []Video{{ID: "v1", HeatScore: 5000}}}
	c.Set(ctx, key, val)

	got, ok := c.Get(ctx, key)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if len(got.Videos) != 1 || got.Videos[0].ID != "v1" || got.Videos[0].HeatScore != 5000 {
		t.Errorf("got %+v", got)
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses", hits, misses)
	}
}

func TestCacheExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
	c := newTestCache(clock, 100)
	ctx := context.Background()
	key := CacheKey{Credentials: "k", Keyword: "ai story", WindowHours: 24}
	c.Set(ctx, key, RankResult{Keyword: "ai story", Status: StatusEmpty})

	clock.Advance(599 * time.Second)
	if _, ok := c.Get(ctx, key); !ok {
		t.Fatal("expected hit before ttl")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get(ctx, key); ok {
		t.Fatal("expected miss at ttl")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not dropped, len = %d", c.Len())
	}
}

func TestCacheEviction(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
	c := newTestCache(clock, 3)
	ctx := context.Background()

	for i, kw := range []string{"a", "b", "c", "d"} {
		c.Set(ctx, CacheKey{Keyword: kw, WindowHours: 24}, RankResult{Keyword: kw})
		clock.Advance(time.Duration(i+1) * time.Second)
	}
	if n := c.Len(); n != 3 {
		t.Fatalf("len = %d, want 3", n)
	}
	if _, ok := c.Get(ctx, CacheKey{Keyword: "a", WindowHours: 24}); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := c.Get(ctx, CacheKey{Keyword: "d", WindowHours: 24}); !ok {
		t.Error("newest entry missing")
	}
}

func TestCacheSweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
	c := newTestCache(clock, 0)
	ctx := context.Background()
	c.Set(ctx, CacheKey{Keyword: "old", WindowHours: 24}, RankResult{})
	clock.Advance(11 * time.Minute)
	c.Set(ctx, CacheKey{Keyword: "new", WindowHours: 24}, RankResult{})

	c.sweep()
	if n := c.Len(); n != 1 {
		t.Errorf("len after sweep = %d, want 1", n)
	}
}
