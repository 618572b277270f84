package engine

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheKey identifies one memoized rank call.
// Credentials take part in the key so that two API keys never share results.
type CacheKey struct {
	Credentials string
	Keyword     string
	WindowHours int
}

// KeyFor builds the cache key of a rank query.
func KeyFor(q RankQuery) CacheKey {
	return CacheKey{Credentials: q.Credentials, Keyword: q.Keyword, WindowHours: q.Window.Hours}
}

// String returns the hashed storage key. Raw credentials never reach Redis.
func (k CacheKey) String() string {
	joined := k.Credentials + "|" + k.Keyword + "|" + strconv.Itoa(k.WindowHours)
	hash := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("gv:%x", hash[:12])
}

// ResultCache memoizes rank results for a fixed duration.
type ResultCache interface {
	Get(ctx context.Context, key CacheKey) (RankResult, bool)
	Set(ctx context.Context, key CacheKey, value RankResult)
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, CacheKey) (RankResult, bool) { return RankResult{}, false }
func (NopCache) Set(context.Context, CacheKey, RankResult)        {}

// CacheOptions configures a TieredCache.
type CacheOptions struct {
	TTL             time.Duration
	MaxEntries      int
	CleanupInterval time.Duration
	RedisURL        string           // empty disables L2
	Now             func() time.Time // nil = time.Now
}

// TieredCache implements L1 (memory) + L2 (Redis) caching.
// L1 is fast but lost on restart. L2 survives restarts.
// Entries expire purely by elapsed time; there is no explicit invalidation.
type TieredCache struct {
	l1              sync.Map      // key → *cacheEntry
	rdb             *redis.Client // nil if Redis unavailable
	ttl             time.Duration
	maxEntries      int
	cleanupInterval time.Duration
	now             func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewTieredCache sets up the 2-tier cache.
func NewTieredCache(opts CacheOptions) *TieredCache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultCacheTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &TieredCache{
		ttl:             opts.TTL,
		maxEntries:      opts.MaxEntries,
		cleanupInterval: opts.CleanupInterval,
		now:             opts.Now,
	}

	if opts.RedisURL != "" {
		ropts, err := redis.ParseURL(opts.RedisURL)
		if err != nil {
			slog.Warn("cache: invalid redis URL, L2 disabled", slog.Any("error", err))
		} else {
			rdb := redis.NewClient(ropts)
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err != nil {
				slog.Warn("cache: redis unreachable, L2 disabled", slog.Any("error", err))
				rdb.Close()
			} else {
				c.rdb = rdb
				slog.Info("cache: L2 redis connected", slog.String("addr", ropts.Addr))
			}
		}
	}

	slog.Info("cache: initialized", slog.Duration("ttl", c.ttl), slog.Bool("redis", c.rdb != nil), slog.Int("max_entries", c.maxEntries))
	return c
}

// Get tries L1, then L2. On L2 hit, populates L1.
func (c *TieredCache) Get(ctx context.Context, key CacheKey) (RankResult, bool) {
	k := key.String()

	if val, ok := c.l1.Load(k); ok {
		entry := val.(*cacheEntry)
		if c.now().Before(entry.expiresAt) {
			var out RankResult
			if json.Unmarshal(entry.data, &out) == nil {
				slog.Debug("cache: L1 hit", slog.String("key", k))
				c.hits.Add(1)
				return out, true
			}
		}
		c.l1.Delete(k) // expired or corrupt
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, k).Bytes()
		if err == nil {
			var out RankResult
			if json.Unmarshal(data, &out) == nil {
				slog.Debug("cache: L2 hit", slog.String("key", k))
				c.hits.Add(1)
				ttl := c.rdb.TTL(ctx, k).Val()
				if ttl <= 0 || ttl > c.ttl {
					ttl = c.ttl
				}
				c.l1.Store(k, &cacheEntry{data: data, expiresAt: c.now().Add(ttl)})
				return out, true
			}
		}
	}

	c.misses.Add(1)
	return RankResult{}, false
}

// Set stores value in both L1 and L2.
func (c *TieredCache) Set(ctx context.Context, key CacheKey, value RankResult) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	k := key.String()

	c.evictIfNeeded()

	c.l1.Store(k, &cacheEntry{data: data, expiresAt: c.now().Add(c.ttl)})

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, k, data, c.ttl).Err(); err != nil {
			slog.Debug("cache: L2 set failed", slog.Any("error", err))
		}
	}
}

// Stats returns hit/miss counters.
func (c *TieredCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len counts L1 entries, expired ones included.
func (c *TieredCache) Len() int {
	n := 0
	c.l1.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close releases the Redis connection, if any.
func (c *TieredCache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// evictIfNeeded removes entries when L1 exceeds maxEntries.
// Removes expired entries first, then oldest entries if still over limit.
func (c *TieredCache) evictIfNeeded() {
	if c.maxEntries <= 0 {
		return
	}

	count := c.Len()
	if count < c.maxEntries {
		return
	}

	now := c.now()
	c.l1.Range(func(key, val any) bool {
		if entry, ok := val.(*cacheEntry); ok && now.After(entry.expiresAt) {
			c.l1.Delete(key)
			count--
		}
		return count >= c.maxEntries
	})

	for count >= c.maxEntries {
		var oldestKey any
		oldestAt := now.Add(c.ttl + time.Hour)
		c.l1.Range(func(key, val any) bool {
			// Earlier expiry = older entry (since expiry = createdAt + ttl)
			if entry, ok := val.(*cacheEntry); ok && entry.expiresAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = entry.expiresAt
			}
			return true
		})
		if oldestKey == nil {
			break
		}
		c.l1.Delete(oldestKey)
		count--
	}
}

// RunCleanup periodically removes expired L1 entries until ctx is done.
func (c *TieredCache) RunCleanup(ctx context.Context) {
	interval := c.cleanupInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *TieredCache) sweep() {
	now := c.now()
	c.l1.Range(func(key, val any) bool {
		if entry, ok := val.(*cacheEntry); ok && now.After(entry.expiresAt) {
			c.l1.Delete(key)
		}
		return true
	})
}
