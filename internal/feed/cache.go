package feed

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/forem/forem-sub028/internal/model"
)

// PageCache memoizes resolved pages for a short TTL. Implementations are
// best-effort: a miss or a backend failure never fails the request, so the
// interface has no error returns.
type PageCache interface {
	Get(ctx context.Context, key string) (model.FeedPage, bool)
	Put(ctx context.Context, key string, page model.FeedPage, ttl time.Duration)
}

// CacheKey identifies one computed page. Anonymous viewers share a single
// bucket; the jitter seed is part of the key so a seed rotation cannot
// serve a page from the previous ordering.
type CacheKey struct {
	Viewer    string
	Strategy  Strategy
	Tag       string
	Timeframe model.Timeframe
	Page      int
	PerPage   int
	Seed      int64
}

// String renders the key as a short hash suitable for any backend.
func (k CacheKey) String() string {
	viewer := k.Viewer
	if viewer == "" {
		viewer = "anon"
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%s|%d|%d|%d", viewer, k.Strategy, k.Tag, k.Timeframe, k.Page, k.PerPage, k.Seed)
	return fmt.Sprintf("%016x", h.Sum64())
}

type cacheEntry struct {
	page    model.FeedPage
	expires time.Time
}

// MemoryCache is an in-process PageCache: a mutex-guarded map with per-key
// expiry. Last write wins on a racing Put, which is fine since entries are
// idempotent derived computations.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cacheEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) (model.FeedPage, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expires) {
		return model.FeedPage{}, false
	}
	return e.page, true
}

func (c *MemoryCache) Put(_ context.Context, key string, page model.FeedPage, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{page: page, expires: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Sweep drops expired entries and returns how many were removed. Called
// periodically by the cache sweeper worker.
func (c *MemoryCache) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len reports the current entry count, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
