package feed

import (
	"sync"
	"time"

	"github.com/forem/forem-sub028/internal/model"
)

// FallbackPool holds a periodically refreshed snapshot of recent published
// items. When the repository is unavailable the service ranks over this
// pool instead of failing the request. Reads copy the slice so the hot
// path never holds the lock while ranking.
type FallbackPool struct {
	mu        sync.RWMutex
	items     []model.ContentItem
	refreshed time.Time
}

func NewFallbackPool() *FallbackPool {
	return &FallbackPool{}
}

// Set replaces the snapshot.
func (p *FallbackPool) Set(items []model.ContentItem) {
	cp := append([]model.ContentItem(nil), items...)
	p.mu.Lock()
	p.items = cp
	p.refreshed = time.Now()
	p.mu.Unlock()
}

// Items returns a copy of the snapshot; empty when never refreshed.
func (p *FallbackPool) Items() []model.ContentItem {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]model.ContentItem(nil), p.items...)
}

// RefreshedAt reports when the snapshot was last replaced.
func (p *FallbackPool) RefreshedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.refreshed
}
