package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/forem/forem-sub028/internal/feed"
)

// CacheSweeper evicts expired entries from the in-process page cache.
type CacheSweeper struct {
	Cache    *feed.MemoryCache
	Interval time.Duration
}

func (w *CacheSweeper) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = time.Minute
	}
	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if removed := w.Cache.Sweep(); removed > 0 {
				slog.Debug("cache sweep", "removed", removed, "remaining", w.Cache.Len())
			}
		}
	}
}
