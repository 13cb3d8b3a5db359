package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/forem/forem-sub028/internal/feed"
)

// SnapshotRefresher periodically copies the most recent published items
// into the fallback pool so the feed can degrade to a chronological page
// when the repository is unreachable.
type SnapshotRefresher struct {
	Repo     feed.ContentRepository
	Pool     *feed.FallbackPool
	Size     int
	Interval time.Duration
	Timeout  time.Duration
}

func (w *SnapshotRefresher) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = time.Minute
	}
	if w.Size <= 0 {
		w.Size = 300
	}
	if w.Timeout <= 0 {
		w.Timeout = 5 * time.Second
	}

	// initial run
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *SnapshotRefresher) runOnce(ctx context.Context) {
	fctx, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()
	items, err := w.Repo.FetchPublished(fctx, feed.FetchFilter{}, feed.FetchSort{By: feed.SortRecency, Limit: w.Size})
	if err != nil {
		// Keep the previous snapshot; stale beats empty.
		slog.Error("snapshot: refresh failed", "error", err)
		return
	}
	if len(items) == 0 && len(w.Pool.Items()) > 0 {
		slog.Warn("snapshot: repository returned no items, keeping previous snapshot")
		return
	}
	w.Pool.Set(items)
	slog.Info("snapshot: refreshed fallback pool", "items", len(items))
}
