package feed

import (
	"context"
	"time"

	"github.com/forem/forem-sub028/internal/model"
)

// SortBy orders a candidate fetch.
type SortBy string

const (
	SortRecency SortBy = "recency"
	SortHotness SortBy = "hotness"
)

// FetchFilter narrows a candidate fetch. Zero values mean "no constraint".
type FetchFilter struct {
	Tag        string
	Cutoff     time.Time // earliest admissible publication time
	MinHotness float64
}

// FetchSort bounds and orders a candidate fetch. Limit is always set by the
// engine; repositories must not return more than Limit items.
type FetchSort struct {
	By    SortBy
	Limit int
}

// ContentRepository is the engine's only view of content storage. All
// methods are read-only; implementations must honor context cancellation
// since the engine issues these calls with short timeouts.
type ContentRepository interface {
	FetchPublished(ctx context.Context, filter FetchFilter, sort FetchSort) ([]model.ContentItem, error)
	ResolveFollowGraph(ctx context.Context, viewerID string) (model.FollowGraph, error)
	// GetPinned returns the currently pinned item, or nil when none is set.
	GetPinned(ctx context.Context) (*model.ContentItem, error)
}
