package feed

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"time"

	"github.com/forem/forem-sub028/internal/config"
	"github.com/forem/forem-sub028/internal/model"
)

// Observer receives feed-resolution events for metrics. All methods must
// be cheap and non-blocking.
type Observer interface {
	PageServed(strategy string, degraded bool)
	CacheLookup(hit bool)
}

// Query is one validated feed request. Timeframe must already be parsed;
// unknown timeframe strings never reach the service.
type Query struct {
	ViewerID  string
	Tag       string
	Timeframe model.Timeframe
	Page      int
	PerPage   int
	// NotIDs are caller-supplied exclusions; SeenIDs are ids already
	// rendered in prior pages of the same session.
	NotIDs  []string
	SeenIDs []string
	// Seed pins the jitter seed. Zero derives one from the request key and
	// the cache-TTL time bucket, so pages of one browsing session share it.
	Seed int64
}

// Service composes and ranks feed pages. All fields except Repo and Config
// are optional; computation is read-only and stateless per request, so one
// Service serves concurrent requests without locking.
type Service struct {
	Repo            ContentRepository
	Config          config.FeedConfig
	Cache           PageCache     // optional; best-effort memoization
	Pool            *FallbackPool // optional; degraded-mode candidate source
	Observer        Observer      // optional
	CacheTTL        time.Duration
	UpstreamTimeout time.Duration
	Clock           func() time.Time // optional; defaults to time.Now
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *Service) pageServed(strategy Strategy, degraded bool) {
	if s.Observer != nil {
		s.Observer.PageServed(string(strategy), degraded)
	}
}

func (s *Service) cacheLookup(hit bool) {
	if s.Observer != nil {
		s.Observer.CacheLookup(hit)
	}
}

// Resolve produces one feed page. Parameter errors return
// ErrInvalidParameter; repository failures degrade to the fallback pool
// and only return ErrUpstreamUnavailable when the pool is empty too.
func (s *Service) Resolve(ctx context.Context, q Query) (model.FeedPage, error) {
	if q.Page < 1 {
		return model.FeedPage{}, fmt.Errorf("%w: page %d", ErrInvalidParameter, q.Page)
	}
	now := s.now()

	viewer, graphOK := s.resolveViewer(ctx, q.ViewerID)
	if !graphOK {
		// Follow graph unreachable: chronological over the snapshot pool.
		perPage := ClampPerPage(q.PerPage, s.Config.PerPage, s.Config.MaxPerPage)
		return s.resolveDegraded(viewer, q, perPage, now)
	}

	strategy, err := SelectStrategy(q.Timeframe, viewer.SignedIn, s.Config)
	if err != nil {
		return model.FeedPage{}, err
	}
	perPage := ClampPerPage(q.PerPage, s.defaultPerPage(strategy), s.Config.MaxPerPage)

	seed := q.Seed
	if seed == 0 {
		seed = s.deriveSeed(viewer.ID, strategy, q, now)
	}

	// Caller-specific exclusions make a page unshareable, so those
	// requests bypass the cache.
	cacheable := s.Cache != nil && len(q.NotIDs) == 0 && len(q.SeenIDs) == 0
	key := CacheKey{
		Viewer:    viewer.ID,
		Strategy:  strategy,
		Tag:       q.Tag,
		Timeframe: q.Timeframe,
		Page:      q.Page,
		PerPage:   perPage,
		Seed:      seed,
	}.String()
	if cacheable {
		if page, ok := s.Cache.Get(ctx, key); ok {
			s.cacheLookup(true)
			return page, nil
		}
		s.cacheLookup(false)
	}

	candidates, err := s.fetchCandidates(ctx, strategy, viewer, q, now)
	if err != nil {
		slog.Warn("feed: candidate fetch failed, falling back", "strategy", strategy, "error", err)
		return s.resolveDegraded(viewer, q, perPage, now)
	}

	pinned := s.lookupPinned(ctx, q.Timeframe)

	exclude := NewExclusionSet(q.NotIDs...).Union(NewExclusionSet(q.SeenIDs...))
	if pinned != nil {
		// The pinned item never rides the ranked stream: page 1 prepends
		// it, so every page offsets into the same ordering and the item
		// appears exactly once across the sequence.
		exclude.Add(pinned.ID)
	}

	params := ScoreParams{
		Now:           now,
		Seed:          seed,
		HalfLifeHours: halfLifeFor(strategy, q.Timeframe, s.Config),
		Exclude:       exclude,
	}
	scorer := NewScorer(s.Config)
	ranked := rank(strategy, scorer, viewer, candidates, params)

	page := Page(ranked, q.Page, perPage)
	page = InjectPinned(page, q.Timeframe, pinned)
	page = AnnotateFeatured(page, s.Config.FeaturedEligibility)

	if cacheable {
		s.Cache.Put(ctx, key, page, s.CacheTTL)
	}
	s.pageServed(strategy, false)
	return page, nil
}

// defaultPerPage returns the strategy's page-size default.
func (s *Service) defaultPerPage(strategy Strategy) int {
	if strategy == StrategyLatest {
		return s.Config.LatestPerPage
	}
	return s.Config.PerPage
}

// resolveViewer snapshots the viewer context once per request. The second
// return is false when a signed-in viewer's follow graph could not be
// resolved.
func (s *Service) resolveViewer(ctx context.Context, viewerID string) (model.ViewerContext, bool) {
	if viewerID == "" {
		return model.Anonymous(), true
	}
	gctx, cancel := s.upstreamCtx(ctx)
	defer cancel()
	graph, err := s.Repo.ResolveFollowGraph(gctx, viewerID)
	if err != nil {
		slog.Warn("feed: follow graph resolution failed", "viewer", viewerID, "error", err)
		return model.ViewerContext{ID: viewerID, SignedIn: true}, false
	}
	return model.ViewerFromGraph(viewerID, graph), true
}

func (s *Service) fetchCandidates(ctx context.Context, strategy Strategy, viewer model.ViewerContext, q Query, now time.Time) ([]model.ContentItem, error) {
	// Every page of a feed ranks over the same candidate pool. Growing the
	// pool with the page number would let a late-admitted item reshuffle a
	// score-ordered stream between pages and repeat items across them, so
	// the limit never depends on the requested page.
	limit := s.Config.MaxPerPage * s.Config.OversampleFactor
	// Anonymous browsing ranks over a smaller pool.
	if !viewer.SignedIn && limit > s.Config.AnonymousPoolSize {
		limit = s.Config.AnonymousPoolSize
	}
	fctx, cancel := s.upstreamCtx(ctx)
	defer cancel()
	return s.Repo.FetchPublished(fctx,
		filterFor(strategy, q.Tag, q.Timeframe, now, s.Config),
		sortFor(strategy, limit))
}

// lookupPinned fetches the pinned item for untimeframed requests. A lookup
// failure is logged and treated as "no pinned item"; it never fails the
// request.
func (s *Service) lookupPinned(ctx context.Context, tf model.Timeframe) *model.ContentItem {
	if tf != model.TimeframeNone {
		return nil
	}
	pctx, cancel := s.upstreamCtx(ctx)
	defer cancel()
	pinned, err := s.Repo.GetPinned(pctx)
	if err != nil {
		slog.Warn("feed: pinned lookup failed", "error", err)
		return nil
	}
	return pinned
}

// resolveDegraded serves a chronological page from the fallback pool.
// Degraded pages are flagged, never cached, and never carry the pinned
// overlay.
func (s *Service) resolveDegraded(viewer model.ViewerContext, q Query, perPage int, now time.Time) (model.FeedPage, error) {
	if s.Pool == nil {
		return model.FeedPage{}, fmt.Errorf("%w: no fallback pool", ErrUpstreamUnavailable)
	}
	pool := s.Pool.Items()
	candidates := pool[:0:0]
	cutoff := q.Timeframe.Cutoff(now)
	for _, it := range pool {
		if q.Tag != "" && !it.HasTag(q.Tag) {
			continue
		}
		if !cutoff.IsZero() && it.PublishedAt.Before(cutoff) {
			continue
		}
		candidates = append(candidates, it)
	}
	if len(candidates) == 0 {
		return model.FeedPage{}, fmt.Errorf("%w: fallback pool empty", ErrUpstreamUnavailable)
	}

	seed := q.Seed
	if seed == 0 {
		seed = s.deriveSeed(viewer.ID, StrategyChronological, q, now)
	}
	params := ScoreParams{
		Now:           now,
		Seed:          seed,
		HalfLifeHours: s.Config.HalfLifeHours,
		Exclude:       NewExclusionSet(q.NotIDs...).Union(NewExclusionSet(q.SeenIDs...)),
	}
	ranked := rank(StrategyChronological, NewScorer(s.Config), viewer, candidates, params)
	page := Page(ranked, q.Page, perPage)
	page = AnnotateFeatured(page, s.Config.FeaturedEligibility)
	page.Degraded = true
	slog.Warn("feed: served degraded page", "viewer", viewer.ID, "page", q.Page, "items", len(page.Items))
	s.pageServed(StrategyChronological, true)
	return page, nil
}

// deriveSeed ties the jitter seed to the request identity and a time
// bucket the size of the cache TTL: every page of one browsing session
// shares a seed, and the diversity ordering rotates once per TTL window.
func (s *Service) deriveSeed(viewerID string, strategy Strategy, q Query, now time.Time) int64 {
	bucket := int64(0)
	if s.CacheTTL > 0 {
		bucket = now.Unix() / int64(s.CacheTTL.Seconds())
	}
	viewer := viewerID
	if viewer == "" {
		viewer = "anon"
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%s|%d", viewer, strategy, q.Tag, q.Timeframe, bucket)
	return int64(h.Sum64())
}

func (s *Service) upstreamCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.UpstreamTimeout
	if timeout <= 0 {
		timeout = 300 * time.Millisecond
	}
	return context.WithTimeout(ctx, timeout)
}
