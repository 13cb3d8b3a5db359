package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forem/forem-sub028/internal/config"
	"github.com/forem/forem-sub028/internal/feed"
	"github.com/forem/forem-sub028/internal/model"
)

type stubRepo struct {
	items    []model.ContentItem
	pinned   *model.ContentItem
	fetchErr error
}

func (r *stubRepo) FetchPublished(ctx context.Context, filter feed.FetchFilter, sort feed.FetchSort) ([]model.ContentItem, error) {
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	out := make([]model.ContentItem, 0, len(r.items))
	for _, it := range r.items {
		if filter.Tag != "" && !it.HasTag(filter.Tag) {
			continue
		}
		if !filter.Cutoff.IsZero() && it.PublishedAt.Before(filter.Cutoff) {
			continue
		}
		out = append(out, it)
	}
	if sort.Limit > 0 && len(out) > sort.Limit {
		out = out[:sort.Limit]
	}
	return out, nil
}

func (r *stubRepo) ResolveFollowGraph(ctx context.Context, viewerID string) (model.FollowGraph, error) {
	return model.FollowGraph{}, nil
}

func (r *stubRepo) GetPinned(ctx context.Context) (*model.ContentItem, error) {
	return r.pinned, nil
}

func stubItem(id string, hotness float64, age time.Duration) model.ContentItem {
	return model.ContentItem{
		ID:          id,
		Title:       "title " + id,
		Path:        "/a/" + id,
		AuthorID:    "u-" + id,
		AuthorName:  "Author " + id,
		Hotness:     hotness,
		Published:   true,
		Approved:    true,
		PublishedAt: time.Now().Add(-age),
	}
}

func newTestHandler(repo *stubRepo) echo.HandlerFunc {
	cfg := config.FeedConfig{PerPage: 3}
	cfg.FillDefaults()
	svc := &feed.Service{
		Repo:            repo,
		Config:          cfg,
		UpstreamTimeout: time.Second,
	}
	return handleGetFeed(svc)
}

func doFeedRequest(t *testing.T, h echo.HandlerFunc, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec
}

func TestFeedEndpointReturnsPage(t *testing.T) {
	repo := &stubRepo{items: []model.ContentItem{
		stubItem("a1", 5, time.Hour),
		stubItem("a2", 3, 2*time.Hour),
		stubItem("a3", 1, 3*time.Hour),
		stubItem("a4", 8, 4*time.Hour),
	}}
	rec := doFeedRequest(t, newTestHandler(repo), "/v1/feed?page=1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp feedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 3, resp.PerPage)
	assert.False(t, resp.Degraded)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, "a1", resp.Items[0].ID)
	assert.Equal(t, "Author a1", resp.Items[0].Author.Name)
	assert.NotEmpty(t, rec.Header().Get("Cache-Control"))
}

func TestFeedEndpointPinnedAndFeaturedFlags(t *testing.T) {
	pinned := stubItem("pin", 1, 50*time.Hour)
	covered := stubItem("a2", 3, 2*time.Hour)
	covered.CoverImageURL = "https://img.example/a2.png"
	repo := &stubRepo{
		items:  []model.ContentItem{stubItem("a1", 5, time.Hour), covered},
		pinned: &pinned,
	}
	rec := doFeedRequest(t, newTestHandler(repo), "/v1/feed", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp feedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Items)
	assert.Equal(t, "pin", resp.Items[0].ID)
	assert.True(t, resp.Items[0].IsPinned)
	for _, it := range resp.Items {
		if it.ID == "a2" {
			assert.True(t, it.IsFeatured)
		} else {
			assert.False(t, it.IsFeatured)
		}
	}
}

func TestFeedEndpointRejectsBogusTimeframe(t *testing.T) {
	rec := doFeedRequest(t, newTestHandler(&stubRepo{}), "/v1/feed?timeframe=bogus", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "timeframe")
}

func TestFeedEndpointRejectsBadPaging(t *testing.T) {
	h := newTestHandler(&stubRepo{})
	for _, target := range []string{
		"/v1/feed?page=zero",
		"/v1/feed?page=0",
		"/v1/feed?page=-2",
		"/v1/feed?per_page=many",
		"/v1/feed?per_page=0",
	} {
		rec := doFeedRequest(t, h, target, nil)
		assert.Equalf(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestFeedEndpointNotIDs(t *testing.T) {
	repo := &stubRepo{items: []model.ContentItem{
		stubItem("a1", 5, time.Hour),
		stubItem("a2", 3, 2*time.Hour),
	}}
	rec := doFeedRequest(t, newTestHandler(repo), "/v1/feed?not_ids=a1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp feedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	for _, it := range resp.Items {
		assert.NotEqual(t, "a1", it.ID)
	}
}

func TestFeedEndpointUnavailableWithoutFallback(t *testing.T) {
	repo := &stubRepo{fetchErr: errors.New("repository down")}
	rec := doFeedRequest(t, newTestHandler(repo), "/v1/feed", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestFeedEndpointDegradedFromFallback(t *testing.T) {
	repo := &stubRepo{fetchErr: errors.New("repository down")}
	cfg := config.FeedConfig{PerPage: 3}
	cfg.FillDefaults()
	pool := feed.NewFallbackPool()
	pool.Set([]model.ContentItem{stubItem("a1", 5, time.Hour)})
	svc := &feed.Service{Repo: repo, Config: cfg, Pool: pool, UpstreamTimeout: time.Second}

	rec := doFeedRequest(t, handleGetFeed(svc), "/v1/feed", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp feedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Degraded)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "a1", resp.Items[0].ID)
}

func TestFeedEndpointViewerHeader(t *testing.T) {
	repo := &stubRepo{items: []model.ContentItem{stubItem("a1", 5, time.Hour)}}
	rec := doFeedRequest(t, newTestHandler(repo), "/v1/feed", map[string]string{viewerHeader: "viewer-9"})
	assert.Equal(t, http.StatusOK, rec.Code)
}
