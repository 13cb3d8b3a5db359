package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/forem/forem-sub028/internal/feed"
	"github.com/forem/forem-sub028/internal/model"
)

// viewerHeader carries the authenticated viewer id; session handling lives
// upstream of this service.
const viewerHeader = "X-Viewer-ID"

type authorSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type itemSummary struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Path             string        `json:"path"`
	Author           authorSummary `json:"author"`
	TagList          []string      `json:"tag_list"`
	PublishedAtEpoch int64         `json:"published_at_epoch"`
	CommentCount     int           `json:"comment_count"`
	ReactionCount    int           `json:"reaction_count"`
	Score            float64       `json:"score"`
	IsPinned         bool          `json:"is_pinned"`
	IsFeatured       bool          `json:"is_featured"`
}

type feedResponse struct {
	Page     int           `json:"page"`
	PerPage  int           `json:"per_page"`
	Degraded bool          `json:"degraded"`
	Items    []itemSummary `json:"items"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func handleGetFeed(svc *feed.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		q, err := parseFeedQuery(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}

		page, err := svc.Resolve(c.Request().Context(), q)
		if err != nil {
			switch {
			case errors.Is(err, feed.ErrInvalidParameter):
				return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			case errors.Is(err, feed.ErrUpstreamUnavailable):
				return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "feed temporarily unavailable"})
			default:
				return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
			}
		}

		c.Response().Header().Set("Cache-Control", "private, max-age=60")
		return c.JSON(http.StatusOK, toResponse(page))
	}
}

func parseFeedQuery(c echo.Context) (feed.Query, error) {
	var q feed.Query
	q.ViewerID = strings.TrimSpace(c.Request().Header.Get(viewerHeader))
	q.Tag = strings.TrimSpace(c.QueryParam("tag"))

	tf, err := model.ParseTimeframe(strings.TrimSpace(c.QueryParam("timeframe")))
	if err != nil {
		return q, fmt.Errorf("%w: %v", feed.ErrInvalidParameter, err)
	}
	q.Timeframe = tf

	q.Page = 1
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return q, fmt.Errorf("%w: page %q", feed.ErrInvalidParameter, raw)
		}
		q.Page = n
	}
	if raw := c.QueryParam("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return q, fmt.Errorf("%w: per_page %q", feed.ErrInvalidParameter, raw)
		}
		q.PerPage = n
	}
	if raw := c.QueryParam("not_ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				q.NotIDs = append(q.NotIDs, id)
			}
		}
	}
	return q, nil
}

func toResponse(page model.FeedPage) feedResponse {
	resp := feedResponse{
		Page:     page.Page,
		PerPage:  page.PerPage,
		Degraded: page.Degraded,
		Items:    make([]itemSummary, 0, len(page.Items)),
	}
	for _, it := range page.Items {
		tags := it.Item.Tags
		if tags == nil {
			tags = []string{}
		}
		resp.Items = append(resp.Items, itemSummary{
			ID:               it.Item.ID,
			Title:            it.Item.Title,
			Path:             it.Item.Path,
			Author:           authorSummary{ID: it.Item.AuthorID, Name: it.Item.AuthorName},
			TagList:          tags,
			PublishedAtEpoch: it.Item.PublishedAt.Unix(),
			CommentCount:     it.Item.CommentCount,
			ReactionCount:    it.Item.ReactionCount,
			Score:            it.Score,
			IsPinned:         it.Item.ID == page.PinnedID,
			IsFeatured:       it.Item.ID == page.FeaturedID,
		})
	}
	return resp
}
