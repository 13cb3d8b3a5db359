package feed

import "github.com/forem/forem-sub028/internal/model"

// ClampPerPage resolves the caller's page size: 0 takes the default, and
// anything above max is clamped, never rejected.
func ClampPerPage(perPage, def, max int) int {
	if perPage <= 0 {
		return def
	}
	if perPage > max {
		return max
	}
	return perPage
}

// Page slices one page out of an ordered ranked stream: page n skips
// (n-1)*perPage items and collects up to perPage. A short (or empty) page
// means the stream is exhausted; callers treat length < perPage as "last
// page".
func Page(ranked []model.RankedItem, page, perPage int) model.FeedPage {
	offset := (page - 1) * perPage
	out := model.FeedPage{Page: page, PerPage: perPage}
	if offset >= len(ranked) {
		out.Items = []model.RankedItem{}
		return out
	}
	end := offset + perPage
	if end > len(ranked) {
		end = len(ranked)
	}
	out.Items = append([]model.RankedItem(nil), ranked[offset:end]...)
	return out
}
