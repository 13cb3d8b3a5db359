package feed

import (
	"github.com/forem/forem-sub028/internal/model"
)

// InjectPinned overlays the pinned item onto page 1. If the item already
// ranked onto the page it moves to position 0; otherwise it is prepended
// and the last element dropped so the page size holds. Timeframe-scoped
// requests and later pages are returned untouched.
func InjectPinned(page model.FeedPage, tf model.Timeframe, pinned *model.ContentItem) model.FeedPage {
	if pinned == nil || page.Page != 1 || tf != model.TimeframeNone {
		return page
	}
	for i, it := range page.Items {
		if it.Item.ID == pinned.ID {
			moved := it
			copy(page.Items[1:i+1], page.Items[:i])
			page.Items[0] = moved
			page.PinnedID = pinned.ID
			return page
		}
	}
	entry := model.RankedItem{Item: *pinned, Strategy: "pinned"}
	items := make([]model.RankedItem, 0, len(page.Items)+1)
	items = append(items, entry)
	items = append(items, page.Items...)
	if len(items) > page.PerPage {
		items = items[:page.PerPage]
	}
	page.Items = items
	page.PinnedID = pinned.ID
	return page
}

// AnnotateFeatured flags the highest-scored eligible item on the page for
// distinguished rendering. Ordering is never changed. Eligibility "cover"
// requires a cover image or video; "any" accepts every item. The pinned
// slot is never double-annotated.
func AnnotateFeatured(page model.FeedPage, eligibility string) model.FeedPage {
	best := -1
	for i, it := range page.Items {
		if it.Item.ID == page.PinnedID {
			continue
		}
		if eligibility == "cover" && it.Item.CoverImageURL == "" && it.Item.VideoURL == "" {
			continue
		}
		if best == -1 || it.Score > page.Items[best].Score {
			best = i
		}
	}
	if best >= 0 {
		page.FeaturedID = page.Items[best].Item.ID
	}
	return page
}
