package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forem/forem-sub028/internal/model"
)

func pageFixture(perPage int, ids ...string) model.FeedPage {
	items := make([]model.RankedItem, 0, len(ids))
	for i, id := range ids {
		items = append(items, model.RankedItem{Item: model.ContentItem{ID: id}, Score: float64(len(ids) - i)})
	}
	return model.FeedPage{Items: items, Page: 1, PerPage: perPage}
}

func TestInjectPinnedPrependsAndDropsLast(t *testing.T) {
	pinned := testItem("pinned", 1, 48*time.Hour)
	page := pageFixture(3, "aa", "bb", "cc")

	got := InjectPinned(page, model.TimeframeNone, &pinned)

	assert.Equal(t, []string{"pinned", "aa", "bb"}, got.IDs())
	assert.Equal(t, "pinned", got.PinnedID)
	assert.Len(t, got.Items, 3)
}

func TestInjectPinnedMovesExistingToFront(t *testing.T) {
	pinned := testItem("bb", 1, time.Hour)
	page := pageFixture(3, "aa", "bb", "cc")

	got := InjectPinned(page, model.TimeframeNone, &pinned)

	assert.Equal(t, []string{"bb", "aa", "cc"}, got.IDs())
	assert.Equal(t, "bb", got.PinnedID)
	assert.Len(t, got.Items, 3, "moving must not change page length")
}

func TestInjectPinnedSkipsLaterPagesAndTimeframes(t *testing.T) {
	pinned := testItem("pinned", 1, time.Hour)

	page2 := pageFixture(3, "aa", "bb", "cc")
	page2.Page = 2
	got := InjectPinned(page2, model.TimeframeNone, &pinned)
	assert.Empty(t, got.PinnedID)
	assert.Equal(t, []string{"aa", "bb", "cc"}, got.IDs())

	got = InjectPinned(pageFixture(3, "aa", "bb"), model.TimeframeWeek, &pinned)
	assert.Empty(t, got.PinnedID)
}

func TestInjectPinnedNilIsNoop(t *testing.T) {
	page := pageFixture(3, "aa", "bb")
	got := InjectPinned(page, model.TimeframeNone, nil)
	assert.Equal(t, []string{"aa", "bb"}, got.IDs())
}

func TestAnnotateFeaturedRequiresCover(t *testing.T) {
	page := pageFixture(3, "aa", "bb", "cc")
	page.Items[1].Item.CoverImageURL = "https://img.example/b.png"
	page.Items[2].Item.VideoURL = "https://vid.example/c.mp4"

	got := AnnotateFeatured(page, "cover")
	// aa has the top score but no cover; bb is the best eligible item.
	assert.Equal(t, "bb", got.FeaturedID)
}

func TestAnnotateFeaturedAnyPicksTopScore(t *testing.T) {
	page := pageFixture(3, "aa", "bb", "cc")
	got := AnnotateFeatured(page, "any")
	assert.Equal(t, "aa", got.FeaturedID)
}

func TestAnnotateFeaturedSkipsPinnedSlot(t *testing.T) {
	pinned := testItem("pinned", 1, time.Hour)
	pinned.CoverImageURL = "https://img.example/p.png"
	page := pageFixture(3, "aa", "bb", "cc")
	page.Items[1].Item.CoverImageURL = "https://img.example/b.png"

	injected := InjectPinned(page, model.TimeframeNone, &pinned)
	got := AnnotateFeatured(injected, "cover")

	require.Equal(t, "pinned", got.PinnedID)
	assert.Equal(t, "bb", got.FeaturedID)
}

func TestAnnotateFeaturedNoEligibleItems(t *testing.T) {
	got := AnnotateFeatured(pageFixture(3, "aa", "bb"), "cover")
	assert.Empty(t, got.FeaturedID)
}
