package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forem/forem-sub028/internal/model"
)

func TestSelectStrategy(t *testing.T) {
	cfg := testConfig()

	cases := []struct {
		name     string
		tf       model.Timeframe
		signedIn bool
		def      string
		want     Strategy
	}{
		{"bounded timeframe wins", model.TimeframeWeek, true, "weighted", StrategyTimeframe},
		{"infinity is timeframe", model.TimeframeInfinity, false, "chronological", StrategyTimeframe},
		{"latest", model.TimeframeLatest, true, "weighted", StrategyLatest},
		{"signed-in default chronological", model.TimeframeNone, true, "chronological", StrategyChronological},
		{"signed-in default weighted", model.TimeframeNone, true, "weighted", StrategyWeighted},
		{"anonymous is chronological", model.TimeframeNone, false, "weighted", StrategyChronological},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg.DefaultStrategy = tc.def
			got, err := SelectStrategy(tc.tf, tc.signedIn, cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSelectStrategyRejectsBadDefault(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultStrategy = "mystery"
	_, err := SelectStrategy(model.TimeframeNone, true, cfg)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestHalfLifeFor(t *testing.T) {
	cfg := testConfig()

	assert.Equal(t, 0.0, halfLifeFor(StrategyLatest, model.TimeframeNone, cfg))
	assert.Equal(t, cfg.HalfLifeHours, halfLifeFor(StrategyChronological, model.TimeframeNone, cfg))
	assert.Equal(t, cfg.HalfLifeHours, halfLifeFor(StrategyTimeframe, model.TimeframeDay, cfg))
	assert.Equal(t, cfg.HalfLifeHours*4, halfLifeFor(StrategyTimeframe, model.TimeframeWeek, cfg))
	assert.Equal(t, cfg.HalfLifeHours*52, halfLifeFor(StrategyTimeframe, model.TimeframeYear, cfg))
	assert.Equal(t, 0.0, halfLifeFor(StrategyTimeframe, model.TimeframeInfinity, cfg))
}

func TestRankDeduplicatesAndDropsExcluded(t *testing.T) {
	scorer := NewScorer(testConfig())
	a := testItem("aa", 5, time.Hour)
	b := testItem("bb", 3, 2*time.Hour)
	candidates := []model.ContentItem{a, b, a} // duplicate id from overlapping fetches

	p := ScoreParams{Now: testNow, Seed: 1, HalfLifeHours: 24, Exclude: NewExclusionSet("bb")}
	ranked := rank(StrategyChronological, scorer, model.Anonymous(), candidates, p)

	require.Len(t, ranked, 1)
	assert.Equal(t, "aa", ranked[0].Item.ID)
	assert.Equal(t, string(StrategyChronological), ranked[0].Strategy)
}

func TestRankChronologicalKeepsRecencyDominant(t *testing.T) {
	scorer := NewScorer(testConfig())
	older := testItem("older", 1000, 5*time.Hour)
	newer := testItem("newer", 0.1, time.Hour)

	p := ScoreParams{Now: testNow, Seed: 1, HalfLifeHours: 24}
	ranked := rank(StrategyChronological, scorer, model.Anonymous(), []model.ContentItem{older, newer}, p)

	require.Len(t, ranked, 2)
	assert.Equal(t, "newer", ranked[0].Item.ID, "recency outranks hotness in chronological mode")
}

func TestRankWeightedOrdersByScore(t *testing.T) {
	scorer := NewScorer(testConfig())
	hot := testItem("hot", 1000, 5*time.Hour)
	lukewarm := testItem("lukewarm", 0.1, time.Hour)

	p := ScoreParams{Now: testNow, Seed: 1, HalfLifeHours: 24}
	ranked := rank(StrategyWeighted, scorer, model.Anonymous(), []model.ContentItem{lukewarm, hot}, p)

	require.Len(t, ranked, 2)
	assert.Equal(t, "hot", ranked[0].Item.ID)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestFilterForAndSortFor(t *testing.T) {
	cfg := testConfig()
	cfg.MinScore = 1.5

	f := filterFor(StrategyTimeframe, "go", model.TimeframeDay, testNow, cfg)
	assert.Equal(t, "go", f.Tag)
	assert.Equal(t, testNow.Add(-24*time.Hour), f.Cutoff)

	f = filterFor(StrategyLatest, "", model.TimeframeLatest, testNow, cfg)
	assert.True(t, f.Cutoff.IsZero())
	assert.Equal(t, 1.5, f.MinHotness)

	assert.Equal(t, SortHotness, sortFor(StrategyWeighted, 10).By)
	assert.Equal(t, SortHotness, sortFor(StrategyTimeframe, 10).By)
	assert.Equal(t, SortRecency, sortFor(StrategyChronological, 10).By)
	assert.Equal(t, SortRecency, sortFor(StrategyLatest, 10).By)
}
