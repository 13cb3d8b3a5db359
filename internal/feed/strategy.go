package feed

import (
	"fmt"
	"sort"
	"time"

	"github.com/forem/forem-sub028/internal/config"
	"github.com/forem/forem-sub028/internal/model"
)

// Strategy identifies one of the closed set of ranking strategies. The
// selector switches over this enum explicitly; there is no runtime lookup
// by name.
type Strategy string

const (
	StrategyChronological Strategy = "chronological"
	StrategyWeighted      Strategy = "weighted"
	StrategyTimeframe     Strategy = "timeframe"
	StrategyLatest        Strategy = "latest"
)

// SelectStrategy applies the deterministic selection rule: a bounded
// timeframe wins, then latest, then the configured default for signed-in
// viewers, then chronological for everyone else.
func SelectStrategy(tf model.Timeframe, signedIn bool, cfg config.FeedConfig) (Strategy, error) {
	if tf.Bounded() {
		return StrategyTimeframe, nil
	}
	if tf == model.TimeframeLatest {
		return StrategyLatest, nil
	}
	if signedIn {
		switch cfg.DefaultStrategy {
		case "chronological":
			return StrategyChronological, nil
		case "weighted":
			return StrategyWeighted, nil
		default:
			return "", fmt.Errorf("%w: default_strategy %q", ErrInvalidParameter, cfg.DefaultStrategy)
		}
	}
	return StrategyChronological, nil
}

// filterFor builds the repository filter for a strategy.
func filterFor(strategy Strategy, tag string, tf model.Timeframe, now time.Time, cfg config.FeedConfig) FetchFilter {
	f := FetchFilter{Tag: tag}
	switch strategy {
	case StrategyTimeframe:
		f.Cutoff = tf.Cutoff(now)
	case StrategyLatest:
		f.MinHotness = cfg.MinScore
	}
	return f
}

// sortFor builds the repository sort for a strategy. Chronological and
// latest fetch newest-first; weighted and timeframe fetch a hotness-ordered
// pool and rank it fully.
func sortFor(strategy Strategy, limit int) FetchSort {
	switch strategy {
	case StrategyWeighted, StrategyTimeframe:
		return FetchSort{By: SortHotness, Limit: limit}
	default:
		return FetchSort{By: SortRecency, Limit: limit}
	}
}

// halfLifeFor returns the decay half-life in hours for a strategy. The
// bounded timeframes stretch the half-life so that "top of month" does not
// collapse into "top of today"; latest disables decay entirely.
func halfLifeFor(strategy Strategy, tf model.Timeframe, cfg config.FeedConfig) float64 {
	switch strategy {
	case StrategyLatest:
		return 0
	case StrategyTimeframe:
		switch tf {
		case model.TimeframeDay:
			return cfg.HalfLifeHours
		case model.TimeframeWeek:
			return cfg.HalfLifeHours * 4
		case model.TimeframeMonth:
			return cfg.HalfLifeHours * 12
		case model.TimeframeYear:
			return cfg.HalfLifeHours * 52
		default: // infinity: pure score, no recency pressure
			return 0
		}
	default:
		return cfg.HalfLifeHours
	}
}

// rank scores candidates, drops excluded ones, de-duplicates ids, and
// orders the survivors. Weighted and timeframe strategies order by score;
// chronological and latest keep recency dominant and use the score only to
// break publication-time ties. The tie-break chain ends on the item id so
// the ordering is total and stable across calls.
func rank(strategy Strategy, scorer *Scorer, viewer model.ViewerContext, candidates []model.ContentItem, p ScoreParams) []model.RankedItem {
	ranked := make([]model.RankedItem, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, it := range candidates {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		score := scorer.Score(viewer, it, p)
		if score == Excluded {
			continue
		}
		seen[it.ID] = struct{}{}
		ranked = append(ranked, model.RankedItem{Item: it, Score: score, Strategy: string(strategy)})
	}

	byScore := strategy == StrategyWeighted || strategy == StrategyTimeframe
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if byScore {
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			if !a.Item.PublishedAt.Equal(b.Item.PublishedAt) {
				return a.Item.PublishedAt.After(b.Item.PublishedAt)
			}
		} else {
			if !a.Item.PublishedAt.Equal(b.Item.PublishedAt) {
				return a.Item.PublishedAt.After(b.Item.PublishedAt)
			}
			if a.Score != b.Score {
				return a.Score > b.Score
			}
		}
		return a.Item.ID < b.Item.ID
	})
	return ranked
}
