package feed

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"time"

	"github.com/forem/forem-sub028/internal/config"
	"github.com/forem/forem-sub028/internal/model"
)

// Scorer computes relevance scores from the weights in FeedConfig.
// Stateless; safe for concurrent use.
type Scorer struct {
	cfg config.FeedConfig
}

func NewScorer(cfg config.FeedConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// ScoreParams carries the per-request inputs to scoring: the request
// clock, the jitter seed shared by every page of one page-set, the decay
// half-life chosen by the strategy (0 disables decay), and the exclusion
// set.
type ScoreParams struct {
	Now           time.Time
	Seed          int64
	HalfLifeHours float64
	Exclude       ExclusionSet
}

// Excluded is the score of an item the viewer must never see.
var Excluded = math.Inf(-1)

// Score returns the relevance score of item for viewer, or Excluded when
// the item is filtered out (excluded id, blocked author, unpublished, or
// unapproved content the viewer does not follow).
func (s *Scorer) Score(viewer model.ViewerContext, item model.ContentItem, p ScoreParams) float64 {
	if !item.Published {
		return Excluded
	}
	if p.Exclude.Contains(item.ID) {
		return Excluded
	}
	if viewer.BlockedAuthor(item.AuthorID) {
		return Excluded
	}
	// Unapproved sensitive content is visible only to viewers following at
	// least one of its tags.
	if !item.Approved && !viewer.FollowsAnyTag(item.Tags) {
		return Excluded
	}

	hot := item.Hotness
	if hot < 0 {
		hot = 0
	}
	score := math.Log1p(hot)

	if p.HalfLifeHours > 0 {
		age := p.Now.Sub(item.PublishedAt).Hours()
		if age < 0 {
			age = 0
		}
		score *= math.Exp(-age / p.HalfLifeHours)
	}

	for _, tag := range item.Tags {
		if w, ok := viewer.TagAffinity(tag); ok {
			score += w * s.cfg.TagAffinityWeight
		}
	}
	if viewer.FollowsAuthor(item.AuthorID) {
		score += s.cfg.FollowedAuthorBonus
	}
	if viewer.FollowsOrg(item.OrganizationID) {
		score += s.cfg.FollowedOrgBonus
	}

	score += math.Log1p(float64(item.CommentCount)) * s.cfg.CommentWeight
	score += math.Log1p(float64(item.ReactionCount)) * s.cfg.ReactionWeight

	score += jitter(p.Seed, item.ID) * s.cfg.DiversityFactor

	return score
}

// jitter maps (seed, id) to a deterministic value in [0, 1). The seed is
// fixed per page-set, so repeated pagination calls see identical jitter
// and ordering stays stable across pages.
func jitter(seed int64, id string) float64 {
	h := fnv.New64a()
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(seed))
	_, _ = h.Write(b[:])
	_, _ = h.Write([]byte(id))
	return float64(h.Sum64()>>11) / float64(1<<53)
}
