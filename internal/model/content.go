package model

import "time"

// ContentItem is a read-only snapshot of a published (or publishable)
// piece of content as the repository stores it. Hotness and the engagement
// counters are maintained out-of-band; the engine never writes them.
type ContentItem struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Path           string    `json:"path"`
	AuthorID       string    `json:"author_id"`
	AuthorName     string    `json:"author_name"`
	OrganizationID string    `json:"organization_id,omitempty"`
	Tags           []string  `json:"tags"`
	Hotness        float64   `json:"hotness"`
	CommentCount   int       `json:"comment_count"`
	ReactionCount  int       `json:"reaction_count"`
	Published      bool      `json:"published"`
	Approved       bool      `json:"approved"`
	CoverImageURL  string    `json:"cover_image_url,omitempty"`
	VideoURL       string    `json:"video_url,omitempty"`
	PublishedAt    time.Time `json:"published_at"`
}

// HasTag reports whether the item carries the given tag.
func (c ContentItem) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// RankedItem decorates a content item with its computed score and the
// strategy that produced it. Transient, never persisted.
type RankedItem struct {
	Item     ContentItem
	Score    float64
	Strategy string
}

// FeedPage is one resolved page of ranked items.
type FeedPage struct {
	Items    []RankedItem
	Page     int
	PerPage  int
	PinnedID string // set when a pinned item occupies position 0
	// FeaturedID names the highest-scored eligible item on the page;
	// annotation only, never reordering.
	FeaturedID string
	// Degraded is set when the page was served from the fallback pool
	// because the repository was unavailable.
	Degraded bool
}

// ContainsID reports whether any item on the page has the given id.
func (p FeedPage) ContainsID(id string) bool {
	for _, it := range p.Items {
		if it.Item.ID == id {
			return true
		}
	}
	return false
}

// IDs returns the page's item ids in order.
func (p FeedPage) IDs() []string {
	out := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, it.Item.ID)
	}
	return out
}
