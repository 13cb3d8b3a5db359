package model

// ViewerContext is an immutable snapshot of who is looking at the feed,
// taken once per request. An anonymous visitor has an empty ID and empty
// follow sets.
type ViewerContext struct {
	ID             string
	SignedIn       bool
	FollowedUsers  map[string]struct{}
	FollowedTags   map[string]float64 // tag -> affinity weight
	FollowedOrgs   map[string]struct{}
	BlockedAuthors map[string]struct{}
}

// Anonymous builds the viewer context for a signed-out visitor.
func Anonymous() ViewerContext {
	return ViewerContext{}
}

// FollowsAuthor reports whether the viewer follows the given user id.
func (v ViewerContext) FollowsAuthor(id string) bool {
	_, ok := v.FollowedUsers[id]
	return ok
}

// FollowsOrg reports whether the viewer follows the given organization id.
func (v ViewerContext) FollowsOrg(id string) bool {
	if id == "" {
		return false
	}
	_, ok := v.FollowedOrgs[id]
	return ok
}

// BlockedAuthor reports whether the viewer has blocked the given author.
func (v ViewerContext) BlockedAuthor(id string) bool {
	_, ok := v.BlockedAuthors[id]
	return ok
}

// TagAffinity returns the viewer's stored weight for a tag, and whether the
// tag is followed at all. Unweighted follows default to 1.0.
func (v ViewerContext) TagAffinity(tag string) (float64, bool) {
	w, ok := v.FollowedTags[tag]
	if !ok {
		return 0, false
	}
	if w == 0 {
		w = 1.0
	}
	return w, true
}

// FollowsAnyTag reports whether the viewer follows at least one of the
// given tags. Used for the sensitive-content visibility check.
func (v ViewerContext) FollowsAnyTag(tags []string) bool {
	for _, t := range tags {
		if _, ok := v.FollowedTags[t]; ok {
			return true
		}
	}
	return false
}

// FollowGraph is the repository's answer to a follow-graph resolution.
type FollowGraph struct {
	FollowedUsers  []string
	FollowedTags   map[string]float64
	FollowedOrgs   []string
	BlockedAuthors []string
}

// ViewerFromGraph materializes a signed-in viewer context from a resolved
// follow graph.
func ViewerFromGraph(id string, g FollowGraph) ViewerContext {
	v := ViewerContext{
		ID:             id,
		SignedIn:       true,
		FollowedUsers:  make(map[string]struct{}, len(g.FollowedUsers)),
		FollowedTags:   make(map[string]float64, len(g.FollowedTags)),
		FollowedOrgs:   make(map[string]struct{}, len(g.FollowedOrgs)),
		BlockedAuthors: make(map[string]struct{}, len(g.BlockedAuthors)),
	}
	for _, u := range g.FollowedUsers {
		v.FollowedUsers[u] = struct{}{}
	}
	for t, w := range g.FollowedTags {
		v.FollowedTags[t] = w
	}
	for _, o := range g.FollowedOrgs {
		v.FollowedOrgs[o] = struct{}{}
	}
	for _, b := range g.BlockedAuthors {
		v.BlockedAuthors[b] = struct{}{}
	}
	return v
}
