package feed

// ExclusionSet is the set of content ids a page must never contain. Built
// per request from explicit not_ids, ids already shown in prior pages, and
// engine-internal exclusions (e.g., an already-surfaced pinned item).
// Blocked authors are not expanded here; the scorer checks them per item.
type ExclusionSet map[string]struct{}

// NewExclusionSet builds a set from explicit id lists.
func NewExclusionSet(ids ...string) ExclusionSet {
	s := make(ExclusionSet, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		s[id] = struct{}{}
	}
	return s
}

// Contains reports membership. Safe on a nil set.
func (s ExclusionSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts an id in place.
func (s ExclusionSet) Add(id string) {
	if id != "" {
		s[id] = struct{}{}
	}
}

// Union returns a new set containing both operands' ids. Either side may
// be nil.
func (s ExclusionSet) Union(other ExclusionSet) ExclusionSet {
	out := make(ExclusionSet, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range other {
		out[id] = struct{}{}
	}
	return out
}
