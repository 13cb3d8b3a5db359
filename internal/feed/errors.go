package feed

import "errors"

// Error taxonomy for feed resolution. Parameter errors propagate to the
// caller; upstream errors are absorbed by the fallback path and only
// surface when no fallback data exists at all. Cache failures never
// surface.
var (
	ErrInvalidParameter    = errors.New("invalid parameter")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
