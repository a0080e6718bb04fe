package bspnav

import "github.com/pkg/errors"

// Failure kinds returned by construction and queries. Call sites wrap these
// with detail, so callers should match with errors.Is rather than equality.
var (
	// ErrMalformedShape reports an input polygon the builder cannot use.
	// The wrapping message names the offending shape and ring.
	ErrMalformedShape = errors.New("bspnav: malformed shape")

	// ErrPointOutsideScene reports a query point outside the scene bounds.
	ErrPointOutsideScene = errors.New("bspnav: point outside scene")

	// ErrStartInSolid reports a start point inside an obstacle.
	ErrStartInSolid = errors.New("bspnav: start point in solid cell")

	// ErrEndInSolid reports an end point inside an obstacle.
	ErrEndInSolid = errors.New("bspnav: end point in solid cell")

	// ErrSearchExhausted reports that the expansion cap was reached before
	// the goal. The scene may still contain a path; the search gave up.
	ErrSearchExhausted = errors.New("bspnav: search exhausted before reaching goal")

	// ErrUnreachable reports that the frontier emptied with no path left to
	// try, proving start and end are disconnected.
	ErrUnreachable = errors.New("bspnav: no path between start and end")
)
