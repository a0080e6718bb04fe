package bspnav

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Heuristic estimates the remaining cost from one point to another during a
// search. Estimates at or below the true straight-line distance keep the
// search optimal; larger ones trade path quality for fewer expansions.
type Heuristic func(from, to orb.Point) float64

// Euclidean is the straight-line distance. It never overestimates, so
// searches using it return shortest paths. This is the default.
func Euclidean(from, to orb.Point) float64 {
	return planar.Distance(from, to)
}

// Manhattan is the axis-aligned travel distance. It can overestimate on
// diagonal moves, so paths found with it may be longer than optimal.
func Manhattan(from, to orb.Point) float64 {
	return math.Abs(to.X()-from.X()) + math.Abs(to.Y()-from.Y())
}

// Octile is the eight-direction grid distance. Like Manhattan it can
// overestimate off-grid and then returns suboptimal paths, but it expands
// fewer nodes on roughly rectilinear scenes.
func Octile(from, to orb.Point) float64 {
	dx := math.Abs(to.X() - from.X())
	dy := math.Abs(to.Y() - from.Y())
	if dx < dy {
		dx, dy = dy, dx
	}
	return dx + (math.Sqrt2-1)*dy
}

// Weighted scales another heuristic by factor. Factors above 1 make the
// search greedier and the result at most factor times the optimal cost.
func Weighted(h Heuristic, factor float64) Heuristic {
	return func(from, to orb.Point) float64 {
		return h(from, to) * factor
	}
}
