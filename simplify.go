package bspnav

import (
	"math"

	"github.com/paulmach/orb"
)

// SimplifyShape reduces ring complexity with the Douglas-Peucker algorithm.
// Rings that would fall under three vertices keep their original form. Runs
// before validation when Config.SimplifyTolerance is set, so a dense
// digitized outline costs fewer splitter edges.
func SimplifyShape(s Shape, tolerance float64) Shape {
	out := Shape{Rings: make([]orb.Ring, len(s.Rings))}
	for i, ring := range s.Rings {
		out.Rings[i] = simplifyRing(ring, tolerance)
	}
	return out
}

// SimplifyShapes simplifies every shape with the same tolerance.
func SimplifyShapes(shapes []Shape, tolerance float64) []Shape {
	simplified := make([]Shape, len(shapes))
	for i, s := range shapes {
		simplified[i] = SimplifyShape(s, tolerance)
	}
	return simplified
}

// simplifyRing runs Douglas-Peucker over a closed ring. The closing vertex
// is pinned as the chain endpoint, which anchors the result without a
// special open-chain case.
func simplifyRing(ring orb.Ring, tolerance float64) orb.Ring {
	if len(ring) <= 4 {
		return ring
	}
	simplified := douglasPeucker([]orb.Point(ring), tolerance)
	if len(simplified) < 4 {
		return ring
	}
	return orb.Ring(simplified)
}

// douglasPeucker keeps the endpoints, finds the interior point furthest
// from the chord between them, and recurses on both halves when that
// distance exceeds the tolerance.
func douglasPeucker(points []orb.Point, tolerance float64) []orb.Point {
	if len(points) <= 2 {
		return points
	}

	dmax := 0.0
	index := 0
	end := len(points) - 1
	for i := 1; i < end; i++ {
		d := perpendicularDistance(points[i], points[0], points[end])
		if d > dmax {
			index = i
			dmax = d
		}
	}

	if dmax > tolerance {
		left := douglasPeucker(points[:index+1], tolerance)
		right := douglasPeucker(points[index:], tolerance)

		result := make([]orb.Point, 0, len(left)+len(right)-1)
		result = append(result, left[:len(left)-1]...)
		result = append(result, right...)
		return result
	}

	return []orb.Point{points[0], points[end]}
}

// perpendicularDistance is the distance from a point to the infinite line
// through lineStart and lineEnd.
func perpendicularDistance(point, lineStart, lineEnd orb.Point) float64 {
	dir := sub(lineEnd, lineStart)
	mag := math.Hypot(dir.X(), dir.Y())
	if mag > 0 {
		dir = scale(dir, 1/mag)
	}

	pv := sub(point, lineStart)
	along := dot(dir, pv)
	off := sub(pv, scale(dir, along))
	return math.Hypot(off.X(), off.Y())
}
