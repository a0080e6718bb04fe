package bspnav

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// orb supplies the point, ring, and bound types plus planar metrics; the
// vector arithmetic below is the handful of operations it leaves out.

func sub(a, b orb.Point) orb.Point { return orb.Point{a.X() - b.X(), a.Y() - b.Y()} }

func add(a, b orb.Point) orb.Point { return orb.Point{a.X() + b.X(), a.Y() + b.Y()} }

func scale(a orb.Point, f float64) orb.Point { return orb.Point{a.X() * f, a.Y() * f} }

func dot(a, b orb.Point) float64 { return a.X()*b.X() + a.Y()*b.Y() }

// cross is the z component of the 3D cross product of a and b.
func cross(a, b orb.Point) float64 { return a.X()*b.Y() - a.Y()*b.X() }

func midpoint(a, b orb.Point) orb.Point {
	return orb.Point{(a.X() + b.X()) / 2, (a.Y() + b.Y()) / 2}
}

// pointsEqual checks if two points coincide within tolerance.
func pointsEqual(a, b orb.Point, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) <= tolerance && math.Abs(a.Y()-b.Y()) <= tolerance
}

// Side classifies a point against a Line.
type Side int8

const (
	SideOn Side = iota
	SideFront
	SideBack
)

func (s Side) String() string {
	switch s {
	case SideFront:
		return "front"
	case SideBack:
		return "back"
	}
	return "on"
}

// Line is a splitting line given by a point on it and a unit normal. Front
// is the half-plane the normal points into.
type Line struct {
	Origin orb.Point
	Normal orb.Point
}

// lineThrough builds the line carrying the directed edge a->b. For an edge
// of a counter-clockwise ring the normal points out of the ring, so the
// back side of an obstacle edge is the solid side. Returns false for a
// zero-length edge.
func lineThrough(a, b orb.Point) (Line, bool) {
	d := sub(b, a)
	n := math.Hypot(d.X(), d.Y())
	if n == 0 {
		return Line{}, false
	}
	return Line{Origin: a, Normal: orb.Point{d.Y() / n, -d.X() / n}}, true
}

// SignedDistance is positive on the front side, negative on the back.
func (l Line) SignedDistance(p orb.Point) float64 {
	return dot(sub(p, l.Origin), l.Normal)
}

// Side classifies p with tolerance eps; points within eps of the line are On.
func (l Line) Side(p orb.Point, eps float64) Side {
	d := l.SignedDistance(p)
	switch {
	case d > eps:
		return SideFront
	case d < -eps:
		return SideBack
	}
	return SideOn
}

// segmentsIntersect checks if two line segments cross. Segments that only
// share endpoints do not count as intersecting, which lets adjacent polygon
// edges and paths grazing a corner pass.
func segmentsIntersect(p1, p2, p3, p4 orb.Point) bool {
	if (p1 == p3 && p2 == p4) || (p1 == p4 && p2 == p3) {
		return false
	}
	if p1 == p3 || p1 == p4 || p2 == p3 || p2 == p4 {
		return false
	}

	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear cases
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}

	return false
}

// direction calculates the cross product to determine orientation.
func direction(p1, p2, p3 orb.Point) float64 {
	return (p3.X()-p1.X())*(p2.Y()-p1.Y()) - (p2.X()-p1.X())*(p3.Y()-p1.Y())
}

// onSegment checks if point q lies on segment pr, assuming collinearity.
func onSegment(p, r, q orb.Point) bool {
	return q.X() <= math.Max(p.X(), r.X()) && q.X() >= math.Min(p.X(), r.X()) &&
		q.Y() <= math.Max(p.Y(), r.Y()) && q.Y() >= math.Min(p.Y(), r.Y())
}

// collinearOverlap returns the overlapping sub-segment of two collinear
// segments when its length exceeds eps. Segments on different lines, or
// touching only at a point, return false.
func collinearOverlap(a1, a2, b1, b2 orb.Point, eps float64) ([2]orb.Point, bool) {
	d := sub(a2, a1)
	length := math.Hypot(d.X(), d.Y())
	if length <= eps {
		return [2]orb.Point{}, false
	}
	u := scale(d, 1/length)

	// Both b endpoints must sit on the carrying line of a.
	if math.Abs(cross(u, sub(b1, a1))) > eps || math.Abs(cross(u, sub(b2, a1))) > eps {
		return [2]orb.Point{}, false
	}

	tb1 := dot(sub(b1, a1), u)
	tb2 := dot(sub(b2, a1), u)
	if tb1 > tb2 {
		tb1, tb2 = tb2, tb1
	}
	lo := math.Max(0, tb1)
	hi := math.Min(length, tb2)
	if hi-lo <= eps {
		return [2]orb.Point{}, false
	}
	return [2]orb.Point{add(a1, scale(u, lo)), add(a1, scale(u, hi))}, true
}

// signedArea is the shoelace area of a closed ring, positive for
// counter-clockwise winding.
func signedArea(r orb.Ring) float64 {
	var s float64
	for i := 0; i < len(r)-1; i++ {
		s += r[i].X()*r[i+1].Y() - r[i+1].X()*r[i].Y()
	}
	return s / 2
}

// closeRing copies the vertices into a ring with the first point repeated
// at the end, the closed form the rest of the package works with.
func closeRing(pts []orb.Point) orb.Ring {
	r := make(orb.Ring, 0, len(pts)+1)
	r = append(r, pts...)
	if len(pts) > 0 {
		r = append(r, pts[0])
	}
	return r
}

// dedupePoints removes consecutive near-coincident vertices, including a
// duplicated closing vertex, returning the open vertex list.
func dedupePoints(pts []orb.Point, eps float64) []orb.Point {
	out := make([]orb.Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && pointsEqual(out[len(out)-1], p, eps) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && pointsEqual(out[0], out[len(out)-1], eps) {
		out = out[:len(out)-1]
	}
	return out
}

// ringCentroid is an interior point of a convex ring.
func ringCentroid(r orb.Ring) orb.Point {
	c, _ := planar.CentroidArea(r)
	return c
}

// clipRing splits a closed convex ring along a line into its closed front
// and back parts. A part that degenerates to fewer than three distinct
// vertices or to near-zero area comes back nil.
func clipRing(r orb.Ring, l Line, eps float64) (front, back orb.Ring) {
	n := len(r) - 1
	if n < 3 {
		return nil, nil
	}
	var fpts, bpts []orb.Point
	for i := 0; i < n; i++ {
		cur, nxt := r[i], r[i+1]
		dc := l.SignedDistance(cur)
		dn := l.SignedDistance(nxt)

		switch {
		case dc > eps:
			fpts = append(fpts, cur)
		case dc < -eps:
			bpts = append(bpts, cur)
		default:
			fpts = append(fpts, cur)
			bpts = append(bpts, cur)
		}

		// Edges crossing strictly from one side to the other contribute
		// the crossing point to both parts.
		if (dc > eps && dn < -eps) || (dc < -eps && dn > eps) {
			t := dc / (dc - dn)
			m := add(cur, scale(sub(nxt, cur), t))
			fpts = append(fpts, m)
			bpts = append(bpts, m)
		}
	}
	return finishClip(fpts, eps), finishClip(bpts, eps)
}

func finishClip(pts []orb.Point, eps float64) orb.Ring {
	pts = dedupePoints(pts, eps)
	if len(pts) < 3 {
		return nil
	}
	ring := closeRing(pts)
	if math.Abs(signedArea(ring)) <= eps {
		return nil
	}
	return ring
}

// segmentClear reports whether the straight segment a-b keeps clear of every
// obstacle ring: it must not cross a ring edge and its midpoint must not lie
// inside a ring. Touching a ring vertex is allowed.
func segmentClear(a, b orb.Point, shapes []Shape) bool {
	mid := midpoint(a, b)
	for _, s := range shapes {
		for _, ring := range s.Rings {
			for i := 0; i < len(ring)-1; i++ {
				if segmentsIntersect(a, b, ring[i], ring[i+1]) {
					return false
				}
			}
			if planar.RingContains(ring, mid) {
				return false
			}
		}
	}
	return true
}
