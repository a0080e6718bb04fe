package bspnav

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
)

// Shape is one obstacle: one or more closed polygon rings. Rings are stored
// in the closed form (first vertex repeated at the end) and are normalized
// to counter-clockwise winding when a context is built, so the interior of
// every ring is solid. A multi-ring shape is a union of solids; holes are
// not modeled.
type Shape struct {
	Rings []orb.Ring
}

// NewShape wraps an ordered vertex sequence as a single-ring shape. The
// sequence is closed implicitly; passing a pre-closed sequence is fine.
func NewShape(vertices ...orb.Point) Shape {
	pts := make([]orb.Point, len(vertices))
	copy(pts, vertices)
	return Shape{Rings: []orb.Ring{closeRing(pts)}}
}

// Rect is an axis-aligned rectangle obstacle of the given total width and
// height centered on center, wound counter-clockwise.
func Rect(center orb.Point, width, height float64) Shape {
	hw, hh := width/2, height/2
	return NewShape(
		orb.Point{center.X() - hw, center.Y() - hh},
		orb.Point{center.X() + hw, center.Y() - hh},
		orb.Point{center.X() + hw, center.Y() + hh},
		orb.Point{center.X() - hw, center.Y() + hh},
	)
}

// normalize validates the shape and returns a cleaned copy: vertices
// deduplicated, winding forced counter-clockwise, rings closed. Any ring
// that is degenerate or self-intersecting fails with ErrMalformedShape.
func (s Shape) normalize(eps float64) (Shape, error) {
	out := Shape{Rings: make([]orb.Ring, 0, len(s.Rings))}
	for ri, ring := range s.Rings {
		pts := dedupePoints([]orb.Point(ring), eps)
		if len(pts) < 3 {
			return Shape{}, errors.Wrapf(ErrMalformedShape,
				"ring %d has only %d distinct vertices", ri, len(pts))
		}
		closed := closeRing(pts)
		area := signedArea(closed)
		if math.Abs(area) <= eps {
			return Shape{}, errors.Wrapf(ErrMalformedShape, "ring %d has near-zero area", ri)
		}
		if area < 0 {
			for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
				pts[i], pts[j] = pts[j], pts[i]
			}
			closed = closeRing(pts)
		}
		if i, j, bad := ringSelfIntersection(closed, eps); bad {
			return Shape{}, errors.Wrapf(ErrMalformedShape,
				"ring %d edges %d and %d intersect", ri, i, j)
		}
		out.Rings = append(out.Rings, closed)
	}
	return out, nil
}

// ringSelfIntersection looks for crossing edge pairs and for fold-back
// vertices (consecutive edges doubling back over each other, which the
// shared-endpoint rule of segmentsIntersect would let through).
func ringSelfIntersection(r orb.Ring, eps float64) (int, int, bool) {
	n := len(r) - 1
	for i := 0; i < n; i++ {
		prev := r[(i+n-1)%n]
		cur := r[i]
		nxt := r[i+1]
		in := sub(cur, prev)
		out := sub(nxt, cur)
		if math.Abs(cross(in, out)) <= eps && dot(in, out) < 0 {
			return (i + n - 1) % n, i, true
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if segmentsIntersect(r[i], r[i+1], r[j], r[j+1]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// insideAnyShape tests p against every obstacle ring.
func insideAnyShape(p orb.Point, shapes []Shape) bool {
	for _, s := range shapes {
		for _, ring := range s.Rings {
			if planar.RingContains(ring, p) {
				return true
			}
		}
	}
	return false
}

// edge is one directed obstacle edge with its carrying line; the BSP build
// consumes these as splitter candidates.
type edge struct {
	a, b orb.Point
	line Line
}

// gatherEdges flattens the normalized shapes into the splitter edge set.
func gatherEdges(shapes []Shape) []edge {
	var edges []edge
	for _, s := range shapes {
		for _, ring := range s.Rings {
			for i := 0; i < len(ring)-1; i++ {
				l, ok := lineThrough(ring[i], ring[i+1])
				if !ok {
					continue
				}
				edges = append(edges, edge{a: ring[i], b: ring[i+1], line: l})
			}
		}
	}
	return edges
}
