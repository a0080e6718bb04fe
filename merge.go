package bspnav

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/rs/zerolog"
)

// removeContainedShapes drops shapes whose every ring lies fully inside a
// ring of some other shape. Nested obstacles add splitter edges and solid
// leaves without changing the reachable free space, so they are removed
// before the tree is built. Of two identical shapes one survives.
func removeContainedShapes(shapes []Shape, logger zerolog.Logger) []Shape {
	if len(shapes) <= 1 {
		return shapes
	}

	contained := make([]bool, len(shapes))
	for i := 0; i < len(shapes); i++ {
		if contained[i] {
			continue
		}
		for j := 0; j < len(shapes); j++ {
			if i == j || contained[j] {
				continue
			}
			if shapeContainedIn(shapes[i], shapes[j]) {
				contained[i] = true
				break
			}
			if shapeContainedIn(shapes[j], shapes[i]) {
				contained[j] = true
			}
		}
	}

	result := make([]Shape, 0, len(shapes))
	for i, s := range shapes {
		if !contained[i] {
			result = append(result, s)
		}
	}
	if removed := len(shapes) - len(result); removed > 0 {
		logger.Debug().
			Int("kept", len(result)).
			Int("removed", removed).
			Msg("dropped contained shapes")
	}
	return result
}

// shapeContainedIn reports whether every ring of a lies inside some ring
// of b.
func shapeContainedIn(a, b Shape) bool {
	for _, ra := range a.Rings {
		inside := false
		for _, rb := range b.Rings {
			if ringContainedIn(ra, rb) {
				inside = true
				break
			}
		}
		if !inside {
			return false
		}
	}
	return true
}

// ringContainedIn checks the bounding rectangles first, then tests every
// vertex of a against b. A ring crossing in and out of a concave region
// between vertices is not caught, which only means a redundant shape is
// kept rather than dropped.
func ringContainedIn(a, b orb.Ring) bool {
	if !boundContains(b.Bound(), a.Bound()) {
		return false
	}
	for _, v := range a[:len(a)-1] {
		if !planar.RingContains(b, v) {
			return false
		}
	}
	return true
}

func boundContains(outer, inner orb.Bound) bool {
	return outer.Contains(inner.Min) && outer.Contains(inner.Max)
}
