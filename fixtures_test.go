package bspnav

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

// Shared scene fixtures.
//
// The arena is a single 50x50 square obstacle at the origin inside a fixed
// 300x300 scene. Its four edge lines cut the scene into four free strips
// around the square (bottom, right, top, left in cell id order) plus the
// solid square itself, with one portal per strip pair, so tests can assert
// exact cells, portals, and waypoints.
//
// The sealed scene is a hollow chamber enclosed by four touching walls.
// The chamber is free space but shares no boundary segment with the space
// outside the walls, so nothing in it can be reached from outside.

func arenaShapes() []Shape {
	return []Shape{Rect(orb.Point{0, 0}, 50, 50)}
}

func arenaBounds() orb.Bound {
	return orb.Bound{Min: orb.Point{-150, -150}, Max: orb.Point{150, 150}}
}

func arenaContext(t *testing.T) *NavigationContext {
	t.Helper()
	b := arenaBounds()
	nc, err := NewNavigationContextWithConfig(arenaShapes(), Config{Bounds: &b})
	require.NoError(t, err)
	return nc
}

func sealedShapes() []Shape {
	return []Shape{
		Rect(orb.Point{0, -50}, 120, 10),
		Rect(orb.Point{0, 50}, 120, 10),
		Rect(orb.Point{-55, 0}, 10, 90),
		Rect(orb.Point{55, 0}, 10, 90),
	}
}

func sealedContext(t *testing.T) *NavigationContext {
	t.Helper()
	nc, err := NewNavigationContext(sealedShapes())
	require.NoError(t, err)
	return nc
}

// chamberPoint is inside the sealed chamber, outsidePoint in the free
// space surrounding the walls. Both are free, neither reaches the other.
var (
	chamberPoint = orb.Point{0, 0}
	outsidePoint = orb.Point{-65, 0}
)
