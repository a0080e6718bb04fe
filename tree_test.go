package bspnav

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The arena square contributes four splitter lines, so the tree is known
// exactly: four splits, four free strip leaves around the square, and the
// solid square leaf.
func TestBuildTreeArena(t *testing.T) {
	nc := arenaContext(t)

	var splits, leaves, solids int
	maxDepth := 0
	var leafArea float64
	nc.WalkTree(func(info NodeInfo) {
		if info.Depth > maxDepth {
			maxDepth = info.Depth
		}
		if !info.IsLeaf {
			splits++
			assert.InDelta(t, 1, dot(info.Line.Normal, info.Line.Normal), 1e-9,
				"split normals are unit length")
			return
		}
		leaves++
		if info.Solid {
			solids++
			assert.Equal(t, NoCell, info.Cell)
		} else {
			assert.NotEqual(t, NoCell, info.Cell)
		}
		leafArea += signedArea(info.Region)
		assertConvexCCW(t, info.Region)
	})

	assert.Equal(t, 4, splits)
	assert.Equal(t, 5, leaves)
	assert.Equal(t, 1, solids)
	assert.Equal(t, 4, maxDepth)
	assert.InDelta(t, 300*300, leafArea, 1e-6, "leaves cover the scene exactly")
}

// assertConvexCCW checks winding and convexity of a closed region ring.
func assertConvexCCW(t *testing.T, r orb.Ring) {
	t.Helper()
	require.GreaterOrEqual(t, len(r), 4)
	require.Equal(t, r[0], r[len(r)-1])
	assert.Positive(t, signedArea(r))
	n := len(r) - 1
	for i := 0; i < n; i++ {
		a := r[i]
		b := r[(i+1)%n]
		c := r[(i+2)%n]
		assert.GreaterOrEqual(t, cross(sub(b, a), sub(c, b)), -1e-9,
			"left turns only at vertex %d", i)
	}
}

func TestLocate(t *testing.T) {
	nc := arenaContext(t)

	t.Run("interior points round-trip", func(t *testing.T) {
		for _, c := range nc.Cells() {
			centroid := c.Centroid()
			probes := []orb.Point{centroid}
			for _, v := range c.Region[:len(c.Region)-1] {
				toward := sub(v, centroid)
				probes = append(probes,
					add(centroid, scale(toward, 0.5)),
					add(centroid, scale(toward, 0.9)))
			}
			for _, p := range probes {
				id, err := nc.Locate(p)
				require.NoError(t, err)
				assert.Equal(t, c.ID, id, "point %v of cell %d", p, c.ID)
			}
		}
	})

	t.Run("inside the obstacle", func(t *testing.T) {
		id, err := nc.Locate(orb.Point{0, 0})
		require.NoError(t, err)
		assert.Equal(t, NoCell, id)
	})

	t.Run("outside the scene", func(t *testing.T) {
		_, err := nc.Locate(orb.Point{200, 0})
		assert.ErrorIs(t, err, ErrPointOutsideScene)
	})

	t.Run("on a splitting line", func(t *testing.T) {
		// Points on a line resolve to the front child, never ambiguously.
		// (-25, 0) lies on the square's left edge, front of it is the left
		// strip. (60, -25) lies on the bottom edge line inside the bottom
		// strip.
		for i := 0; i < 3; i++ {
			id, err := nc.Locate(orb.Point{-25, 0})
			require.NoError(t, err)
			assert.Equal(t, CellID(3), id)

			id, err = nc.Locate(orb.Point{60, -25})
			require.NoError(t, err)
			assert.Equal(t, CellID(0), id)
		}
	})

	t.Run("free and solid agree with the shapes", func(t *testing.T) {
		probes := []orb.Point{{-100, -100}, {0, -30}, {24, 24}, {0, 24}, {-24, 0}, {130, 130}}
		for _, p := range probes {
			id, err := nc.Locate(p)
			require.NoError(t, err)
			if insideAnyShape(p, arenaShapes()) {
				assert.Equal(t, NoCell, id, "point %v", p)
			} else {
				assert.NotEqual(t, NoCell, id, "point %v", p)
			}
		}
	})
}

func TestBuildDeterminism(t *testing.T) {
	a := arenaContext(t)
	b := arenaContext(t)

	require.Equal(t, a.Graph().NumCells(), b.Graph().NumCells())
	require.Equal(t, a.Graph().NumPortals(), b.Graph().NumPortals())
	for i, cell := range a.Cells() {
		assert.Equal(t, cell.Region, b.Cells()[i].Region)
	}
	for id := CellID(0); int(id) < a.Graph().NumCells(); id++ {
		assert.Equal(t, a.Graph().Neighbors(id), b.Graph().Neighbors(id))
	}

	pa, err := a.FindPath(orb.Point{-100, 0}, orb.Point{100, 30}, nil, SearchInfo{})
	require.NoError(t, err)
	pb, err := b.FindPath(orb.Point{-100, 0}, orb.Point{100, 30}, nil, SearchInfo{})
	require.NoError(t, err)
	assert.Equal(t, pa, pb, "rebuilt contexts answer queries identically")
}

func TestPartitionEdgesConsumesCollinear(t *testing.T) {
	edges := gatherEdges(arenaShapes())
	require.Len(t, edges, 4)

	// Splitting along the bottom edge line consumes that edge and keeps
	// the other three on the back side.
	front, back := partitionEdges(edges, edges[0].line, DefaultEpsilon)
	assert.Empty(t, front)
	assert.Len(t, back, 3)
}

func TestPartitionEdgesSplitsSpanning(t *testing.T) {
	a := orb.Point{-10, -5}
	b := orb.Point{10, 5}
	l, ok := lineThrough(a, b)
	require.True(t, ok)
	span := orb.Point{0, 10}
	spanEnd := orb.Point{0, -10}
	el, ok := lineThrough(span, spanEnd)
	require.True(t, ok)

	front, back := partitionEdges([]edge{{a: span, b: spanEnd, line: el}}, l, DefaultEpsilon)
	require.Len(t, front, 1)
	require.Len(t, back, 1)
	// The edge runs from back to front, so the crossing point starts the
	// front half and ends the back half.
	assert.Equal(t, SideOn, l.Side(front[0].a, DefaultEpsilon))
	assert.Equal(t, SideOn, l.Side(back[0].b, DefaultEpsilon))
	assert.InDelta(t, 0, front[0].a.X(), 1e-9)
	assert.InDelta(t, 0, front[0].a.Y(), 1e-9)
}
