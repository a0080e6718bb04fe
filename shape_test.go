package bspnav

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShapeClosesRing(t *testing.T) {
	s := NewShape(orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{10, 10})
	require.Len(t, s.Rings, 1)
	require.Len(t, s.Rings[0], 4)
	assert.Equal(t, s.Rings[0][0], s.Rings[0][3])
}

func TestRect(t *testing.T) {
	s := Rect(orb.Point{10, -5}, 4, 6)
	require.Len(t, s.Rings, 1)
	ring := s.Rings[0]
	assert.InDelta(t, 24, signedArea(ring), 1e-12, "counter-clockwise, area width x height")
	b := ring.Bound()
	assert.Equal(t, orb.Point{8, -8}, b.Min)
	assert.Equal(t, orb.Point{12, -2}, b.Max)
}

func TestNormalize(t *testing.T) {
	t.Run("clockwise ring is reversed", func(t *testing.T) {
		cw := NewShape(orb.Point{0, 0}, orb.Point{0, 10}, orb.Point{10, 10}, orb.Point{10, 0})
		require.Negative(t, signedArea(cw.Rings[0]))
		ns, err := cw.normalize(DefaultEpsilon)
		require.NoError(t, err)
		assert.Positive(t, signedArea(ns.Rings[0]))
	})

	t.Run("duplicate vertices are dropped", func(t *testing.T) {
		s := NewShape(orb.Point{0, 0}, orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{10, 10}, orb.Point{10, 10})
		ns, err := s.normalize(DefaultEpsilon)
		require.NoError(t, err)
		assert.Len(t, ns.Rings[0], 4)
	})

	t.Run("too few vertices", func(t *testing.T) {
		s := NewShape(orb.Point{0, 0}, orb.Point{10, 0})
		_, err := s.normalize(DefaultEpsilon)
		assert.ErrorIs(t, err, ErrMalformedShape)
	})

	t.Run("collinear ring has no area", func(t *testing.T) {
		s := NewShape(orb.Point{0, 0}, orb.Point{5, 0}, orb.Point{10, 0})
		_, err := s.normalize(DefaultEpsilon)
		assert.ErrorIs(t, err, ErrMalformedShape)
	})

	t.Run("self-intersecting ring", func(t *testing.T) {
		bowtie := NewShape(orb.Point{0, 0}, orb.Point{12, 0}, orb.Point{0, 5}, orb.Point{6, 5})
		_, err := bowtie.normalize(DefaultEpsilon)
		assert.ErrorIs(t, err, ErrMalformedShape)
	})

	t.Run("fold-back spike", func(t *testing.T) {
		spike := NewShape(orb.Point{0, 0}, orb.Point{15, 0}, orb.Point{10, 0}, orb.Point{10, 5})
		_, err := spike.normalize(DefaultEpsilon)
		assert.ErrorIs(t, err, ErrMalformedShape)
	})

	t.Run("valid ring passes unchanged", func(t *testing.T) {
		s := Rect(orb.Point{0, 0}, 10, 10)
		ns, err := s.normalize(DefaultEpsilon)
		require.NoError(t, err)
		assert.Equal(t, s, ns)
	})
}

func TestInsideAnyShape(t *testing.T) {
	shapes := []Shape{
		Rect(orb.Point{0, 0}, 10, 10),
		Rect(orb.Point{100, 100}, 10, 10),
	}
	assert.True(t, insideAnyShape(orb.Point{1, 1}, shapes))
	assert.True(t, insideAnyShape(orb.Point{99, 101}, shapes))
	assert.False(t, insideAnyShape(orb.Point{50, 50}, shapes))
	assert.False(t, insideAnyShape(orb.Point{50, 50}, nil))
}

func TestGatherEdges(t *testing.T) {
	edges := gatherEdges([]Shape{Rect(orb.Point{0, 0}, 10, 10)})
	require.Len(t, edges, 4)
	for _, e := range edges {
		assert.Equal(t, SideOn, e.line.Side(e.a, DefaultEpsilon))
		assert.Equal(t, SideOn, e.line.Side(e.b, DefaultEpsilon))
		// Outward normal: the ring centroid sits behind every edge.
		assert.Equal(t, SideBack, e.line.Side(orb.Point{0, 0}, DefaultEpsilon))
	}
}
