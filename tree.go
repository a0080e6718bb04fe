package bspnav

import (
	"fmt"

	"github.com/logrusorgru/aurora"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog"

	"github.com/benedrone/bspnav/dbg"
)

type nodeKind uint8

const (
	kindFree nodeKind = iota
	kindSolid
)

// node is one binary space partitioning node. Internal nodes carry the
// splitting line; leaves carry a convex region that is either free space or
// obstacle interior. Free leaves are assigned their CellID when the
// navigation graph is derived.
type node struct {
	line  Line
	front *node
	back  *node

	region orb.Ring
	kind   nodeKind
	cell   CellID
}

func (n *node) isLeaf() bool {
	return n.front == nil && n.back == nil
}

func (n *node) String() string {
	name := dbg.Name(n)
	switch {
	case !n.isLeaf():
		return fmt.Sprintf("split[%s]", aurora.Cyan(name))
	case n.kind == kindSolid:
		return fmt.Sprintf("solid[%s]", aurora.Red(name))
	default:
		return fmt.Sprintf("free[%s]", aurora.Green(name))
	}
}

// splitCostFactor weighs an edge cut against an uneven front/back balance
// when scoring splitter candidates.
const splitCostFactor = 3

type builder struct {
	eps    float64
	shapes []Shape
	logger zerolog.Logger

	splits   int
	leaves   int
	solids   int
	maxDepth int
}

// buildTree partitions the padded scene bounds along obstacle edges until no
// edges remain, then classifies each convex leaf region as free or solid.
// The same shapes and bounds always produce the same tree.
func buildTree(shapes []Shape, bounds orb.Bound, eps float64, logger zerolog.Logger) *node {
	b := &builder{eps: eps, shapes: shapes, logger: logger}
	root := b.build(boundsRing(bounds), gatherEdges(shapes), 0)
	b.logger.Debug().
		Int("splits", b.splits).
		Int("leaves", b.leaves).
		Int("solid", b.solids).
		Int("max_depth", b.maxDepth).
		Msg("space partitioned")
	return root
}

// boundsRing is the closed counter-clockwise rectangle of b.
func boundsRing(b orb.Bound) orb.Ring {
	return closeRing([]orb.Point{
		{b.Min.X(), b.Min.Y()},
		{b.Max.X(), b.Min.Y()},
		{b.Max.X(), b.Max.Y()},
		{b.Min.X(), b.Max.Y()},
	})
}

func (b *builder) build(region orb.Ring, edges []edge, depth int) *node {
	if depth > b.maxDepth {
		b.maxDepth = depth
	}
	if len(edges) == 0 {
		return b.leaf(region)
	}

	splitter := edges[pickSplitter(edges, b.eps)].line
	frontEdges, backEdges := partitionEdges(edges, splitter, b.eps)
	frontRegion, backRegion := clipRing(region, splitter, b.eps)

	// A cut through a sliver leaves one side degenerate; the region then
	// stays whole and only the surviving side's edges are kept.
	switch {
	case frontRegion == nil && backRegion == nil:
		return b.leaf(region)
	case frontRegion == nil:
		return b.build(region, backEdges, depth)
	case backRegion == nil:
		return b.build(region, frontEdges, depth)
	}

	b.splits++
	n := &node{
		line:   splitter,
		region: region,
		cell:   NoCell,
		front:  b.build(frontRegion, frontEdges, depth+1),
		back:   b.build(backRegion, backEdges, depth+1),
	}
	b.logger.Trace().
		Stringer("node", n).
		Int("depth", depth).
		Int("front_edges", len(frontEdges)).
		Int("back_edges", len(backEdges)).
		Msg("region split")
	return n
}

func (b *builder) leaf(region orb.Ring) *node {
	n := &node{region: region, cell: NoCell}
	if insideAnyShape(ringCentroid(region), b.shapes) {
		n.kind = kindSolid
		b.solids++
	}
	b.leaves++
	b.logger.Trace().
		Stringer("node", n).
		Float64("area", signedArea(region)).
		Msg("leaf classified")
	return n
}

// pickSplitter scores every edge's carrier line by how many other edges it
// would cut and how unevenly it divides them, and returns the index of the
// first edge with the lowest cost.
func pickSplitter(edges []edge, eps float64) int {
	best := 0
	bestCost := -1
	for i, cand := range edges {
		var front, back, spans int
		for j, e := range edges {
			if j == i {
				continue
			}
			sa := cand.line.Side(e.a, eps)
			sb := cand.line.Side(e.b, eps)
			switch {
			case sa == SideOn && sb == SideOn:
			case sa != SideBack && sb != SideBack:
				front++
			case sa != SideFront && sb != SideFront:
				back++
			default:
				spans++
			}
		}
		cost := spans*splitCostFactor + abs(front-back)
		if bestCost < 0 || cost < bestCost {
			best = i
			bestCost = cost
		}
	}
	return best
}

// partitionEdges distributes edges to the sides of l. Edges collinear with l
// are consumed here, which guarantees the recursion runs out of edges.
// Spanning edges are cut at their crossing point.
func partitionEdges(edges []edge, l Line, eps float64) (front, back []edge) {
	for _, e := range edges {
		sa := l.Side(e.a, eps)
		sb := l.Side(e.b, eps)
		switch {
		case sa == SideOn && sb == SideOn:
		case sa != SideBack && sb != SideBack:
			front = append(front, e)
		case sa != SideFront && sb != SideFront:
			back = append(back, e)
		default:
			da := l.SignedDistance(e.a)
			db := l.SignedDistance(e.b)
			t := da / (da - db)
			x := add(e.a, scale(sub(e.b, e.a), t))
			if sa == SideFront {
				front = append(front, edge{a: e.a, b: x, line: e.line})
				back = append(back, edge{a: x, b: e.b, line: e.line})
			} else {
				back = append(back, edge{a: e.a, b: x, line: e.line})
				front = append(front, edge{a: x, b: e.b, line: e.line})
			}
		}
	}
	return front, back
}

// locateLeaf descends from root to the leaf whose region holds p. Points on
// a splitting line resolve to the front child, so every point maps to
// exactly one leaf.
func locateLeaf(root *node, p orb.Point, eps float64) *node {
	n := root
	for !n.isLeaf() {
		if n.line.Side(p, eps) == SideBack {
			n = n.back
		} else {
			n = n.front
		}
	}
	return n
}

// NodeInfo is a read-only view of one tree node as reported by WalkTree.
type NodeInfo struct {
	Depth  int
	IsLeaf bool
	Line   Line
	Region orb.Ring
	Solid  bool
	Cell   CellID
}

// walkNodes visits the tree in pre-order, front child before back child.
func walkNodes(n *node, depth int, fn func(NodeInfo)) {
	if n == nil {
		return
	}
	info := NodeInfo{
		Depth:  depth,
		IsLeaf: n.isLeaf(),
		Region: n.region,
		Cell:   n.cell,
	}
	if info.IsLeaf {
		info.Solid = n.kind == kindSolid
	} else {
		info.Line = n.line
	}
	fn(info)
	walkNodes(n.front, depth+1, fn)
	walkNodes(n.back, depth+1, fn)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
