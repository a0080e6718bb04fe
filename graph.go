package bspnav

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
)

// CellID identifies one free convex cell. Ids are dense, assigned in tree
// pre-order, and stable across rebuilds of the same scene.
type CellID int

// NoCell marks the absence of a cell, for points in solid space.
const NoCell CellID = -1

// PortalID identifies one shared boundary segment between two free cells.
type PortalID int

// Cell is one convex region of free space.
type Cell struct {
	ID     CellID
	Region orb.Ring
}

// Centroid is the area centroid of the cell region, always interior since
// the region is convex.
func (c Cell) Centroid() orb.Point {
	return ringCentroid(c.Region)
}

// PortalEdge is one traversable crossing out of a cell. The two adjacency
// entries of a portal mirror each other: same ID, same Segment, same
// crossing Point, so traversal cost is identical in both directions.
type PortalEdge struct {
	To      CellID
	ID      PortalID
	Segment [2]orb.Point
	Point   orb.Point
}

type portalRecord struct {
	cells   [2]CellID
	segment [2]orb.Point
	point   orb.Point
}

// NavGraph is the cell adjacency derived from a partitioning tree. It is
// immutable once derived; accessors return internal slices that callers
// must not modify.
type NavGraph struct {
	cells   []Cell
	adj     [][]PortalEdge
	portals []portalRecord
}

// Cells lists every free cell in id order.
func (g *NavGraph) Cells() []Cell {
	return g.cells
}

// Cell returns the cell with the given id.
func (g *NavGraph) Cell(id CellID) (Cell, bool) {
	if id < 0 || int(id) >= len(g.cells) {
		return Cell{}, false
	}
	return g.cells[id], true
}

// Neighbors lists the portal crossings out of a cell.
func (g *NavGraph) Neighbors(id CellID) []PortalEdge {
	if id < 0 || int(id) >= len(g.adj) {
		return nil
	}
	return g.adj[id]
}

func (g *NavGraph) NumCells() int {
	return len(g.cells)
}

func (g *NavGraph) NumPortals() int {
	return len(g.portals)
}

// PortalCells returns the pair of cells a portal connects, lower id first.
func (g *NavGraph) PortalCells(id PortalID) (CellID, CellID, bool) {
	if id < 0 || int(id) >= len(g.portals) {
		return NoCell, NoCell, false
	}
	rec := g.portals[id]
	return rec.cells[0], rec.cells[1], true
}

// deriveGraph numbers the free leaves of the tree and connects every pair
// of cells that shares a boundary segment longer than eps. Candidate pairs
// come from an R-tree over the cell bounding rectangles, so only nearby
// cells are compared.
func deriveGraph(root *node, eps float64, logger zerolog.Logger) *NavGraph {
	g := &NavGraph{}
	if root == nil {
		return g
	}

	collectCells(root, g)
	g.adj = make([][]PortalEdge, len(g.cells))

	index := newCellIndex(g.cells, eps)
	for _, c := range g.cells {
		for _, other := range index.overlapping(c) {
			if other <= c.ID {
				continue
			}
			seg, ok := sharedBoundary(c.Region, g.cells[other].Region, eps)
			if !ok {
				continue
			}
			id := PortalID(len(g.portals))
			point := midpoint(seg[0], seg[1])
			g.portals = append(g.portals, portalRecord{
				cells:   [2]CellID{c.ID, other},
				segment: seg,
				point:   point,
			})
			g.adj[c.ID] = append(g.adj[c.ID], PortalEdge{To: other, ID: id, Segment: seg, Point: point})
			g.adj[other] = append(g.adj[other], PortalEdge{To: c.ID, ID: id, Segment: seg, Point: point})
		}
	}

	logger.Debug().
		Int("cells", len(g.cells)).
		Int("portals", len(g.portals)).
		Msg("navigation graph derived")
	return g
}

// collectCells assigns ids to free leaves in pre-order, front child before
// back child, and records them on both the graph and the leaf nodes.
func collectCells(n *node, g *NavGraph) {
	if n == nil {
		return
	}
	if n.isLeaf() {
		if n.kind == kindFree {
			n.cell = CellID(len(g.cells))
			g.cells = append(g.cells, Cell{ID: n.cell, Region: n.region})
		}
		return
	}
	collectCells(n.front, g)
	collectCells(n.back, g)
}

// sharedBoundary finds the boundary segment two convex regions have in
// common. Adjacent regions may meet along several consecutive collinear
// edge fragments when a later cut landed on an earlier edge, so every
// pairwise overlap is projected onto the shared carrier line and the
// extremes are kept. Point contacts do not count.
func sharedBoundary(a, b orb.Ring, eps float64) ([2]orb.Point, bool) {
	var (
		found  bool
		origin orb.Point
		dir    orb.Point
		lo, hi float64
	)
	for i := 0; i < len(a)-1; i++ {
		for j := 0; j < len(b)-1; j++ {
			seg, ok := collinearOverlap(a[i], a[i+1], b[j], b[j+1], eps)
			if !ok {
				continue
			}
			if !found {
				origin = seg[0]
				d := sub(seg[1], seg[0])
				length := math.Hypot(d.X(), d.Y())
				dir = scale(d, 1/length)
				lo, hi = 0, length
				found = true
				continue
			}
			for _, p := range seg {
				t := dot(sub(p, origin), dir)
				if t < lo {
					lo = t
				}
				if t > hi {
					hi = t
				}
			}
		}
	}
	if !found {
		return [2]orb.Point{}, false
	}
	return [2]orb.Point{
		add(origin, scale(dir, lo)),
		add(origin, scale(dir, hi)),
	}, true
}
