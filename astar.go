package bspnav

import (
	"container/heap"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// SearchInfo tunes one pathfinding query.
type SearchInfo struct {
	// MaxExpansions caps how many search nodes may be expanded before the
	// query fails with ErrSearchExhausted. Zero or negative means no cap.
	MaxExpansions int
	// Shorten runs a line-of-sight pass over the found path, removing
	// interior waypoints whose neighbors see each other directly.
	Shorten bool
}

// Path is a query result: waypoints from start to end and the summed
// length of the polyline.
type Path struct {
	Points []orb.Point
	Cost   float64
}

type searchNode struct {
	id     int
	g      float64
	h      float64
	f      float64
	parent *searchNode
	index  int
	seq    int
}

type priorityQueue []*searchNode

func (pq priorityQueue) Len() int { return len(pq) }

// Less orders by total cost, then by insertion order so equal-cost ties
// resolve the same way on every run.
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n := x.(*searchNode)
	n.index = len(*pq)
	*pq = append(*pq, n)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*pq = old[:n-1]
	return node
}

// queryGraph is the per-query search graph: one node per portal plus the
// start and end points, with straight-line costs on every edge.
type queryGraph struct {
	points []orb.Point
	edges  [][]queryEdge
	start  int
	end    int
}

type queryEdge struct {
	to   int
	cost float64
}

// buildQueryGraph overlays start and end onto the portal graph. Portals
// keep their ids as node indices; start and end take the two indices after
// them. Portals sharing a cell are linked pairwise, start links to the
// portals of its cell, and the portals of the end cell link to end.
func buildQueryGraph(g *NavGraph, start, end orb.Point, startCell, endCell CellID) *queryGraph {
	numPortals := g.NumPortals()
	qg := &queryGraph{
		points: make([]orb.Point, numPortals+2),
		edges:  make([][]queryEdge, numPortals+2),
		start:  numPortals,
		end:    numPortals + 1,
	}
	for id, rec := range g.portals {
		qg.points[id] = rec.point
	}
	qg.points[qg.start] = start
	qg.points[qg.end] = end

	link := func(from, to int) {
		cost := planar.Distance(qg.points[from], qg.points[to])
		qg.edges[from] = append(qg.edges[from], queryEdge{to: to, cost: cost})
	}

	for cell := CellID(0); int(cell) < g.NumCells(); cell++ {
		incident := g.Neighbors(cell)
		for i := 0; i < len(incident); i++ {
			for j := i + 1; j < len(incident); j++ {
				link(int(incident[i].ID), int(incident[j].ID))
				link(int(incident[j].ID), int(incident[i].ID))
			}
		}
	}
	for _, pe := range g.Neighbors(startCell) {
		link(qg.start, int(pe.ID))
	}
	for _, pe := range g.Neighbors(endCell) {
		link(int(pe.ID), qg.end)
	}
	if startCell == endCell {
		link(qg.start, qg.end)
	}
	return qg
}

// astar searches the query graph from start to end. It returns the goal
// node with its parent chain, the number of expansions spent, and
// ErrUnreachable or ErrSearchExhausted on failure.
func astar(qg *queryGraph, h Heuristic, maxExpansions int) (*searchNode, int, error) {
	endPoint := qg.points[qg.end]

	open := &priorityQueue{}
	heap.Init(open)

	seq := 0
	startNode := &searchNode{
		id:  qg.start,
		h:   h(qg.points[qg.start], endPoint),
		seq: seq,
	}
	startNode.f = startNode.h
	heap.Push(open, startNode)

	closed := make(map[int]bool)
	inOpen := map[int]*searchNode{qg.start: startNode}

	expansions := 0
	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		delete(inOpen, current.id)

		if current.id == qg.end {
			return current, expansions, nil
		}
		expansions++
		if maxExpansions > 0 && expansions > maxExpansions {
			return nil, expansions, ErrSearchExhausted
		}
		closed[current.id] = true

		for _, e := range qg.edges[current.id] {
			if closed[e.to] {
				continue
			}
			tentativeG := current.g + e.cost

			neighbor, exists := inOpen[e.to]
			if !exists {
				seq++
				neighbor = &searchNode{
					id:     e.to,
					g:      tentativeG,
					h:      h(qg.points[e.to], endPoint),
					parent: current,
					seq:    seq,
				}
				neighbor.f = neighbor.g + neighbor.h
				heap.Push(open, neighbor)
				inOpen[e.to] = neighbor
			} else if tentativeG < neighbor.g {
				neighbor.g = tentativeG
				neighbor.f = neighbor.g + neighbor.h
				neighbor.parent = current
				heap.Fix(open, neighbor.index)
			}
		}
	}
	return nil, expansions, ErrUnreachable
}

// reconstructPath walks the parent chain back to the start and turns it
// into a waypoint list. Consecutive waypoints closer than eps collapse,
// which happens when the start or end sits on a portal.
func reconstructPath(qg *queryGraph, goal *searchNode, eps float64) []orb.Point {
	var rev []orb.Point
	for n := goal; n != nil; n = n.parent {
		rev = append(rev, qg.points[n.id])
	}
	points := make([]orb.Point, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		p := rev[i]
		if len(points) > 0 && pointsEqual(points[len(points)-1], p, eps) {
			continue
		}
		points = append(points, p)
	}
	return points
}

// pathCost sums the segment lengths of a polyline.
func pathCost(points []orb.Point) float64 {
	total := 0.0
	for i := 0; i+1 < len(points); i++ {
		total += planar.Distance(points[i], points[i+1])
	}
	return total
}

// shortenPath removes interior waypoints when the segment skipping them
// stays clear of every obstacle. After a removal it steps back one
// position since the previous waypoint may now see further ahead.
func shortenPath(points []orb.Point, shapes []Shape) []orb.Point {
	if len(points) <= 2 {
		return points
	}
	out := append([]orb.Point(nil), points...)
	for i := 0; i+2 < len(out); {
		if segmentClear(out[i], out[i+2], shapes) {
			out = append(out[:i+1], out[i+2:]...)
			if i > 0 {
				i--
			}
		} else {
			i++
		}
	}
	return out
}
