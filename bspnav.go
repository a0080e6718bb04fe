// Package bspnav builds navigation structures for 2D scenes of polygonal
// obstacles. A scene is partitioned along obstacle edges into a binary
// space partitioning tree whose leaves are convex cells of free or solid
// space, adjacent free cells are connected through portals, and paths are
// found by A* over the portal graph. The partitioning and the graph are
// immutable once built, so one context serves any number of concurrent
// queries.
package bspnav

import (
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultEpsilon is the geometric tolerance used when Config.Epsilon is
// unset. Distances below it are treated as zero.
const DefaultEpsilon = 1e-6

// Config controls how a navigation context is built.
type Config struct {
	// Epsilon is the geometric tolerance. Defaults to DefaultEpsilon.
	Epsilon float64
	// BoundsPadding widens the derived scene rectangle on every side.
	// Zero picks a tenth of the larger scene dimension, at least 1.
	BoundsPadding float64
	// SimplifyTolerance, when positive, runs Douglas-Peucker over every
	// shape before validation.
	SimplifyTolerance float64
	// Bounds overrides the derived scene rectangle. It is used as given,
	// without padding.
	Bounds *orb.Bound
	// Logger receives build and query diagnostics at debug level. Nil
	// disables logging.
	Logger *zerolog.Logger
}

// DefaultConfig returns the configuration used by NewNavigationContext.
func DefaultConfig() Config {
	return Config{Epsilon: DefaultEpsilon}
}

// NavigationContext is a prepared scene: the partitioning tree, the cell
// adjacency graph, and the obstacles they were built from. Values are
// read-only after construction and safe for concurrent use.
type NavigationContext struct {
	shapes []Shape
	tree   *node
	graph  *NavGraph
	bounds orb.Bound
	eps    float64
	logger zerolog.Logger
}

// NewNavigationContext prepares a scene with the default configuration.
func NewNavigationContext(shapes []Shape) (*NavigationContext, error) {
	return NewNavigationContextWithConfig(shapes, DefaultConfig())
}

// NewNavigationContextWithConfig validates and preprocesses the shapes,
// partitions the padded scene bounds, and derives the cell graph. Shape
// validation failures are reported with the shape index and match
// ErrMalformedShape.
func NewNavigationContextWithConfig(shapes []Shape, cfg Config) (*NavigationContext, error) {
	eps := cfg.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	began := time.Now()

	if cfg.SimplifyTolerance > 0 {
		shapes = SimplifyShapes(shapes, cfg.SimplifyTolerance)
	}
	normalized := make([]Shape, 0, len(shapes))
	for i, s := range shapes {
		ns, err := s.normalize(eps)
		if err != nil {
			return nil, errors.Wrapf(err, "shape %d", i)
		}
		normalized = append(normalized, ns)
	}
	normalized = removeContainedShapes(normalized, logger)

	nc := &NavigationContext{shapes: normalized, eps: eps, logger: logger}
	if len(normalized) == 0 {
		nc.graph = &NavGraph{}
		if cfg.Bounds != nil {
			nc.bounds = *cfg.Bounds
		}
		return nc, nil
	}

	nc.bounds = sceneBounds(normalized, cfg)
	nc.tree = buildTree(normalized, nc.bounds, eps, logger)
	nc.graph = deriveGraph(nc.tree, eps, logger)

	logger.Debug().
		Dur("took", time.Since(began)).
		Int("shapes", len(normalized)).
		Int("cells", nc.graph.NumCells()).
		Int("portals", nc.graph.NumPortals()).
		Msg("navigation context built")
	return nc, nil
}

// sceneBounds is the query region: the given override, or the union of the
// shape bounds padded so free space surrounds every obstacle.
func sceneBounds(shapes []Shape, cfg Config) orb.Bound {
	if cfg.Bounds != nil {
		return *cfg.Bounds
	}
	var b orb.Bound
	first := true
	for _, s := range shapes {
		for _, r := range s.Rings {
			if first {
				b = r.Bound()
				first = false
			} else {
				b = b.Union(r.Bound())
			}
		}
	}
	pad := cfg.BoundsPadding
	if pad <= 0 {
		w := b.Max.X() - b.Min.X()
		h := b.Max.Y() - b.Min.Y()
		pad = 0.1 * math.Max(w, h)
		if pad < 1 {
			pad = 1
		}
	}
	return b.Pad(pad)
}

// FindPath plans a route between two free points. A nil heuristic means
// Euclidean. On a scene without obstacles the straight segment is
// returned. Start or end outside the scene bounds fails with
// ErrPointOutsideScene, inside an obstacle with ErrStartInSolid or
// ErrEndInSolid; match with errors.Is.
func (nc *NavigationContext) FindPath(start, end orb.Point, h Heuristic, info SearchInfo) (Path, error) {
	if h == nil {
		h = Euclidean
	}
	if nc.tree == nil {
		points := []orb.Point{start, end}
		return Path{Points: points, Cost: pathCost(points)}, nil
	}

	startLeaf, err := nc.leafAt(start)
	if err != nil {
		return Path{}, errors.Wrap(err, "start")
	}
	endLeaf, err := nc.leafAt(end)
	if err != nil {
		return Path{}, errors.Wrap(err, "end")
	}
	if startLeaf.kind == kindSolid {
		return Path{}, errors.Wrapf(ErrStartInSolid, "(%g, %g)", start.X(), start.Y())
	}
	if endLeaf.kind == kindSolid {
		return Path{}, errors.Wrapf(ErrEndInSolid, "(%g, %g)", end.X(), end.Y())
	}

	if startLeaf.cell == endLeaf.cell {
		points := []orb.Point{start, end}
		return Path{Points: points, Cost: pathCost(points)}, nil
	}

	qg := buildQueryGraph(nc.graph, start, end, startLeaf.cell, endLeaf.cell)
	goal, expansions, err := astar(qg, h, info.MaxExpansions)
	if err != nil {
		return Path{}, errors.Wrapf(err, "from (%g, %g) to (%g, %g)",
			start.X(), start.Y(), end.X(), end.Y())
	}

	points := reconstructPath(qg, goal, nc.eps)
	if info.Shorten {
		points = shortenPath(points, nc.shapes)
	}
	path := Path{Points: points, Cost: pathCost(points)}
	nc.logger.Debug().
		Int("expansions", expansions).
		Int("waypoints", len(path.Points)).
		Float64("cost", path.Cost).
		Msg("path found")
	return path, nil
}

// Locate maps a point to its cell. Points in solid space return NoCell
// with no error; points outside the scene bounds fail with
// ErrPointOutsideScene.
func (nc *NavigationContext) Locate(p orb.Point) (CellID, error) {
	leaf, err := nc.leafAt(p)
	if err != nil {
		return NoCell, err
	}
	if leaf.kind == kindSolid {
		return NoCell, nil
	}
	return leaf.cell, nil
}

func (nc *NavigationContext) leafAt(p orb.Point) (*node, error) {
	if nc.tree == nil || !nc.bounds.Contains(p) {
		return nil, errors.Wrapf(ErrPointOutsideScene, "(%g, %g)", p.X(), p.Y())
	}
	return locateLeaf(nc.tree, p, nc.eps), nil
}

// Graph exposes the derived cell adjacency.
func (nc *NavigationContext) Graph() *NavGraph {
	return nc.graph
}

// Cells lists every free cell in id order.
func (nc *NavigationContext) Cells() []Cell {
	return nc.graph.Cells()
}

// Bounds is the partitioned scene rectangle.
func (nc *NavigationContext) Bounds() orb.Bound {
	return nc.bounds
}

// WalkTree visits every tree node in pre-order, front child before back
// child. On a scene without obstacles there is no tree and fn is never
// called.
func (nc *NavigationContext) WalkTree(fn func(NodeInfo)) {
	walkNodes(nc.tree, 0, fn)
}
