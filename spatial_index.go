package bspnav

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// cellEntry wraps a cell id for R-tree storage.
type cellEntry struct {
	id   CellID
	bbox rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *cellEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// cellIndex answers which cells could touch a given cell. Rectangles are
// padded by eps on every side so regions that only share a boundary still
// intersect in the index.
type cellIndex struct {
	tree *rtreego.Rtree
	eps  float64
}

func newCellIndex(cells []Cell, eps float64) *cellIndex {
	tree := rtreego.NewTree(2, 25, 50)
	for _, c := range cells {
		bbox, err := cellRect(c.Region, eps)
		if err != nil {
			continue
		}
		tree.Insert(&cellEntry{id: c.ID, bbox: bbox})
	}
	return &cellIndex{tree: tree, eps: eps}
}

// overlapping returns the ids of cells whose padded rectangles intersect
// c's, in ascending order. The result includes c itself.
func (ci *cellIndex) overlapping(c Cell) []CellID {
	bbox, err := cellRect(c.Region, ci.eps)
	if err != nil {
		return nil
	}
	results := ci.tree.SearchIntersect(bbox)
	ids := make([]CellID, 0, len(results))
	for _, item := range results {
		ids = append(ids, item.(*cellEntry).id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// cellRect computes the eps-padded axis-aligned bounding rectangle of a
// region ring.
func cellRect(r orb.Ring, eps float64) (rtreego.Rect, error) {
	b := r.Bound()
	return rtreego.NewRect(
		rtreego.Point{b.Min.X() - eps, b.Min.Y() - eps},
		[]float64{b.Max.X() - b.Min.X() + 2*eps, b.Max.Y() - b.Min.Y() + 2*eps},
	)
}
