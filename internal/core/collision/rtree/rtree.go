// Package rtree indexes a triangle soup in an R-tree. It answers the same box
// queries as package bvh and exists for levels with many small, scattered props
// where R-tree grouping beats a median-split hierarchy.
package rtree

import (
	"errors"
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/zeusync/kartsim/internal/core/geom"
)

const (
	dims        = 3
	minChildren = 4
	maxChildren = 16

	// padding keeps flat triangles (zero extent on an axis) representable, since
	// rtreego rejects zero-length rectangles, and turns its strict overlap test into
	// an inclusive one. Candidates are re-checked against exact bounds.
	padding = 1e-9
)

var ErrEmpty = errors.New("rtree: no triangles")

type entry struct {
	index int
	rect  rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect { return e.rect }

// Index is immutable once New returns.
type Index struct {
	tree      *rtreego.Rtree
	triangles []geom.Triangle
	triBounds []geom.Box3
	bounds    geom.Box3
}

// New builds an R-tree over triangles. The slice is retained, not copied.
func New(triangles []geom.Triangle) (*Index, error) {
	if len(triangles) == 0 {
		return nil, ErrEmpty
	}
	idx := &Index{
		triangles: triangles,
		triBounds: make([]geom.Box3, len(triangles)),
		bounds:    geom.EmptyBox(),
	}
	objs := make([]rtreego.Spatial, 0, len(triangles))
	for i, tri := range triangles {
		b := tri.Bounds()
		rect, err := toRect(b)
		if err != nil {
			return nil, err
		}
		idx.triBounds[i] = b
		idx.bounds = idx.bounds.Union(b)
		objs = append(objs, &entry{index: i, rect: rect})
	}
	idx.tree = rtreego.NewTree(dims, minChildren, maxChildren, objs...)
	return idx, nil
}

func toRect(b geom.Box3) (rtreego.Rect, error) {
	if !geom.IsFinite(b.Min) || !geom.IsFinite(b.Max) {
		return rtreego.Rect{}, errors.New("rtree: non-finite bounds")
	}
	p := rtreego.Point{b.Min[0] - padding, b.Min[1] - padding, b.Min[2] - padding}
	lengths := make([]float64, dims)
	for i := 0; i < dims; i++ {
		lengths[i] = math.Max(b.Max[i]-b.Min[i], 0) + 2*padding
	}
	return rtreego.NewRect(p, lengths)
}

// Query calls visit for every triangle whose bounds intersect box, in ascending
// triangle order. Returning true from visit stops the query.
func (x *Index) Query(box geom.Box3, visit func(i int, tri geom.Triangle) bool) {
	if x == nil || x.tree == nil || box.IsEmpty() {
		return
	}
	rect, err := toRect(box)
	if err != nil {
		return
	}
	found := x.tree.SearchIntersect(rect)
	hits := make([]int, 0, len(found))
	for _, s := range found {
		e := s.(*entry)
		if x.triBounds[e.index].Intersects(box) {
			hits = append(hits, e.index)
		}
	}
	sort.Ints(hits)
	for _, i := range hits {
		if visit(i, x.triangles[i]) {
			return
		}
	}
}

func (x *Index) Bounds() geom.Box3 {
	if x == nil {
		return geom.EmptyBox()
	}
	return x.bounds
}

func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.triangles)
}
