package collision

import (
	"fmt"

	"github.com/zeusync/kartsim/internal/core/collision/bvh"
	"github.com/zeusync/kartsim/internal/core/collision/rtree"
	"github.com/zeusync/kartsim/internal/core/geom"
)

// Index answers broad-phase box queries over a collider's triangles. Implementations
// are immutable after construction and safe for concurrent queries.
type Index interface {
	// Query calls visit for each triangle whose bounds intersect box. Returning true
	// from visit stops the query. Visit order is implementation-defined.
	Query(box geom.Box3, visit func(i int, tri geom.Triangle) bool)
	Bounds() geom.Box3
	Len() int
}

// BoundsVisitor is implemented by hierarchical indexes that can expose their node
// bounds for debug drawing.
type BoundsVisitor interface {
	Visit(maxDepth int, fn func(depth int, bounds geom.Box3, leaf bool))
}

type IndexKind string

const (
	IndexBVH   IndexKind = "bvh"
	IndexRTree IndexKind = "rtree"
)

var (
	_ Index         = (*bvh.Tree)(nil)
	_ BoundsVisitor = (*bvh.Tree)(nil)
	_ Index         = (*rtree.Index)(nil)
)

// NewIndex builds the index named by kind. The empty kind selects the BVH.
func NewIndex(kind IndexKind, triangles []geom.Triangle) (Index, error) {
	switch kind {
	case IndexBVH, "":
		tree, err := bvh.New(triangles)
		if err != nil {
			return nil, err
		}
		return tree, nil
	case IndexRTree:
		idx, err := rtree.New(triangles)
		if err != nil {
			return nil, err
		}
		return idx, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndex, kind)
	}
}
