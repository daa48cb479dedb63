// Package bvh implements a static bounding volume hierarchy over a triangle soup.
// en.wikipedia.org/wiki/Bounding_volume_hierarchy
package bvh

import (
	"errors"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/kartsim/internal/core/geom"
	"github.com/zeusync/kartsim/pkg/generic"
)

// MaxTrianglesPerLeaf is the threshold for splitting nodes.
const MaxTrianglesPerLeaf = 4

var (
	ErrEmpty     = errors.New("bvh: no triangles")
	ErrNonFinite = errors.New("bvh: triangle with non-finite coordinates")
)

// node is either internal (left and right set) or a leaf (items set).
type node struct {
	bounds      geom.Box3
	left, right *node
	items       []int
}

func (n *node) isLeaf() bool { return n.left == nil }

// Tree is immutable once New returns and safe for concurrent queries.
type Tree struct {
	root      *node
	triangles []geom.Triangle
	triBounds []geom.Box3
	nodes     int
	depth     int
}

var stackPool = generic.NewPool(
	func() *[]*node {
		s := make([]*node, 0, 64)
		return &s
	},
	func(s *[]*node) *[]*node {
		clear(*s)
		*s = (*s)[:0]
		return s
	},
)

// New builds a tree over triangles. The slice is retained, not copied; callers must
// not modify it afterwards. Triangle indices reported by Query refer to this slice.
func New(triangles []geom.Triangle) (*Tree, error) {
	if len(triangles) == 0 {
		return nil, ErrEmpty
	}
	t := &Tree{
		triangles: triangles,
		triBounds: make([]geom.Box3, len(triangles)),
	}
	centroids := make([]mgl64.Vec3, len(triangles))
	items := make([]int, len(triangles))
	for i, tri := range triangles {
		b := tri.Bounds()
		if !geom.IsFinite(b.Min) || !geom.IsFinite(b.Max) {
			return nil, ErrNonFinite
		}
		t.triBounds[i] = b
		centroids[i] = tri.Centroid()
		items[i] = i
	}
	t.root = t.build(items, centroids, 1)
	return t, nil
}

func (t *Tree) build(items []int, centroids []mgl64.Vec3, depth int) *node {
	t.nodes++
	if depth > t.depth {
		t.depth = depth
	}
	n := &node{bounds: geom.EmptyBox()}
	for _, i := range items {
		n.bounds = n.bounds.Union(t.triBounds[i])
	}
	if len(items) <= MaxTrianglesPerLeaf {
		n.items = items
		return n
	}

	// Split on the longest axis of the centroid spread so that flat walls still split.
	spread := geom.EmptyBox()
	for _, i := range items {
		spread = spread.ExpandByPoint(centroids[i])
	}
	axis := spread.LongestAxis()
	sort.SliceStable(items, func(a, b int) bool {
		return centroids[items[a]][axis] < centroids[items[b]][axis]
	})

	mid := len(items) / 2
	n.left = t.build(items[:mid], centroids, depth+1)
	n.right = t.build(items[mid:], centroids, depth+1)
	return n
}

// Query calls visit for every triangle whose bounds intersect box. Subtrees whose
// bounds miss box are skipped. Returning true from visit stops the traversal.
// Triangles are visited in tree order: left subtree before right.
func (t *Tree) Query(box geom.Box3, visit func(i int, tri geom.Triangle) bool) {
	if t == nil || t.root == nil || box.IsEmpty() {
		return
	}
	sp := stackPool.Get()
	defer stackPool.Put(sp)

	stack := append(*sp, t.root)
	defer func() { *sp = stack }()

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !n.bounds.Intersects(box) {
			continue
		}
		if n.isLeaf() {
			for _, i := range n.items {
				if !t.triBounds[i].Intersects(box) {
					continue
				}
				if visit(i, t.triangles[i]) {
					return
				}
			}
			continue
		}
		stack = append(stack, n.right, n.left)
	}
}

// Bounds returns the bounds of the whole tree.
func (t *Tree) Bounds() geom.Box3 {
	if t == nil || t.root == nil {
		return geom.EmptyBox()
	}
	return t.root.bounds
}

// Len returns the number of indexed triangles.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.triangles)
}

// Depth is the number of levels, counting the root as 1.
func (t *Tree) Depth() int { return t.depth }

// NodeCount is the number of nodes in the tree.
func (t *Tree) NodeCount() int { return t.nodes }

// Visit walks nodes breadth-first down to maxDepth (root is depth 0) and calls fn
// with each node's bounds. Debug helpers draw these.
func (t *Tree) Visit(maxDepth int, fn func(depth int, bounds geom.Box3, leaf bool)) {
	if t == nil || t.root == nil {
		return
	}
	type entry struct {
		n     *node
		depth int
	}
	queue := []entry{{t.root, 0}}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		fn(e.depth, e.n.bounds, e.n.isLeaf())
		if e.n.isLeaf() || e.depth >= maxDepth {
			continue
		}
		queue = append(queue, entry{e.n.left, e.depth + 1}, entry{e.n.right, e.depth + 1})
	}
}
