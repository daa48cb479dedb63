package collision

import (
	"context"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/zeusync/kartsim/internal/core/geom"
	"github.com/zeusync/kartsim/pkg/concurrent"
	"github.com/zeusync/kartsim/pkg/sequence"
)

// MeshSource is level geometry offered to Build. Only positions are read; a source
// with no indices is treated as a plain triangle list.
type MeshSource interface {
	Name() string
	WorldMatrix() mgl64.Mat4
	Positions() []mgl64.Vec3
	Indices() []uint32
}

// DefaultExclude keeps the drivable surface out of the wall collider.
var DefaultExclude = []string{"ground"}

// BuildOptions select which meshes become collider geometry.
type BuildOptions struct {
	// Include, when non-empty, keeps only meshes whose name contains one of the
	// patterns.
	Include []string
	// Exclude drops meshes whose name contains any pattern. A nil slice means
	// DefaultExclude; an empty non-nil slice excludes nothing.
	Exclude []string
	Index   IndexKind
	// Workers bounds the goroutines used to bake mesh transforms. Zero uses
	// GOMAXPROCS.
	Workers int
}

func (o BuildOptions) exclude() []string {
	if o.Exclude == nil {
		return DefaultExclude
	}
	return o.Exclude
}

// Filter returns the meshes whose names pass the include/exclude rules, in input
// order. Matching is a case-insensitive substring test.
func Filter(meshes []MeshSource, include, exclude []string) []MeshSource {
	include = lowerAll(include)
	exclude = lowerAll(exclude)
	return sequence.From(meshes).
		Filter(func(m MeshSource) bool { return m != nil }).
		Reject(func(m MeshSource) bool { return containsAny(m.Name(), exclude) }).
		Filter(func(m MeshSource) bool { return len(include) == 0 || containsAny(m.Name(), include) }).
		Collect()
}

// Build merges the world-space triangles of the meshes passing the filters into one
// static collider and indexes them. Normals, UVs and other attributes are ignored.
//
// ErrNoGeometry is returned when no mesh passes the filters. ErrDegenerateCollider
// (wrapped with the cause) is returned when the merged soup is empty, a mesh has
// out-of-range indices, or the index cannot be built; geometry panics are converted
// into that error as well. The result is deterministic for equal inputs.
func Build(meshes []MeshSource, opts BuildOptions) (c *Collider, err error) {
	defer func() {
		if r := recover(); r != nil {
			c, err = nil, errors.Wrapf(ErrDegenerateCollider, "build panicked: %v", r)
		}
	}()

	selected := Filter(meshes, opts.Include, opts.exclude())
	if len(selected) == 0 {
		return nil, ErrNoGeometry
	}

	perMesh, err := concurrent.MapSlice(context.Background(), selected, opts.Workers,
		func(_ context.Context, _ int, m MeshSource) ([]geom.Triangle, error) {
			return bake(m)
		})
	if err != nil {
		return nil, errors.Wrap(ErrDegenerateCollider, err.Error())
	}

	total := 0
	for _, tris := range perMesh {
		total += len(tris)
	}
	soup := make([]geom.Triangle, 0, total)
	dropped := 0
	for _, tris := range perMesh {
		for _, tri := range tris {
			if tri.IsDegenerate() {
				dropped++
				continue
			}
			soup = append(soup, tri)
		}
	}
	if len(soup) == 0 {
		return nil, errors.Wrapf(ErrDegenerateCollider, "%d meshes produced no usable triangles", len(selected))
	}

	index, err := NewIndex(opts.Index, soup)
	if err != nil {
		if errors.Is(err, ErrUnknownIndex) {
			return nil, err
		}
		return nil, errors.Wrapf(ErrDegenerateCollider, "index: %v", err)
	}

	return newCollider(soup, index, len(selected), dropped), nil
}

// bake expands a mesh into triangles with its world transform applied.
func bake(m MeshSource) ([]geom.Triangle, error) {
	tris, ok := geom.Triangles(m.Positions(), m.Indices())
	if !ok {
		return nil, errors.Errorf("mesh %q: index out of range", m.Name())
	}
	world := m.WorldMatrix()
	if world == mgl64.Ident4() {
		return tris, nil
	}
	for i := range tris {
		tris[i] = tris[i].Transform(world)
	}
	return tris, nil
}

func lowerAll(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		out = append(out, strings.ToLower(p))
	}
	return out
}

func containsAny(name string, lowered []string) bool {
	name = strings.ToLower(name)
	for _, p := range lowered {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}
