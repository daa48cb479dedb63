package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/kartsim/internal/core/geom"
)

// Mesh is render-independent triangle geometry. Only positions are kept; a nil
// index slice means every three positions form a triangle.
type Mesh struct {
	Positions []mgl64.Vec3
	Indices   []uint32
}

func NewBoxMesh(width, height, depth float64) *Mesh {
	pos, idx := geom.BoxGeometry(width, height, depth)
	return &Mesh{Positions: pos, Indices: idx}
}

func NewCylinderMesh(radius, height float64, segments int) *Mesh {
	pos, idx := geom.CylinderGeometry(radius, height, segments)
	return &Mesh{Positions: pos, Indices: idx}
}

func NewPlaneMesh(width, depth float64) *Mesh {
	pos, idx := geom.PlaneGeometry(width, depth)
	return &Mesh{Positions: pos, Indices: idx}
}

// NewTriangleMesh flattens triangles into a non-indexed mesh.
func NewTriangleMesh(tris []geom.Triangle) *Mesh {
	pos := make([]mgl64.Vec3, 0, len(tris)*3)
	for _, t := range tris {
		pos = append(pos, t.A, t.B, t.C)
	}
	return &Mesh{Positions: pos}
}

// Bounds returns the local-space bounds of the mesh positions.
func (m *Mesh) Bounds() geom.Box3 {
	if m == nil {
		return geom.EmptyBox()
	}
	return geom.BoxFromPoints(m.Positions...)
}
