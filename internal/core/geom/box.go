package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box3 is an axis-aligned bounding box. The zero value is a degenerate box at the
// origin; use EmptyBox to start accumulating points.
type Box3 struct {
	Min, Max mgl64.Vec3
}

// EmptyBox returns an inverted box that any expansion will overwrite.
func EmptyBox() Box3 {
	inf := math.Inf(1)
	return Box3{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// BoxFromPoints returns the smallest box enclosing pts.
func BoxFromPoints(pts ...mgl64.Vec3) Box3 {
	b := EmptyBox()
	for _, p := range pts {
		b = b.ExpandByPoint(p)
	}
	return b
}

// IsEmpty reports whether the box encloses nothing.
func (b Box3) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

func (b Box3) ExpandByPoint(p mgl64.Vec3) Box3 {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
	return b
}

// ExpandByScalar grows the box by s along every axis in both directions.
func (b Box3) ExpandByScalar(s float64) Box3 {
	if b.IsEmpty() {
		return b
	}
	for i := 0; i < 3; i++ {
		b.Min[i] -= s
		b.Max[i] += s
	}
	return b
}

func (b Box3) Union(o Box3) Box3 {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], o.Min[i])
		b.Max[i] = math.Max(b.Max[i], o.Max[i])
	}
	return b
}

// Intersects reports whether the two boxes overlap. Touching faces count as overlap.
func (b Box3) Intersects(o Box3) bool {
	return b.Min[0] <= o.Max[0] && b.Max[0] >= o.Min[0] &&
		b.Min[1] <= o.Max[1] && b.Max[1] >= o.Min[1] &&
		b.Min[2] <= o.Max[2] && b.Max[2] >= o.Min[2]
}

func (b Box3) ContainsPoint(p mgl64.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

func (b Box3) Size() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

func (b Box3) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// LongestAxis returns 0, 1 or 2 for X, Y or Z.
func (b Box3) LongestAxis() int {
	s := b.Size()
	axis := 0
	if s[1] > s[axis] {
		axis = 1
	}
	if s[2] > s[axis] {
		axis = 2
	}
	return axis
}

// Corners returns the eight corners of the box.
func (b Box3) Corners() [8]mgl64.Vec3 {
	return [8]mgl64.Vec3{
		{b.Min[0], b.Min[1], b.Min[2]},
		{b.Min[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Min[2]},
		{b.Min[0], b.Max[1], b.Max[2]},
		{b.Max[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Max[2]},
		{b.Max[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Max[2]},
	}
}

// Transform returns the axis-aligned box enclosing b after applying m.
func (b Box3) Transform(m mgl64.Mat4) Box3 {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox()
	for _, c := range b.Corners() {
		out = out.ExpandByPoint(TransformPoint(m, c))
	}
	return out
}

// IsFinite reports whether every coordinate of v is a real number.
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// TransformPoint applies the affine transform m to p.
func TransformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, m)
}
