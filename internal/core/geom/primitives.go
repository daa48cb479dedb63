package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoxGeometry returns an indexed box of the given size centred on the origin.
// Faces wind counter-clockwise when seen from outside.
func BoxGeometry(width, height, depth float64) (positions []mgl64.Vec3, indices []uint32) {
	x, y, z := width/2, height/2, depth/2
	positions = []mgl64.Vec3{
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z},
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z},
	}
	indices = []uint32{
		4, 5, 6, 4, 6, 7, // +Z
		1, 0, 3, 1, 3, 2, // -Z
		5, 1, 2, 5, 2, 6, // +X
		0, 4, 7, 0, 7, 3, // -X
		7, 6, 2, 7, 2, 3, // +Y
		0, 1, 5, 0, 5, 4, // -Y
	}
	return positions, indices
}

// CylinderGeometry returns an indexed, capped cylinder around the Y axis centred on
// the origin. segments below 3 are raised to 3.
func CylinderGeometry(radius, height float64, segments int) (positions []mgl64.Vec3, indices []uint32) {
	if segments < 3 {
		segments = 3
	}
	h := height / 2
	positions = make([]mgl64.Vec3, 0, 2*segments+2)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		sx, sz := math.Sin(a)*radius, math.Cos(a)*radius
		positions = append(positions, mgl64.Vec3{sx, -h, sz}, mgl64.Vec3{sx, h, sz})
	}
	bottom := uint32(len(positions))
	top := bottom + 1
	positions = append(positions, mgl64.Vec3{0, -h, 0}, mgl64.Vec3{0, h, 0})

	indices = make([]uint32, 0, segments*12)
	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		b0, t0 := uint32(2*i), uint32(2*i+1)
		b1, t1 := uint32(2*j), uint32(2*j+1)
		indices = append(indices,
			b0, b1, t1, b0, t1, t0,
			bottom, b1, b0,
			top, t0, t1,
		)
	}
	return positions, indices
}

// PlaneGeometry returns a horizontal quad of the given size at y=0.
func PlaneGeometry(width, depth float64) (positions []mgl64.Vec3, indices []uint32) {
	x, z := width/2, depth/2
	positions = []mgl64.Vec3{{-x, 0, -z}, {x, 0, -z}, {x, 0, z}, {-x, 0, z}}
	indices = []uint32{0, 3, 2, 0, 2, 1}
	return positions, indices
}

// Triangles expands indexed or non-indexed positions into triangles. A nil index
// slice treats every three consecutive positions as one triangle. ok is false if an
// index is out of range.
func Triangles(positions []mgl64.Vec3, indices []uint32) (tris []Triangle, ok bool) {
	if len(indices) == 0 {
		tris = make([]Triangle, 0, len(positions)/3)
		for i := 0; i+2 < len(positions); i += 3 {
			tris = append(tris, Triangle{positions[i], positions[i+1], positions[i+2]})
		}
		return tris, true
	}

	tris = make([]Triangle, 0, len(indices)/3)
	n := uint32(len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a >= n || b >= n || c >= n {
			return nil, false
		}
		tris = append(tris, Triangle{positions[a], positions[b], positions[c]})
	}
	return tris, true
}
