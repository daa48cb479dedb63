package collision

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/zeusync/kartsim/internal/core/geom"
)

// Collider is static level geometry prepared for capsule queries. Triangles and the
// index never change after Build; only the world transform may be replaced through
// WithWorld, which returns a new Collider sharing the same geometry.
type Collider struct {
	id          uuid.UUID
	triangles   []geom.Triangle
	index       Index
	world       mgl64.Mat4
	inverse     mgl64.Mat4
	fingerprint uint64
	meshCount   int
	dropped     int
}

func newCollider(triangles []geom.Triangle, index Index, meshCount, dropped int) *Collider {
	return &Collider{
		id:          uuid.New(),
		triangles:   triangles,
		index:       index,
		world:       mgl64.Ident4(),
		inverse:     mgl64.Ident4(),
		fingerprint: fingerprint(triangles),
		meshCount:   meshCount,
		dropped:     dropped,
	}
}

// ID identifies this collider instance. Two builds of the same geometry get
// different IDs but equal fingerprints.
func (c *Collider) ID() uuid.UUID { return c.id }

// Triangles returns the collider-local triangle soup. Callers must not modify it.
func (c *Collider) Triangles() []geom.Triangle { return c.triangles }

func (c *Collider) Index() Index { return c.index }

// World maps collider-local space to world space.
func (c *Collider) World() mgl64.Mat4 { return c.world }

// Inverse is the cached inverse of World.
func (c *Collider) Inverse() mgl64.Mat4 { return c.inverse }

// Fingerprint hashes the triangle soup. Equal inputs give equal fingerprints.
func (c *Collider) Fingerprint() uint64 { return c.fingerprint }

// MeshCount is the number of source meshes merged into the collider.
func (c *Collider) MeshCount() int { return c.meshCount }

// Dropped is the number of degenerate source triangles left out of the soup.
func (c *Collider) Dropped() int { return c.dropped }

// Bounds returns the world-space bounds of the collider.
func (c *Collider) Bounds() geom.Box3 {
	if c.index == nil {
		return geom.EmptyBox()
	}
	return c.index.Bounds().Transform(c.world)
}

// WithWorld returns a collider sharing this one's geometry under a new world
// transform, for colliders whose parent node moves. ok is false if world is not
// invertible.
func (c *Collider) WithWorld(world mgl64.Mat4) (*Collider, bool) {
	if math.Abs(world.Det()) < 1e-12 {
		return nil, false
	}
	cp := *c
	cp.world = world
	cp.inverse = world.Inv()
	return &cp, true
}

func fingerprint(triangles []geom.Triangle) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, tri := range triangles {
		for _, p := range tri.Points() {
			for _, v := range p {
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
				_, _ = d.Write(buf[:])
			}
		}
	}
	return d.Sum64()
}
