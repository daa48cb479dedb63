package scene

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/kartsim/internal/core/collision"
)

// DefaultKeywords name the meshes that become collider geometry.
var DefaultKeywords = []string{"wall", "barrier", "fence", "border", "collision"}

// meshSnapshot freezes a node's geometry and world transform so builds can run
// without holding the scene lock.
type meshSnapshot struct {
	name      string
	world     mgl64.Mat4
	positions []mgl64.Vec3
	indices   []uint32
}

func (m meshSnapshot) Name() string            { return m.name }
func (m meshSnapshot) WorldMatrix() mgl64.Mat4 { return m.world }
func (m meshSnapshot) Positions() []mgl64.Vec3 { return m.positions }
func (m meshSnapshot) Indices() []uint32       { return m.indices }

// Discover walks the whole scene and returns every mesh node whose name contains
// one of keywords, case-insensitively, in traversal order. Nil keywords means
// DefaultKeywords.
func Discover(s *Scene, keywords []string) []collision.MeshSource {
	if keywords == nil {
		keywords = DefaultKeywords
	}
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k != "" {
			lowered = append(lowered, strings.ToLower(k))
		}
	}

	var out []collision.MeshSource
	s.Traverse(func(n *Node) {
		if n.Mesh == nil || len(n.Mesh.Positions) == 0 {
			return
		}
		name := strings.ToLower(n.Name)
		for _, k := range lowered {
			if strings.Contains(name, k) {
				out = append(out, meshSnapshot{
					name:      n.Name,
					world:     n.World(),
					positions: n.Mesh.Positions,
					indices:   n.Mesh.Indices,
				})
				return
			}
		}
	})
	return out
}

// NewWallCollider returns an invisible box node that only exists to block karts.
func NewWallCollider(width, height, depth float64, local mgl64.Mat4) *Node {
	n := NewNode("collision_wall", local, NewBoxMesh(width, height, depth))
	n.Visible = false
	return n
}

// NewPillarCollider returns an invisible 16-sided cylinder node that blocks karts.
func NewPillarCollider(radius, height float64, local mgl64.Mat4) *Node {
	n := NewNode("collision_pillar", local, NewCylinderMesh(radius, height, 16))
	n.Visible = false
	return n
}
