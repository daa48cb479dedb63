package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/kartsim/internal/core/scene"
)

// DemoTrack builds a small walled arena: a 60x100 ground plane enclosed by four
// border walls, a chicane of barriers and two pillars. Props without collider
// keywords in their names are decoration.
func DemoTrack() *scene.Scene {
	s := scene.New()
	s.Add(scene.NewNode("Ground", mgl64.Ident4(), scene.NewPlaneMesh(60, 100)))

	borders := scene.NewGroup("borders", mgl64.Ident4())
	s.Add(borders)
	for _, b := range []struct {
		name string
		w, d float64
		at   mgl64.Vec3
	}{
		{"Border_North", 60, 1, mgl64.Vec3{0, 1, -50}},
		{"Border_South", 60, 1, mgl64.Vec3{0, 1, 50}},
		{"Border_East", 1, 100, mgl64.Vec3{30, 1, 0}},
		{"Border_West", 1, 100, mgl64.Vec3{-30, 1, 0}},
	} {
		s.AddTo(borders, scene.NewNode(b.name, mgl64.Translate3D(b.at[0], b.at[1], b.at[2]), scene.NewBoxMesh(b.w, 2, b.d)))
	}

	chicane := scene.NewGroup("chicane", mgl64.Translate3D(0, 0, -20))
	s.Add(chicane)
	for i, x := range []float64{-8, 8} {
		rot := mgl64.HomogRotate3DY(math.Pi / 8 * float64(1-2*i))
		s.AddTo(chicane, scene.NewNode("barrier", mgl64.Translate3D(x, 0.75, float64(i)*-6).Mul4(rot), scene.NewBoxMesh(12, 1.5, 0.4)))
	}

	s.Add(
		scene.NewPillarCollider(1.2, 4, mgl64.Translate3D(-12, 2, 10)),
		scene.NewPillarCollider(1.2, 4, mgl64.Translate3D(12, 2, 10)),
		scene.NewWallCollider(6, 2, 0.5, mgl64.Translate3D(0, 1, -35)),
		scene.NewNode("tree", mgl64.Translate3D(20, 2, 30), scene.NewCylinderMesh(0.4, 4, 6)),
	)
	return s
}
