package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestDampIsFrameRateIndependent(t *testing.T) {
	one := Damp(0, 10, 1.5, 1)

	split := 0.0
	for i := 0; i < 60; i++ {
		split = Damp(split, 10, 1.5, 1.0/60)
	}
	assert.InDelta(t, one, split, 1e-9)
	assert.InDelta(t, 10*(1-math.Exp(-1.5)), one, 1e-12)

	assert.Equal(t, 3.0, Damp(3, 10, 4, 0))
	assert.InDelta(t, 10, Damp(3, 10, 4, 100), 1e-9)
}

func TestDampVec3(t *testing.T) {
	got := DampVec3(mgl64.Vec3{}, mgl64.Vec3{2, 4, 8}, 2, 0.5)
	k := 1 - math.Exp(-1)
	assert.True(t, got.ApproxEqual(mgl64.Vec3{2 * k, 4 * k, 8 * k}))
}

func TestLerpAndClamp(t *testing.T) {
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, LerpVec3(mgl64.Vec3{}, mgl64.Vec3{2, 4, 6}, 0.5))
	assert.Equal(t, 1.0, Clamp(3, -1, 1))
	assert.Equal(t, -1.0, Clamp(-3, -1, 1))
	assert.Equal(t, 0.5, Clamp(0.5, -1, 1))
}

func TestForwardAndRotate(t *testing.T) {
	assert.True(t, Forward(0).ApproxEqual(mgl64.Vec3{0, 0, -1}))
	assert.True(t, Forward(math.Pi/2).ApproxEqual(mgl64.Vec3{-1, 0, 0}))

	// Rotating the camera offset with the heading keeps it behind the kart.
	offset := RotateY(mgl64.Vec3{0, 1, 5}, math.Pi/2)
	assert.True(t, offset.ApproxEqualThreshold(mgl64.Vec3{5, 1, 0}, 1e-12))
	assert.Negative(t, Forward(math.Pi/2).Dot(offset))
}
