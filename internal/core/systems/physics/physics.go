// Package physics holds the frame-rate independent smoothing helpers used by the
// kart controller and camera.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Damp moves current towards target with exponential decay rate lambda over dt
// seconds. Results are independent of how dt is split across frames.
func Damp(current, target, lambda, dt float64) float64 {
	return Lerp(current, target, 1-math.Exp(-lambda*dt))
}

// DampVec3 is Damp applied per component.
func DampVec3(current, target mgl64.Vec3, lambda, dt float64) mgl64.Vec3 {
	return LerpVec3(current, target, 1-math.Exp(-lambda*dt))
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec3 interpolates linearly; t is not clamped.
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Forward returns the horizontal unit direction a kart with the given heading
// faces. Heading 0 faces -Z.
func Forward(heading float64) mgl64.Vec3 {
	return mgl64.Vec3{-math.Sin(heading), 0, -math.Cos(heading)}
}

// RotateY rotates v around the Y axis by angle radians.
func RotateY(v mgl64.Vec3, angle float64) mgl64.Vec3 {
	return mgl64.Rotate3DY(angle).Mul3x1(v)
}
