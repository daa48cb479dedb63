package collision

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/kartsim/internal/core/geom"
)

// reflectFactor over-corrects slightly so a deflected body separates from the face.
const reflectFactor = 1.1

// DeflectResult is the outcome of Deflect.
type DeflectResult struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Collided bool
}

// Deflect is a cheap alternative to Resolve for small props such as thrown items.
// Every triangle whose bounds touch the radius cube around position+velocity and
// whose centre lies within 2*radius of it removes the velocity component along its
// face normal (reflecting it by reflectFactor), and the body then moves by the
// adjusted velocity. A nil collider moves the body freely.
func Deflect(position, velocity mgl64.Vec3, c *Collider, radius float64) DeflectResult {
	res := DeflectResult{Position: position.Add(velocity), Velocity: velocity}
	if c == nil || c.index == nil || !(radius > 0) {
		return res
	}

	local := geom.TransformPoint(c.inverse, position.Add(velocity))
	box := geom.BoxFromPoints(local).ExpandByScalar(radius)
	normalMat := c.world.Mat3()

	c.index.Query(box, func(_ int, tri geom.Triangle) bool {
		if tri.Centroid().Sub(local).Len() >= 2*radius {
			return false
		}
		n, ok := tri.Normal()
		if !ok {
			return false
		}
		wn := normalMat.Mul3x1(n)
		if l := wn.Len(); l > 1e-12 {
			wn = wn.Mul(1 / l)
		} else {
			return false
		}
		res.Velocity = res.Velocity.Add(wn.Mul(-res.Velocity.Dot(wn) * reflectFactor))
		res.Collided = true
		return false
	})

	res.Position = position.Add(res.Velocity)
	return res
}
