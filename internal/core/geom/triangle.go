package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// areaEpsilon is the smallest doubled area a triangle may have before it is
// treated as degenerate.
const areaEpsilon = 1e-12

// Triangle is three points in space. Winding is preserved but not relied upon.
type Triangle struct {
	A, B, C mgl64.Vec3
}

func (t Triangle) Points() [3]mgl64.Vec3 { return [3]mgl64.Vec3{t.A, t.B, t.C} }

func (t Triangle) Bounds() Box3 { return BoxFromPoints(t.A, t.B, t.C) }

func (t Triangle) Centroid() mgl64.Vec3 {
	return t.A.Add(t.B).Add(t.C).Mul(1.0 / 3.0)
}

func (t Triangle) Area() float64 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).Len() * 0.5
}

// IsDegenerate reports whether the triangle has no usable area or non-finite corners.
func (t Triangle) IsDegenerate() bool {
	if !IsFinite(t.A) || !IsFinite(t.B) || !IsFinite(t.C) {
		return true
	}
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).Len() <= areaEpsilon
}

// Normal returns the unit normal following A→B→C winding. ok is false for
// degenerate triangles.
func (t Triangle) Normal() (n mgl64.Vec3, ok bool) {
	c := t.B.Sub(t.A).Cross(t.C.Sub(t.A))
	l := c.Len()
	if l <= areaEpsilon {
		return mgl64.Vec3{}, false
	}
	return c.Mul(1 / l), true
}

func (t Triangle) Transform(m mgl64.Mat4) Triangle {
	return Triangle{A: TransformPoint(m, t.A), B: TransformPoint(m, t.B), C: TransformPoint(m, t.C)}
}

func (t Triangle) edges() [3]Segment {
	return [3]Segment{{t.A, t.B}, {t.B, t.C}, {t.C, t.A}}
}

// ClosestPointToPoint returns the point on the triangle nearest to p.
// Ericson, Real-Time Collision Detection, 5.1.5.
func (t Triangle) ClosestPointToPoint(p mgl64.Vec3) mgl64.Vec3 {
	a, b, c := t.A, t.B, t.C
	ab := b.Sub(a)
	ac := c.Sub(a)

	ap := p.Sub(a)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		return a.Add(ab.Mul(d1 / (d1 - d3)))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		return a.Add(ac.Mul(d2 / (d2 - d6)))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}

// IntersectSegment returns the point where s pierces the triangle, if it does.
// Segments lying in the triangle's plane never report a hit.
func (t Triangle) IntersectSegment(s Segment) (mgl64.Vec3, bool) {
	n, ok := t.Normal()
	if !ok {
		return mgl64.Vec3{}, false
	}
	d0 := n.Dot(s.Start.Sub(t.A))
	d1 := n.Dot(s.End.Sub(t.A))
	if (d0 > 0 && d1 > 0) || (d0 < 0 && d1 < 0) || d0 == d1 {
		return mgl64.Vec3{}, false
	}
	hit := s.At(d0 / (d0 - d1))
	if !t.containsCoplanar(hit, n) {
		return mgl64.Vec3{}, false
	}
	return hit, true
}

// containsCoplanar reports whether p, assumed to lie in the triangle's plane, is
// inside the triangle.
func (t Triangle) containsCoplanar(p, n mgl64.Vec3) bool {
	for _, e := range t.edges() {
		if e.Delta().Cross(p.Sub(e.Start)).Dot(n) < -areaEpsilon {
			return false
		}
	}
	return true
}

// ClosestPointToSegment returns the distance between the triangle and s together with
// the nearest point on the triangle and the nearest point on the segment. When the
// segment pierces the triangle both points coincide and the distance is zero.
func (t Triangle) ClosestPointToSegment(s Segment) (dist float64, triPoint, segPoint mgl64.Vec3) {
	if hit, ok := t.IntersectSegment(s); ok {
		return 0, hit, hit
	}

	best := math.Inf(1)
	for _, e := range t.edges() {
		onEdge, onSeg := ClosestPointsSegmentSegment(e, s)
		if d := lenSq(onEdge.Sub(onSeg)); d < best {
			best, triPoint, segPoint = d, onEdge, onSeg
		}
	}

	for _, p := range [2]mgl64.Vec3{s.Start, s.End} {
		q := t.ClosestPointToPoint(p)
		if d := lenSq(q.Sub(p)); d < best {
			best, triPoint, segPoint = d, q, p
		}
	}

	return math.Sqrt(best), triPoint, segPoint
}
