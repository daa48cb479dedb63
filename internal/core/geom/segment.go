package geom

import (
	"github.com/go-gl/mathgl/mgl64"
)

// parallelEpsilon guards divisions by squared lengths close to zero.
const parallelEpsilon = 1e-12

// Segment is a finite line segment from Start to End.
type Segment struct {
	Start, End mgl64.Vec3
}

func (s Segment) Delta() mgl64.Vec3 { return s.End.Sub(s.Start) }

func (s Segment) Len() float64 { return s.Delta().Len() }

// At returns the point at parameter t, with t=0 at Start and t=1 at End.
func (s Segment) At(t float64) mgl64.Vec3 {
	return s.Start.Add(s.Delta().Mul(t))
}

func (s Segment) Translate(d mgl64.Vec3) Segment {
	return Segment{Start: s.Start.Add(d), End: s.End.Add(d)}
}

func (s Segment) Transform(m mgl64.Mat4) Segment {
	return Segment{Start: TransformPoint(m, s.Start), End: TransformPoint(m, s.End)}
}

func (s Segment) Bounds() Box3 {
	return BoxFromPoints(s.Start, s.End)
}

// ClosestPointToPoint returns the point on the segment nearest to p.
func (s Segment) ClosestPointToPoint(p mgl64.Vec3) mgl64.Vec3 {
	d := s.Delta()
	l2 := d.Dot(d)
	if l2 <= parallelEpsilon {
		return s.Start
	}
	t := clamp01(p.Sub(s.Start).Dot(d) / l2)
	return s.At(t)
}

// ClosestPointsSegmentSegment returns the pair of points, one on each segment, that
// are nearest to each other. Ericson, Real-Time Collision Detection, 5.1.9.
func ClosestPointsSegmentSegment(s1, s2 Segment) (c1, c2 mgl64.Vec3) {
	d1 := s1.Delta()
	d2 := s2.Delta()
	r := s1.Start.Sub(s2.Start)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a <= parallelEpsilon && e <= parallelEpsilon:
		return s1.Start, s2.Start
	case a <= parallelEpsilon:
		s = 0
		t = clamp01(f / e)
	default:
		c := d1.Dot(r)
		if e <= parallelEpsilon {
			t = 0
			s = clamp01(-c / a)
			break
		}
		b := d1.Dot(d2)
		denom := a*e - b*b
		if denom > parallelEpsilon {
			s = clamp01((b*f - c*e) / denom)
		}
		t = (b*s + f) / e
		if t < 0 {
			t = 0
			s = clamp01(-c / a)
		} else if t > 1 {
			t = 1
			s = clamp01((b - c) / a)
		}
	}

	return s1.At(s), s2.At(t)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lenSq(v mgl64.Vec3) float64 { return v.Dot(v) }
