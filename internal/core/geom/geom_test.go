package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestBoxExpandAndIntersect(t *testing.T) {
	b := EmptyBox()
	assert.True(t, b.IsEmpty())

	b = b.ExpandByPoint(mgl64.Vec3{1, 2, 3}).ExpandByPoint(mgl64.Vec3{-1, 0, 5})
	assert.False(t, b.IsEmpty())
	assert.Equal(t, mgl64.Vec3{-1, 0, 3}, b.Min)
	assert.Equal(t, mgl64.Vec3{1, 2, 5}, b.Max)

	grown := b.ExpandByScalar(0.5)
	assert.Equal(t, mgl64.Vec3{-1.5, -0.5, 2.5}, grown.Min)

	other := Box3{Min: mgl64.Vec3{1, 2, 5}, Max: mgl64.Vec3{4, 4, 6}}
	assert.True(t, b.Intersects(other), "touching boxes overlap")
	assert.False(t, b.Intersects(Box3{Min: mgl64.Vec3{1.1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}}))
	assert.Equal(t, 2, Box3{Max: mgl64.Vec3{1, 1, 3}}.LongestAxis())
}

func TestBoxTransform(t *testing.T) {
	b := Box3{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}
	moved := b.Transform(mgl64.Translate3D(2, 0, 0))
	assert.InDelta(t, 1, moved.Min[0], eps)
	assert.InDelta(t, 3, moved.Max[0], eps)
}

func TestClosestPointsSegmentSegment(t *testing.T) {
	tests := []struct {
		name   string
		s1, s2 Segment
		want1  mgl64.Vec3
		want2  mgl64.Vec3
	}{
		{
			name:  "crossing",
			s1:    Segment{mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0}},
			s2:    Segment{mgl64.Vec3{0, -1, 1}, mgl64.Vec3{0, 1, 1}},
			want1: mgl64.Vec3{0, 0, 0},
			want2: mgl64.Vec3{0, 0, 1},
		},
		{
			name:  "endpoint clamp",
			s1:    Segment{mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}},
			s2:    Segment{mgl64.Vec3{3, 1, 0}, mgl64.Vec3{3, 2, 0}},
			want1: mgl64.Vec3{1, 0, 0},
			want2: mgl64.Vec3{3, 1, 0},
		},
		{
			name:  "degenerate first",
			s1:    Segment{mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 2, 0}},
			s2:    Segment{mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0}},
			want1: mgl64.Vec3{0, 2, 0},
			want2: mgl64.Vec3{0, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c1, c2 := ClosestPointsSegmentSegment(tt.s1, tt.s2)
			assert.True(t, c1.ApproxEqualThreshold(tt.want1, eps), "c1 = %v", c1)
			assert.True(t, c2.ApproxEqualThreshold(tt.want2, eps), "c2 = %v", c2)
		})
	}
}

func TestTriangleClosestPointToPoint(t *testing.T) {
	tri := Triangle{mgl64.Vec3{0, 0, 0}, mgl64.Vec3{4, 0, 0}, mgl64.Vec3{0, 4, 0}}

	assert.True(t, tri.ClosestPointToPoint(mgl64.Vec3{1, 1, 3}).ApproxEqualThreshold(mgl64.Vec3{1, 1, 0}, eps))
	assert.True(t, tri.ClosestPointToPoint(mgl64.Vec3{-2, -2, 0}).ApproxEqualThreshold(mgl64.Vec3{0, 0, 0}, eps))
	assert.True(t, tri.ClosestPointToPoint(mgl64.Vec3{2, -3, 1}).ApproxEqualThreshold(mgl64.Vec3{2, 0, 0}, eps))
	assert.True(t, tri.ClosestPointToPoint(mgl64.Vec3{3, 3, 0}).ApproxEqualThreshold(mgl64.Vec3{2, 2, 0}, eps))
}

func TestTriangleClosestPointToSegment(t *testing.T) {
	tri := Triangle{mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{5, 0, 0}, mgl64.Vec3{0, 5, 0}}

	t.Run("parallel segment in front", func(t *testing.T) {
		seg := Segment{mgl64.Vec3{0, 0.8, 0.5}, mgl64.Vec3{0, 2, 0.5}}
		d, triPt, segPt := tri.ClosestPointToSegment(seg)
		assert.InDelta(t, 0.5, d, eps)
		assert.InDelta(t, 0, triPt[2], eps)
		assert.InDelta(t, 0.5, segPt[2], eps)
	})

	t.Run("piercing segment", func(t *testing.T) {
		seg := Segment{mgl64.Vec3{0, 1, -1}, mgl64.Vec3{0, 1, 1}}
		d, triPt, segPt := tri.ClosestPointToSegment(seg)
		assert.Zero(t, d)
		assert.Equal(t, triPt, segPt)
		assert.True(t, triPt.ApproxEqualThreshold(mgl64.Vec3{0, 1, 0}, eps))
	})

	t.Run("beyond an edge", func(t *testing.T) {
		seg := Segment{mgl64.Vec3{0, -2, -1}, mgl64.Vec3{0, -2, 1}}
		d, triPt, _ := tri.ClosestPointToSegment(seg)
		assert.InDelta(t, 2, d, eps)
		assert.InDelta(t, 0, triPt[1], eps)
	})
}

func TestTriangleDegenerate(t *testing.T) {
	line := Triangle{mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2, 0, 0}}
	assert.True(t, line.IsDegenerate())
	_, ok := line.Normal()
	assert.False(t, ok)

	nan := Triangle{mgl64.Vec3{math.NaN(), 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}}
	assert.True(t, nan.IsDegenerate())
}

func TestPrimitives(t *testing.T) {
	pos, idx := BoxGeometry(10, 3, 0.2)
	tris, ok := Triangles(pos, idx)
	require.True(t, ok)
	require.Len(t, tris, 12)

	bounds := EmptyBox()
	for _, tri := range tris {
		assert.False(t, tri.IsDegenerate())
		bounds = bounds.Union(tri.Bounds())
	}
	assert.InDelta(t, -5, bounds.Min[0], eps)
	assert.InDelta(t, 1.5, bounds.Max[1], eps)

	pos, idx = CylinderGeometry(1, 2, 16)
	tris, ok = Triangles(pos, idx)
	require.True(t, ok)
	assert.Len(t, tris, 16*4)

	_, ok = Triangles(pos, []uint32{0, 1, 999})
	assert.False(t, ok)

	tris, ok = Triangles(pos[:7], nil)
	require.True(t, ok)
	assert.Len(t, tris, 2)
}
