package collision

import (
	"math"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/kartsim/internal/core/geom"
	"github.com/zeusync/kartsim/internal/core/observability/log"
)

// Result is the outcome of one capsule query. Only X and Z of Position differ from
// the desired position; Y is always passed through.
type Result struct {
	Position mgl64.Vec3
	Collided bool
}

// Resolve moves a capsule standing at desired out of the collider's triangles and
// returns the corrected position.
//
// The capsule is the segment from (0, Radius, 0) to (0, Height, 0) above desired,
// swept by Radius. Every triangle whose bounds touch the segment's box grown by
// Radius is tested once, in index traversal order. A triangle closer than Radius
// pushes both segment ends away from its closest point by the penetration depth
// times PushOutMultiplier, and later triangles see the already-moved segment. The
// pass is not repeated until convergence, so with several contacts the result
// depends on traversal order and dense geometry may leave residual penetration.
//
// With TunnelGuard set, a triangle whose plane the step from current to desired
// crosses within Radius of the triangle pushes back towards the side current was
// on instead of along the closest-point direction. Without it current is unused.
//
// A nil collider yields desired unchanged. Pushes with no usable direction are
// skipped.
func Resolve(current, desired mgl64.Vec3, c *Collider, p CapsuleParams) Result {
	res, _ := resolve(current, desired, c, p)
	return res
}

func resolve(current, desired mgl64.Vec3, c *Collider, p CapsuleParams) (Result, int) {
	pass := Result{Position: desired}
	if c == nil || c.index == nil || !geom.IsFinite(desired) {
		return pass, 0
	}

	local := capsuleSegment(desired, p).Transform(c.inverse)
	from := geom.TransformPoint(c.inverse, capsuleSegment(current, p).Start)
	guard := p.TunnelGuard && geom.IsFinite(from)

	box := local.Bounds().ExpandByScalar(p.Radius)
	seg := local
	collided := false
	tested := 0

	c.index.Query(box, func(_ int, tri geom.Triangle) bool {
		tested++
		dist, triPt, capPt := tri.ClosestPointToSegment(seg)
		if !(dist < p.Radius) {
			return false
		}

		dir, depth, ok := pushOut(tri, seg, from, triPt, capPt, dist, p.Radius, guard)
		if !ok {
			return false
		}
		shift := dir.Mul(depth * p.PushOutMultiplier)
		if !geom.IsFinite(shift) {
			return false
		}
		seg = seg.Translate(shift)
		collided = true
		return false
	})

	if !collided {
		return pass, tested
	}
	out := geom.TransformPoint(c.world, seg.Start)
	if !geom.IsFinite(out) {
		return pass, tested
	}
	return Result{Position: mgl64.Vec3{out[0], desired[1], out[2]}, Collided: true}, tested
}

// pushOut picks the separation direction and depth for one penetrating triangle.
func pushOut(tri geom.Triangle, seg geom.Segment, from, triPt, capPt mgl64.Vec3, dist, radius float64, guard bool) (mgl64.Vec3, float64, bool) {
	if guard {
		if n, ok := crossed(tri, from, seg.Start, radius); ok {
			return n, radius + math.Abs(n.Dot(capPt.Sub(tri.A))), true
		}
	}
	d := capPt.Sub(triPt)
	l := d.Len()
	if l <= 1e-12 || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}, 0, false
	}
	return d.Mul(1 / l), radius - dist, true
}

// crossed reports whether moving from a to b passes through tri's plane within
// radius of the triangle. The returned normal points to a's side.
func crossed(tri geom.Triangle, a, b mgl64.Vec3, radius float64) (mgl64.Vec3, bool) {
	n, ok := tri.Normal()
	if !ok {
		return mgl64.Vec3{}, false
	}
	da := n.Dot(a.Sub(tri.A))
	db := n.Dot(b.Sub(tri.A))
	if da == 0 || da*db > 0 {
		return mgl64.Vec3{}, false
	}
	hit := a.Add(b.Sub(a).Mul(da / (da - db)))
	if q := tri.ClosestPointToPoint(hit); q.Sub(hit).Len() >= radius {
		return mgl64.Vec3{}, false
	}
	if da < 0 {
		n = n.Mul(-1)
	}
	return n, true
}

func capsuleSegment(at mgl64.Vec3, p CapsuleParams) geom.Segment {
	return geom.Segment{
		Start: at.Add(mgl64.Vec3{0, p.Radius, 0}),
		End:   at.Add(mgl64.Vec3{0, p.Height, 0}),
	}
}

// Stats count work done by a Resolver since it was created.
type Stats struct {
	Queries          uint64
	Collisions       uint64
	CandidatesTested uint64
}

// Resolver resolves capsule moves against whatever collider the handle currently
// publishes. It is safe for concurrent use.
type Resolver struct {
	handle *Handle
	params CapsuleParams
	logger log.Log

	queries    atomic.Uint64
	collisions atomic.Uint64
	candidates atomic.Uint64
	seen       atomic.Uint64
}

func NewResolver(handle *Handle, params CapsuleParams, logger log.Log) (*Resolver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if handle == nil {
		handle = NewHandle()
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Resolver{
		handle: handle,
		params: params,
		logger: logger.With(log.String("component", "collision_resolver")),
	}, nil
}

func (r *Resolver) Handle() *Handle { return r.handle }

func (r *Resolver) Params() CapsuleParams { return r.params }

// Resolve runs Resolve with the handle's current collider.
func (r *Resolver) Resolve(current, desired mgl64.Vec3) Result {
	c := r.handle.Load()
	if v := r.handle.Version(); r.seen.Swap(v) != v {
		if c == nil {
			r.logger.Debug("collider unavailable, moving unconstrained")
		} else {
			r.logger.Debug("resolving against collider",
				log.Stringer("collider", c.ID()),
				log.Int("triangles", len(c.Triangles())),
			)
		}
	}

	res, tested := resolve(current, desired, c, r.params)
	r.queries.Add(1)
	r.candidates.Add(uint64(tested))
	if res.Collided {
		r.collisions.Add(1)
	}
	return res
}

func (r *Resolver) Stats() Stats {
	return Stats{
		Queries:          r.queries.Load(),
		Collisions:       r.collisions.Load(),
		CandidatesTested: r.candidates.Load(),
	}
}
