package kart

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/kartsim/internal/core/collision"
	"github.com/zeusync/kartsim/internal/core/events/bus"
	"github.com/zeusync/kartsim/internal/core/geom"
	"github.com/zeusync/kartsim/internal/core/observability/log"
	"github.com/zeusync/kartsim/internal/core/system"
)

const dt = 1.0 / 60

type wallSource struct {
	world     mgl64.Mat4
	positions []mgl64.Vec3
	indices   []uint32
}

func (w wallSource) Name() string            { return "wall" }
func (w wallSource) WorldMatrix() mgl64.Mat4 { return w.world }
func (w wallSource) Positions() []mgl64.Vec3 { return w.positions }
func (w wallSource) Indices() []uint32       { return w.indices }

// wallAhead blocks the -Z direction: X [-5,5], Y [0,3], Z [-10.2,-10].
func wallAhead(t *testing.T) *collision.Resolver {
	t.Helper()
	pos, idx := geom.BoxGeometry(10, 3, 0.2)
	c, err := collision.Build([]collision.MeshSource{wallSource{
		world:     mgl64.Translate3D(0, 1.5, -10.1),
		positions: pos,
		indices:   idx,
	}}, collision.BuildOptions{})
	require.NoError(t, err)

	h := collision.NewHandle()
	require.True(t, h.Set(c))
	r, err := collision.NewResolver(h, collision.DefaultCapsule(), log.NewNop())
	require.NoError(t, err)
	return r
}

type recorder struct {
	impacts []ImpactEvent
	levels  []DriftLevelEvent
	boosts  []BoostEvent
}

func record(t *testing.T) (bus.EventBus, *recorder) {
	t.Helper()
	b := bus.New()
	rec := &recorder{}
	_, err := b.Subscribe(EventPlayerImpact, func(ev bus.Event) error {
		rec.impacts = append(rec.impacts, ev.Data().(ImpactEvent))
		return nil
	})
	require.NoError(t, err)
	_, err = b.Subscribe(EventDriftLevel, func(ev bus.Event) error {
		rec.levels = append(rec.levels, ev.Data().(DriftLevelEvent))
		return nil
	})
	require.NoError(t, err)
	_, err = b.Subscribe(EventBoost, func(ev bus.Event) error {
		rec.boosts = append(rec.boosts, ev.Data().(BoostEvent))
		return nil
	})
	require.NoError(t, err)
	return b, rec
}

func newController(t *testing.T, r *collision.Resolver, b bus.EventBus) *Controller {
	t.Helper()
	c, err := NewController(DefaultSettings(), nil, r, b, log.NewNop())
	require.NoError(t, err)
	return c
}

func ticks(c *Controller, seconds float64, in Input) State {
	var st State
	for i := 0; i < int(seconds/dt+0.5); i++ {
		st = c.Tick(dt, in)
	}
	return st
}

func TestDriftLevels(t *testing.T) {
	levels := NewDriftLevels([]DriftLevel{
		{Name: "blue", Threshold: 1, Level: 1},
		{Name: "purple", Threshold: 6, Level: 3},
		{Name: "yellow", Threshold: 3, Level: 2},
	})
	assert.Equal(t, "none", levels.For(0.5).Name)
	assert.Equal(t, "blue", levels.For(1).Name)
	assert.Equal(t, "yellow", levels.For(5.9).Name)
	assert.Equal(t, "purple", levels.For(60).Name)

	assert.Equal(t, 3.0, levels.For(6).BoostPower())
	assert.Zero(t, NoDrift.BoostPower())

	def := NewDriftLevels(DefaultDriftLevels())
	assert.Equal(t, 25, def.For(7).Particles)
	assert.Equal(t, 15, def.For(1.5).Particles)
}

func TestSettingsValidate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())

	bad := DefaultSettings()
	bad.SpeedMax = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSettings)

	bad = DefaultSettings()
	bad.TurnDamping = 0
	_, err := NewController(bad, nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestDriveWithoutCollider(t *testing.T) {
	c := newController(t, nil, nil)
	st := ticks(c, 1, Input{Forward: true})

	assert.InDelta(t, 30*(1-0.22313016), st.Speed, 0.05)
	assert.Less(t, st.Position[2], -8.0)
	assert.InDelta(t, 0, st.Position[0], 1e-9)
	assert.False(t, st.Colliding)
	assert.False(t, st.Boosting)

	assert.Greater(t, st.Camera.Position[2], st.Position[2], "camera trails behind")
	assert.InDelta(t, 1, st.Camera.Position[1], 0.1)
}

func TestSteering(t *testing.T) {
	c := newController(t, nil, nil)
	ticks(c, 1, Input{Forward: true})
	st := ticks(c, 1, Input{Forward: true, Left: true})
	assert.Greater(t, st.Heading, 0.0)
	assert.Less(t, st.Position[0], 0.0, "turning left from -Z heads towards -X")

	c = newController(t, nil, nil)
	ticks(c, 1, Input{Forward: true})
	st = ticks(c, 1, Input{Forward: true, JoystickX: 1})
	assert.Less(t, st.Heading, 0.0)
}

func TestWallImpactStunsOnce(t *testing.T) {
	b, rec := record(t)
	c := newController(t, wallAhead(t), b)
	c.state.Turbo = 5

	var hit State
	frames := 0
	for ; frames < 120 && len(rec.impacts) == 0; frames++ {
		hit = c.Tick(dt, Input{Forward: true})
	}
	require.Len(t, rec.impacts, 1, "kart reaches the wall within two seconds")
	assert.True(t, hit.Stunned())
	assert.Equal(t, -15.0, hit.Speed)
	assert.Zero(t, hit.Turbo, "turbo is cancelled by the hit")
	assert.GreaterOrEqual(t, hit.Position[2], -9.2-1e-6, "capsule stays in front of the wall")
	assert.InDelta(t, hit.Position[2], rec.impacts[0].Position[2], 1e-12)

	// Still stunned for the next 1.4 s: no acceleration, no second impact.
	for i := 0; i < 84; i++ {
		st := c.Tick(dt, Input{Forward: true})
		require.True(t, st.Stunned())
		require.LessOrEqual(t, st.Speed, 0.0)
		require.False(t, st.Boosting)
	}
	assert.Len(t, rec.impacts, 1)

	for i := 0; i < 600; i++ {
		st := c.Tick(dt, Input{Forward: true})
		require.GreaterOrEqual(t, st.Position[2], -9.2-1e-6)
	}
	assert.Greater(t, len(rec.impacts), 1, "driving on hits the wall again after recovering")
}

func TestJumpHop(t *testing.T) {
	c := newController(t, nil, nil)
	st := c.Tick(dt, Input{Jump: true})
	assert.True(t, st.Jumping)

	peak := 0.0
	for i := 0; i < 20; i++ {
		st = c.Tick(dt, Input{Jump: true})
		if st.JumpOffset > peak {
			peak = st.JumpOffset
		}
	}
	assert.InDelta(t, 0.3, peak, 0.01)
	assert.False(t, st.Jumping)
	assert.Zero(t, st.JumpOffset)

	st = c.Tick(dt, Input{Jump: true})
	assert.False(t, st.Jumping, "holding jump does not hop again")
}

func TestDriftNeedsSpeed(t *testing.T) {
	c := newController(t, nil, nil)
	c.Tick(dt, Input{Jump: true, Left: true})
	st := ticks(c, 1, Input{Jump: true, Left: true})
	assert.Zero(t, st.DriftDirection)
	assert.Zero(t, st.DriftPower)
}

func TestDriftBoost(t *testing.T) {
	b, rec := record(t)
	c := newController(t, nil, b)
	ticks(c, 2, Input{Forward: true})

	st := c.Tick(dt, Input{Forward: true, Jump: true, Left: true})
	assert.Equal(t, 1.4, st.DriftDirection)
	assert.False(t, st.Drifting, "not drifting while airborne")

	st = ticks(c, 3.5, Input{Forward: true, Jump: true, Left: true})
	assert.True(t, st.Drifting)
	assert.Equal(t, "yellow", st.DriftLevel.Name)
	require.Len(t, rec.levels, 2)
	assert.Equal(t, "blue", rec.levels[0].Level.Name)
	assert.Equal(t, "none", rec.levels[0].Previous.Name)
	assert.Equal(t, "yellow", rec.levels[1].Level.Name)

	st = c.Tick(dt, Input{Forward: true})
	assert.InDelta(t, 1.5, st.Turbo, 1e-9)
	assert.Zero(t, st.DriftDirection)
	assert.Equal(t, "none", st.DriftLevel.Name)
	require.Len(t, rec.boosts, 1)
	assert.Equal(t, 1.5, rec.boosts[0].Power)
	assert.Len(t, rec.levels, 3)

	before := st.Speed
	st = ticks(c, 1, Input{Forward: true})
	assert.True(t, st.Boosting)
	assert.Greater(t, st.Speed, before, "boost raises the top speed")
	assert.Greater(t, st.Speed, 30.0)
}

func TestDriver(t *testing.T) {
	c := newController(t, nil, nil)
	d := NewDriver("player", c, func() Input { return Input{Forward: true} })

	l := system.NewLoop(0, 0, nil)
	require.NoError(t, l.Register(d))
	require.NoError(t, l.RunFrames(60, dt))
	assert.Less(t, d.Controller().State().Position[2], -8.0)
}
