// Package kart implements the player kart's per-frame locomotion: speed and turbo,
// steering, drift scoring, camera follow, and the wall response driven by the
// capsule resolver.
package kart

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/kartsim/internal/core/collision"
	"github.com/zeusync/kartsim/internal/core/events/bus"
	"github.com/zeusync/kartsim/internal/core/observability/log"
	"github.com/zeusync/kartsim/internal/core/systems/physics"
)

// Input is one frame of player intent. JoystickX is in [-1, 1], negative is left.
type Input struct {
	Forward   bool
	Backward  bool
	Left      bool
	Right     bool
	Jump      bool
	JoystickX float64
}

// Camera is the chase camera.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
}

// State is a snapshot of the kart after a tick.
type State struct {
	Position      mgl64.Vec3
	Heading       float64
	BodyYaw       float64
	Direction     mgl64.Vec3
	Speed         float64
	RotationSpeed float64
	InputTurn     float64

	Turbo    float64
	Boosting bool

	Stun      float64
	Colliding bool

	DriftDirection float64
	DriftPower     float64
	DriftLevel     DriftLevel
	Drifting       bool

	Jumping    bool
	JumpOffset float64

	Camera Camera
}

// Stunned reports whether the kart is still recovering from a wall hit.
func (s State) Stunned() bool { return s.Stun > 0 }

// Controller advances one kart. It is not safe for concurrent use; the frame loop
// owns it.
type Controller struct {
	settings Settings
	levels   DriftLevels
	resolver *collision.Resolver
	bus      bus.EventBus
	logger   log.Log

	state    State
	jumpHeld bool
	jumpTime float64
}

// NewController places a kart at spawn facing heading. A nil resolver disables
// collision; a nil bus drops events.
func NewController(settings Settings, levels []DriftLevel, resolver *collision.Resolver, eventBus bus.EventBus, logger log.Log) (*Controller, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if levels == nil {
		levels = DefaultDriftLevels()
	}
	if logger == nil {
		logger = log.NewNop()
	}
	c := &Controller{
		settings: settings,
		levels:   NewDriftLevels(levels),
		resolver: resolver,
		bus:      eventBus,
		logger:   logger.With(log.String("component", "kart")),
	}
	c.Reset(mgl64.Vec3{}, 0)
	return c, nil
}

// Reset teleports the kart and clears all motion.
func (c *Controller) Reset(position mgl64.Vec3, heading float64) {
	dir := physics.Forward(heading)
	c.state = State{
		Position:   position,
		Heading:    heading,
		Direction:  dir,
		DriftLevel: NoDrift,
		Camera: Camera{
			Position: position.Add(physics.RotateY(c.settings.CameraOffset, heading)),
			Target:   position,
		},
	}
	c.jumpHeld = false
	c.jumpTime = 0
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Settings() Settings { return c.settings }

// Tick advances the kart by dt seconds.
func (c *Controller) Tick(dt float64, in Input) State {
	if !(dt > 0) {
		return c.state
	}
	c.advanceJump(dt)
	c.updateSpeed(in, dt)
	c.rotate(in, dt)
	c.move(dt)
	c.jump(in)
	c.drift(dt)
	return c.state
}

func (c *Controller) updateSpeed(in Input, dt float64) {
	s, st := c.settings, &c.state
	if st.Stun > 0 {
		st.Stun = math.Max(st.Stun-dt, 0)
		st.Speed = physics.Damp(st.Speed, 0, s.StunDamping, dt)
		st.Boosting = false
		return
	}

	maxSpeed := s.SpeedMax
	st.Boosting = st.Turbo > 0
	if st.Boosting {
		maxSpeed += s.BoostBonus
	}
	target := 0.0
	if in.Forward {
		target += maxSpeed
	}
	if in.Backward {
		target += s.SpeedMin
	}
	st.Speed = physics.Damp(st.Speed, target, s.SpeedDamping, dt)
	if st.Speed < s.DriftMinSpeed {
		st.DriftDirection = 0
		st.DriftPower = 0
	}
	st.Turbo -= dt
}

func (c *Controller) rotate(in Input, dt float64) {
	s, st := c.settings, &c.state
	turn := -in.JoystickX + boolf(in.Left) - boolf(in.Right) + st.DriftDirection
	st.InputTurn = turn * s.TurnFactor
	st.RotationSpeed = physics.Damp(st.RotationSpeed, st.InputTurn, s.TurnDamping, dt)

	target := st.Heading + st.RotationSpeed*math.Min(st.Speed, s.TurnSpeedCap)/s.SpeedMax
	st.Heading = physics.Damp(st.Heading, target, s.HeadingDamping, dt)
}

func (c *Controller) move(dt float64) {
	s, st := c.settings, &c.state

	desiredDir := physics.Forward(st.Heading)
	st.Direction = physics.LerpVec3(st.Direction, desiredDir, physics.Clamp(s.DirectionLerp*dt, 0, 1))
	dir := st.Direction

	angle := math.Atan2(desiredDir[0]*dir[2]-desiredDir[2]*dir[0], desiredDir[0]*dir[0]+desiredDir[2]*dir[2])
	st.BodyYaw = physics.Damp(st.BodyYaw, angle*s.BodyAngleFactor+st.DriftDirection*s.BodyDriftFactor, s.BodyDamping, dt)

	anchor := st.Position.Add(physics.RotateY(s.CameraOffset, st.Heading))
	st.Camera.Target = st.Position
	st.Camera.Position = physics.LerpVec3(st.Camera.Position, anchor, physics.Clamp(s.CameraLerp*dt, 0, 1))

	desired := mgl64.Vec3{
		st.Position[0] + dir[0]*st.Speed*dt,
		st.Position[1],
		st.Position[2] + dir[2]*st.Speed*dt,
	}
	if c.resolver == nil {
		st.Position = desired
		st.Colliding = false
		return
	}

	res := c.resolver.Resolve(st.Position, desired)
	st.Position[0], st.Position[2] = res.Position[0], res.Position[2]

	onset := res.Collided && !st.Colliding
	st.Colliding = res.Collided
	if !onset || st.Stun > 0 {
		return
	}
	impactSpeed := st.Speed
	st.Speed = s.BounceSpeed
	st.Stun = s.StunDuration
	st.Turbo = 0
	st.Boosting = false
	c.logger.Debug("wall impact",
		log.Float64("x", st.Position[0]),
		log.Float64("z", st.Position[2]),
		log.Float64("speed", impactSpeed),
	)
	c.publish(EventPlayerImpact, ImpactEvent{Position: st.Position, Speed: impactSpeed})
}

func (c *Controller) jump(in Input) {
	s, st := c.settings, &c.state
	if in.Jump && !c.jumpHeld && !st.Jumping {
		st.Jumping = true
		c.jumpHeld = true
		c.jumpTime = 0
		switch {
		case in.Left || in.JoystickX < 0:
			st.DriftDirection = s.DriftAngle
		case in.Right || in.JoystickX > 0:
			st.DriftDirection = -s.DriftAngle
		default:
			st.DriftDirection = 0
		}
	}

	if in.Jump {
		return
	}
	c.jumpHeld = false
	if st.Turbo <= 0 {
		level := c.levels.For(st.DriftPower)
		st.Turbo = level.BoostPower()
		if st.Turbo > 0 {
			c.publish(EventBoost, BoostEvent{Power: st.Turbo, Level: level})
		}
	}
	st.DriftDirection = 0
	st.DriftPower = 0
}

func (c *Controller) drift(dt float64) {
	st := &c.state
	if st.DriftDirection != 0 {
		st.DriftPower += dt
	}
	st.Drifting = st.DriftDirection != 0 && !st.Jumping

	level := c.levels.For(st.DriftPower)
	if level.Level != st.DriftLevel.Level {
		prev := st.DriftLevel
		st.DriftLevel = level
		c.publish(EventDriftLevel, DriftLevelEvent{Level: level, Previous: prev, Power: st.DriftPower})
	}
}

// advanceJump runs the hop: up for half the duration with a quadratic ease-out,
// then back down along the same curve.
func (c *Controller) advanceJump(dt float64) {
	s, st := c.settings, &c.state
	if !st.Jumping {
		return
	}
	c.jumpTime += dt
	if c.jumpTime >= s.JumpDuration {
		st.Jumping = false
		st.JumpOffset = 0
		return
	}
	half := s.JumpDuration / 2
	p := c.jumpTime / half
	if p > 1 {
		p = 2 - p
	}
	st.JumpOffset = s.JumpHeight * (1 - (1-p)*(1-p))
}

func (c *Controller) publish(eventType string, data any) {
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(bus.NewEvent(eventType, eventSource, data)); err != nil {
		c.logger.Warn("event handler failed", log.String("event", eventType), log.Error(err))
	}
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
