package kart

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidSettings = errors.New("kart: invalid settings")

// Settings tune the arcade handling model. Rates named *Damping are exponential
// decay rates per second.
type Settings struct {
	SpeedMin      float64 `yaml:"speed_min"`
	SpeedMax      float64 `yaml:"speed_max"`
	BoostBonus    float64 `yaml:"boost_bonus"`
	SpeedDamping  float64 `yaml:"speed_damping"`
	DriftMinSpeed float64 `yaml:"drift_min_speed"`

	StunDuration float64 `yaml:"stun_duration"`
	StunDamping  float64 `yaml:"stun_damping"`
	BounceSpeed  float64 `yaml:"bounce_speed"`

	TurnFactor     float64 `yaml:"turn_factor"`
	TurnDamping    float64 `yaml:"turn_damping"`
	TurnSpeedCap   float64 `yaml:"turn_speed_cap"`
	HeadingDamping float64 `yaml:"heading_damping"`

	DirectionLerp   float64 `yaml:"direction_lerp"`
	BodyDamping     float64 `yaml:"body_damping"`
	BodyAngleFactor float64 `yaml:"body_angle_factor"`
	BodyDriftFactor float64 `yaml:"body_drift_factor"`

	DriftAngle   float64 `yaml:"drift_angle"`
	JumpDuration float64 `yaml:"jump_duration"`
	JumpHeight   float64 `yaml:"jump_height"`

	CameraOffset mgl64.Vec3 `yaml:"camera_offset"`
	CameraLerp   float64    `yaml:"camera_lerp"`
}

func DefaultSettings() Settings {
	return Settings{
		SpeedMin:      -10,
		SpeedMax:      30,
		BoostBonus:    40,
		SpeedDamping:  1.5,
		DriftMinSpeed: 20,

		StunDuration: 1.5,
		StunDamping:  2,
		BounceSpeed:  -15,

		TurnFactor:     0.1,
		TurnDamping:    4,
		TurnSpeedCap:   40,
		HeadingDamping: 8,

		DirectionLerp:   12,
		BodyDamping:     6,
		BodyAngleFactor: 1.3,
		BodyDriftFactor: 0.1,

		DriftAngle:   1.4,
		JumpDuration: 0.25,
		JumpHeight:   0.3,

		CameraOffset: mgl64.Vec3{0, 1, 5},
		CameraLerp:   24,
	}
}

func (s Settings) Validate() error {
	switch {
	case s.SpeedMax <= 0:
		return fmt.Errorf("%w: speed_max must be positive", ErrInvalidSettings)
	case s.SpeedMin > 0:
		return fmt.Errorf("%w: speed_min must not be positive", ErrInvalidSettings)
	case s.BoostBonus < 0:
		return fmt.Errorf("%w: boost_bonus must not be negative", ErrInvalidSettings)
	case s.SpeedDamping <= 0, s.StunDamping <= 0, s.TurnDamping <= 0, s.HeadingDamping <= 0, s.BodyDamping <= 0:
		return fmt.Errorf("%w: damping rates must be positive", ErrInvalidSettings)
	case s.DirectionLerp <= 0, s.CameraLerp <= 0:
		return fmt.Errorf("%w: lerp rates must be positive", ErrInvalidSettings)
	case s.StunDuration < 0:
		return fmt.Errorf("%w: stun_duration must not be negative", ErrInvalidSettings)
	case s.JumpDuration <= 0:
		return fmt.Errorf("%w: jump_duration must be positive", ErrInvalidSettings)
	}
	return nil
}
