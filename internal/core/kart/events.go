package kart

import "github.com/go-gl/mathgl/mgl64"

const (
	EventPlayerImpact = "player.impact"
	EventDriftLevel   = "drift.level"
	EventBoost        = "kart.boost"

	eventSource = "kart.controller"
)

// ImpactEvent is published once when the kart hits a wall while not stunned.
type ImpactEvent struct {
	Position mgl64.Vec3
	Speed    float64
}

// DriftLevelEvent is published when the drift tier changes, including back to
// NoDrift.
type DriftLevelEvent struct {
	Level    DriftLevel
	Previous DriftLevel
	Power    float64
}

// BoostEvent is published when a released drift grants turbo.
type BoostEvent struct {
	Power float64
	Level DriftLevel
}
