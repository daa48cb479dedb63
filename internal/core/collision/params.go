package collision

import (
	"fmt"
	"math"
)

// CapsuleParams describe the kart's collision volume: a vertical segment from
// Radius to Height above the kart's origin, swept by a sphere of Radius.
type CapsuleParams struct {
	Radius float64 `yaml:"radius"`
	// Height is measured from the foot to the top of the segment and must exceed
	// twice the radius.
	Height float64 `yaml:"height"`
	// PushOutMultiplier scales the correction applied per penetrating triangle.
	PushOutMultiplier float64 `yaml:"push_out_multiplier"`
	// TunnelGuard makes a triangle whose plane the move crossed push back towards
	// the side the capsule came from. Off by default.
	TunnelGuard bool `yaml:"tunnel_guard"`
}

// DefaultCapsule is the kart capsule used when nothing is configured.
func DefaultCapsule() CapsuleParams {
	return CapsuleParams{Radius: 0.8, Height: 2.0, PushOutMultiplier: 1.0}
}

func (p CapsuleParams) Validate() error {
	switch {
	case !(p.Radius > 0) || math.IsInf(p.Radius, 0):
		return fmt.Errorf("%w: radius %v must be positive", ErrInvalidCapsule, p.Radius)
	case !(p.Height > 2*p.Radius) || math.IsInf(p.Height, 0):
		return fmt.Errorf("%w: height %v must exceed twice the radius %v", ErrInvalidCapsule, p.Height, p.Radius)
	case !(p.PushOutMultiplier >= 0) || math.IsInf(p.PushOutMultiplier, 0):
		return fmt.Errorf("%w: push-out multiplier %v must be non-negative", ErrInvalidCapsule, p.PushOutMultiplier)
	}
	return nil
}
