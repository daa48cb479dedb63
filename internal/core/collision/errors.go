package collision

import "errors"

var (
	// ErrNoGeometry means no candidate mesh survived the name filters. Callers treat
	// it as "collision disabled" and move the kart unconstrained.
	ErrNoGeometry = errors.New("collision: no collider geometry")
	// ErrDegenerateCollider means meshes matched but produced no usable triangles, or
	// the spatial index could not be built. Handled exactly like ErrNoGeometry.
	ErrDegenerateCollider = errors.New("collision: degenerate collider")
	// ErrInvalidCapsule reports capsule parameters that violate their constraints.
	ErrInvalidCapsule = errors.New("collision: invalid capsule parameters")
	// ErrUnknownIndex reports an IndexKind with no implementation.
	ErrUnknownIndex = errors.New("collision: unknown index kind")
)

// IsDisabled reports whether err from Build means the level simply has no collider.
func IsDisabled(err error) bool {
	return errors.Is(err, ErrNoGeometry) || errors.Is(err, ErrDegenerateCollider)
}
