package collision

import "sync/atomic"

// Handle is the shared slot through which the loader publishes the level collider
// and the kart reads it every frame. The zero value is an empty, usable handle.
type Handle struct {
	value   atomic.Pointer[Collider]
	version atomic.Uint64
}

func NewHandle() *Handle { return &Handle{} }

// Load returns the current collider or nil while none is published.
func (h *Handle) Load() *Collider {
	if h == nil {
		return nil
	}
	return h.value.Load()
}

// Set publishes c only if the handle is still empty. It reports whether c was
// stored; a second build for the same handle loses.
func (h *Handle) Set(c *Collider) bool {
	if c == nil {
		return false
	}
	if !h.value.CompareAndSwap(nil, c) {
		return false
	}
	h.version.Add(1)
	return true
}

// Swap replaces the collider unconditionally and returns the previous one.
func (h *Handle) Swap(c *Collider) *Collider {
	old := h.value.Swap(c)
	h.version.Add(1)
	return old
}

// Clear empties the handle and returns what it held.
func (h *Handle) Clear() *Collider {
	return h.Swap(nil)
}

// Version increases on every change of the published collider.
func (h *Handle) Version() uint64 {
	return h.version.Load()
}
