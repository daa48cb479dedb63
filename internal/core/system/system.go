package system

import (
	"errors"
	"time"
)

var (
	ErrNilSystem       = errors.New("system: nil system")
	ErrDuplicateSystem = errors.New("system: duplicate system name")
)

// System is a per-frame processor driven by the Loop.
type System interface {
	Name() string
	ExecutionPhase() ExecutionPhase
	Priority() Priority
	// Update advances the system by dt seconds. Errors are recorded by the loop and do
	// not stop other systems.
	Update(dt float64) error
}

// Priority orders systems within a phase; higher runs first.
type Priority uint16

const (
	PriorityLowest  Priority = 200
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// ExecutionPhase defines when in a frame a system runs.
type ExecutionPhase uint8

const (
	PhasePreUpdate ExecutionPhase = iota
	PhaseUpdate
	PhasePostUpdate
	PhaseLateUpdate
)

func (p ExecutionPhase) String() string {
	switch p {
	case PhasePreUpdate:
		return "pre_update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post_update"
	case PhaseLateUpdate:
		return "late_update"
	default:
		return "unknown"
	}
}

// Metrics describe loop execution since it was created.
type Metrics struct {
	Frames           uint64
	SimulatedSeconds float64
	TotalFrameTime   time.Duration
	AverageFrameTime time.Duration
	MaxFrameTime     time.Duration
	LastFrameTime    time.Duration
	ErrorCount       uint64
	LastError        error
}

// FuncSystem adapts a function into a System.
type FuncSystem struct {
	name     string
	phase    ExecutionPhase
	priority Priority
	update   func(dt float64) error
}

func Func(name string, phase ExecutionPhase, priority Priority, update func(dt float64) error) *FuncSystem {
	return &FuncSystem{name: name, phase: phase, priority: priority, update: update}
}

func (f *FuncSystem) Name() string                  { return f.name }
func (f *FuncSystem) ExecutionPhase() ExecutionPhase { return f.phase }
func (f *FuncSystem) Priority() Priority             { return f.priority }
func (f *FuncSystem) Update(dt float64) error        { return f.update(dt) }
