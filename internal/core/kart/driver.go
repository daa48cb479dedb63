package kart

import "github.com/zeusync/kartsim/internal/core/system"

var _ system.System = (*Driver)(nil)

// Driver runs a Controller inside the frame loop, reading input from a source each
// frame.
type Driver struct {
	name  string
	ctrl  *Controller
	input func() Input
}

// NewDriver wraps ctrl. A nil input source drives with no input.
func NewDriver(name string, ctrl *Controller, input func() Input) *Driver {
	if input == nil {
		input = func() Input { return Input{} }
	}
	return &Driver{name: name, ctrl: ctrl, input: input}
}

func (d *Driver) Name() string { return d.name }

func (d *Driver) ExecutionPhase() system.ExecutionPhase { return system.PhaseUpdate }

func (d *Driver) Priority() system.Priority { return system.PriorityNormal }

func (d *Driver) Update(dt float64) error {
	d.ctrl.Tick(dt, d.input())
	return nil
}

func (d *Driver) Controller() *Controller { return d.ctrl }
