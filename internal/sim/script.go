package sim

import (
	"github.com/zeusync/kartsim/internal/core/kart"
	"github.com/zeusync/kartsim/internal/core/system"
)

// Step holds an input for a number of seconds.
type Step struct {
	Seconds float64
	Input   kart.Input
}

// DefaultScript drives north into the chicane, drifts and boosts, then rams the
// north wall.
func DefaultScript() []Step {
	return []Step{
		{Seconds: 2, Input: kart.Input{Forward: true}},
		{Seconds: 3.5, Input: kart.Input{Forward: true, Jump: true, Left: true}},
		{Seconds: 0.1, Input: kart.Input{Forward: true}},
		{Seconds: 1, Input: kart.Input{Forward: true, Right: true}},
		{Seconds: 6, Input: kart.Input{Forward: true}},
		{Seconds: 1, Input: kart.Input{Backward: true}},
	}
}

var _ system.System = (*Script)(nil)

// Script replays steps in the pre-update phase so the kart reads this frame's
// input. After the last step it reports no input.
type Script struct {
	steps   []Step
	elapsed float64
	current kart.Input
}

func NewScript(steps []Step) *Script {
	return &Script{steps: steps}
}

func (s *Script) Name() string { return "script" }

func (s *Script) ExecutionPhase() system.ExecutionPhase { return system.PhasePreUpdate }

func (s *Script) Priority() system.Priority { return system.PriorityNormal }

func (s *Script) Update(dt float64) error {
	s.current = s.At(s.elapsed)
	s.elapsed += dt
	return nil
}

// At returns the input active at t seconds into the script.
func (s *Script) At(t float64) kart.Input {
	for _, step := range s.steps {
		if t < step.Seconds {
			return step.Input
		}
		t -= step.Seconds
	}
	return kart.Input{}
}

// Current is the input chosen for the running frame.
func (s *Script) Current() kart.Input { return s.current }

// Duration is the total script length in seconds.
func (s *Script) Duration() float64 {
	total := 0.0
	for _, step := range s.steps {
		total += step.Seconds
	}
	return total
}

func (s *Script) Done() bool { return s.elapsed >= s.Duration() }
