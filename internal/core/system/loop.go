package system

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/zeusync/kartsim/internal/core/observability/log"
)

// Loop drives registered systems frame by frame on a single goroutine. All work of
// a frame, collision queries included, completes before the next frame starts.
type Loop struct {
	mu       sync.Mutex
	systems  []System
	interval time.Duration
	maxDelta float64
	logger   log.Log
	metrics  Metrics
}

// NewLoop creates a loop ticking every interval. Frame deltas measured by Run are
// clamped to maxDelta seconds so a stalled process does not teleport karts.
func NewLoop(interval time.Duration, maxDelta float64, logger log.Log) *Loop {
	if interval <= 0 {
		interval = time.Second / 60
	}
	if maxDelta <= 0 {
		maxDelta = 0.1
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Loop{
		interval: interval,
		maxDelta: maxDelta,
		logger:   logger.With(log.String("component", "loop")),
	}
}

// Register adds s. Systems run ordered by phase, then by descending priority, then
// by registration order.
func (l *Loop) Register(s System) error {
	if s == nil {
		return ErrNilSystem
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.systems {
		if existing.Name() == s.Name() {
			return fmt.Errorf("%w: %s", ErrDuplicateSystem, s.Name())
		}
	}
	l.systems = append(l.systems, s)
	sort.SliceStable(l.systems, func(i, j int) bool {
		a, b := l.systems[i], l.systems[j]
		if a.ExecutionPhase() != b.ExecutionPhase() {
			return a.ExecutionPhase() < b.ExecutionPhase()
		}
		return a.Priority() > b.Priority()
	})
	l.logger.Debug("system registered",
		log.String("system", s.Name()),
		log.Stringer("phase", s.ExecutionPhase()),
	)
	return nil
}

func (l *Loop) Unregister(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, s := range l.systems {
		if s.Name() == name {
			l.systems = append(l.systems[:i], l.systems[i+1:]...)
			return true
		}
	}
	return false
}

// Systems returns the registered system names in execution order.
func (l *Loop) Systems() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, len(l.systems))
	for i, s := range l.systems {
		names[i] = s.Name()
	}
	return names
}

// Step runs one frame of dt seconds. Every system runs even if an earlier one
// fails; the failures are returned joined.
func (l *Loop) Step(dt float64) error {
	l.mu.Lock()
	systems := append([]System(nil), l.systems...)
	l.mu.Unlock()

	start := time.Now()
	var errs []error
	for _, s := range systems {
		if err := s.Update(dt); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	took := time.Since(start)
	err := errors.Join(errs...)

	l.mu.Lock()
	m := &l.metrics
	m.Frames++
	m.SimulatedSeconds += dt
	m.LastFrameTime = took
	m.TotalFrameTime += took
	m.AverageFrameTime = m.TotalFrameTime / time.Duration(m.Frames)
	if took > m.MaxFrameTime {
		m.MaxFrameTime = took
	}
	if err != nil {
		m.ErrorCount += uint64(len(errs))
		m.LastError = err
	}
	l.mu.Unlock()

	return err
}

// RunFrames runs n frames of fixed dt back to back, stopping at the first failing
// frame. Used for deterministic replays and tests.
func (l *Loop) RunFrames(n int, dt float64) error {
	for i := 0; i < n; i++ {
		if err := l.Step(dt); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

// Run ticks until ctx is done. Frame errors are logged and the loop keeps going.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Info("loop started", log.Duration("interval", l.interval))
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			m := l.Metrics()
			l.logger.Info("loop stopped",
				log.Uint64("frames", m.Frames),
				log.Duration("avg_frame", m.AverageFrameTime),
			)
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > l.maxDelta {
				dt = l.maxDelta
			}
			if err := l.Step(dt); err != nil {
				l.logger.Warn("frame failed", log.Error(err))
			}
		}
	}
}

func (l *Loop) Metrics() Metrics {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.metrics
}
