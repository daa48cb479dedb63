// Package sim assembles a headless kart session: a track scene, the deferred
// collider build, one scripted kart and the frame loop that drives it.
package sim

import (
	"context"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/zeusync/kartsim/internal/config"
	"github.com/zeusync/kartsim/internal/core/collision"
	"github.com/zeusync/kartsim/internal/core/events/bus"
	"github.com/zeusync/kartsim/internal/core/kart"
	"github.com/zeusync/kartsim/internal/core/observability/log"
	"github.com/zeusync/kartsim/internal/core/scene"
	"github.com/zeusync/kartsim/internal/core/system"
	"golang.org/x/sync/errgroup"
)

// DefaultSpawn is where the kart starts on DemoTrack, facing -Z.
var DefaultSpawn = mgl64.Vec3{0, 0, 20}

// Components are the collaborators a Simulation is wired from.
type Components struct {
	Config   config.Config
	Logger   log.Log
	Bus      bus.EventBus
	Scene    *scene.Scene
	Handle   *collision.Handle
	Resolver *collision.Resolver
	Loader   *scene.Loader
	Kart     *kart.Controller
	Script   *Script
	Loop     *system.Loop
}

// Summary reports what happened during a run.
type Summary struct {
	Frames    uint64
	Simulated float64
	Collider  scene.Status
	Meshes    int
	Triangles int
	Impacts   int
	Boosts    int
	Final     kart.State
	Resolver  collision.Stats
}

// Simulation runs once; call Close afterwards.
type Simulation struct {
	Components

	logger log.Log
	subs   []bus.Subscription
	stop   context.CancelFunc

	mu      sync.Mutex
	summary Summary
}

// New registers the collider sync, the script and the kart with the loop, places the kart at
// DefaultSpawn and subscribes to collider and kart events.
func New(c Components) (*Simulation, error) {
	if c.Logger == nil {
		c.Logger = log.NewNop()
	}
	if c.Bus == nil {
		c.Bus = bus.New()
	}
	s := &Simulation{
		Components: c,
		logger:     c.Logger.With(log.String("component", "sim")),
	}

	c.Kart.Reset(DefaultSpawn, 0)
	for _, sys := range []system.System{
		system.Func("collider.sync", system.PhasePreUpdate, system.PriorityHigh, s.syncCollider),
		c.Script,
		kart.NewDriver("kart", c.Kart, c.Script.Current),
		system.Func("script.end", system.PhaseLateUpdate, system.PriorityLowest, s.checkDone),
	} {
		if err := c.Loop.Register(sys); err != nil {
			return nil, errors.Wrap(err, "register system")
		}
	}

	handlers := map[string]bus.EventHandler{
		scene.EventColliderReady:   s.onColliderReady,
		scene.EventColliderMissing: s.onColliderMissing,
		kart.EventPlayerImpact:     s.onImpact,
		kart.EventDriftLevel:       s.onDriftLevel,
		kart.EventBoost:            s.onBoost,
	}
	for _, typ := range []string{
		scene.EventColliderReady, scene.EventColliderMissing,
		kart.EventPlayerImpact, kart.EventDriftLevel, kart.EventBoost,
	} {
		sub, err := c.Bus.Subscribe(typ, handlers[typ])
		if err != nil {
			s.Close()
			return nil, errors.Wrapf(err, "subscribe %s", typ)
		}
		s.subs = append(s.subs, sub)
	}
	return s, nil
}

// Run drives the loop in real time while the collider is built in the
// background. It returns when ctx is done or the script has played out.
func (s *Simulation) Run(ctx context.Context) (Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.stop = cancel

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := s.Loader.Run(gctx)
		s.record(out)
		return err
	})
	g.Go(func() error {
		return s.Loop.Run(gctx)
	})
	if err := g.Wait(); err != nil {
		return s.Summary(), errors.Wrap(err, "run simulation")
	}
	return s.Summary(), nil
}

// Replay waits for the collider, then plays the whole script back to back at the
// configured fixed dt. Identical configs give identical summaries.
func (s *Simulation) Replay(ctx context.Context) (Summary, error) {
	out, err := s.Loader.Run(ctx)
	s.record(out)
	if err != nil {
		return s.Summary(), errors.Wrap(err, "build collider")
	}
	if err := ctx.Err(); err != nil {
		return s.Summary(), err
	}

	dt := s.Config.FrameDelta()
	frames := int(math.Ceil(s.Script.Duration()/dt - 1e-9))
	if err := s.Loop.RunFrames(frames, dt); err != nil {
		return s.Summary(), errors.Wrap(err, "replay")
	}
	return s.Summary(), nil
}

// Summary reads the kart state owned by the loop; call it once the simulation has
// stopped.
func (s *Simulation) Summary() Summary {
	m := s.Loop.Metrics()
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := s.summary
	sum.Frames = m.Frames
	sum.Simulated = m.SimulatedSeconds
	sum.Final = s.Kart.State()
	sum.Resolver = s.Resolver.Stats()
	return sum
}

// Close drops the event subscriptions and tears the collider down.
func (s *Simulation) Close() {
	for _, sub := range s.subs {
		if err := s.Bus.Unsubscribe(sub); err != nil {
			s.logger.Warn("unsubscribe failed", log.String("event", sub.EventType()), log.Error(err))
		}
	}
	s.subs = nil
	s.Loader.Teardown()
}

func (s *Simulation) record(out scene.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.Collider = out.Status
	s.summary.Meshes = out.MeshCount
	if out.Collider != nil {
		s.summary.Triangles = len(out.Collider.Triangles())
	}
}

func (s *Simulation) syncCollider(float64) error {
	s.Loader.SyncTransform()
	return nil
}

func (s *Simulation) checkDone(float64) error {
	if s.stop != nil && s.Script.Done() {
		s.stop()
	}
	return nil
}

func (s *Simulation) onColliderReady(ev bus.Event) error {
	ready, ok := ev.Data().(scene.ColliderReady)
	if !ok {
		return errors.Errorf("unexpected %s payload %T", ev.Type(), ev.Data())
	}
	s.logger.Info("track collider ready",
		log.Int("meshes", ready.MeshCount),
		log.Int("triangles", ready.Triangles),
		log.Stringer("collider", ready.Collider.ID()),
	)
	return nil
}

func (s *Simulation) onColliderMissing(ev bus.Event) error {
	s.logger.Warn("track has no collider, karts drive unobstructed", log.Any("outcome", ev.Data()))
	return nil
}

func (s *Simulation) onImpact(ev bus.Event) error {
	impact, ok := ev.Data().(kart.ImpactEvent)
	if !ok {
		return errors.Errorf("unexpected %s payload %T", ev.Type(), ev.Data())
	}
	s.mu.Lock()
	s.summary.Impacts++
	s.mu.Unlock()
	s.logger.Info("player impact",
		log.Float64("x", impact.Position.X()),
		log.Float64("z", impact.Position.Z()),
		log.Float64("speed", impact.Speed),
	)
	return nil
}

func (s *Simulation) onDriftLevel(ev bus.Event) error {
	change, ok := ev.Data().(kart.DriftLevelEvent)
	if !ok {
		return errors.Errorf("unexpected %s payload %T", ev.Type(), ev.Data())
	}
	s.logger.Debug("drift level",
		log.String("level", change.Level.Name),
		log.String("previous", change.Previous.Name),
		log.Float64("power", change.Power),
	)
	return nil
}

func (s *Simulation) onBoost(ev bus.Event) error {
	boost, ok := ev.Data().(kart.BoostEvent)
	if !ok {
		return errors.Errorf("unexpected %s payload %T", ev.Type(), ev.Data())
	}
	s.mu.Lock()
	s.summary.Boosts++
	s.mu.Unlock()
	s.logger.Info("boost", log.String("level", boost.Level.Name), log.Float64("power", boost.Power))
	return nil
}
