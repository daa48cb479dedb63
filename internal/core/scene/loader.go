package scene

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zeusync/kartsim/internal/core/collision"
	"github.com/zeusync/kartsim/internal/core/events/bus"
	"github.com/zeusync/kartsim/internal/core/geom"
	"github.com/zeusync/kartsim/internal/core/observability/log"
)

const (
	EventColliderReady   = "collider.ready"
	EventColliderMissing = "collider.missing"

	ColliderNodeName = "kart_collider"
	HelperNodeName   = "kart_collider_bvh_helper"

	// DefaultSettleDelay gives asynchronously loaded level parts time to attach
	// before the one-shot scan.
	DefaultSettleDelay = time.Second
	// DefaultHelperDepth is how deep the debug helper draws index bounds.
	DefaultHelperDepth = 10
)

var ErrAlreadyAttempted = errors.New("scene: collider build already attempted")

// Status classifies the outcome of a collider build attempt.
type Status uint8

const (
	StatusFailed Status = iota
	StatusBuilt
	StatusNoMeshes
	StatusDegenerate
	StatusDiscarded
)

func (s Status) String() string {
	switch s {
	case StatusBuilt:
		return "built"
	case StatusNoMeshes:
		return "no_meshes"
	case StatusDegenerate:
		return "degenerate"
	case StatusDiscarded:
		return "discarded"
	default:
		return "failed"
	}
}

// Outcome reports what TryBuild did.
type Outcome struct {
	Status    Status
	MeshCount int
	Collider  *collision.Collider
}

// ColliderReady is the payload of EventColliderReady.
type ColliderReady struct {
	Collider  *collision.Collider
	MeshCount int
	Triangles int
}

// LoaderOption configures a Loader.
type LoaderOption func(*LoaderConfig)

// LoaderConfig holds the loader settings.
type LoaderConfig struct {
	SettleDelay time.Duration       // Wait before the scan
	Keywords    []string            // Mesh name keywords for discovery; nil uses DefaultKeywords
	Exclude     []string            // Passed to collision.Build; nil uses collision.DefaultExclude
	Index       collision.IndexKind // Spatial index for the collider
	Debug       bool                // Show the collider and add a bounds helper
	HelperDepth int                 // Depth of the debug helper
	// After is the timer source; time.After when nil.
	After func(time.Duration) <-chan time.Time
}

func WithSettleDelay(d time.Duration) LoaderOption {
	return func(c *LoaderConfig) { c.SettleDelay = d }
}

func WithKeywords(keywords ...string) LoaderOption {
	return func(c *LoaderConfig) { c.Keywords = keywords }
}

func WithExclude(patterns ...string) LoaderOption {
	return func(c *LoaderConfig) { c.Exclude = patterns }
}

func WithIndex(kind collision.IndexKind) LoaderOption {
	return func(c *LoaderConfig) { c.Index = kind }
}

func WithDebug(enabled bool) LoaderOption {
	return func(c *LoaderConfig) { c.Debug = enabled }
}

func WithHelperDepth(depth int) LoaderOption {
	return func(c *LoaderConfig) { c.HelperDepth = depth }
}

func WithClock(after func(time.Duration) <-chan time.Time) LoaderOption {
	return func(c *LoaderConfig) { c.After = after }
}

// Loader builds the level collider once per scene. The build happens off the frame
// loop; until it publishes into the handle, karts move unconstrained.
type Loader struct {
	scene  *Scene
	handle *collision.Handle
	bus    bus.EventBus
	logger log.Log
	cfg    LoaderConfig

	mu        sync.Mutex
	attempted bool
	tornDown  bool
	nodes     []*Node
	done      chan struct{}

	// afterBuild runs between the build and its publication; tests use it to race
	// a teardown.
	afterBuild func()
}

func NewLoader(scene *Scene, handle *collision.Handle, eventBus bus.EventBus, logger log.Log, opts ...LoaderOption) *Loader {
	cfg := LoaderConfig{
		SettleDelay: DefaultSettleDelay,
		HelperDepth: DefaultHelperDepth,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.After == nil {
		cfg.After = time.After
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Loader{
		scene:  scene,
		handle: handle,
		bus:    eventBus,
		logger: logger.With(log.String("component", "collider_loader")),
		cfg:    cfg,
		done:   make(chan struct{}),
	}
}

// AwaitSceneReady blocks for the settle delay. It returns early with an error if
// ctx ends or the loader is torn down first.
func (l *Loader) AwaitSceneReady(ctx context.Context) error {
	if l.cfg.SettleDelay <= 0 {
		return ctx.Err()
	}
	select {
	case <-l.cfg.After(l.cfg.SettleDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return context.Canceled
	}
}

// TryBuild scans the scene and builds the collider. It may be called once; later
// calls return ErrAlreadyAttempted. Missing or degenerate geometry is reported in
// the Outcome, not as an error, and leaves collision disabled for the session.
func (l *Loader) TryBuild() (Outcome, error) {
	l.mu.Lock()
	if l.attempted {
		l.mu.Unlock()
		return Outcome{}, ErrAlreadyAttempted
	}
	l.attempted = true
	torn := l.tornDown
	l.mu.Unlock()
	if torn {
		return Outcome{Status: StatusDiscarded}, nil
	}

	meshes := Discover(l.scene, l.cfg.Keywords)
	c, err := collision.Build(meshes, collision.BuildOptions{
		Exclude: l.cfg.Exclude,
		Index:   l.cfg.Index,
	})
	switch {
	case errors.Is(err, collision.ErrNoGeometry):
		l.logger.Info("no wall meshes found for collision, name meshes with one of the keywords",
			log.Any("keywords", l.keywords()),
			log.Int("candidates", len(meshes)),
		)
		return Outcome{Status: StatusNoMeshes, MeshCount: len(meshes)}, nil
	case errors.Is(err, collision.ErrDegenerateCollider):
		l.logger.Info("collider geometry unusable, collision disabled",
			log.Int("meshes", len(meshes)),
			log.Error(err),
		)
		return Outcome{Status: StatusDegenerate, MeshCount: len(meshes)}, nil
	case err != nil:
		return Outcome{Status: StatusFailed, MeshCount: len(meshes)}, err
	}
	if l.afterBuild != nil {
		l.afterBuild()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tornDown {
		l.logger.Debug("scene torn down during build, discarding collider")
		return Outcome{Status: StatusDiscarded, MeshCount: c.MeshCount()}, nil
	}
	if !l.handle.Set(c) {
		l.logger.Warn("collider handle already set, discarding collider")
		return Outcome{Status: StatusDiscarded, MeshCount: c.MeshCount()}, nil
	}
	l.register(c)

	l.logger.Info("kart collision enabled",
		log.Int("meshes", c.MeshCount()),
		log.Int("triangles", len(c.Triangles())),
		log.Int("dropped", c.Dropped()),
		log.Stringer("collider", c.ID()),
	)
	return Outcome{Status: StatusBuilt, MeshCount: c.MeshCount(), Collider: c}, nil
}

// register adds the collider to the scene, plus the bounds helper in debug mode.
// SyncTransform follows the node afterwards. Caller holds l.mu.
func (l *Loader) register(c *collision.Collider) {
	node := NewNode(ColliderNodeName, c.World(), NewTriangleMesh(c.Triangles()))
	node.Visible = l.cfg.Debug
	l.scene.Add(node)
	l.nodes = append(l.nodes, node)

	if !l.cfg.Debug {
		return
	}
	helper := NewGroup(HelperNodeName, c.World())
	if v, ok := c.Index().(collision.BoundsVisitor); ok {
		v.Visit(l.cfg.HelperDepth, func(_ int, b geom.Box3, _ bool) {
			helper.Boxes = append(helper.Boxes, b)
		})
	} else {
		helper.Boxes = append(helper.Boxes, c.Index().Bounds())
	}
	l.scene.Add(helper)
	l.nodes = append(l.nodes, helper)
	l.logger.Debug("collider bounds helper added", log.Int("boxes", len(helper.Boxes)))
}

// SyncTransform republishes the collider with its scene node's current world
// transform if the node or one of its parents moved. It reports whether the
// handle changed. The frame loop calls it before karts move.
func (l *Loader) SyncTransform() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tornDown || len(l.nodes) == 0 {
		return false
	}
	c := l.handle.Load()
	if c == nil {
		return false
	}
	world := l.scene.WorldOf(l.nodes[0])
	if world.ApproxEqual(c.World()) {
		return false
	}
	moved, ok := c.WithWorld(world)
	if !ok {
		l.logger.Warn("collider node transform is singular, keeping the previous one")
		return false
	}
	l.handle.Swap(moved)
	return true
}

// Run waits for the scene to settle, builds once and announces the result on the
// bus. A cancelled wait is not an error.
func (l *Loader) Run(ctx context.Context) (Outcome, error) {
	if err := l.AwaitSceneReady(ctx); err != nil {
		l.logger.Debug("collider build cancelled before scan", log.Error(err))
		return Outcome{Status: StatusDiscarded}, nil
	}
	out, err := l.TryBuild()
	if err != nil {
		return out, err
	}
	l.publish(out)
	return out, nil
}

func (l *Loader) publish(out Outcome) {
	if l.bus == nil || out.Status == StatusDiscarded {
		return
	}
	var ev bus.Event
	if out.Status == StatusBuilt {
		ev = bus.NewEvent(EventColliderReady, "scene.loader", ColliderReady{
			Collider:  out.Collider,
			MeshCount: out.MeshCount,
			Triangles: len(out.Collider.Triangles()),
		})
	} else {
		ev = bus.NewEvent(EventColliderMissing, "scene.loader", out)
	}
	if err := l.bus.Publish(ev); err != nil {
		l.logger.Warn("collider event handler failed", log.String("event", ev.Type()), log.Error(err))
	}
}

// Teardown removes everything the loader added to the scene and clears the
// handle. A build still in flight discards its result. Safe to call repeatedly.
func (l *Loader) Teardown() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tornDown {
		return
	}
	l.tornDown = true
	close(l.done)
	for _, n := range l.nodes {
		l.scene.Remove(n)
	}
	l.nodes = nil
	if old := l.handle.Clear(); old != nil {
		l.logger.Debug("collider released", log.Stringer("collider", old.ID()))
	}
}

func (l *Loader) keywords() []string {
	if l.cfg.Keywords == nil {
		return DefaultKeywords
	}
	return l.cfg.Keywords
}
