package sim

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/kartsim/internal/config"
	"github.com/zeusync/kartsim/internal/core/collision"
	"github.com/zeusync/kartsim/internal/core/events/bus"
	"github.com/zeusync/kartsim/internal/core/kart"
	"github.com/zeusync/kartsim/internal/core/observability/log"
	"github.com/zeusync/kartsim/internal/core/scene"
	"github.com/zeusync/kartsim/internal/core/system"
)

// wallFace is the south face of the invisible wall in front of the spawn.
const wallFace = -34.75

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Collider.SettleDelay = 0
	return cfg
}

func newSim(t *testing.T, cfg config.Config, steps []Step) *Simulation {
	t.Helper()
	logger := log.NewNop()
	b := bus.New()
	handle := collision.NewHandle()
	resolver, err := collision.NewResolver(handle, cfg.Capsule, logger)
	require.NoError(t, err)
	track := DemoTrack()
	ctrl, err := kart.NewController(cfg.Kart, cfg.Drift, resolver, b, logger)
	require.NoError(t, err)

	s, err := New(Components{
		Config:   cfg,
		Logger:   logger,
		Bus:      b,
		Scene:    track,
		Handle:   handle,
		Resolver: resolver,
		Loader:   scene.NewLoader(track, handle, b, logger, cfg.LoaderOptions()...),
		Kart:     ctrl,
		Script:   NewScript(steps),
		Loop:     system.NewLoop(cfg.FrameInterval(), cfg.Loop.MaxDelta, logger),
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestScript(t *testing.T) {
	s := NewScript([]Step{
		{Seconds: 1, Input: kart.Input{Forward: true}},
		{Seconds: 0.5, Input: kart.Input{Left: true}},
	})
	assert.InDelta(t, 1.5, s.Duration(), 1e-12)
	assert.True(t, s.At(0).Forward)
	assert.True(t, s.At(1.2).Left)
	assert.Equal(t, kart.Input{}, s.At(2))

	require.NoError(t, s.Update(1.0))
	assert.True(t, s.Current().Forward, "first frame reads the input at t=0")
	assert.False(t, s.Done())
	require.NoError(t, s.Update(0.5))
	assert.True(t, s.Current().Left)
	assert.True(t, s.Done())
}

func TestDemoTrackColliderMeshes(t *testing.T) {
	meshes := scene.Discover(DemoTrack(), nil)
	names := make([]string, 0, len(meshes))
	for _, m := range meshes {
		names = append(names, m.Name())
	}
	assert.Len(t, meshes, 9)
	assert.NotContains(t, names, "Ground")
	assert.NotContains(t, names, "tree")
}

func TestReplayStopsAtWall(t *testing.T) {
	s := newSim(t, testConfig(), []Step{{Seconds: 5, Input: kart.Input{Forward: true}}})

	sum, err := s.Replay(context.Background())
	require.NoError(t, err)

	assert.Equal(t, scene.StatusBuilt, sum.Collider)
	assert.Equal(t, 9, sum.Meshes)
	assert.Equal(t, 4*12+2*12+2*64+12, sum.Triangles)
	assert.Equal(t, uint64(300), sum.Frames)
	assert.InDelta(t, 5, sum.Simulated, 1e-6)
	assert.GreaterOrEqual(t, sum.Impacts, 1)
	assert.Greater(t, sum.Final.Position.Z(), wallFace)
	assert.InDelta(t, 0, sum.Final.Position.X(), 1e-9)
	assert.NotZero(t, sum.Resolver.Collisions)
	assert.NotNil(t, s.Scene.Find(scene.ColliderNodeName))
}

func TestReplayWithoutCollider(t *testing.T) {
	cfg := testConfig()
	cfg.Collider.Keywords = []string{"nothing-matches"}
	s := newSim(t, cfg, []Step{{Seconds: 5, Input: kart.Input{Forward: true}}})

	sum, err := s.Replay(context.Background())
	require.NoError(t, err)

	assert.Equal(t, scene.StatusNoMeshes, sum.Collider)
	assert.Zero(t, sum.Impacts)
	assert.Less(t, sum.Final.Position.Z(), wallFace, "the kart drives through unobstructed")
	assert.Nil(t, s.Handle.Load())
}

func TestReplayIsDeterministic(t *testing.T) {
	a, err := newSim(t, testConfig(), DefaultScript()).Replay(context.Background())
	require.NoError(t, err)
	b, err := newSim(t, testConfig(), DefaultScript()).Replay(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Frames, b.Frames)
	assert.Equal(t, a.Impacts, b.Impacts)
	assert.Equal(t, a.Boosts, b.Boosts)
	assert.Equal(t, a.Final.Position, b.Final.Position)
}

func TestRunStopsWhenScriptEnds(t *testing.T) {
	cfg := testConfig()
	cfg.Loop.Rate = 200
	s := newSim(t, cfg, []Step{{Seconds: 0.2, Input: kart.Input{Forward: true}}})

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Script.Done())
	assert.NotZero(t, sum.Frames)
	assert.Equal(t, scene.StatusBuilt, sum.Collider)
}

func TestRunHonoursCancel(t *testing.T) {
	s := newSim(t, testConfig(), DefaultScript())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx)
	assert.NoError(t, err)
	assert.False(t, s.Script.Done())
}

func TestCloseTearsDownCollider(t *testing.T) {
	s := newSim(t, testConfig(), nil)
	_, err := s.Replay(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s.Handle.Load())

	s.Close()
	assert.Nil(t, s.Handle.Load())
	assert.Nil(t, s.Scene.Find(scene.ColliderNodeName))
	assert.Zero(t, s.Bus.GetMetrics().SubscribersActive)
}

func TestColliderFollowsNode(t *testing.T) {
	s := newSim(t, testConfig(), nil)
	_, err := s.Replay(context.Background())
	require.NoError(t, err)
	built := s.Handle.Load()
	require.NotNil(t, built)

	require.NoError(t, s.Loop.Step(s.Config.FrameDelta()))
	assert.Same(t, built, s.Handle.Load(), "a still collider is not republished")

	s.Scene.SetLocal(s.Scene.Find(scene.ColliderNodeName), mgl64.Translate3D(0, 0, 100))
	require.NoError(t, s.Loop.Step(s.Config.FrameDelta()))
	moved := s.Handle.Load()
	assert.NotSame(t, built, moved)
	assert.True(t, moved.World().Col(3).Vec3().ApproxEqual(mgl64.Vec3{0, 0, 100}))
}
