package sim

import (
	"github.com/google/wire"
	"github.com/zeusync/kartsim/internal/config"
	"github.com/zeusync/kartsim/internal/core/collision"
	"github.com/zeusync/kartsim/internal/core/events/bus"
	"github.com/zeusync/kartsim/internal/core/kart"
	"github.com/zeusync/kartsim/internal/core/observability/log"
	"github.com/zeusync/kartsim/internal/core/scene"
	"github.com/zeusync/kartsim/internal/core/system"
)

// ProviderSet builds a Simulation from a config.Config and a track scene.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	bus.New,
	collision.NewHandle,
	ProvideResolver,
	ProvideLoader,
	ProvideController,
	ProvideLoop,
	ProvideScript,
	wire.Struct(new(Components), "*"),
	New,
)

// ProvideLogger builds the zap logger described by cfg. The cleanup flushes it.
func ProvideLogger(cfg config.Config) (*log.Logger, func(), error) {
	logger, err := log.New(cfg.LogLevel(), cfg.LogOptions())
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func ProvideResolver(cfg config.Config, handle *collision.Handle, logger log.Log) (*collision.Resolver, error) {
	return collision.NewResolver(handle, cfg.Capsule, logger)
}

// ProvideLoader prepares the deferred collider build for track. The cleanup tears
// the collider down.
func ProvideLoader(cfg config.Config, track *scene.Scene, handle *collision.Handle, eventBus bus.EventBus, logger log.Log) (*scene.Loader, func()) {
	loader := scene.NewLoader(track, handle, eventBus, logger, cfg.LoaderOptions()...)
	return loader, loader.Teardown
}

func ProvideController(cfg config.Config, resolver *collision.Resolver, eventBus bus.EventBus, logger log.Log) (*kart.Controller, error) {
	return kart.NewController(cfg.Kart, cfg.Drift, resolver, eventBus, logger)
}

func ProvideLoop(cfg config.Config, logger log.Log) *system.Loop {
	return system.NewLoop(cfg.FrameInterval(), cfg.Loop.MaxDelta, logger)
}

func ProvideScript() *Script {
	return NewScript(DefaultScript())
}
