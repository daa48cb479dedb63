// Package config loads the simulation settings from YAML.
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/zeusync/kartsim/internal/core/collision"
	"github.com/zeusync/kartsim/internal/core/kart"
	"github.com/zeusync/kartsim/internal/core/observability/log"
	"github.com/zeusync/kartsim/internal/core/scene"
	"gopkg.in/yaml.v3"
)

// Config is the full simulation configuration. Fields omitted from a file keep
// their Default values.
type Config struct {
	Log      LogConfig               `yaml:"log"`
	Loop     LoopConfig              `yaml:"loop"`
	Capsule  collision.CapsuleParams `yaml:"capsule"`
	Collider ColliderConfig          `yaml:"collider"`
	Kart     kart.Settings           `yaml:"kart"`
	Drift    []kart.DriftLevel       `yaml:"drift_levels"`
}

type LogConfig struct {
	Level       string   `yaml:"level"`
	Encoding    string   `yaml:"encoding"`
	OutputPaths []string `yaml:"output_paths"`
}

type LoopConfig struct {
	// Rate is the frame rate in Hz.
	Rate int `yaml:"rate"`
	// MaxDelta caps a single frame's dt in seconds.
	MaxDelta float64 `yaml:"max_delta"`
}

type ColliderConfig struct {
	Index       string        `yaml:"index"`
	Keywords    []string      `yaml:"keywords"`
	Exclude     []string      `yaml:"exclude"`
	SettleDelay time.Duration `yaml:"settle_delay"`
	Debug       bool          `yaml:"debug"`
	HelperDepth int           `yaml:"helper_depth"`
}

func Default() Config {
	return Config{
		Log:     LogConfig{Level: "info", Encoding: "console"},
		Loop:    LoopConfig{Rate: 60, MaxDelta: 0.1},
		Capsule: collision.DefaultCapsule(),
		Collider: ColliderConfig{
			Index:       string(collision.IndexBVH),
			SettleDelay: scene.DefaultSettleDelay,
			HelperDepth: scene.DefaultHelperDepth,
		},
		Kart:  kart.DefaultSettings(),
		Drift: kart.DefaultDriftLevels(),
	}
}

// Load decodes YAML from r over Default and validates the result. Empty input
// yields the defaults.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile loads the YAML file at path. An empty path yields the defaults.
func LoadFile(path string) (Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "open config")
	}
	defer f.Close()
	return Load(f)
}

func (c Config) Validate() error {
	if c.Loop.Rate <= 0 {
		return fmt.Errorf("config: loop.rate must be positive, got %d", c.Loop.Rate)
	}
	if c.Loop.MaxDelta <= 0 {
		return fmt.Errorf("config: loop.max_delta must be positive, got %v", c.Loop.MaxDelta)
	}
	if err := c.Capsule.Validate(); err != nil {
		return errors.Wrap(err, "config: capsule")
	}
	switch collision.IndexKind(c.Collider.Index) {
	case collision.IndexBVH, collision.IndexRTree, "":
	default:
		return errors.Wrapf(collision.ErrUnknownIndex, "config: collider.index %q", c.Collider.Index)
	}
	if c.Collider.SettleDelay < 0 {
		return fmt.Errorf("config: collider.settle_delay must not be negative")
	}
	if err := c.Kart.Validate(); err != nil {
		return errors.Wrap(err, "config: kart")
	}
	for i, level := range c.Drift {
		if level.Threshold <= 0 {
			return fmt.Errorf("config: drift_levels[%d] threshold must be positive", i)
		}
	}
	return nil
}

func (c Config) LogLevel() log.Level { return log.ParseLevel(c.Log.Level) }

func (c Config) LogOptions() log.Options {
	return log.Options{Encoding: c.Log.Encoding, OutputPaths: c.Log.OutputPaths}
}

// FrameInterval is the wall-clock time between frames.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Loop.Rate)
}

// FrameDelta is the fixed dt in seconds used for scripted runs.
func (c Config) FrameDelta() float64 {
	return 1 / float64(c.Loop.Rate)
}

func (c Config) LoaderOptions() []scene.LoaderOption {
	opts := []scene.LoaderOption{
		scene.WithSettleDelay(c.Collider.SettleDelay),
		scene.WithIndex(collision.IndexKind(c.Collider.Index)),
		scene.WithDebug(c.Collider.Debug),
	}
	if c.Collider.Keywords != nil {
		opts = append(opts, scene.WithKeywords(c.Collider.Keywords...))
	}
	if c.Collider.Exclude != nil {
		opts = append(opts, scene.WithExclude(c.Collider.Exclude...))
	}
	if c.Collider.HelperDepth > 0 {
		opts = append(opts, scene.WithHelperDepth(c.Collider.HelperDepth))
	}
	return opts
}
