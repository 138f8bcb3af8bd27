// Package config loads the simulation settings from an optional TOML file
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/bounce/engine"
	"github.com/lixenwraith/bounce/parameter"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config is the complete set of driver settings
type Config struct {
	Arena  ArenaConfig  `toml:"arena"`
	Bodies BodiesConfig `toml:"bodies"`
	Sim    SimConfig    `toml:"sim"`
	Audio  AudioConfig  `toml:"audio"`
	Stream StreamConfig `toml:"stream"`
}

type ArenaConfig struct {
	Width       float64 `toml:"width"`
	Height      float64 `toml:"height"`
	CornerInset float64 `toml:"corner_inset"`
}

type BodiesConfig struct {
	MinRadius      float64  `toml:"min_radius"`
	MaxRadius      float64  `toml:"max_radius"`
	MinRestitution float64  `toml:"min_restitution"`
	MaxRestitution float64  `toml:"max_restitution"`
	MaxSpawnSpeed  float64  `toml:"max_spawn_speed"`
	Palette        []string `toml:"palette"`
	InitialCount   int      `toml:"initial_count"`
}

type SimConfig struct {
	// TickMS is the wall-clock interval between steps in milliseconds
	TickMS int `toml:"tick_ms"`
	// MaxDelta clamps a single step in seconds
	MaxDelta float64 `toml:"max_delta"`
	// Seed drives the spawner, zero picks one from the clock
	Seed int64 `toml:"seed"`
}

type AudioConfig struct {
	Enabled    bool    `toml:"enabled"`
	Volume     float64 `toml:"volume"`
	SampleRate int     `toml:"sample_rate"`
}

type StreamConfig struct {
	// Addr is the websocket listen address, empty disables streaming
	Addr string `toml:"addr"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Arena: ArenaConfig{
			Width:       parameter.ArenaWidth,
			Height:      parameter.ArenaHeight,
			CornerInset: parameter.ArenaCornerInset,
		},
		Bodies: BodiesConfig{
			MinRadius:      parameter.MinBodyRadius,
			MaxRadius:      parameter.MaxBodyRadius,
			MinRestitution: parameter.MinSpawnRestitution,
			MaxRestitution: parameter.MaxSpawnRestitution,
			MaxSpawnSpeed:  parameter.MaxSpawnSpeed,
			Palette:        append([]string(nil), parameter.BodyPalette...),
			InitialCount:   parameter.InitialBodyCount,
		},
		Sim: SimConfig{
			TickMS:   int(parameter.TickInterval / time.Millisecond),
			MaxDelta: parameter.MaxStepDelta,
		},
		Audio: AudioConfig{
			Enabled:    true,
			Volume:     parameter.AudioMasterVolume,
			SampleRate: parameter.AudioSampleRate,
		},
	}
}

// Load reads path over the defaults, an empty path returns the defaults
// Keys not present in the file keep their default values
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config read: %w", err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg and validates the result
// Unknown keys are rejected so typos do not silently fall back to defaults
func Parse(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, undecoded[0].String())
	}
	return cfg.Validate()
}

// Validate reports the first setting that cannot drive a simulation
func (c *Config) Validate() error {
	a, b := c.Arena, c.Bodies
	switch {
	case !positive(a.Width) || !positive(a.Height):
		return fmt.Errorf("%w: arena size %vx%v", ErrInvalidConfig, a.Width, a.Height)
	case !(a.CornerInset >= 0) || math.IsInf(a.CornerInset, 0):
		return fmt.Errorf("%w: corner_inset %v", ErrInvalidConfig, a.CornerInset)
	case !positive(b.MinRadius) || !(b.MaxRadius >= b.MinRadius) || math.IsInf(b.MaxRadius, 0):
		return fmt.Errorf("%w: radius range [%v, %v]", ErrInvalidConfig, b.MinRadius, b.MaxRadius)
	case !(b.MinRestitution >= 0) || !(b.MaxRestitution <= 1) || !(b.MaxRestitution >= b.MinRestitution):
		return fmt.Errorf("%w: restitution range [%v, %v]", ErrInvalidConfig, b.MinRestitution, b.MaxRestitution)
	case !(b.MaxSpawnSpeed >= 0) || math.IsInf(b.MaxSpawnSpeed, 0):
		return fmt.Errorf("%w: max_spawn_speed %v", ErrInvalidConfig, b.MaxSpawnSpeed)
	case b.InitialCount < 0:
		return fmt.Errorf("%w: initial_count %d", ErrInvalidConfig, b.InitialCount)
	case c.Sim.TickMS <= 0:
		return fmt.Errorf("%w: tick_ms %d", ErrInvalidConfig, c.Sim.TickMS)
	case !positive(c.Sim.MaxDelta):
		return fmt.Errorf("%w: max_delta %v", ErrInvalidConfig, c.Sim.MaxDelta)
	case !(c.Audio.Volume >= 0 && c.Audio.Volume <= 1):
		return fmt.Errorf("%w: audio volume %v", ErrInvalidConfig, c.Audio.Volume)
	case c.Audio.SampleRate <= 0:
		return fmt.Errorf("%w: sample_rate %d", ErrInvalidConfig, c.Audio.SampleRate)
	}
	return nil
}

// TickInterval returns the step interval as a duration
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Sim.TickMS) * time.Millisecond
}

// SpawnConfig maps the body ranges onto the engine spawner
func (c *Config) SpawnConfig() engine.SpawnConfig {
	return engine.SpawnConfig{
		MinRadius:      c.Bodies.MinRadius,
		MaxRadius:      c.Bodies.MaxRadius,
		MinRestitution: c.Bodies.MinRestitution,
		MaxRestitution: c.Bodies.MaxRestitution,
		MaxSpeed:       c.Bodies.MaxSpawnSpeed,
		Palette:        c.Bodies.Palette,
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
