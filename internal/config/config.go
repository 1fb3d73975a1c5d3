// Package config provides configuration loading for the solar system simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Solver kinds accepted in simulation.solver.kind.
const (
	SolverPairwise  = "pairwise"
	SolverBarnesHut = "barnes-hut"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Trail      TrailConfig      `yaml:"trail"`
	Screen     ScreenConfig     `yaml:"screen"`
	Terminal   TerminalConfig   `yaml:"terminal"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bodies     []BodyConfig     `yaml:"bodies"`
}

// SimulationConfig holds the integration parameters.
type SimulationConfig struct {
	TimeStep              float64      `yaml:"time_step"`              // seconds per step
	GravitationalConstant float64      `yaml:"gravitational_constant"` // N·m²/kg²
	Solver                SolverConfig `yaml:"solver"`
}

// SolverConfig selects the force pass implementation.
type SolverConfig struct {
	Kind    string  `yaml:"kind"`
	Theta   float64 `yaml:"theta"`   // Barnes-Hut opening angle
	Workers int     `yaml:"workers"` // parallel pairwise workers
}

// TrailConfig bounds the orbit history kept per body.
type TrailConfig struct {
	Capacity int `yaml:"capacity"` // 0 = unbounded
	Stride   int `yaml:"stride"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	TPS         int     `yaml:"tps"`
	PixelsPerAU float64 `yaml:"pixels_per_au"`
	Title       string  `yaml:"title"`
}

// TerminalConfig holds terminal renderer settings.
type TerminalConfig struct {
	TPS          int     `yaml:"tps"`
	ColumnsPerAU float64 `yaml:"columns_per_au"`
}

// TelemetryConfig controls diagnostic sampling.
type TelemetryConfig struct {
	Every int    `yaml:"every"` // sample every N steps
	Dir   string `yaml:"dir"`   // CSV output directory (empty = disabled)
}

// BodyConfig describes one body of the scenario. Position is given in
// astronomical units and velocity in km/s; radius and color are display only.
type BodyConfig struct {
	Name        string     `yaml:"name"`
	PositionAU  [2]float64 `yaml:"position_au"`
	VelocityKMS [2]float64 `yaml:"velocity_kms"`
	Mass        float64    `yaml:"mass"`
	Radius      float64    `yaml:"radius"`
	Color       string     `yaml:"color"`
	Anchor      bool       `yaml:"anchor"`
}

// Default returns the embedded default configuration.
func Default() (*Config, error) {
	return Load("")
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. A bodies list in the
// file replaces the default bodies entirely.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := Parse(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse overlays YAML data onto cfg. Only fields present in data change.
func Parse(data []byte, cfg *Config) error {
	return yaml.Unmarshal(data, cfg)
}

// WriteYAML writes the configuration as YAML.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

// Validate checks the configuration for values the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if !positive(c.Simulation.TimeStep) {
		errs = append(errs, fmt.Errorf("simulation.time_step must be positive, got %g", c.Simulation.TimeStep))
	}
	if !positive(c.Simulation.GravitationalConstant) {
		errs = append(errs, fmt.Errorf("simulation.gravitational_constant must be positive, got %g", c.Simulation.GravitationalConstant))
	}
	switch c.Simulation.Solver.Kind {
	case SolverPairwise:
		if c.Simulation.Solver.Workers < 0 {
			errs = append(errs, fmt.Errorf("simulation.solver.workers must not be negative, got %d", c.Simulation.Solver.Workers))
		}
	case SolverBarnesHut:
		if c.Simulation.Solver.Theta < 0 || math.IsNaN(c.Simulation.Solver.Theta) {
			errs = append(errs, fmt.Errorf("simulation.solver.theta must not be negative, got %g", c.Simulation.Solver.Theta))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown simulation.solver.kind %q (want %s or %s)", c.Simulation.Solver.Kind, SolverPairwise, SolverBarnesHut))
	}

	if c.Trail.Capacity < 0 {
		errs = append(errs, fmt.Errorf("trail.capacity must not be negative, got %d", c.Trail.Capacity))
	}
	if c.Trail.Stride < 1 {
		errs = append(errs, fmt.Errorf("trail.stride must be at least 1, got %d", c.Trail.Stride))
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen.width and screen.height must be positive, got %dx%d", c.Screen.Width, c.Screen.Height))
	}
	if c.Screen.TPS <= 0 {
		errs = append(errs, fmt.Errorf("screen.tps must be positive, got %d", c.Screen.TPS))
	}
	if !positive(c.Screen.PixelsPerAU) {
		errs = append(errs, fmt.Errorf("screen.pixels_per_au must be positive, got %g", c.Screen.PixelsPerAU))
	}
	if c.Terminal.TPS <= 0 {
		errs = append(errs, fmt.Errorf("terminal.tps must be positive, got %d", c.Terminal.TPS))
	}
	if !positive(c.Terminal.ColumnsPerAU) {
		errs = append(errs, fmt.Errorf("terminal.columns_per_au must be positive, got %g", c.Terminal.ColumnsPerAU))
	}
	if c.Telemetry.Every < 1 {
		errs = append(errs, fmt.Errorf("telemetry.every must be at least 1, got %d", c.Telemetry.Every))
	}

	anchors := 0
	names := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Name == "" {
			errs = append(errs, fmt.Errorf("bodies[%d]: name is required", i))
		} else if names[b.Name] {
			errs = append(errs, fmt.Errorf("bodies[%d]: duplicate name %q", i, b.Name))
		}
		names[b.Name] = true
		if !positive(b.Mass) {
			errs = append(errs, fmt.Errorf("bodies[%d] %s: mass must be positive, got %g", i, b.Name, b.Mass))
		}
		if b.Anchor {
			anchors++
		}
	}
	if anchors > 1 {
		errs = append(errs, fmt.Errorf("at most one body may be the anchor, got %d", anchors))
	}

	return errors.Join(errs...)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
