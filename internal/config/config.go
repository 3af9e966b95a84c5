// Package config handles terrain generator configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/marching-terrain/internal/noise"
	"github.com/Faultbox/marching-terrain/internal/terrain"
	"github.com/Faultbox/marching-terrain/pkg/math"
)

// Config holds all generator and viewer settings.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Sampler SamplerConfig `yaml:"sampler"`
	Noise   NoiseConfig   `yaml:"noise"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`
}

// Vec3Config is a YAML friendly 3D vector.
type Vec3Config struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

// Vec3 converts to the math vector type.
func (v Vec3Config) Vec3() math.Vec3 {
	return math.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// TerrainConfig holds grid and patch geometry.
type TerrainConfig struct {
	CellScale    float32    `yaml:"cell_scale"`     // World units per grid cell
	Dimensions   Vec3Config `yaml:"dimensions"`     // Width, height scale, depth
	PatchCellCap int        `yaml:"patch_cell_cap"` // Max cells per patch edge
	Origin       Vec3Config `yaml:"origin"`         // World-space offset of node (0,0)
	Workers      int        `yaml:"workers"`        // Patch build concurrency, 0 = all CPUs
}

// SamplerConfig holds the solid/empty threshold.
type SamplerConfig struct {
	Density float32 `yaml:"density"`
	Invert  bool    `yaml:"invert"`
}

// NoiseConfig holds Perlin noise parameters.
type NoiseConfig struct {
	Seed    int64   `yaml:"seed"`
	Scale   float64 `yaml:"scale"`
	Alpha   float64 `yaml:"alpha"`
	Beta    float64 `yaml:"beta"`
	Octaves int32   `yaml:"octaves"`
}

// ViewerConfig holds display settings for marchview.
type ViewerConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Wireframe  bool `yaml:"wireframe"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	n := noise.DefaultConfig()
	return &Config{
		Terrain: TerrainConfig{
			CellScale:    1.0,
			Dimensions:   Vec3Config{X: 128, Y: 10, Z: 128},
			PatchCellCap: 64,
		},
		Sampler: SamplerConfig{
			Density: 0.25,
			Invert:  false,
		},
		Noise: NoiseConfig{
			Seed:    n.Seed,
			Scale:   n.Scale,
			Alpha:   n.Alpha,
			Beta:    n.Beta,
			Octaves: n.Octaves,
		},
		Viewer: ViewerConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Settings converts the config into terrain settings.
func (c *Config) Settings() terrain.Settings {
	return terrain.Settings{
		Dimensions:   c.Terrain.Dimensions.Vec3(),
		CellScale:    c.Terrain.CellScale,
		PatchCellCap: c.Terrain.PatchCellCap,
		Density:      c.Sampler.Density,
		Invert:       c.Sampler.Invert,
		Origin:       c.Terrain.Origin.Vec3(),
		Workers:      c.Terrain.Workers,
	}
}

// NoiseConfig converts the config into a noise field config, offset so the
// field lines up with the terrain origin.
func (c *Config) NoiseConfig() noise.Config {
	offX, offZ := noise.OffsetFromOrigin(c.Terrain.Origin.Vec3(), c.Terrain.CellScale)
	return noise.Config{
		Seed:    c.Noise.Seed,
		Scale:   c.Noise.Scale,
		Alpha:   c.Noise.Alpha,
		Beta:    c.Noise.Beta,
		Octaves: c.Noise.Octaves,
		OffsetX: offX,
		OffsetZ: offZ,
	}
}

// Validate checks the terrain and noise sections.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Settings().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.NoiseConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		errs = append(errs, fmt.Errorf("viewer size must be positive, got %dx%d", c.Viewer.Width, c.Viewer.Height))
	}
	return errors.Join(errs...)
}
