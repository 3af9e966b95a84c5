// Package noise provides coherent noise samplers for terrain grids.
package noise

import (
	"errors"
	"fmt"

	"github.com/aquilax/go-perlin"

	"github.com/Faultbox/marching-terrain/pkg/math"
)

// Config controls a Perlin noise field.
type Config struct {
	Seed int64
	// Scale is the number of grid cells per noise period.
	Scale float64
	// Alpha is the weight divisor between octaves; Beta the frequency multiplier.
	Alpha   float64
	Beta    float64
	Octaves int32
	// OffsetX and OffsetZ shift the field in grid cells so neighbouring
	// terrain instances line up.
	OffsetX float64
	OffsetZ float64
}

// DefaultConfig returns the settings used by the reference terrain scene.
func DefaultConfig() Config {
	return Config{
		Seed:    1,
		Scale:   32,
		Alpha:   2,
		Beta:    2,
		Octaves: 3,
	}
}

// Validate reports settings the generator cannot use.
func (c Config) Validate() error {
	if !(c.Scale > 0) {
		return fmt.Errorf("noise scale must be positive, got %v", c.Scale)
	}
	if c.Octaves <= 0 {
		return fmt.Errorf("noise octaves must be positive, got %d", c.Octaves)
	}
	if c.Alpha == 0 {
		return errors.New("noise alpha must not be zero")
	}
	return nil
}

// OffsetFromOrigin converts a world-space origin into grid offsets for a
// terrain whose cells are cellScale wide.
func OffsetFromOrigin(origin math.Vec3, cellScale float32) (x, z float64) {
	if cellScale == 0 {
		return 0, 0
	}
	return float64(origin.X / cellScale), float64(origin.Z / cellScale)
}

// Field samples Perlin noise remapped to [0,1].
type Field struct {
	cfg    Config
	perlin *perlin.Perlin
}

// New creates a noise field.
func New(cfg Config) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Field{
		cfg:    cfg,
		perlin: perlin.NewPerlin(cfg.Alpha, cfg.Beta, cfg.Octaves, cfg.Seed),
	}, nil
}

// Config returns the field configuration.
func (f *Field) Config() Config {
	return f.cfg
}

// Sample returns the field value at grid coordinate (i, j).
func (f *Field) Sample(i, j int) (float32, error) {
	x := (float64(i) + f.cfg.OffsetX) / f.cfg.Scale
	z := (float64(j) + f.cfg.OffsetZ) / f.cfg.Scale
	return remap(f.perlin.Noise2D(x, z)), nil
}

// remap maps noise from [-1,1] into [0,1].
func remap(v float64) float32 {
	v = v*0.5 + 0.5
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return float32(v)
}

// Constant returns a sampler that always yields v, clamped to [0,1].
func Constant(v float32) func(i, j int) (float32, error) {
	v = min(max(v, 0), 1)
	return func(i, j int) (float32, error) {
		return v, nil
	}
}
