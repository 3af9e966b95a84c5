package session

import (
	"errors"
	"testing"

	"github.com/Faultbox/marching-terrain/internal/config"
	"github.com/Faultbox/marching-terrain/internal/terrain"
)

func smallConfig() config.Config {
	cfg := *config.Default()
	cfg.Terrain.Dimensions = config.Vec3Config{X: 8, Y: 2, Z: 8}
	cfg.Terrain.PatchCellCap = 4
	cfg.Terrain.Workers = 1
	return cfg
}

func TestNew(t *testing.T) {
	s, err := New(smallConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Terrain().Generation() != 1 {
		t.Errorf("expected generation 1, got %d", s.Terrain().Generation())
	}
	if st := s.Terrain().Stats(); st.Patches != 4 || st.Cells != 64 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestNewRejectsInvalid(t *testing.T) {
	cfg := smallConfig()
	cfg.Terrain.CellScale = 0
	if _, err := New(cfg, nil); !errors.Is(err, terrain.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestEditCommitsOnSuccess(t *testing.T) {
	s, err := New(smallConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.Edit(func(c *config.Config) { c.Noise.Seed++ }); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if s.Config().Noise.Seed != 2 {
		t.Errorf("expected seed 2, got %d", s.Config().Noise.Seed)
	}
	if s.Terrain().Generation() != 2 {
		t.Errorf("expected generation 2, got %d", s.Terrain().Generation())
	}
}

func TestEditKeepsStateOnFailure(t *testing.T) {
	tests := []struct {
		name string
		edit func(*config.Config)
	}{
		{"density out of range", func(c *config.Config) { c.Sampler.Density = 1.5; c.Noise.Seed = 9 }},
		{"bad noise scale", func(c *config.Config) { c.Noise.Scale = 0; c.Sampler.Invert = true }},
		{"no cells", func(c *config.Config) { c.Terrain.Dimensions.X = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(smallConfig(), nil)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			before := s.Config()
			patches := s.Terrain().Patches()

			if err := s.Edit(tt.edit); err == nil {
				t.Fatal("expected edit to fail")
			}

			if s.Config() != before {
				t.Errorf("config drifted after failed edit: %+v", s.Config())
			}
			if s.Terrain().Generation() != 1 {
				t.Errorf("expected generation 1, got %d", s.Terrain().Generation())
			}
			if len(s.Terrain().Patches()) != len(patches) {
				t.Error("patches changed after failed edit")
			}

			// The next rebuild uses the committed config, not the rejected edit.
			if err := s.Rebuild(); err != nil {
				t.Fatalf("Rebuild: %v", err)
			}
			if s.Config() != before {
				t.Errorf("rebuild used a rejected config: %+v", s.Config())
			}
		})
	}
}
