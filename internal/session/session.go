// Package session ties a config to the terrain built from it, so the two
// never disagree.
package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/marching-terrain/internal/config"
	"github.com/Faultbox/marching-terrain/internal/noise"
	"github.com/Faultbox/marching-terrain/internal/terrain"
)

// Session holds the config of the terrain currently built.
type Session struct {
	cfg     config.Config
	terrain *terrain.Terrain
}

// New builds the first terrain from cfg.
func New(cfg config.Config, log *zap.Logger) (*Session, error) {
	s := &Session{terrain: terrain.New(log)}
	if err := s.Apply(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Config returns a copy of the config the current terrain was built from.
func (s *Session) Config() config.Config {
	return s.cfg
}

// Terrain returns the terrain state.
func (s *Session) Terrain() *terrain.Terrain {
	return s.terrain
}

// Apply regenerates from cfg. The config is committed only when the
// regeneration succeeds; on error both config and terrain stay as they were.
func (s *Session) Apply(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	field, err := noise.New(cfg.NoiseConfig())
	if err != nil {
		return fmt.Errorf("creating noise field: %w", err)
	}

	if err := s.terrain.Regenerate(cfg.Settings(), field.Sample); err != nil {
		return fmt.Errorf("regenerating terrain: %w", err)
	}

	s.cfg = cfg
	return nil
}

// Edit applies fn to a copy of the current config and regenerates from it.
func (s *Session) Edit(fn func(*config.Config)) error {
	next := s.cfg
	fn(&next)
	return s.Apply(next)
}

// Rebuild regenerates from the current config unchanged.
func (s *Session) Rebuild() error {
	return s.Apply(s.cfg)
}
