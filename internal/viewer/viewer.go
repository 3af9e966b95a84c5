// Package viewer runs the interactive terrain preview: it owns the window,
// regenerates the terrain on request and draws its patches.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/marching-terrain/internal/config"
	"github.com/Faultbox/marching-terrain/internal/engine/camera"
	"github.com/Faultbox/marching-terrain/internal/engine/input"
	"github.com/Faultbox/marching-terrain/internal/engine/render"
	"github.com/Faultbox/marching-terrain/internal/engine/window"
	"github.com/Faultbox/marching-terrain/internal/logger"
	"github.com/Faultbox/marching-terrain/internal/session"
	"github.com/Faultbox/marching-terrain/internal/terrain"
)

// densityStep is how far one arrow key press moves the solid threshold.
const densityStep = 0.05

// Viewer is the main preview application.
type Viewer struct {
	log      *zap.Logger
	window   *window.Window
	input    *input.Input
	camera   *camera.OrbitCamera
	renderer *render.PatchRenderer
	session  *session.Session

	width, height int
	running       bool
}

// New opens the window and builds the first terrain.
func New(cfg *config.Config) (*Viewer, error) {
	win, err := window.New(window.Config{
		Title:      "Marching Terrain",
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	rend, err := render.NewPatchRenderer(logger.Named("render"))
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	rend.Wireframe = cfg.Viewer.Wireframe

	sess, err := session.New(*cfg, logger.Named("terrain"))
	if err != nil {
		rend.Release()
		win.Close()
		return nil, err
	}

	v := &Viewer{
		log:      logger.Named("viewer"),
		window:   win,
		input:    input.New(),
		camera:   camera.NewOrbitCamera(),
		renderer: rend,
		session:  sess,
	}
	v.width, v.height = win.Size()

	v.refresh()
	v.frameTerrain()

	return v, nil
}

// Run executes the frame loop until the window closes or Escape is pressed.
func (v *Viewer) Run() error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting viewer loop")

	for v.running {
		if v.input.Update() {
			v.running = false
			break
		}
		v.handleInput()

		aspect := float32(v.width) / float32(max(v.height, 1))
		v.renderer.Draw(v.camera.ViewProjection(aspect), v.width, v.height)
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleInput() {
	in := v.input

	if in.Resized {
		v.width, v.height = in.Width, in.Height
	}
	if in.DragX != 0 || in.DragY != 0 {
		v.camera.HandleDrag(in.DragX, in.DragY)
	}
	if in.Wheel != 0 {
		v.camera.HandleZoom(in.Wheel)
	}

	if in.IsKeyPressed(sdl.SCANCODE_ESCAPE) {
		v.running = false
		return
	}
	if in.IsKeyPressed(sdl.SCANCODE_W) {
		v.renderer.Wireframe = !v.renderer.Wireframe
	}
	if in.IsKeyPressed(sdl.SCANCODE_F) {
		v.frameTerrain()
	}

	rebuild := in.IsKeyPressed(sdl.SCANCODE_SPACE)
	var edits []func(*config.Config)
	if in.IsKeyPressed(sdl.SCANCODE_N) {
		edits = append(edits, func(c *config.Config) { c.Noise.Seed++ })
	}
	if in.IsKeyPressed(sdl.SCANCODE_I) {
		edits = append(edits, func(c *config.Config) { c.Sampler.Invert = !c.Sampler.Invert })
	}
	if in.IsKeyPressed(sdl.SCANCODE_UP) {
		edits = append(edits, func(c *config.Config) { c.Sampler.Density = min(c.Sampler.Density+densityStep, 1) })
	}
	if in.IsKeyPressed(sdl.SCANCODE_DOWN) {
		edits = append(edits, func(c *config.Config) { c.Sampler.Density = max(c.Sampler.Density-densityStep, 0) })
	}

	var err error
	switch {
	case len(edits) > 0:
		err = v.session.Edit(func(c *config.Config) {
			for _, edit := range edits {
				edit(c)
			}
		})
	case rebuild:
		err = v.session.Rebuild()
	default:
		return
	}
	if err != nil {
		// Config and terrain on screen are left as they were.
		v.log.Warn("regeneration failed", zap.Error(err))
		return
	}
	v.refresh()
}

// refresh re-uploads the session's terrain and updates the title.
func (v *Viewer) refresh() {
	cfg := v.session.Config()
	t := v.session.Terrain()

	v.renderer.Upload(t.Patches(), t.Settings().Dimensions.Y)

	st := t.Stats()
	v.window.SetTitle(fmt.Sprintf("Marching Terrain - seed %d density %.2f - %d patches %d triangles",
		cfg.Noise.Seed, cfg.Sampler.Density, st.Patches, st.Triangles))
}

// frameTerrain points the camera at the bounds of every patch.
func (v *Viewer) frameTerrain() {
	t := v.session.Terrain()
	b := terrain.BoundsOf(t.Patches())
	if b.Empty() {
		s := t.Settings()
		v.camera.FitToBounds(s.Origin, s.Origin.Add(s.Dimensions))
		return
	}
	v.camera.FitToBounds(b.Min, b.Max)
}

// Close releases GPU resources and the window.
func (v *Viewer) Close() {
	if v.renderer != nil {
		v.renderer.Release()
	}
	if v.window != nil {
		v.window.Close()
	}
}
