// Package input turns SDL2 events into viewer events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Input collects the events of one frame.
type Input struct {
	pressed  map[sdl.Scancode]bool
	dragging bool

	// Mouse drag and wheel deltas accumulated during the last Update.
	DragX, DragY float32
	Wheel        float32

	// Resized is set when the window size changed during the last Update.
	Resized       bool
	Width, Height int
}

// New creates a new input handler.
func New() *Input {
	return &Input{pressed: make(map[sdl.Scancode]bool)}
}

// Update polls SDL events. It returns true if the viewer should quit.
func (i *Input) Update() bool {
	clear(i.pressed)
	i.DragX, i.DragY, i.Wheel = 0, 0, 0
	i.Resized = false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.Resized = true
				i.Width, i.Height = int(e.Data1), int(e.Data2)
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				i.pressed[e.Keysym.Scancode] = true
			}

		case *sdl.MouseButtonEvent:
			if e.Button == sdl.BUTTON_LEFT {
				i.dragging = e.Type == sdl.MOUSEBUTTONDOWN
			}

		case *sdl.MouseMotionEvent:
			if i.dragging {
				i.DragX += float32(e.XRel)
				i.DragY += float32(e.YRel)
			}

		case *sdl.MouseWheelEvent:
			i.Wheel += float32(e.Y)
		}
	}

	return false
}

// IsKeyPressed reports whether a key went down during the last Update.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	return i.pressed[scancode]
}
