package terrain

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/marching-terrain/pkg/math"
)

func constant(v float32) SampleFunc {
	return func(i, j int) (float32, error) {
		return v, nil
	}
}

func TestBuildGridSize(t *testing.T) {
	g, err := BuildGrid(GridParams{WidthCells: 3, HeightCells: 5, CellScale: 1}, constant(0.5))
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}

	if len(g.Nodes) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(g.Nodes))
	}
	for x, col := range g.Nodes {
		if len(col) != 6 {
			t.Errorf("column %d: expected 6 nodes, got %d", x, len(col))
		}
	}
	if g.Width != 3 || g.Height != 5 {
		t.Errorf("expected 3x5 cells, got %dx%d", g.Width, g.Height)
	}
}

func TestBuildGridThreshold(t *testing.T) {
	tests := []struct {
		name    string
		value   float32
		density float32
		invert  bool
		solid   bool
	}{
		{"below density", 0.3, 0.5, false, false},
		{"below density inverted", 0.3, 0.5, true, true},
		{"at density", 0.5, 0.5, false, true},
		{"at density inverted", 0.5, 0.5, true, false},
		{"above density", 1.0, 0.5, false, true},
		{"zero density", 0, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := GridParams{WidthCells: 4, HeightCells: 4, CellScale: 1, Density: tt.density, Invert: tt.invert}
			g, err := BuildGrid(p, constant(tt.value))
			if err != nil {
				t.Fatalf("BuildGrid: %v", err)
			}
			for x := 0; x <= g.Width; x++ {
				for y := 0; y <= g.Height; y++ {
					if g.At(x, y).Solid != tt.solid {
						t.Fatalf("node (%d,%d): solid=%v, want %v", x, y, g.At(x, y).Solid, tt.solid)
					}
				}
			}
		})
	}
}

func TestBuildGridPositions(t *testing.T) {
	p := GridParams{
		WidthCells:  2,
		HeightCells: 2,
		CellScale:   2,
		HeightScale: 10,
		Origin:      math.Vec3{X: 100, Y: 1, Z: -50},
	}
	sample := func(i, j int) (float32, error) {
		return float32(i+j) / 4, nil
	}

	g, err := BuildGrid(p, sample)
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}

	got := g.At(1, 2).Position
	want := math.Vec3{X: 102, Y: 8.5, Z: -46}
	if got != want {
		t.Errorf("node (1,2) position = %v, want %v", got, want)
	}
}

func TestBuildGridSolidCount(t *testing.T) {
	sample := func(i, j int) (float32, error) {
		if i == j {
			return 1, nil
		}
		return 0, nil
	}
	g, err := BuildGrid(GridParams{WidthCells: 3, HeightCells: 3, CellScale: 1, Density: 0.5}, sample)
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	if n := g.SolidCount(); n != 4 {
		t.Errorf("expected 4 solid nodes on the diagonal, got %d", n)
	}
}

func TestBuildGridInvalidParams(t *testing.T) {
	tests := []struct {
		name string
		p    GridParams
	}{
		{"zero width", GridParams{WidthCells: 0, HeightCells: 2, CellScale: 1}},
		{"negative height", GridParams{WidthCells: 2, HeightCells: -1, CellScale: 1}},
		{"zero scale", GridParams{WidthCells: 2, HeightCells: 2, CellScale: 0}},
		{"NaN scale", GridParams{WidthCells: 2, HeightCells: 2, CellScale: float32(gomath.NaN())}},
		{"infinite scale", GridParams{WidthCells: 2, HeightCells: 2, CellScale: float32(gomath.Inf(1))}},
		{"node overflow", GridParams{WidthCells: gomath.MaxInt, HeightCells: gomath.MaxInt, CellScale: 1}},
		{"over node limit", GridParams{WidthCells: MaxNodes / 2, HeightCells: 2, CellScale: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			sample := func(i, j int) (float32, error) {
				called = true
				return 0, nil
			}
			_, err := BuildGrid(tt.p, sample)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if called {
				t.Error("sampler should not run for invalid params")
			}
		})
	}
}

func TestBuildGridSamplerError(t *testing.T) {
	boom := errors.New("noise source offline")
	sample := func(i, j int) (float32, error) {
		if i == 2 && j == 1 {
			return 0, boom
		}
		return 0.5, nil
	}

	g, err := BuildGrid(GridParams{WidthCells: 4, HeightCells: 4, CellScale: 1}, sample)
	if g != nil {
		t.Error("expected no grid on sampler failure")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped sampler error, got %v", err)
	}

	var se *SampleError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SampleError, got %T", err)
	}
	if se.I != 2 || se.J != 1 {
		t.Errorf("expected failure at (2,1), got (%d,%d)", se.I, se.J)
	}
}

func TestBuildGridOutOfRange(t *testing.T) {
	for _, v := range []float32{-0.1, 1.5, float32(gomath.NaN())} {
		_, err := BuildGrid(GridParams{WidthCells: 1, HeightCells: 1, CellScale: 1}, constant(v))
		if !errors.Is(err, ErrSampleRange) {
			t.Errorf("value %v: expected ErrSampleRange, got %v", v, err)
		}
	}
}
