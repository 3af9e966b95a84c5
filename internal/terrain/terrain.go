// Package terrain samples a scalar field into a node grid and tiles it into
// marching squares patch meshes.
package terrain

import (
	"fmt"
	gomath "math"
	"runtime"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/marching-terrain/pkg/math"
)

// Settings holds everything needed to regenerate a terrain.
type Settings struct {
	// Dimensions is the world size: X width, Y height scale, Z depth.
	Dimensions math.Vec3
	// CellScale is the world size of one grid cell.
	CellScale float32
	// PatchCellCap is the maximum number of cells along a patch edge.
	PatchCellCap int
	Density      float32
	Invert       bool
	Origin       math.Vec3
	// Workers bounds concurrent patch builds; 0 uses every CPU.
	Workers int
}

// Validate reports settings that cannot produce a terrain.
func (s Settings) Validate() error {
	if !(s.CellScale > 0) || isInf(s.CellScale) {
		return invalidf("cell scale must be positive and finite, got %v", s.CellScale)
	}
	if s.PatchCellCap <= 0 {
		return invalidf("patch cell cap must be positive, got %d", s.PatchCellCap)
	}
	if !finite(s.Dimensions) || !finite(s.Origin) {
		return invalidf("dimensions %v and origin %v must be finite", s.Dimensions, s.Origin)
	}
	cellsX, cellsZ := cellCounts(s)
	if !(cellsX >= 1) || !(cellsZ >= 1) {
		return invalidf("dimensions %vx%v produce no cells", s.Dimensions.X, s.Dimensions.Z)
	}
	if (cellsX+1)*(cellsZ+1) > MaxNodes {
		return invalidf("%vx%v cells exceed the %d node limit", cellsX, cellsZ, MaxNodes)
	}
	if !(s.Density >= 0 && s.Density <= 1) {
		return invalidf("density must be in [0,1], got %v", s.Density)
	}
	if s.Workers < 0 {
		return invalidf("workers must not be negative, got %d", s.Workers)
	}
	return nil
}

// Layout is the grid and patch geometry derived from Settings.
type Layout struct {
	CellsX, CellsZ     int
	NodesX, NodesZ     int
	PatchesX, PatchesZ int
}

// ComputeLayout derives grid and patch dimensions from validated settings.
func ComputeLayout(s Settings) Layout {
	fx, fz := cellCounts(s)
	cellsX, cellsZ := int(fx), int(fz)

	return Layout{
		CellsX:   cellsX,
		CellsZ:   cellsZ,
		NodesX:   cellsX + 1,
		NodesZ:   cellsZ + 1,
		PatchesX: patchCount(cellsX, s.PatchCellCap),
		PatchesZ: patchCount(cellsZ, s.PatchCellCap),
	}
}

// cellCounts returns ceil(dimension / cell scale) along X and Z, kept in
// float64 so oversized settings can be rejected before converting to int.
func cellCounts(s Settings) (x, z float64) {
	scale := float64(s.CellScale)
	return gomath.Ceil(float64(s.Dimensions.X) / scale), gomath.Ceil(float64(s.Dimensions.Z) / scale)
}

// patchCount is ceil(cells / size) without overflowing for any size.
func patchCount(cells, size int) int {
	if cells <= 0 {
		return 0
	}
	return (cells-1)/size + 1
}

func finite(v math.Vec3) bool {
	for _, c := range v.Array() {
		if gomath.IsNaN(float64(c)) || isInf(c) {
			return false
		}
	}
	return true
}

func isInf(v float32) bool {
	return gomath.IsInf(float64(v), 0)
}

// GridParams returns the sampling parameters for the settings.
func (s Settings) GridParams() GridParams {
	l := ComputeLayout(s)
	return GridParams{
		WidthCells:  l.CellsX,
		HeightCells: l.CellsZ,
		CellScale:   s.CellScale,
		HeightScale: s.Dimensions.Y,
		Density:     s.Density,
		Invert:      s.Invert,
		Origin:      s.Origin,
	}
}

// Regenerate samples a fresh grid and builds every patch from it. Patches
// are returned in row-major order regardless of how many workers ran.
func Regenerate(s Settings, sample SampleFunc) ([]Patch, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	grid, err := BuildGrid(s.GridParams(), sample)
	if err != nil {
		return nil, err
	}

	return buildPatches(grid, s)
}

func buildPatches(grid *Grid, s Settings) ([]Patch, error) {
	l := ComputeLayout(s)
	size := s.PatchCellCap

	workers := s.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	pool := pond.NewResultPool[*PatchMesh](workers)
	defer pool.StopAndWait()

	group := pool.NewGroup()
	coords := make([]PatchCoord, 0, l.PatchesX*l.PatchesZ)
	for i := range l.PatchesX {
		for j := range l.PatchesZ {
			coords = append(coords, PatchCoord{Row: i, Col: j})
			group.Submit(func() *PatchMesh {
				return BuildPatch(grid, i*size, j*size, size)
			})
		}
	}

	meshes, err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("building patches: %w", err)
	}

	patches := make([]Patch, len(coords))
	for i, c := range coords {
		patches[i] = Patch{Coord: c, Mesh: meshes[i]}
	}
	return patches, nil
}

// Stats summarizes a generated terrain.
type Stats struct {
	Patches   int
	Vertices  int
	Triangles int
	Cells     int
}

func statsOf(patches []Patch) Stats {
	st := Stats{Patches: len(patches)}
	for _, p := range patches {
		st.Vertices += len(p.Mesh.Vertices)
		st.Triangles += p.Mesh.TriangleCount()
		st.Cells += p.Mesh.Cells
	}
	return st
}

// Terrain owns the current set of patches. A failed regeneration leaves the
// previous patches in place.
type Terrain struct {
	log *zap.Logger

	mu         sync.RWMutex
	settings   Settings
	layout     Layout
	patches    []Patch
	generation int
}

// New creates an empty terrain. A nil logger disables logging.
func New(log *zap.Logger) *Terrain {
	if log == nil {
		log = zap.NewNop()
	}
	return &Terrain{log: log}
}

// Regenerate discards the current patches and rebuilds them from settings
// and sample. On error the previous state is kept.
func (t *Terrain) Regenerate(s Settings, sample SampleFunc) error {
	start := time.Now()

	patches, err := Regenerate(s, sample)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.settings = s
	t.layout = ComputeLayout(s)
	t.patches = patches
	t.generation++
	gen := t.generation
	t.mu.Unlock()

	st := statsOf(patches)
	t.log.Info("terrain regenerated",
		zap.Int("generation", gen),
		zap.Int("patches", st.Patches),
		zap.Int("vertices", st.Vertices),
		zap.Int("triangles", st.Triangles),
		zap.Duration("took", time.Since(start)),
	)

	return nil
}

// Patches returns the current patches. The slice must not be modified.
func (t *Terrain) Patches() []Patch {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.patches
}

// Settings returns the settings of the last successful regeneration.
func (t *Terrain) Settings() Settings {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.settings
}

// Layout returns the layout of the last successful regeneration.
func (t *Terrain) Layout() Layout {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.layout
}

// Generation counts successful regenerations.
func (t *Terrain) Generation() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.generation
}

// Stats summarizes the current patches.
func (t *Terrain) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return statsOf(t.patches)
}
