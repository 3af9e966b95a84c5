package terrain

import (
	gomath "math"

	"github.com/Faultbox/marching-terrain/pkg/math"
)

// MaxNodes bounds the number of grid nodes a single terrain may sample.
const MaxNodes = 1 << 26

// SampleFunc returns the scalar field at grid coordinate (i, j). Values must
// lie in [0,1] and be deterministic for a given coordinate.
type SampleFunc func(i, j int) (float32, error)

// Node is one grid sample.
type Node struct {
	Position math.Vec3
	Solid    bool
}

// Grid holds (Width+1) x (Height+1) nodes indexed [x][y], where Width and
// Height count cells.
type Grid struct {
	Width  int
	Height int
	Nodes  [][]Node
}

// At returns the node at grid coordinate (x, y).
func (g *Grid) At(x, y int) Node {
	return g.Nodes[x][y]
}

// SolidCount returns the number of solid nodes.
func (g *Grid) SolidCount() int {
	n := 0
	for _, col := range g.Nodes {
		for _, node := range col {
			if node.Solid {
				n++
			}
		}
	}
	return n
}

// GridParams describes how a grid is sampled.
type GridParams struct {
	WidthCells  int
	HeightCells int
	CellScale   float32
	HeightScale float32
	Density     float32
	Invert      bool
	Origin      math.Vec3
}

// Validate reports parameters that cannot produce a grid.
func (p GridParams) Validate() error {
	if p.WidthCells <= 0 || p.HeightCells <= 0 {
		return invalidf("grid needs at least one cell, got %dx%d", p.WidthCells, p.HeightCells)
	}
	if !(p.CellScale > 0) || isInf(p.CellScale) {
		return invalidf("cell scale must be positive and finite, got %v", p.CellScale)
	}
	if p.WidthCells >= MaxNodes || p.HeightCells >= MaxNodes ||
		int64(p.WidthCells+1)*int64(p.HeightCells+1) > MaxNodes {
		return invalidf("%dx%d cells exceed the %d node limit", p.WidthCells, p.HeightCells, MaxNodes)
	}
	return nil
}

// BuildGrid samples every node of the grid. The grid is returned only when
// all nodes were sampled; any sampler failure yields a *SampleError and no grid.
func BuildGrid(p GridParams, sample SampleFunc) (*Grid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if sample == nil {
		return nil, invalidf("nil sample function")
	}

	cols := p.WidthCells + 1
	rows := p.HeightCells + 1

	backing := make([]Node, cols*rows)
	nodes := make([][]Node, cols)

	for i := range cols {
		nodes[i] = backing[i*rows : (i+1)*rows : (i+1)*rows]
		x := float32(i) * p.CellScale

		for j := range rows {
			v, err := sample(i, j)
			if err != nil {
				return nil, &SampleError{I: i, J: j, Value: v, Err: err}
			}
			if gomath.IsNaN(float64(v)) || v < 0 || v > 1 {
				return nil, &SampleError{I: i, J: j, Value: v, Err: ErrSampleRange}
			}

			z := float32(j) * p.CellScale
			nodes[i][j] = Node{
				Position: math.Vec3{X: x, Y: v * p.HeightScale, Z: z}.Add(p.Origin),
				Solid:    isSolid(v, p.Density, p.Invert),
			}
		}
	}

	return &Grid{
		Width:  p.WidthCells,
		Height: p.HeightCells,
		Nodes:  nodes,
	}, nil
}

func isSolid(v, density float32, invert bool) bool {
	if invert {
		return v < density
	}
	return v >= density
}
