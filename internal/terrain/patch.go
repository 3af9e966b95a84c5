package terrain

import (
	"github.com/Faultbox/marching-terrain/internal/marching"
	"github.com/Faultbox/marching-terrain/pkg/math"
)

// PatchCoord identifies a patch in the patch grid.
type PatchCoord struct {
	Row int
	Col int
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Empty reports whether no point was ever added to the bounds.
func (b Bounds) Empty() bool {
	return b.Min.X > b.Max.X
}

func emptyBounds() Bounds {
	return Bounds{
		Min: math.Vec3{X: 1e30, Y: 1e30, Z: 1e30},
		Max: math.Vec3{X: -1e30, Y: -1e30, Z: -1e30},
	}
}

func (b *Bounds) extend(p math.Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// BoundsOf returns the union of the bounds of every non-empty patch.
func BoundsOf(patches []Patch) Bounds {
	out := emptyBounds()
	for _, p := range patches {
		if p.Mesh == nil || p.Mesh.Bounds.Empty() {
			continue
		}
		out.extend(p.Mesh.Bounds.Min)
		out.extend(p.Mesh.Bounds.Max)
	}
	return out
}

// PatchMesh is the merged surface of all cells in one patch, ready to hand to
// a renderer. Indices holds triangle triples into Vertices.
type PatchMesh struct {
	Vertices []math.Vec3
	Indices  []uint32
	Bounds   Bounds
	Cells    int
}

// TriangleCount returns the number of triangles in the patch.
func (m *PatchMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Patch pairs a patch coordinate with its mesh.
type Patch struct {
	Coord PatchCoord
	Mesh  *PatchMesh
}

// append merges a cell into the patch, offsetting its indices past the
// vertices already present.
func (m *PatchMesh) append(cell marching.Mesh) {
	offset := uint32(len(m.Vertices))
	for _, idx := range cell.Triangles {
		m.Indices = append(m.Indices, idx+offset)
	}
	for _, v := range cell.Vertices {
		m.Vertices = append(m.Vertices, v)
		m.Bounds.extend(v)
	}
}

// BuildPatch triangulates the cells [rowStart, rowStart+size) x
// [colStart, colStart+size), clipped to the grid, and merges them into one
// mesh. Vertices are not shared between cells.
func BuildPatch(g *Grid, rowStart, colStart, size int) *PatchMesh {
	rowEnd := min(rowStart+size, g.Width)
	colEnd := min(colStart+size, g.Height)

	mesh := &PatchMesh{Bounds: emptyBounds()}

	for x := rowStart; x < rowEnd; x++ {
		for y := colStart; y < colEnd; y++ {
			corners := [4]marching.Corner{
				marching.Corner(g.Nodes[x][y]),
				marching.Corner(g.Nodes[x+1][y]),
				marching.Corner(g.Nodes[x+1][y+1]),
				marching.Corner(g.Nodes[x][y+1]),
			}
			mesh.append(marching.Triangulate(corners))
			mesh.Cells++
		}
	}

	return mesh
}
