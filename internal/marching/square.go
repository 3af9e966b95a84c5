// Package marching triangulates a single marching squares cell.
//
// A cell is four corner samples ordered bottom-left, bottom-right, top-right,
// top-left. Every solid corner clips a triangle out of the cell bounded by the
// midpoints of its two edges; adjacent clips are merged by dropping the
// vertices they share, and the resulting outline is triangulated with a fixed
// 16-entry table indexed by the corner configuration.
package marching

import (
	"github.com/Faultbox/marching-terrain/pkg/math"
)

// Corner is one sample of a cell.
type Corner struct {
	Position math.Vec3
	Solid    bool
}

// Mesh is the triangulated surface of one cell. Triangles holds index
// triples into Vertices.
type Mesh struct {
	Vertices  []math.Vec3
	Triangles []uint32
}

// TriangleCount returns the number of triangles in the mesh.
func (m Mesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// Perimeter slots, walking the cell outline from corner 0.
const (
	slotCorner0 = iota
	slotMid01
	slotCorner1
	slotMid12
	slotCorner2
	slotMid23
	slotCorner3
	slotMid30
	slotCount
)

// clips lists the perimeter slots of the triangle cut off at each corner.
var clips = [4][3]int{
	{slotMid30, slotCorner0, slotMid01},
	{slotMid01, slotCorner1, slotMid12},
	{slotMid12, slotCorner2, slotMid23},
	{slotMid23, slotCorner3, slotMid30},
}

// Triangles per configuration, indexing the compacted vertex list.
var (
	shapeCorner   = []uint32{2, 1, 0}
	shapeAdjacent = []uint32{0, 2, 1, 0, 3, 2}
	shapeDiagonal = []uint32{2, 1, 0, 5, 4, 3, 0, 5, 2, 5, 3, 2}
	shapeThree    = []uint32{0, 2, 1, 0, 3, 2, 0, 4, 3}
	shapeFull     = []uint32{0, 2, 1, 0, 3, 2}
)

var table = [16][]uint32{
	0:  nil,
	1:  shapeCorner,
	2:  shapeCorner,
	3:  shapeAdjacent,
	4:  shapeCorner,
	5:  shapeDiagonal,
	6:  shapeAdjacent,
	7:  shapeThree,
	8:  shapeCorner,
	9:  shapeAdjacent,
	10: shapeDiagonal,
	11: shapeThree,
	12: shapeAdjacent,
	13: shapeThree,
	14: shapeThree,
	15: shapeFull,
}

// ConfigurationID returns the 4-bit case index of a cell: bit i is set when
// corner i is solid.
func ConfigurationID(corners [4]Corner) int {
	id := 0
	for i, c := range corners {
		if c.Solid {
			id |= 1 << i
		}
	}
	return id
}

// TrianglesFor returns the number of triangles emitted for a configuration.
func TrianglesFor(id int) int {
	return len(table[id&0xF]) / 3
}

// Triangulate builds the mesh for one cell. It never fails and has no side
// effects, so it may be called concurrently.
func Triangulate(corners [4]Corner) Mesh {
	id := ConfigurationID(corners)
	if id == 0 {
		return Mesh{}
	}

	active := make([]int, 0, 12)
	for i, c := range corners {
		if c.Solid {
			active = append(active, clips[i][:]...)
		}
	}
	active = mergeShared(active)

	slots := perimeter(corners)
	vertices := make([]math.Vec3, len(active))
	for i, s := range active {
		vertices[i] = slots[s]
	}

	shape := table[id]
	triangles := make([]uint32, len(shape))
	copy(triangles, shape)

	return Mesh{
		Vertices:  vertices,
		Triangles: triangles,
	}
}

// perimeter returns the corner positions interleaved with edge midpoints.
func perimeter(corners [4]Corner) [slotCount]math.Vec3 {
	var slots [slotCount]math.Vec3
	for i := range 4 {
		a := corners[i].Position
		b := corners[(i+1)%4].Position
		slots[2*i] = a
		slots[2*i+1] = a.Mid(b)
	}
	return slots
}

// mergeShared drops both copies of every perimeter slot that two
// neighbouring corner clips emitted. Touching clips share exactly one
// midpoint, so removing the pair fuses them into a single outline. Equal
// slots always hold equal positions; comparing slots keeps the vertex count
// in step with the triangle table even when a degenerate cell has coincident
// corners.
func mergeShared(active []int) []int {
	for k := 0; k < len(active); k++ {
		for l := k + 1; l < len(active); l++ {
			if active[k] != active[l] {
				continue
			}
			s := active[k]
			active = removeFirst(active, s)
			active = removeFirst(active, s)
			break
		}
	}
	return active
}

func removeFirst(active []int, slot int) []int {
	for i, s := range active {
		if s == slot {
			return append(active[:i], active[i+1:]...)
		}
	}
	return active
}
