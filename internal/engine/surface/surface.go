// Package surface prepares patch meshes for GPU upload: it recomputes vertex
// normals and interleaves them with positions.
package surface

import (
	gomath "math"

	"github.com/Faultbox/marching-terrain/pkg/math"
)

// Vertex is the interleaved layout uploaded to the GPU.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Buffer is a renderable mesh.
type Buffer struct {
	Vertices []Vertex
	Indices  []uint32
}

// weldEpsilon is the distance under which vertices share a smoothed normal.
const weldEpsilon float32 = 0.001

// Build computes area weighted face normals, averages them across vertices
// at the same position and interleaves the result. Patch meshes never share
// vertices between cells, so smoothing has to go through positions.
func Build(positions []math.Vec3, indices []uint32) Buffer {
	normals := make([]math.Vec3, len(positions))

	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		pa, pb, pc := positions[a], positions[b], positions[c]
		// Unnormalized so larger triangles weigh more
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}

	smooth(positions, normals)

	vertices := make([]Vertex, len(positions))
	for i, p := range positions {
		vertices[i] = Vertex{
			Position: p.Array(),
			Normal:   normals[i].Normalize().Array(),
		}
	}

	out := make([]uint32, len(indices))
	copy(out, indices)

	return Buffer{Vertices: vertices, Indices: out}
}

// smooth sums normals of vertices that share a quantized position.
func smooth(positions []math.Vec3, normals []math.Vec3) {
	groups := make(map[[3]float64][]int)
	for i, p := range positions {
		key := weldKey(p)
		groups[key] = append(groups[key], i)
	}

	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		var sum math.Vec3
		for _, idx := range members {
			sum = sum.Add(normals[idx])
		}
		for _, idx := range members {
			normals[idx] = sum
		}
	}
}

// weldKey snaps a position to the weld grid. Float keys stay exact for any
// finite coordinate where an integer cast would overflow.
func weldKey(p math.Vec3) [3]float64 {
	const eps = float64(weldEpsilon)
	return [3]float64{
		gomath.Round(float64(p.X) / eps),
		gomath.Round(float64(p.Y) / eps),
		gomath.Round(float64(p.Z) / eps),
	}
}
