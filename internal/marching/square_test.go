package marching

import (
	gomath "math"
	"sort"
	"testing"

	"github.com/Faultbox/marching-terrain/pkg/math"
)

// unitCell returns a flat 1x1 cell in the XZ plane with corners solid
// according to id.
func unitCell(id int) [4]Corner {
	positions := [4]math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: 1},
	}
	var corners [4]Corner
	for i := range corners {
		corners[i] = Corner{Position: positions[i], Solid: id&(1<<i) != 0}
	}
	return corners
}

// rotateID rotates a configuration a quarter turn: corner i becomes i+1.
func rotateID(id int) int {
	return ((id << 1) | (id >> 3)) & 0xF
}

// rotatePoint rotates a point of the unit cell so that corner i lands on
// corner i+1.
func rotatePoint(p math.Vec3) math.Vec3 {
	return math.Vec3{X: 1 - p.Z, Y: p.Y, Z: p.X}
}

func sortedPoints(points []math.Vec3) []math.Vec3 {
	out := append([]math.Vec3(nil), points...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].Z < out[j].Z
	})
	return out
}

func triangleNormal(m Mesh, tri int) math.Vec3 {
	a := m.Vertices[m.Triangles[tri*3]]
	b := m.Vertices[m.Triangles[tri*3+1]]
	c := m.Vertices[m.Triangles[tri*3+2]]
	return b.Sub(a).Cross(c.Sub(a))
}

func coveredArea(m Mesh) float64 {
	var area float64
	for i := 0; i < m.TriangleCount(); i++ {
		area += float64(triangleNormal(m, i).Length()) / 2
	}
	return area
}

func TestConfigurationID(t *testing.T) {
	for id := 0; id < 16; id++ {
		if got := ConfigurationID(unitCell(id)); got != id {
			t.Errorf("ConfigurationID(unitCell(%d)) = %d", id, got)
		}
	}
}

func TestTriangleCounts(t *testing.T) {
	want := map[int]int{
		0: 0,
		1: 1, 2: 1, 4: 1, 8: 1,
		3: 2, 6: 2, 9: 2, 12: 2,
		5: 4, 10: 4,
		7: 3, 11: 3, 13: 3, 14: 3,
		15: 2,
	}

	for id, count := range want {
		m := Triangulate(unitCell(id))
		if got := m.TriangleCount(); got != count {
			t.Errorf("config %d: got %d triangles, want %d", id, got, count)
		}
		if got := TrianglesFor(id); got != count {
			t.Errorf("TrianglesFor(%d) = %d, want %d", id, got, count)
		}
	}
}

func TestVertexCounts(t *testing.T) {
	tests := []struct {
		name string
		ids  []int
		want int
	}{
		{"empty", []int{0}, 0},
		{"corner", []int{1, 2, 4, 8}, 3},
		{"adjacent pair", []int{3, 6, 9, 12}, 4},
		{"diagonal pair", []int{5, 10}, 6},
		{"three corners", []int{7, 11, 13, 14}, 5},
		{"full", []int{15}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, id := range tt.ids {
				m := Triangulate(unitCell(id))
				if len(m.Vertices) != tt.want {
					t.Errorf("config %d: got %d vertices, want %d", id, len(m.Vertices), tt.want)
				}
			}
		})
	}
}

func TestIndicesInRange(t *testing.T) {
	for id := 0; id < 16; id++ {
		m := Triangulate(unitCell(id))
		if len(m.Triangles)%3 != 0 {
			t.Errorf("config %d: index count %d is not a multiple of 3", id, len(m.Triangles))
		}
		for _, idx := range m.Triangles {
			if int(idx) >= len(m.Vertices) {
				t.Errorf("config %d: index %d out of range (%d vertices)", id, idx, len(m.Vertices))
			}
		}
	}
}

func TestNoDuplicatePositions(t *testing.T) {
	for id := 0; id < 16; id++ {
		m := Triangulate(unitCell(id))
		seen := make(map[math.Vec3]bool)
		for _, v := range m.Vertices {
			if seen[v] {
				t.Errorf("config %d: duplicate vertex %v", id, v)
			}
			seen[v] = true
		}
	}
}

func TestWindingFacesUp(t *testing.T) {
	for id := 1; id < 16; id++ {
		m := Triangulate(unitCell(id))
		for tri := 0; tri < m.TriangleCount(); tri++ {
			if n := triangleNormal(m, tri); n.Y <= 0 {
				t.Errorf("config %d triangle %d: normal %v does not face +Y", id, tri, n)
			}
		}
	}
}

func TestCoveredArea(t *testing.T) {
	tests := []struct {
		id   int
		want float64
	}{
		{0, 0},
		{1, 0.125},
		{3, 0.5},
		{5, 0.75},
		{7, 0.875},
		{15, 1},
	}

	for _, tt := range tests {
		got := coveredArea(Triangulate(unitCell(tt.id)))
		if gomath.Abs(got-tt.want) > 1e-6 {
			t.Errorf("config %d: area %f, want %f", tt.id, got, tt.want)
		}
	}
}

func TestRotationSymmetry(t *testing.T) {
	for id := 0; id < 16; id++ {
		rotated := rotateID(id)

		src := Triangulate(unitCell(id))
		dst := Triangulate(unitCell(rotated))

		if src.TriangleCount() != dst.TriangleCount() {
			t.Errorf("config %d -> %d: triangle count %d vs %d", id, rotated, src.TriangleCount(), dst.TriangleCount())
			continue
		}

		turned := make([]math.Vec3, len(src.Vertices))
		for i, v := range src.Vertices {
			turned[i] = rotatePoint(v)
		}

		a := sortedPoints(turned)
		b := sortedPoints(dst.Vertices)
		if len(a) != len(b) {
			t.Errorf("config %d -> %d: vertex count %d vs %d", id, rotated, len(a), len(b))
			continue
		}
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("config %d -> %d: rotated vertex %v, want %v", id, rotated, a[i], b[i])
				break
			}
		}

		if gomath.Abs(coveredArea(src)-coveredArea(dst)) > 1e-6 {
			t.Errorf("config %d -> %d: area differs", id, rotated)
		}
	}
}

func TestDiagonalPairIsConnected(t *testing.T) {
	m := Triangulate(unitCell(5))

	want := sortedPoints([]math.Vec3{
		{X: 0, Z: 0},   // corner 0
		{X: 0.5, Z: 0}, // mid 0-1
		{X: 0, Z: 0.5}, // mid 3-0
		{X: 1, Z: 1},   // corner 2
		{X: 1, Z: 0.5}, // mid 1-2
		{X: 0.5, Z: 1}, // mid 2-3
	})
	got := sortedPoints(m.Vertices)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("diagonal vertices = %v, want %v", got, want)
		}
	}

	// Two corner clips of 0.125 each joined by a connecting quad of 0.5.
	if area := coveredArea(m); gomath.Abs(area-0.75) > 1e-6 {
		t.Errorf("diagonal area = %f, want 0.75", area)
	}
}

func TestFullCellKeepsCorners(t *testing.T) {
	corners := unitCell(15)
	corners[0].Position.Y = 1
	corners[1].Position.Y = 2
	corners[2].Position.Y = 3
	corners[3].Position.Y = 4

	m := Triangulate(corners)
	if len(m.Vertices) != 4 {
		t.Fatalf("got %d vertices, want 4", len(m.Vertices))
	}
	for i, c := range corners {
		if m.Vertices[i] != c.Position {
			t.Errorf("vertex %d = %v, want corner %v", i, m.Vertices[i], c.Position)
		}
	}

	// Both triangles share corners 0 and 2.
	for tri := 0; tri < 2; tri++ {
		has := map[uint32]bool{}
		for _, idx := range m.Triangles[tri*3 : tri*3+3] {
			has[idx] = true
		}
		if !has[0] || !has[2] {
			t.Errorf("triangle %d = %v does not share corners 0 and 2", tri, m.Triangles[tri*3:tri*3+3])
		}
	}
}

func TestMidpointsFollowHeights(t *testing.T) {
	corners := unitCell(1)
	corners[0].Position.Y = 4
	corners[1].Position.Y = 2
	corners[3].Position.Y = 0

	m := Triangulate(corners)
	want := []math.Vec3{
		{X: 0, Y: 2, Z: 0.5},
		{X: 0, Y: 4, Z: 0},
		{X: 0.5, Y: 3, Z: 0},
	}
	for i := range want {
		if m.Vertices[i] != want[i] {
			t.Errorf("vertex %d = %v, want %v", i, m.Vertices[i], want[i])
		}
	}
}

func TestTriangulateReturnsFreshSlices(t *testing.T) {
	first := Triangulate(unitCell(15))
	first.Triangles[0] = 99

	second := Triangulate(unitCell(15))
	if second.Triangles[0] == 99 {
		t.Error("mutating one result leaked into the case table")
	}
}

func TestDegenerateCellStaysConsistent(t *testing.T) {
	var corners [4]Corner
	for i := range corners {
		corners[i] = Corner{Position: math.Vec3{X: 1, Y: 1, Z: 1}, Solid: true}
	}
	corners[1].Solid = false

	m := Triangulate(corners)
	for _, idx := range m.Triangles {
		if int(idx) >= len(m.Vertices) {
			t.Fatalf("index %d out of range on degenerate cell (%d vertices)", idx, len(m.Vertices))
		}
	}
}
