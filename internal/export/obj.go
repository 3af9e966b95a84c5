// Package export writes generated terrain to interchange formats.
package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Faultbox/marching-terrain/internal/terrain"
)

// WriteOBJ writes patches as a Wavefront OBJ file with one object per
// non-empty patch. Face indices are 1-based and global across objects.
func WriteOBJ(w io.Writer, patches []terrain.Patch) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# marching terrain")

	offset := 1
	for _, p := range patches {
		m := p.Mesh
		if m == nil || m.TriangleCount() == 0 {
			continue
		}

		fmt.Fprintf(bw, "o patch_%d_%d\n", p.Coord.Row, p.Coord.Col)
		for _, v := range m.Vertices {
			fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z)
		}
		for i := 0; i+2 < len(m.Indices); i += 3 {
			fmt.Fprintf(bw, "f %d %d %d\n",
				int(m.Indices[i])+offset,
				int(m.Indices[i+1])+offset,
				int(m.Indices[i+2])+offset)
		}
		offset += len(m.Vertices)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing obj: %w", err)
	}
	return nil
}
