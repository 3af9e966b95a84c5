// Package render draws terrain patches with OpenGL.
package render

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/marching-terrain/internal/engine/surface"
	"github.com/Faultbox/marching-terrain/internal/terrain"
	"github.com/Faultbox/marching-terrain/pkg/math"
)

// gpuPatch holds the GPU buffers of one patch.
type gpuPatch struct {
	coord      terrain.PatchCoord
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// PatchRenderer owns one vertex array per terrain patch.
type PatchRenderer struct {
	log     *zap.Logger
	program *program
	patches []gpuPatch

	Wireframe bool
	LightDir  math.Vec3

	maxHeight float32
}

// NewPatchRenderer initializes OpenGL and compiles the terrain shader. It
// must be called on the thread that owns the GL context.
func NewPatchRenderer(log *zap.Logger) (*PatchRenderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	prog, err := newProgram()
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.ClearColor(0.45, 0.6, 0.75, 1.0)

	return &PatchRenderer{
		log:      log,
		program:  prog,
		LightDir: math.Vec3{X: -0.4, Y: -1, Z: -0.3}.Normalize(),
	}, nil
}

// Upload replaces every GPU patch with the given patches.
func (r *PatchRenderer) Upload(patches []terrain.Patch, maxHeight float32) {
	r.Clear()
	r.maxHeight = maxHeight

	for _, p := range patches {
		if p.Mesh == nil || p.Mesh.TriangleCount() == 0 {
			continue
		}
		buf := surface.Build(p.Mesh.Vertices, p.Mesh.Indices)
		r.patches = append(r.patches, upload(p.Coord, buf))
	}

	r.log.Debug("patches uploaded",
		zap.Int("patches", len(patches)),
		zap.Int("drawn", len(r.patches)),
	)
}

func upload(coord terrain.PatchCoord, buf surface.Buffer) gpuPatch {
	gp := gpuPatch{coord: coord, indexCount: int32(len(buf.Indices))}
	vertexSize := int(unsafe.Sizeof(surface.Vertex{}))

	gl.GenVertexArrays(1, &gp.vao)
	gl.BindVertexArray(gp.vao)

	gl.GenBuffers(1, &gp.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gp.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(buf.Vertices)*vertexSize, unsafe.Pointer(&buf.Vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &gp.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gp.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(buf.Indices)*4, unsafe.Pointer(&buf.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return gp
}

// Draw clears the framebuffer and renders every uploaded patch.
func (r *PatchRenderer) Draw(viewProj math.Mat4, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		defer gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	gl.UseProgram(r.program.id)
	gl.UniformMatrix4fv(r.program.locViewProj, 1, false, viewProj.Ptr())
	gl.Uniform3f(r.program.locLightDir, r.LightDir.X, r.LightDir.Y, r.LightDir.Z)
	gl.Uniform3f(r.program.locLowColor, 0.33, 0.42, 0.18)
	gl.Uniform3f(r.program.locHighColor, 0.75, 0.72, 0.62)
	gl.Uniform1f(r.program.locMaxHeight, r.maxHeight)

	for _, p := range r.patches {
		gl.BindVertexArray(p.vao)
		gl.DrawElementsWithOffset(gl.TRIANGLES, p.indexCount, gl.UNSIGNED_INT, 0)
	}
	gl.BindVertexArray(0)
}

// Clear releases every uploaded patch.
func (r *PatchRenderer) Clear() {
	for _, p := range r.patches {
		gl.DeleteVertexArrays(1, &p.vao)
		gl.DeleteBuffers(1, &p.vbo)
		gl.DeleteBuffers(1, &p.ebo)
	}
	r.patches = r.patches[:0]
}

// Release frees all GPU resources.
func (r *PatchRenderer) Release() {
	r.Clear()
	if r.program != nil {
		r.program.release()
		r.program = nil
	}
}
