package game

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"walkabout/internal/view"
)

const FogDensity = 0.025

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

type Renderer struct {
	lineProg uint32
	lineVAO  uint32
	lineVBO  uint32
	capacity int // vertices the VBO currently holds

	uViewProj   int32
	uFogColor   int32
	uFogDensity int32
}

func NewRenderer() (*Renderer, error) {
	lineProg, err := linkProgram(lineVertSrc, lineFragSrc)
	if err != nil {
		return nil, fmt.Errorf("line program: %w", err)
	}
	r := &Renderer{lineProg: lineProg}

	// Streaming buffer of line-list vertices, view.VertexFloats floats each.
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	stride := int32(view.VertexFloats * 4)
	r.capacity = MaxLineVertices
	gl.BufferData(gl.ARRAY_BUFFER, r.capacity*int(stride), nil, gl.STREAM_DRAW)
	// aPos (vec3)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, glOffset(0))
	// aColor (vec4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, stride, glOffset(3*4))
	r.lineVAO = vao
	r.lineVBO = vbo

	gl.UseProgram(lineProg)
	r.uViewProj = gl.GetUniformLocation(lineProg, gl.Str("uViewProj\x00"))
	r.uFogColor = gl.GetUniformLocation(lineProg, gl.Str("uFogColor\x00"))
	r.uFogDensity = gl.GetUniformLocation(lineProg, gl.Str("uFogDensity\x00"))
	sr, sg, sb := view.Palette.Sky.Floats()
	gl.Uniform3f(r.uFogColor, sr, sg, sb)
	gl.Uniform1f(r.uFogDensity, FogDensity)

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	if r.lineVBO != 0 {
		gl.DeleteBuffers(1, &r.lineVBO)
	}
	if r.lineVAO != 0 {
		gl.DeleteVertexArrays(1, &r.lineVAO)
	}
	if r.lineProg != 0 {
		gl.DeleteProgram(r.lineProg)
	}
}

func (r *Renderer) BeginFrame(fbW, fbH int) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawLines uploads a line-list buffer built by view.Lines and draws it.
func (r *Renderer) DrawLines(viewProj mgl32.Mat4, buf []float32) {
	n := len(buf) / view.VertexFloats
	if n == 0 {
		return
	}
	gl.UseProgram(r.lineProg)
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.UniformMatrix4fv(r.uViewProj, 1, false, &viewProj[0])

	stride := view.VertexFloats * 4
	if n > r.capacity {
		for r.capacity < n {
			r.capacity *= 2
		}
		gl.BufferData(gl.ARRAY_BUFFER, r.capacity*stride, nil, gl.STREAM_DRAW)
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(buf)*4, gl.Ptr(&buf[0]))
	gl.DrawArrays(gl.LINES, 0, int32(n))
	gl.BindVertexArray(0)
}
