package scene

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-terrain/internal/engine/debug"
	"github.com/Faultbox/midgard-terrain/internal/engine/scene/shaders"
	"github.com/Faultbox/midgard-terrain/internal/engine/shader"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

const lineVertexSize = int(unsafe.Sizeof(debug.LineVertex{}))

// BoundsRenderer draws colored line lists, used for quadtree node boxes.
type BoundsRenderer struct {
	program     *shader.Program
	locViewProj int32

	vao      uint32
	vbo      uint32
	capacity int // vertices the VBO can hold
	count    int
}

// NewBoundsRenderer compiles the line shader and creates an empty buffer.
func NewBoundsRenderer() (*BoundsRenderer, error) {
	program, err := shader.Compile("lines", shaders.LinesVertexShader, shaders.LinesFragmentShader)
	if err != nil {
		return nil, err
	}

	br := &BoundsRenderer{
		program:     program,
		locViewProj: program.MustUniform("uViewProj"),
	}

	gl.GenVertexArrays(1, &br.vao)
	gl.BindVertexArray(br.vao)
	gl.GenBuffers(1, &br.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, br.vbo)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(lineVertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// Color
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(lineVertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return br, nil
}

// Update replaces the lines to draw.
func (br *BoundsRenderer) Update(vertices []debug.LineVertex) {
	br.count = len(vertices)
	if br.count == 0 {
		return
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, br.vbo)
	size := len(vertices) * lineVertexSize
	if len(vertices) > br.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&vertices[0]), gl.DYNAMIC_DRAW)
		br.capacity = len(vertices)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&vertices[0]))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Render draws the current lines.
func (br *BoundsRenderer) Render(viewProj math.Mat4) {
	if br.count == 0 {
		return
	}
	br.program.Use()
	gl.UniformMatrix4fv(br.locViewProj, 1, false, &viewProj[0])
	gl.BindVertexArray(br.vao)
	gl.DrawArrays(gl.LINES, 0, int32(br.count))
	gl.BindVertexArray(0)
}

// Destroy releases all resources.
func (br *BoundsRenderer) Destroy() {
	if br.vao != 0 {
		gl.DeleteVertexArrays(1, &br.vao)
		br.vao = 0
	}
	if br.vbo != 0 {
		gl.DeleteBuffers(1, &br.vbo)
		br.vbo = 0
	}
	br.program.Delete()
}
