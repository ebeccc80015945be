// Package glmesh stores quadtree leaf meshes in OpenGL buffers.
// All calls must happen on the thread that owns the GL context.
package glmesh

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-terrain/internal/engine/quadtree"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// ErrEmptyMesh is returned when asked to upload no vertices.
var ErrEmptyMesh = errors.New("glmesh: empty mesh")

// vertexSize is the byte size of terrain.Vertex: position, normal, texcoord.
const vertexSize = int(unsafe.Sizeof(terrain.Vertex{}))

type mesh struct {
	vao uint32
	vbo uint32
	ebo uint32
}

// Allocator implements quadtree.MeshAllocator with one VAO, VBO and EBO per
// leaf. Vertex attributes: 0 position, 1 normal, 2 texcoord.
type Allocator struct {
	meshes slots[mesh]
}

var _ quadtree.MeshAllocator = (*Allocator)(nil)

// NewAllocator creates an allocator. gl.Init must have been called.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Create uploads a leaf mesh and returns its handle.
func (a *Allocator) Create(vertices []terrain.Vertex, indices []uint32) (quadtree.MeshHandle, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return 0, ErrEmptyMesh
	}

	var m mesh
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*vertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)

	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		deleteMesh(m)
		return 0, fmt.Errorf("glmesh: upload of %d vertices failed with GL error 0x%x", len(vertices), code)
	}

	return quadtree.MeshHandle(a.meshes.put(m)), nil
}

// Destroy frees the GL objects behind h. Unknown handles are ignored.
func (a *Allocator) Destroy(h quadtree.MeshHandle) {
	if m, ok := a.meshes.remove(uint32(h)); ok {
		deleteMesh(m)
	}
}

// Draw issues an indexed draw for h. It matches quadtree.DrawFunc.
func (a *Allocator) Draw(h quadtree.MeshHandle, indexCount int) {
	m, ok := a.meshes.get(uint32(h))
	if !ok {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Live returns the number of meshes currently allocated.
func (a *Allocator) Live() int {
	return a.meshes.live
}

func deleteMesh(m mesh) {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
}
