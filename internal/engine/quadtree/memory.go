package quadtree

import (
	"unsafe"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// MemoryMesh is a leaf mesh held in process memory.
type MemoryMesh struct {
	Vertices []terrain.Vertex
	Indices  []uint32
}

// MemoryAllocator implements MeshAllocator without a GPU. Headless tools use
// it to build and inspect trees.
type MemoryAllocator struct {
	meshes map[MeshHandle]MemoryMesh
	next   MeshHandle
	bytes  int
}

// NewMemoryAllocator returns an empty allocator.
func NewMemoryAllocator() *MemoryAllocator {
	return &MemoryAllocator{meshes: make(map[MeshHandle]MemoryMesh)}
}

// Create copies the buffers and returns a fresh handle. Handles start at 1.
func (a *MemoryAllocator) Create(vertices []terrain.Vertex, indices []uint32) (MeshHandle, error) {
	a.next++
	m := MemoryMesh{
		Vertices: append([]terrain.Vertex(nil), vertices...),
		Indices:  append([]uint32(nil), indices...),
	}
	a.meshes[a.next] = m
	a.bytes += meshBytes(m)
	return a.next, nil
}

// Destroy drops a mesh. Unknown handles are ignored.
func (a *MemoryAllocator) Destroy(h MeshHandle) {
	m, ok := a.meshes[h]
	if !ok {
		return
	}
	a.bytes -= meshBytes(m)
	delete(a.meshes, h)
}

// Mesh returns the buffers behind h.
func (a *MemoryAllocator) Mesh(h MeshHandle) (MemoryMesh, bool) {
	m, ok := a.meshes[h]
	return m, ok
}

// Live returns the number of meshes not yet destroyed.
func (a *MemoryAllocator) Live() int { return len(a.meshes) }

// Bytes returns the vertex and index memory held by live meshes.
func (a *MemoryAllocator) Bytes() int { return a.bytes }

func meshBytes(m MemoryMesh) int {
	return len(m.Vertices)*int(unsafe.Sizeof(terrain.Vertex{})) + len(m.Indices)*4
}
