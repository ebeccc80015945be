// Package terrain builds the flat triangle list that the quadtree partitions.
// Heightmap images are turned into a grid of quads, two triangles per cell.
package terrain

import (
	"errors"
	"fmt"
)

// ErrNotTriangleList is returned when a vertex slice is not a multiple of 3.
var ErrNotTriangleList = errors.New("terrain: vertex count is not a multiple of 3")

// Vertex represents a terrain mesh vertex with all attributes.
// Only Position is interpreted by the spatial index; the rest is passed
// through to the GPU untouched.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Bounds holds the axis-aligned bounding box of the terrain.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Mesh is an ordered, non-indexed triangle list: vertices 3i, 3i+1 and 3i+2
// form triangle i. A triangle's identity is its index.
type Mesh struct {
	Vertices []Vertex
	Bounds   Bounds
}

// NewMesh wraps a triangle list and computes its bounds.
func NewMesh(vertices []Vertex) (*Mesh, error) {
	if len(vertices)%3 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNotTriangleList, len(vertices))
	}

	m := &Mesh{Vertices: vertices}
	m.Bounds = Bounds{
		Min: [3]float32{1e30, 1e30, 1e30},
		Max: [3]float32{-1e30, -1e30, -1e30},
	}
	for i := range vertices {
		updateBounds(&m.Bounds, vertices[i].Position)
	}
	if len(vertices) == 0 {
		m.Bounds = Bounds{}
	}
	return m, nil
}

// VertexCount returns the number of vertices in the list.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles in the list.
func (m *Mesh) TriangleCount() int {
	return len(m.Vertices) / 3
}

// Triangle returns the three vertices of triangle i.
func (m *Mesh) Triangle(i int) [3]Vertex {
	base := i * 3
	return [3]Vertex{m.Vertices[base], m.Vertices[base+1], m.Vertices[base+2]}
}

// Heightmap is a grid of heights sampled at integer (x, z) positions.
type Heightmap struct {
	Width   int       // Samples along X
	Depth   int       // Samples along Z
	Heights []float32 // Row-major, index z*Width + x
}

// At returns the height sample at grid position (x, z).
func (h *Heightmap) At(x, z int) float32 {
	return h.Heights[z*h.Width+x]
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
