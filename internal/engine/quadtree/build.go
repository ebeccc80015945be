package quadtree

import (
	"fmt"
	stdmath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// Initialize builds the tree from mesh. The root square is centred on the mean
// vertex X-Z position and is wide enough to hold the furthest vertex on either
// axis. An empty mesh yields an empty tree. Calling Initialize on a built tree
// releases the old one first.
//
// If a leaf mesh cannot be allocated, every mesh created so far is destroyed,
// the tree is left empty and the error wraps ErrMeshAllocation.
func (q *QuadTree) Initialize(mesh *terrain.Mesh) error {
	q.Release()

	if mesh == nil || mesh.TriangleCount() == 0 {
		q.log.Info("empty terrain mesh, quadtree has no root")
		return nil
	}

	cx, cz, width := meshDimensions(mesh)
	q.centerY = mesh.Bounds.Center()[1]
	q.source = mesh.TriangleCount()

	b := builder{q: q, mesh: mesh}
	root, err := b.createNode(cx, cz, width, 0)
	if err != nil {
		q.Release()
		return err
	}
	q.root = root

	st := q.Stats()
	q.log.Info("quadtree built",
		zap.Int("triangles", q.source),
		zap.Int("nodes", st.Nodes),
		zap.Int("leaves", st.Leaves),
		zap.Int("depth", st.MaxDepth),
		zap.Int("duplicated", st.Duplicated),
		zap.Float32("width", width),
	)
	return nil
}

// Release destroys every leaf mesh and empties the tree. It is safe to call
// more than once.
func (q *QuadTree) Release() {
	// Children are always appended after their parent.
	for i := len(q.nodes) - 1; i >= 0; i-- {
		n := &q.nodes[i]
		if n.HasMesh {
			q.alloc.Destroy(n.Mesh)
			n.HasMesh = false
		}
	}
	q.nodes = nil
	q.root = NoNode
	q.source = 0
	q.drawn = 0
}

// IsTriangleContained reports whether the X-Z bounding box of triangle index
// overlaps the square of side width centred on (cx, cz). Edges are inclusive,
// so a triangle on a shared boundary belongs to both neighbours.
func IsTriangleContained(mesh *terrain.Mesh, index int, cx, cz, width float32) bool {
	radius := width / 2
	base := index * 3
	p0 := mesh.Vertices[base].Position
	p1 := mesh.Vertices[base+1].Position
	p2 := mesh.Vertices[base+2].Position

	if min3(p0[0], p1[0], p2[0]) > cx+radius {
		return false
	}
	if max3(p0[0], p1[0], p2[0]) < cx-radius {
		return false
	}
	if min3(p0[2], p1[2], p2[2]) > cz+radius {
		return false
	}
	if max3(p0[2], p1[2], p2[2]) < cz-radius {
		return false
	}
	return true
}

// builder holds the source mesh for the duration of one Initialize call.
type builder struct {
	q    *QuadTree
	mesh *terrain.Mesh
}

func (b *builder) createNode(cx, cz, width float32, depth int) (NodeID, error) {
	q := b.q

	count := b.countTriangles(cx, cz, width)
	if count == 0 {
		return NoNode, nil
	}

	id := NodeID(len(q.nodes))
	q.nodes = append(q.nodes, Node{
		CenterX:       cx,
		CenterZ:       cz,
		HalfWidth:     width / 2,
		TriangleCount: count,
		Children:      [4]NodeID{NoNode, NoNode, NoNode, NoNode},
	})

	if count > q.maxTriangles {
		if depth < q.maxDepth {
			for i := 0; i < 4; i++ {
				ox, oz := quadrantOffset(i, width)
				child, err := b.createNode(cx+ox, cz+oz, width/2, depth+1)
				if err != nil {
					return NoNode, err
				}
				q.nodes[id].Children[i] = child
			}
			return id, nil
		}
		q.log.Warn("depth limit reached, keeping oversized leaf",
			zap.Int("depth", depth),
			zap.Int("triangles", count),
			zap.Float32("x", cx),
			zap.Float32("z", cz),
		)
	}

	return id, b.fillLeaf(id, count)
}

// fillLeaf copies the node's triangles into a fresh vertex/index array and
// hands them to the allocator.
func (b *builder) fillLeaf(id NodeID, count int) error {
	q := b.q
	n := &q.nodes[id]

	vertices := make([]terrain.Vertex, 0, count*3)
	indices := make([]uint32, 0, count*3)
	positions := make([][3]float32, 0, count*3)

	width := n.Width()
	for i := 0; i < b.mesh.TriangleCount(); i++ {
		if !IsTriangleContained(b.mesh, i, n.CenterX, n.CenterZ, width) {
			continue
		}
		for _, v := range b.mesh.Triangle(i) {
			indices = append(indices, uint32(len(vertices)))
			vertices = append(vertices, v)
			positions = append(positions, v.Position)
		}
	}

	h, err := q.alloc.Create(vertices, indices)
	if err != nil {
		return fmt.Errorf("%w: leaf at (%.2f, %.2f) with %d triangles: %w",
			ErrMeshAllocation, n.CenterX, n.CenterZ, count, err)
	}
	n.Mesh = h
	n.HasMesh = true
	n.Positions = positions

	q.log.Debug("leaf created",
		zap.Int32("id", int32(id)),
		zap.Float32("x", n.CenterX),
		zap.Float32("z", n.CenterZ),
		zap.Float32("width", width),
		zap.Int("triangles", count),
	)
	return nil
}

func (b *builder) countTriangles(cx, cz, width float32) int {
	count := 0
	for i := 0; i < b.mesh.TriangleCount(); i++ {
		if IsTriangleContained(b.mesh, i, cx, cz, width) {
			count++
		}
	}
	return count
}

// quadrantOffset returns the child centre offset for quadrant i:
// 0 = (-x, -z), 1 = (+x, -z), 2 = (-x, +z), 3 = (+x, +z).
func quadrantOffset(i int, width float32) (float32, float32) {
	ox, oz := -width/4, -width/4
	if i%2 == 1 {
		ox = width / 4
	}
	if i >= 2 {
		oz = width / 4
	}
	return ox, oz
}

// meshDimensions returns the mean X-Z vertex position and the side of the
// smallest square around it that holds every vertex.
func meshDimensions(mesh *terrain.Mesh) (cx, cz, width float32) {
	var sumX, sumZ float64
	for i := range mesh.Vertices {
		sumX += float64(mesh.Vertices[i].Position[0])
		sumZ += float64(mesh.Vertices[i].Position[2])
	}
	n := float64(len(mesh.Vertices))
	cx = float32(sumX / n)
	cz = float32(sumZ / n)

	var maxX, maxZ float64
	for i := range mesh.Vertices {
		p := mesh.Vertices[i].Position
		maxX = stdmath.Max(maxX, stdmath.Abs(float64(p[0]-cx)))
		maxZ = stdmath.Max(maxZ, stdmath.Abs(float64(p[2]-cz)))
	}
	return cx, cz, float32(stdmath.Max(maxX, maxZ) * 2)
}

func min3(a, b, c float32) float32 {
	return min(a, min(b, c))
}

func max3(a, b, c float32) float32 {
	return max(a, max(b, c))
}
