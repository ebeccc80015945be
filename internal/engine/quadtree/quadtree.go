// Package quadtree partitions a terrain triangle list into a 4-ary tree over
// the X-Z plane. Leaves own a GPU mesh with their triangles; the tree culls
// whole subtrees against a frustum each frame and answers ground height
// queries at (x, z).
package quadtree

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Default build limits.
const (
	DefaultMaxTrianglesPerLeaf = 10000
	DefaultMaxDepth            = 12
)

// ErrMeshAllocation is returned by Initialize when a leaf mesh could not be
// created. The tree is left empty.
var ErrMeshAllocation = errors.New("quadtree: mesh allocation failed")

// NodeID addresses a node in the tree's arena.
type NodeID int32

// NoNode marks an absent child.
const NoNode NodeID = -1

// MeshHandle is an opaque reference to a mesh owned by a MeshAllocator.
type MeshHandle uint32

// MeshAllocator creates and destroys the per-leaf meshes. Vertices are in
// triangle order; indices are 0..len(vertices)-1.
type MeshAllocator interface {
	Create(vertices []terrain.Vertex, indices []uint32) (MeshHandle, error)
	Destroy(h MeshHandle)
}

// DrawFunc issues the draw for one visible leaf.
type DrawFunc func(h MeshHandle, indexCount int)

// Culler decides whether an axis-aligned cube may be visible.
// frustum.Frustum satisfies it.
type Culler interface {
	ContainsCube(center math.Vec3, halfExtent float32) bool
}

// Node is one square region of the tree.
type Node struct {
	CenterX   float32
	CenterZ   float32
	HalfWidth float32

	// TriangleCount is the number of source triangles overlapping the region.
	// Triangles on a boundary are counted by every node they touch.
	TriangleCount int

	Children [4]NodeID

	// Leaf only.
	Mesh      MeshHandle
	HasMesh   bool
	Positions [][3]float32 // 3 per triangle, for height queries
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	for _, c := range n.Children {
		if c != NoNode {
			return false
		}
	}
	return true
}

// Width returns the full side length of the node's square.
func (n *Node) Width() float32 {
	return n.HalfWidth * 2
}

// QuadTree is a terrain spatial index. It is built once by Initialize and is
// read-only afterwards, except for the drawn-triangle counter updated by
// Render. It is not safe for concurrent use.
type QuadTree struct {
	alloc        MeshAllocator
	maxTriangles int
	maxDepth     int
	log          *zap.Logger

	nodes   []Node
	root    NodeID
	centerY float32 // Y used for node cubes in culling
	source  int     // source triangle count

	drawn int
}

// Option configures a QuadTree.
type Option func(*QuadTree)

// WithMaxTrianglesPerLeaf sets the split threshold. Values < 1 are ignored.
func WithMaxTrianglesPerLeaf(n int) Option {
	return func(q *QuadTree) {
		if n > 0 {
			q.maxTriangles = n
		}
	}
}

// WithMaxDepth caps recursion; a node at this depth becomes a leaf whatever
// its triangle count. Values < 0 are ignored.
func WithMaxDepth(d int) Option {
	return func(q *QuadTree) {
		if d >= 0 {
			q.maxDepth = d
		}
	}
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(q *QuadTree) {
		if l != nil {
			q.log = l
		}
	}
}

// New creates an empty tree that will allocate leaf meshes through alloc.
func New(alloc MeshAllocator, opts ...Option) *QuadTree {
	q := &QuadTree{
		alloc:        alloc,
		maxTriangles: DefaultMaxTrianglesPerLeaf,
		maxDepth:     DefaultMaxDepth,
		root:         NoNode,
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.log == nil {
		q.log = logger.Named("quadtree")
	}
	return q
}

// MaxTrianglesPerLeaf returns the split threshold.
func (q *QuadTree) MaxTrianglesPerLeaf() int {
	return q.maxTriangles
}

// Root returns the root node ID, or NoNode if the tree is empty.
func (q *QuadTree) Root() NodeID {
	return q.root
}

// Node returns the node for id. The pointer is valid until Release.
func (q *QuadTree) Node(id NodeID) *Node {
	return &q.nodes[id]
}

// NodeCount returns the number of nodes in the tree.
func (q *QuadTree) NodeCount() int {
	return len(q.nodes)
}

// Empty reports whether the tree has no root.
func (q *QuadTree) Empty() bool {
	return q.root == NoNode
}

// DrawnTriangles returns the triangle count drawn by the last Render call.
func (q *QuadTree) DrawnTriangles() int {
	return q.drawn
}
