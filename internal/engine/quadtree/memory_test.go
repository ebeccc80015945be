package quadtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryAllocatorLifecycle(t *testing.T) {
	alloc := NewMemoryAllocator()
	tree := New(alloc, WithLogger(zap.NewNop()), WithMaxTrianglesPerLeaf(8), WithMaxDepth(1))

	require.NoError(t, tree.Initialize(gridMesh(t, 5, 5, func(int, int) float32 { return 0 })))
	leaves := tree.Stats().Leaves
	assert.Equal(t, leaves, alloc.Live())
	assert.Positive(t, alloc.Bytes())

	tree.Walk(func(_ NodeID, n *Node, _ int) bool {
		if !n.HasMesh {
			return true
		}
		m, ok := alloc.Mesh(n.Mesh)
		require.True(t, ok)
		assert.Len(t, m.Vertices, n.TriangleCount*3)
		assert.Len(t, m.Indices, n.TriangleCount*3)
		for i, idx := range m.Indices {
			assert.Equal(t, uint32(i), idx)
		}
		return true
	})

	tree.Release()
	assert.Zero(t, alloc.Live())
	assert.Zero(t, alloc.Bytes())
}

func TestMemoryAllocatorCopiesBuffers(t *testing.T) {
	alloc := NewMemoryAllocator()
	mesh := squareMesh(t, 0)
	h, err := alloc.Create(mesh.Vertices, []uint32{0, 1, 2})
	require.NoError(t, err)

	mesh.Vertices[0].Position[1] = 99
	m, ok := alloc.Mesh(h)
	require.True(t, ok)
	assert.NotEqual(t, float32(99), m.Vertices[0].Position[1])

	alloc.Destroy(h)
	alloc.Destroy(h)
	_, ok = alloc.Mesh(h)
	assert.False(t, ok)
}
