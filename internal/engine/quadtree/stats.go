package quadtree

// Stats summarises the shape of a built tree.
type Stats struct {
	Nodes    int
	Leaves   int
	MaxDepth int

	SourceTriangles int // triangles in the mesh passed to Initialize
	LeafTriangles   int // sum over leaves, boundary triangles counted per leaf
	Duplicated      int // LeafTriangles - SourceTriangles

	RootCenterX float32
	RootCenterZ float32
	RootWidth   float32
}

// Stats walks the tree and returns its summary. An empty tree returns zeros.
func (q *QuadTree) Stats() Stats {
	s := Stats{SourceTriangles: q.source}
	if q.root == NoNode {
		return s
	}

	root := &q.nodes[q.root]
	s.RootCenterX = root.CenterX
	s.RootCenterZ = root.CenterZ
	s.RootWidth = root.Width()

	q.Walk(func(_ NodeID, n *Node, depth int) bool {
		s.Nodes++
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		if n.IsLeaf() {
			s.Leaves++
			s.LeafTriangles += n.TriangleCount
		}
		return true
	})
	s.Duplicated = s.LeafTriangles - s.SourceTriangles
	return s
}

// Walk visits nodes depth-first, parent before children, children in
// quadrant order. Returning false from fn skips that node's children.
// The root has depth 0.
func (q *QuadTree) Walk(fn func(id NodeID, n *Node, depth int) bool) {
	if q.root == NoNode {
		return
	}
	q.walk(q.root, 0, fn)
}

func (q *QuadTree) walk(id NodeID, depth int, fn func(NodeID, *Node, int) bool) {
	n := &q.nodes[id]
	if !fn(id, n, depth) {
		return
	}
	for _, child := range n.Children {
		if child != NoNode {
			q.walk(child, depth+1, fn)
		}
	}
}
