package quadtree

import (
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Render draws every leaf whose cube passes the culler and returns the number
// of triangles drawn. A subtree whose node fails the test is skipped whole.
// Triangles duplicated across leaf boundaries are counted once per leaf.
func (q *QuadTree) Render(c Culler, draw DrawFunc) int {
	q.drawn = 0
	if q.root != NoNode {
		q.renderNode(q.root, c, draw)
	}
	return q.drawn
}

func (q *QuadTree) renderNode(id NodeID, c Culler, draw DrawFunc) {
	n := &q.nodes[id]

	// Height does not matter for the X-Z partition; the cube sits at the
	// terrain's mid height.
	center := math.Vec3{X: n.CenterX, Y: q.centerY, Z: n.CenterZ}
	if !c.ContainsCube(center, n.HalfWidth) {
		return
	}

	children := 0
	for _, child := range n.Children {
		if child == NoNode {
			continue
		}
		children++
		q.renderNode(child, c, draw)
	}

	// Internal nodes hold no mesh, even when every child was culled.
	if children != 0 || !n.HasMesh {
		return
	}

	draw(n.Mesh, n.TriangleCount*3)
	q.drawn += n.TriangleCount
}
