package debug

import (
	"github.com/Faultbox/midgard-terrain/internal/engine/quadtree"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// NodeBounds returns wireframe boxes for the leaves of tree, each spanning
// minY..maxY. A leaf is drawn in ColorVisible when it and all of its
// ancestors pass c, matching what Render would draw, and in ColorCulled
// otherwise. A nil culler marks every leaf visible.
func NodeBounds(tree *quadtree.QuadTree, minY, maxY float32, c quadtree.Culler) []LineVertex {
	var out []LineVertex
	midY := (minY + maxY) / 2

	// culled[d] is set when the node on the current path at depth d was rejected.
	var culled []bool
	tree.Walk(func(_ quadtree.NodeID, n *quadtree.Node, depth int) bool {
		culled = culled[:depth]
		rejected := depth > 0 && culled[depth-1]
		if !rejected && c != nil {
			rejected = !c.ContainsCube(math.Vec3{X: n.CenterX, Y: midY, Z: n.CenterZ}, n.HalfWidth)
		}
		culled = append(culled, rejected)

		if n.IsLeaf() {
			color := ColorVisible
			if rejected {
				color = ColorCulled
			}
			out = AppendBoxLines(out,
				[3]float32{n.CenterX - n.HalfWidth, minY, n.CenterZ - n.HalfWidth},
				[3]float32{n.CenterX + n.HalfWidth, maxY, n.CenterZ + n.HalfWidth},
				color,
			)
		}
		return true
	})
	return out
}
