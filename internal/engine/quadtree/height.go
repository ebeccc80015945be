package quadtree

import (
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Tolerances of the vertical ray test.
const (
	parallelEpsilon = 1e-4
	edgeTolerance   = 0.001
)

// HeightAt returns the terrain height under (x, z). ok is false when the
// point lies outside the root square (edges inclusive) or no leaf triangle is
// hit. Leaves are searched in child order and the first hit wins.
func (q *QuadTree) HeightAt(x, z float32) (height float32, ok bool) {
	if q.root == NoNode {
		return 0, false
	}
	return q.findHeight(q.root, math.Vec2{X: x, Y: z})
}

func (q *QuadTree) findHeight(id NodeID, p math.Vec2) (float32, bool) {
	n := &q.nodes[id]
	if !p.InSquare(math.Vec2{X: n.CenterX, Y: n.CenterZ}, n.HalfWidth) {
		return 0, false
	}

	if !n.IsLeaf() {
		for _, child := range n.Children {
			if child == NoNode {
				continue
			}
			if h, ok := q.findHeight(child, p); ok {
				return h, true
			}
		}
		return 0, false
	}

	for i := 0; i+2 < len(n.Positions); i += 3 {
		if h, ok := RayTriangleHeight(p.X, p.Y, n.Positions[i], n.Positions[i+1], n.Positions[i+2]); ok {
			return h, true
		}
	}
	return 0, false
}

// RayTriangleHeight casts a vertical ray through (x, z) and returns the Y of
// the point where it meets triangle v0 v1 v2. It reports false for
// zero-area triangles, triangles seen edge-on, and misses. Points within a
// small tolerance outside an edge still count as hits.
func RayTriangleHeight(x, z float32, v0, v1, v2 [3]float32) (float32, bool) {
	a, b, c := math.V3(v0), math.V3(v1), math.V3(v2)

	normal := b.Sub(a).Cross(c.Sub(a))
	if normal.Length() == 0 {
		return 0, false
	}
	normal = normal.Normalize()

	start := math.Vec3{X: x, Z: z}
	dir := math.Vec3{Y: 1}

	denom := normal.Dot(dir)
	if denom > -parallelEpsilon && denom < parallelEpsilon {
		return 0, false
	}

	d := -normal.Dot(a)
	t := -(normal.Dot(start) + d) / denom
	q := start.Add(dir.Scale(t))

	if !insideEdge(a, b, normal, q) || !insideEdge(b, c, normal, q) || !insideEdge(c, a, normal, q) {
		return 0, false
	}
	return q.Y, true
}

// insideEdge tests q against the half plane bounded by edge from->to that
// contains the triangle.
func insideEdge(from, to, normal, q math.Vec3) bool {
	edgeNormal := to.Sub(from).Cross(normal)
	return edgeNormal.Dot(q.Sub(from)) <= edgeTolerance
}
