// Package debug provides debug visualization utilities.
package debug

// Color is an RGB line color.
type Color [3]float32

// Line colors for quadtree node boxes.
var (
	ColorVisible = Color{0.2, 0.9, 0.3}
	ColorCulled  = Color{0.9, 0.25, 0.2}
)

// LineVertex is one endpoint of a colored debug line.
type LineVertex struct {
	X, Y, Z float32 // Position
	R, G, B float32 // Color
}

// BoxLineVertexCount is the number of vertices for a box wireframe (12 edges × 2).
const BoxLineVertexCount = 24

// AppendBoxLines appends the 12 edges of the axis-aligned box lo..hi to dst
// as line-list vertices.
func AppendBoxLines(dst []LineVertex, lo, hi [3]float32, c Color) []LineVertex {
	corner := func(x, y, z int) LineVertex {
		v := LineVertex{X: lo[0], Y: lo[1], Z: lo[2], R: c[0], G: c[1], B: c[2]}
		if x == 1 {
			v.X = hi[0]
		}
		if y == 1 {
			v.Y = hi[1]
		}
		if z == 1 {
			v.Z = hi[2]
		}
		return v
	}

	for _, y := range []int{0, 1} {
		// Bottom and top faces
		dst = append(dst,
			corner(0, y, 0), corner(1, y, 0),
			corner(1, y, 0), corner(1, y, 1),
			corner(1, y, 1), corner(0, y, 1),
			corner(0, y, 1), corner(0, y, 0),
		)
	}
	// Vertical edges
	dst = append(dst,
		corner(0, 0, 0), corner(0, 1, 0),
		corner(1, 0, 0), corner(1, 1, 0),
		corner(1, 0, 1), corner(1, 1, 1),
		corner(0, 0, 1), corner(0, 1, 1),
	)
	return dst
}
