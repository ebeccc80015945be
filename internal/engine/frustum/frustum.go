// Package frustum extracts the six clipping planes of a camera and answers
// visibility queries against them.
package frustum

import (
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Plane indices, in extraction order.
const (
	PlaneNear = iota
	PlaneFar
	PlaneLeft
	PlaneRight
	PlaneTop
	PlaneBottom
)

// Frustum is the camera view volume as six inward-facing, normalized planes.
// It is a per-frame value; build a new one whenever the camera moves.
type Frustum struct {
	planes [6]math.Plane
}

// New builds the frustum for a projection and view matrix. The projection's
// far plane is moved to screenDepth first, so culling can use a shorter (or
// longer) draw distance than the depth buffer.
func New(screenDepth float32, projection, view math.Mat4) Frustum {
	return FromMatrix(WithScreenDepth(projection, screenDepth).Mul(view))
}

// FromMatrix extracts the planes of a combined projection*view matrix
// (Gribb/Hartmann: each plane is row 3 plus or minus another row).
func FromMatrix(viewProj math.Mat4) Frustum {
	r0, r1, r2, r3 := viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)

	var f Frustum
	f.planes[PlaneNear] = math.PlaneFromVec4(r3.Add(r2)).Normalize()
	f.planes[PlaneFar] = math.PlaneFromVec4(r3.Sub(r2)).Normalize()
	f.planes[PlaneLeft] = math.PlaneFromVec4(r3.Add(r0)).Normalize()
	f.planes[PlaneRight] = math.PlaneFromVec4(r3.Sub(r0)).Normalize()
	f.planes[PlaneTop] = math.PlaneFromVec4(r3.Sub(r1)).Normalize()
	f.planes[PlaneBottom] = math.PlaneFromVec4(r3.Add(r1)).Normalize()
	return f
}

// WithScreenDepth returns a copy of projection whose far plane sits at depth.
// The near plane is recovered from the matrix and kept. Perspective and
// orthographic matrices are both handled; depth <= near leaves the matrix
// unchanged.
func WithScreenDepth(projection math.Mat4, depth float32) math.Mat4 {
	m := projection
	a, b := m[10], m[14]

	if m.IsPerspective() {
		// a = (f+n)/(n-f), b = 2fn/(n-f)  =>  n = b/(a-1)
		if a == 1 {
			return m
		}
		near := b / (a - 1)
		if depth <= near {
			return m
		}
		m[10] = (depth + near) / (near - depth)
		m[14] = 2 * depth * near / (near - depth)
		return m
	}

	// a = -2/(f-n), b = -(f+n)/(f-n)  =>  n = (b+1)/a
	if a == 0 {
		return m
	}
	near := (b + 1) / a
	if depth <= near {
		return m
	}
	m[10] = -2 / (depth - near)
	m[14] = -(depth + near) / (depth - near)
	return m
}

// Plane returns one of the six planes (PlaneNear ... PlaneBottom).
func (f Frustum) Plane(i int) math.Plane {
	return f.planes[i]
}

// Planes returns all six planes.
func (f Frustum) Planes() [6]math.Plane {
	return f.planes
}

// ContainsPoint reports whether p is on the inner side of every plane.
func (f Frustum) ContainsPoint(p math.Vec3) bool {
	for i := range f.planes {
		if f.planes[i].DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// ContainsSphere reports whether any part of the sphere may be visible.
func (f Frustum) ContainsSphere(center math.Vec3, radius float32) bool {
	for i := range f.planes {
		if f.planes[i].DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}

// ContainsCube is the conservative box test used for culling: a cube is
// rejected only when all eight corners are behind the same plane. Boxes near
// a frustum corner can pass without being visible.
func (f Frustum) ContainsCube(center math.Vec3, halfExtent float32) bool {
	return f.ContainsRectangle(center, math.Vec3{X: halfExtent, Y: halfExtent, Z: halfExtent})
}

// ContainsRectangle is ContainsCube with a separate half extent per axis.
func (f Frustum) ContainsRectangle(center, halfExtents math.Vec3) bool {
	corners := boxCorners(center, halfExtents)

	for i := range f.planes {
		inside := false
		for _, c := range corners {
			if f.planes[i].DistanceToPoint(c) >= 0 {
				inside = true
				break
			}
		}
		if !inside {
			return false
		}
	}
	return true
}

func boxCorners(c, h math.Vec3) [8]math.Vec3 {
	var out [8]math.Vec3
	for i := range out {
		x, y, z := -h.X, -h.Y, -h.Z
		if i&1 != 0 {
			x = h.X
		}
		if i&2 != 0 {
			y = h.Y
		}
		if i&4 != 0 {
			z = h.Z
		}
		out[i] = math.Vec3{X: c.X + x, Y: c.Y + y, Z: c.Z + z}
	}
	return out
}
