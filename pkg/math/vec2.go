package math

import "math"

// Vec2 is a 2D vector. The terrain code uses it for ground-plane (X, Z)
// coordinates.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Normalize returns a unit vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// InSquare reports whether v lies inside the axis-aligned square of the given
// half width around center. Edges count as inside.
func (v Vec2) InSquare(center Vec2, halfWidth float32) bool {
	return v.X >= center.X-halfWidth && v.X <= center.X+halfWidth &&
		v.Y >= center.Y-halfWidth && v.Y <= center.Y+halfWidth
}
