package math

// Plane is the half-space n·p + D >= 0.
type Plane struct {
	Normal Vec3
	D      float32
}

// PlaneFromVec4 builds a plane from packed (a, b, c, d) coefficients.
func PlaneFromVec4(v Vec4) Plane {
	return Plane{Normal: Vec3{v[0], v[1], v[2]}, D: v[3]}
}

// Normalize scales the plane so its normal has unit length.
// A plane with a zero normal is returned unchanged.
func (p Plane) Normalize() Plane {
	l := p.Normal.Length()
	if l == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Scale(1 / l), D: p.D / l}
}

// DistanceToPoint returns the signed distance from the plane to pt.
// The value is only a true distance for normalized planes.
func (p Plane) DistanceToPoint(pt Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}
