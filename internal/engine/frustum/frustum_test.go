package frustum

import (
	stdmath "math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

const fov90 = stdmath.Pi / 2

// lookingDownNegZ is a camera at the origin with the default GL orientation.
func lookingDownNegZ(near, far, depth float32) Frustum {
	proj := math.Perspective(fov90, 1, near, far)
	view := math.LookAt(math.Vec3{}, math.Vec3{Z: -1}, math.Vec3{Y: 1})
	return New(depth, proj, view)
}

func TestPlanesAreNormalized(t *testing.T) {
	f := lookingDownNegZ(0.1, 1000, 100)
	for i, p := range f.Planes() {
		assert.InDelta(t, 1.0, p.Normal.Length(), 1e-4, "plane %d", i)
	}
}

func TestNearAndFarPlanes(t *testing.T) {
	f := lookingDownNegZ(0.1, 1000, 100)

	near := f.Plane(PlaneNear)
	assert.InDelta(t, -1.0, near.Normal.Z, 1e-4)
	assert.InDelta(t, 0.0, near.DistanceToPoint(math.Vec3{Z: -0.1}), 1e-3)

	far := f.Plane(PlaneFar)
	assert.InDelta(t, 1.0, far.Normal.Z, 1e-4)
	assert.InDelta(t, 0.0, far.DistanceToPoint(math.Vec3{Z: -100}), 1e-2)
}

func TestContainsPoint(t *testing.T) {
	f := lookingDownNegZ(0.1, 1000, 100)

	tests := []struct {
		name string
		p    math.Vec3
		want bool
	}{
		{"ahead", math.Vec3{Z: -10}, true},
		{"ahead off axis", math.Vec3{X: 5, Y: -5, Z: -10}, true},
		{"behind", math.Vec3{Z: 10}, false},
		{"before near plane", math.Vec3{Z: -0.05}, false},
		{"past screen depth", math.Vec3{Z: -150}, false},
		{"outside left", math.Vec3{X: -20, Z: -10}, false},
		{"outside right", math.Vec3{X: 20, Z: -10}, false},
		{"outside top", math.Vec3{Y: 20, Z: -10}, false},
		{"outside bottom", math.Vec3{Y: -20, Z: -10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.ContainsPoint(tt.p))
		})
	}
}

func TestScreenDepthExtendsFarPlane(t *testing.T) {
	// Projection built with far=20, culling asked to reach 100.
	f := lookingDownNegZ(0.1, 20, 100)
	assert.True(t, f.ContainsPoint(math.Vec3{Z: -50}))
	assert.False(t, f.ContainsPoint(math.Vec3{Z: -101}))
}

func TestWithScreenDepthPerspective(t *testing.T) {
	got := WithScreenDepth(math.Perspective(fov90, 1.5, 0.5, 1000), 200)
	want := math.Perspective(fov90, 1.5, 0.5, 200)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "element %d", i)
	}
}

func TestWithScreenDepthOrtho(t *testing.T) {
	got := WithScreenDepth(math.Ortho(-10, 10, -10, 10, 1, 50), 300)
	want := math.Ortho(-10, 10, -10, 10, 1, 300)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "element %d", i)
	}
}

func TestWithScreenDepthBelowNearIsNoop(t *testing.T) {
	proj := math.Perspective(fov90, 1, 1, 100)
	assert.Equal(t, proj, WithScreenDepth(proj, 0.5))
}

func TestContainsSphere(t *testing.T) {
	f := lookingDownNegZ(0.1, 1000, 100)

	assert.True(t, f.ContainsSphere(math.Vec3{Z: -10}, 1))
	assert.True(t, f.ContainsSphere(math.Vec3{Z: 5}, 6), "sphere crossing the near plane")
	assert.False(t, f.ContainsSphere(math.Vec3{Z: 5}, 1))
	assert.True(t, f.ContainsSphere(math.Vec3{X: 12, Z: -10}, 3))
	assert.False(t, f.ContainsSphere(math.Vec3{X: 30, Z: -10}, 3))
}

func TestContainsCube(t *testing.T) {
	f := lookingDownNegZ(0.1, 1000, 100)

	tests := []struct {
		name   string
		center math.Vec3
		half   float32
		want   bool
	}{
		{"fully inside", math.Vec3{Z: -20}, 1, true},
		{"straddles left plane", math.Vec3{X: -21, Z: -20}, 2, true},
		{"behind camera", math.Vec3{Z: 50}, 10, false},
		{"beyond far plane", math.Vec3{Z: -200}, 10, false},
		{"far to the right", math.Vec3{X: 500, Z: -20}, 10, false},
		{"encloses camera", math.Vec3{}, 500, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.ContainsCube(tt.center, tt.half))
		})
	}
}

func TestContainsRectangle(t *testing.T) {
	f := lookingDownNegZ(0.1, 1000, 100)

	// A thin slab under the camera, wide enough to reach into view.
	assert.True(t, f.ContainsRectangle(math.Vec3{Y: -5, Z: -50}, math.Vec3{X: 50, Y: 0.1, Z: 50}))
	// Same slab far below the view volume.
	assert.False(t, f.ContainsRectangle(math.Vec3{Y: -500, Z: -50}, math.Vec3{X: 50, Y: 0.1, Z: 50}))
	// The cube test is the rectangle test with equal extents.
	c := math.Vec3{X: 3, Y: 1, Z: -30}
	assert.Equal(t, f.ContainsCube(c, 4), f.ContainsRectangle(c, math.Vec3{X: 4, Y: 4, Z: 4}))
}

func TestOrthographicFrustum(t *testing.T) {
	proj := math.Ortho(-10, 10, -10, 10, 1, 50)
	view := math.LookAt(math.Vec3{Y: 100}, math.Vec3{}, math.Vec3{Z: -1})
	f := New(200, proj, view)

	// Looking straight down from y=100 with depth 200: y from -100 to 99.
	assert.True(t, f.ContainsPoint(math.Vec3{X: 5, Z: 5}))
	assert.True(t, f.ContainsPoint(math.Vec3{Y: -80}))
	assert.False(t, f.ContainsPoint(math.Vec3{X: 11}))
	assert.False(t, f.ContainsPoint(math.Vec3{Y: 101}))
	assert.False(t, f.ContainsPoint(math.Vec3{Y: -120}))
}

// The plane test must agree with clipping in homogeneous coordinates as done
// by mathgl, for points not sitting on a boundary.
func TestAgreesWithClipSpace(t *testing.T) {
	const (
		near  = 0.5
		depth = 150
	)
	eye := mgl32.Vec3{10, 8, 30}
	center := mgl32.Vec3{-5, 0, -20}
	up := mgl32.Vec3{0, 1, 0}

	proj := math.Perspective(mgl32.DegToRad(60), 16.0/9.0, near, 1000)
	view := math.Mat4(mgl32.LookAtV(eye, center, up))
	f := New(depth, proj, view)

	clip := mgl32.Perspective(mgl32.DegToRad(60), 16.0/9.0, near, depth).Mul4(mgl32.LookAtV(eye, center, up))

	rng := rand.New(rand.NewSource(7))
	checked := 0
	for i := 0; i < 2000; i++ {
		p := mgl32.Vec3{
			rng.Float32()*300 - 150,
			rng.Float32()*300 - 150,
			rng.Float32()*300 - 150,
		}
		c := clip.Mul4x1(p.Vec4(1))
		w := c.W()
		margins := []float32{w + c.X(), w - c.X(), w + c.Y(), w - c.Y(), w + c.Z(), w - c.Z()}

		onEdge := false
		inside := true
		for _, m := range margins {
			if mgl32.Abs(m) < 0.05 {
				onEdge = true
			}
			if m < 0 {
				inside = false
			}
		}
		if onEdge {
			continue
		}

		checked++
		require.Equal(t, inside, f.ContainsPoint(math.Vec3{X: p.X(), Y: p.Y(), Z: p.Z()}), "point %v", p)
	}
	assert.Greater(t, checked, 1500)
}
