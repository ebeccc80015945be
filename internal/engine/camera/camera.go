// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// HeightSampler reports the ground height under (x, z).
// quadtree.QuadTree satisfies it.
type HeightSampler interface {
	HeightAt(x, z float32) (float32, bool)
}

// WalkCamera is a first-person camera that can walk over the terrain.
// Yaw 0 looks along +Z; positive yaw turns toward +X.
type WalkCamera struct {
	X, Y, Z float32

	Yaw   float32 // Horizontal angle (radians)
	Pitch float32 // Vertical angle (radians), positive looks up

	// Constraints
	MinPitch float32
	MaxPitch float32

	EyeHeight float32 // Height above ground when clamped

	// Speeds
	MoveSpeed        float32 // World units per second
	TurnSpeed        float32 // Radians per second for keyboard turning
	MouseSensitivity float32 // Radians per pixel
}

// NewWalkCamera creates a camera standing at (x, z) with default settings.
func NewWalkCamera(x, z float32) *WalkCamera {
	return &WalkCamera{
		X:                x,
		Z:                z,
		MinPitch:         -1.4,
		MaxPitch:         1.4,
		EyeHeight:        2,
		MoveSpeed:        20,
		TurnSpeed:        1.5,
		MouseSensitivity: 0.003,
	}
}

// Position returns the eye position.
func (c *WalkCamera) Position() math.Vec3 {
	return math.Vec3{X: c.X, Y: c.Y, Z: c.Z}
}

// Forward returns the unit view direction.
func (c *WalkCamera) Forward() math.Vec3 {
	cp := float32(gomath.Cos(float64(c.Pitch)))
	return math.Vec3{
		X: float32(gomath.Sin(float64(c.Yaw))) * cp,
		Y: float32(gomath.Sin(float64(c.Pitch))),
		Z: float32(gomath.Cos(float64(c.Yaw))) * cp,
	}
}

// ForwardDirection returns the walking direction on the XZ plane.
func (c *WalkCamera) ForwardDirection() (x, z float32) {
	return float32(gomath.Sin(float64(c.Yaw))), float32(gomath.Cos(float64(c.Yaw)))
}

// RightDirection returns the strafing direction on the XZ plane.
func (c *WalkCamera) RightDirection() (x, z float32) {
	return float32(-gomath.Cos(float64(c.Yaw))), float32(gomath.Sin(float64(c.Yaw)))
}

// ViewMatrix returns the view matrix for this camera.
func (c *WalkCamera) ViewMatrix() math.Mat4 {
	eye := c.Position()
	return math.LookAt(eye, eye.Add(c.Forward()), math.Vec3{Y: 1})
}

// Move walks the camera. forward, right and up are in -1..1 and are scaled by
// MoveSpeed and dt (seconds). Walking ignores pitch.
func (c *WalkCamera) Move(forward, right, up, dt float32) {
	step := c.MoveSpeed * dt
	fx, fz := c.ForwardDirection()
	rx, rz := c.RightDirection()

	c.X += (fx*forward + rx*right) * step
	c.Z += (fz*forward + rz*right) * step
	c.Y += up * step
}

// Turn rotates by the given yaw and pitch rates (in -1..1) for dt seconds.
func (c *WalkCamera) Turn(yaw, pitch, dt float32) {
	c.rotate(yaw*c.TurnSpeed*dt, pitch*c.TurnSpeed*dt)
}

// HandleMouse rotates by a relative mouse motion in pixels.
func (c *WalkCamera) HandleMouse(dx, dy float32) {
	c.rotate(dx*c.MouseSensitivity, -dy*c.MouseSensitivity)
}

func (c *WalkCamera) rotate(dYaw, dPitch float32) {
	c.Yaw = float32(gomath.Mod(float64(c.Yaw+dYaw), 2*gomath.Pi))
	c.Pitch += dPitch
	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// ClampToGround puts the eye EyeHeight above the ground under the camera.
// It reports false and leaves Y unchanged when there is no ground there.
func (c *WalkCamera) ClampToGround(s HeightSampler) bool {
	h, ok := s.HeightAt(c.X, c.Z)
	if !ok {
		return false
	}
	c.Y = h + c.EyeHeight
	return true
}

// Projection returns a perspective projection for a vertical field of view
// in degrees.
func Projection(fovDegrees, aspect, near, far float32) math.Mat4 {
	return math.Perspective(fovDegrees*gomath.Pi/180, aspect, near, far)
}
