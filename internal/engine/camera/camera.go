// Package camera provides camera controllers. Controllers compute LookAt
// view matrices directly and publish them through a scene camera node's
// view override.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        200.0,
		RotationX:       0.5,
		RotationY:       0.0,
		MinDistance:     50.0,
		MaxDistance:     5000.0,
		MinPitch:        0.1,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * math32.Cos(c.RotationX) * math32.Sin(c.RotationY)
	y := c.Distance * math32.Sin(c.RotationX)
	z := c.Distance * math32.Cos(c.RotationX) * math32.Cos(c.RotationY)

	return math.Vec3{
		X: c.Center.X + x,
		Y: c.Center.Y + y,
		Z: c.Center.Z + z,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Center, up)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// HandleMovement pans the center point based on keyboard input. Speed
// scales with distance for consistent feel.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	speed := c.Distance * 0.01

	dirX := math32.Sin(c.RotationY)
	dirZ := math32.Cos(c.RotationY)

	rightX := math32.Cos(c.RotationY)
	rightZ := -math32.Sin(c.RotationY)

	// Negate forward so W moves "into" the scene.
	c.Center.X += (-dirX*forward + rightX*right) * speed
	c.Center.Z += (-dirZ*forward + rightZ*right) * speed
	c.Center.Y += up * speed
}

// FitToBounds adjusts the camera to view the given bounding box.
func (c *OrbitCamera) FitToBounds(box math.Box3) {
	c.Center = box.Center()

	sizeX := box.Max.X - box.Min.X
	sizeZ := box.Max.Z - box.Min.Z
	maxSize := sizeX
	if sizeZ > maxSize {
		maxSize = sizeZ
	}

	c.Distance = maxSize * 0.3
	if c.Distance < 200 {
		c.Distance = 200
	}

	c.RotationX = 0.6 // look down at ~35 degrees
	c.RotationY = 0.0
}

// FollowCamera follows a target from behind at a fixed pitch.
type FollowCamera struct {
	Yaw   float32 // Horizontal rotation around target (radians)
	Pitch float32 // Vertical angle (radians)

	Distance    float32
	MinDistance float32
	MaxDistance float32

	// TargetLift raises the look-at point above the target position.
	TargetLift float32

	YawSensitivity  float32
	ZoomSensitivity float32
}

// NewFollowCamera creates a follow camera with top-down defaults.
func NewFollowCamera() *FollowCamera {
	return &FollowCamera{
		Yaw:             0.0,
		Pitch:           0.85,
		Distance:        300.0,
		MinDistance:     100.0,
		MaxDistance:     800.0,
		TargetLift:      30.0,
		YawSensitivity:  0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position calculates the camera position for the given target.
func (c *FollowCamera) Position(target math.Vec3) math.Vec3 {
	offsetY := c.Distance * math32.Sin(c.Pitch)
	horizDist := c.Distance * math32.Cos(c.Pitch)
	offsetX := horizDist * math32.Sin(c.Yaw)
	offsetZ := horizDist * math32.Cos(c.Yaw)

	return math.Vec3{
		X: target.X - offsetX,
		Y: target.Y + offsetY,
		Z: target.Z - offsetZ,
	}
}

// ViewMatrix returns the view matrix looking at the target.
func (c *FollowCamera) ViewMatrix(target math.Vec3) math.Mat4 {
	lookAt := math.Vec3{X: target.X, Y: target.Y + c.TargetLift, Z: target.Z}
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(target), lookAt, up)
}

// HandleYaw rotates the camera horizontally around the target.
func (c *FollowCamera) HandleYaw(deltaX float32) {
	c.Yaw -= deltaX * c.YawSensitivity
}

// HandleZoom updates distance from the target.
func (c *FollowCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// ForwardDirection returns the camera's forward direction on the XZ plane.
func (c *FollowCamera) ForwardDirection() (x, z float32) {
	return math32.Sin(c.Yaw), math32.Cos(c.Yaw)
}

// RightDirection returns the camera's right direction on the XZ plane.
func (c *FollowCamera) RightDirection() (x, z float32) {
	return -math32.Cos(c.Yaw), math32.Sin(c.Yaw)
}
