package scene

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/lumen/pkg/math"
)

// CameraNode publishes view and projection matrices. Its view is the
// inverse of the node's world transform unless an explicit view override is
// installed (orbit and follow controllers compute LookAt views directly).
type CameraNode struct {
	NodeBase

	// FOV is the vertical field of view in radians.
	FOV  float32
	Near float32
	Far  float32

	viewOverride    math.Mat4
	hasViewOverride bool
}

// NewCameraNode creates a camera with a 45 degree field of view.
func NewCameraNode(name string) *CameraNode {
	c := &CameraNode{
		FOV:  math32.Pi / 4,
		Near: 1.0,
		Far:  10000.0,
	}
	c.init(c, name)
	return c
}

// SetViewOverride installs an explicit view matrix, bypassing the node
// transform. Controllers call it every time they move the camera.
func (c *CameraNode) SetViewOverride(view math.Mat4) {
	c.viewOverride = view
	c.hasViewOverride = true
	c.transformDirty = true
}

// ClearViewOverride returns the camera to transform-derived views.
func (c *CameraNode) ClearViewOverride() {
	c.hasViewOverride = false
	c.transformDirty = true
}

// ViewMatrix returns the camera's current view matrix.
func (c *CameraNode) ViewMatrix() math.Mat4 {
	if c.hasViewOverride {
		return c.viewOverride
	}
	return c.WorldTransform().Inverse()
}

// ProjectionMatrix returns the perspective projection for the given aspect
// ratio.
func (c *CameraNode) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// EyePosition returns the camera's world-space position, honoring a view
// override.
func (c *CameraNode) EyePosition() math.Vec3 {
	if c.hasViewOverride {
		return c.viewOverride.Inverse().Translation()
	}
	return c.WorldTransform().Translation()
}

func (c *CameraNode) register(s *Scene) {
	if s.activeCamera == nil {
		s.activeCamera = c
	}
}
