package scene

import (
	"github.com/Faultbox/lumen/internal/engine/renderer"
	"github.com/Faultbox/lumen/internal/engine/texture"
)

// Overlay2DNode draws a screen-space rectangle or image after the 3D
// passes. Overlays draw in registration order, which follows the scene
// graph walk.
type Overlay2DNode struct {
	NodeBase

	// Pixel-space placement, origin top-left.
	X, Y, W, H float32

	Color [4]float32
	Blend bool

	// Image, when set, draws a textured quad instead of a colored one.
	Image *texture.Texture
	// Region selects a sub-rectangle of Image in normalized coordinates.
	U0, V0, U1, V1 float32
}

// NewOverlayRect creates a flat colored overlay rectangle.
func NewOverlayRect(name string, x, y, w, h float32, color [4]float32) *Overlay2DNode {
	o := &Overlay2DNode{X: x, Y: y, W: w, H: h, Color: color, Blend: true}
	o.init(o, name)
	return o
}

// NewOverlayImage creates a textured overlay drawing the full image with
// alpha blending.
func NewOverlayImage(name string, x, y, w, h float32, img *texture.Texture) *Overlay2DNode {
	o := &Overlay2DNode{X: x, Y: y, W: w, H: h, Image: img, U1: 1, V1: 1, Blend: true}
	o.init(o, name)
	return o
}

func (o *Overlay2DNode) register(s *Scene) {
	s.overlays = append(s.overlays, o)
}

func (o *Overlay2DNode) draw(r *renderer.Renderer) {
	if o.Image != nil {
		r.Draw2DImageRegion(o.Image, o.X, o.Y, o.W, o.H, o.U0, o.V0, o.U1, o.V1, o.Blend)
		return
	}
	r.Draw2DRectangle(o.X, o.Y, o.W, o.H, o.Color, o.Blend)
}
