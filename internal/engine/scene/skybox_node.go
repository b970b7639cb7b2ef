package scene

import (
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/texture"
)

// SkyBoxNode draws an inward-facing cube around the camera. The scene has a
// single skybox slot; when several skyboxes are visible the last one
// registered wins. It draws with a translation-stripped view so the box
// never recedes, and with depth writes off so everything else draws over
// it.
type SkyBoxNode struct {
	NodeBase

	buffer *mesh.Buffer
}

// NewSkyBoxNode creates a skybox cube textured with the given texture.
func NewSkyBoxNode(name string, tex *texture.Texture) *SkyBoxNode {
	b := mesh.NewCube(1)
	b.Mat = material.Material{
		Type:            material.Solid,
		Tex1:            tex,
		ZWriteEnabled:   false,
		ZTestEnabled:    false,
		BackfaceCulling: false,
		ClampTexture1:   true,
	}
	s := &SkyBoxNode{buffer: b}
	s.init(s, name)
	return s
}

// Buffer returns the skybox cube's mesh buffer.
func (s *SkyBoxNode) Buffer() *mesh.Buffer { return s.buffer }

func (s *SkyBoxNode) register(sc *Scene) {
	sc.skybox = s
}
