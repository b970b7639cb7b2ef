// Package material defines rendering configuration for mesh buffers and the
// material-type identifiers the shader binding table is keyed by.
package material

import "github.com/Faultbox/lumen/internal/engine/texture"

// Type is an integer tag selecting a built-in or externally registered
// shader program pair (lit/unlit).
type Type int

// Built-in material types. Slots below TypeCount are reserved; externally
// registered types are assigned ids starting at TypeCount.
const (
	Solid Type = iota
	Lightmap
	LightmapAdd
	LightmapM2
	LightmapM4
	TransparentAdd
	TransparentAlpha
	TransparentAlphaRef
	Reflection2Layer
	TransparentReflection2Layer
	NormalMapSolid
	TwoTextureBlend

	// TypeCount is the reserved built-in range. Every slot below it
	// resolves to some program, via fallback if necessary.
	TypeCount Type = 16
)

// TypeFailed is the sentinel returned when external registration of a new
// material type fails to compile or link.
const TypeFailed Type = -1

// Transparent reports whether the type blends against the framebuffer.
// Transparent materials render in the back-to-front pass and do not write
// depth.
func (t Type) Transparent() bool {
	switch t {
	case TransparentAdd, TransparentAlpha, TransparentAlphaRef, TransparentReflection2Layer:
		return true
	}
	return false
}

// Material is the rendering configuration for one mesh buffer.
type Material struct {
	Type Type

	Tex1 *texture.Texture
	Tex2 *texture.Texture

	// Lit selects the per-pixel lit program table over the unlit one.
	Lit bool

	ZWriteEnabled   bool
	ZTestEnabled    bool
	BackfaceCulling bool

	ClampTexture1 bool
	ClampTexture2 bool
}

// Default returns a solid, depth-tested, culled, unlit material.
func Default() Material {
	return Material{
		Type:            Solid,
		ZWriteEnabled:   true,
		ZTestEnabled:    true,
		BackfaceCulling: true,
	}
}
