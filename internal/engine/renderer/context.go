// Package renderer translates materials and mesh buffers into device state
// changes and draw calls, and owns the per-frame render context.
package renderer

import "github.com/Faultbox/lumen/pkg/math"

// MaxLights is the number of point light slots uploaded per draw. Excess
// lights are silently dropped, nearest to the camera first.
const MaxLights = 4

// Light is a dynamic light source.
type Light struct {
	Position math.Vec3
	Color    [4]float32
	// Radius is the attenuation radius; its reciprocal is what the packed
	// uniform carries.
	Radius float32

	Directional bool
	Direction   math.Vec3
}

// Context is the explicit per-frame render state shared between the scene
// and node render methods. The scene and the active camera write it; node
// render methods and the draw calls read it. It must only be touched from
// the rendering tick.
type Context struct {
	World      math.Mat4
	View       math.Mat4
	Projection math.Mat4

	// Lights holds the active point lights in draw priority order; entries
	// beyond MaxLights are ignored at packing time.
	Lights []Light

	DirLight    Light
	HasDirLight bool

	Ambient [4]float32
}

// NewContext returns a context with identity matrices.
func NewContext() *Context {
	return &Context{
		World:      math.Identity(),
		View:       math.Identity(),
		Projection: math.Identity(),
	}
}

// PackedLights is the fixed uniform layout the lit shader programs consume.
// Positions carries MaxLights vec4 slots (xyz + reciprocal radius); Colors
// carries MaxLights+1 vec4 slots, the extra one holding the ambient color.
// Downstream shader contracts depend on these exact offsets.
type PackedLights struct {
	Positions [MaxLights * 4]float32
	Colors    [(MaxLights + 1) * 4]float32

	DirDir      math.Vec3
	DirColor    [4]float32
	HasDirLight bool
}

// PackLights fills the fixed light slots from the context. transform, when
// non-nil, maps light positions into the receiving space (the inverse world
// matrix for object-space lighting; nil for world-space programs). Unused
// slots stay at zero color, a deterministic "off" light.
func (c *Context) PackLights(transform *math.Mat4) PackedLights {
	var p PackedLights

	n := len(c.Lights)
	if n > MaxLights {
		n = MaxLights
	}
	for i := 0; i < n; i++ {
		l := &c.Lights[i]
		pos := l.Position
		if transform != nil {
			pos = transform.TransformVec3(pos)
		}
		att := float32(0)
		if l.Radius > 0 {
			att = 1.0 / l.Radius
		}
		p.Positions[i*4+0] = pos.X
		p.Positions[i*4+1] = pos.Y
		p.Positions[i*4+2] = pos.Z
		p.Positions[i*4+3] = att
		copy(p.Colors[i*4:i*4+4], l.Color[:])
	}
	copy(p.Colors[MaxLights*4:], c.Ambient[:])

	if c.HasDirLight {
		p.HasDirLight = true
		p.DirDir = c.DirLight.Direction.Normalize()
		p.DirColor = c.DirLight.Color
	}
	return p
}
