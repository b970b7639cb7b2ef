// Package shader maps material types to compiled shader programs. Two
// parallel tables (lit and unlit) are populated with the built-in programs
// at initialization; external material types register on top of them.
package shader

import (
	"strings"

	"github.com/Faultbox/lumen/internal/engine/gfx"
)

// Fixed attribute slot assignment shared by every program.
const (
	AttribPosition  = 0
	AttribTexCoord0 = 1
	AttribTexCoord1 = 2
	AttribNormal    = 3
	AttribColor     = 4
	AttribBinormal  = 5
	AttribTangent   = 6
)

var baseAttribs = []string{"aPosition", "aTexCoord0", "aTexCoord1", "aNormal", "aColor"}
var tangentAttribs = []string{"aPosition", "aTexCoord0", "aTexCoord1", "aNormal", "aColor", "aBinormal", "aTangent"}

// Locations caches the uniform locations of the fixed, known uniform set.
// A location of gfx.LocNone means the program does not declare the uniform
// and the renderer skips it at draw time.
type Locations struct {
	WorldViewProj  gfx.UniformLoc
	NormalMatrix   gfx.UniformLoc
	ModelView      gfx.UniformLoc
	ModelWorld     gfx.UniformLoc
	LightPositions gfx.UniformLoc
	LightColors    gfx.UniformLoc
	DirLightDir    gfx.UniformLoc
	DirLightColor  gfx.UniformLoc
	Texture0       gfx.UniformLoc
	Texture1       gfx.UniformLoc
	Color          gfx.UniformLoc
}

// Program is a compiled shader program with its cached uniform locations
// and blend descriptor. Immutable once created.
type Program struct {
	ID    gfx.ProgramID
	Loc   Locations
	Blend gfx.BlendState

	// WorldSpaceLights marks programs that want light positions in world
	// space instead of the object-space default (normal mapping does).
	WorldSpaceLights bool
}

// newProgram compiles and links, binds the fixed attribute slots, and
// caches the uniform locations.
func newProgram(dev gfx.Device, vsrc, fsrc string, blend gfx.BlendState, tangents bool) (*Program, error) {
	attribs := baseAttribs
	if tangents {
		attribs = tangentAttribs
	}
	id, err := dev.CompileProgram(ensurePrecision(vsrc), ensurePrecision(fsrc), attribs)
	if err != nil {
		return nil, err
	}

	p := &Program{ID: id, Blend: blend}
	p.Loc = Locations{
		WorldViewProj:  dev.UniformLocation(id, "uWorldViewProj"),
		NormalMatrix:   dev.UniformLocation(id, "uNormalMatrix"),
		ModelView:      dev.UniformLocation(id, "uModelView"),
		ModelWorld:     dev.UniformLocation(id, "uModelWorld"),
		LightPositions: dev.UniformLocation(id, "uLightPositions"),
		LightColors:    dev.UniformLocation(id, "uLightColors"),
		DirLightDir:    dev.UniformLocation(id, "uDirLightDir"),
		DirLightColor:  dev.UniformLocation(id, "uDirLightColor"),
		Texture0:       dev.UniformLocation(id, "uTexture0"),
		Texture1:       dev.UniformLocation(id, "uTexture1"),
		Color:          dev.UniformLocation(id, "uColor"),
	}
	return p, nil
}

// ensurePrecision injects a default float precision qualifier when the
// source omits one, after the #version line if there is one. Callers
// porting GLSL ES sources often leave it out.
func ensurePrecision(src string) string {
	if strings.Contains(src, "precision ") {
		return src
	}
	idx := strings.Index(src, "#version")
	if idx < 0 {
		return "precision mediump float;\n" + src
	}
	nl := strings.IndexByte(src[idx:], '\n')
	if nl < 0 {
		return src + "\nprecision mediump float;\n"
	}
	at := idx + nl + 1
	return src[:at] + "precision mediump float;\n" + src[at:]
}
