// Package gfx abstracts the GPU device behind a small interface so the
// renderer can run against OpenGL or against a headless recording device.
package gfx

import "github.com/Faultbox/lumen/pkg/math"

// BufferID is an opaque device buffer handle. Zero means "no buffer".
type BufferID uint32

// ProgramID is an opaque compiled shader program handle. Zero means "none".
type ProgramID uint32

// TextureID is an opaque device texture handle. Zero means "no texture".
type TextureID uint32

// UniformLoc is a uniform location within a program. LocNone marks a uniform
// the program does not declare; setters on it are skipped by callers.
type UniformLoc int32

// LocNone is the location of an absent uniform.
const LocNone UniformLoc = -1

// Usage hints how often a buffer's contents will be rewritten.
type Usage int

const (
	StaticDraw Usage = iota
	DynamicDraw
)

// BlendFactor enumerates blend function factors.
type BlendFactor int

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstColor
)

// BlendState is a per-program blend descriptor.
type BlendState struct {
	Enabled bool
	Src     BlendFactor
	Dst     BlendFactor
}

// Device is the GPU abstraction all draw calls go through. All methods must
// be called from the single rendering tick; the device is not safe for
// concurrent use.
type Device interface {
	// Buffers.
	CreateArrayBuffer(data []float32, usage Usage) BufferID
	CreateIndexBuffer(data []uint16, usage Usage) BufferID
	// UpdateArrayBuffer rewrites the buffer contents in place starting at
	// offset zero. The data must not exceed the buffer's allocated size.
	UpdateArrayBuffer(id BufferID, data []float32)
	DeleteBuffer(id BufferID)

	// Programs. attribs[i] is bound to attribute location i before linking.
	CompileProgram(vertexSrc, fragmentSrc string, attribs []string) (ProgramID, error)
	DeleteProgram(id ProgramID)
	UseProgram(id ProgramID)
	UniformLocation(p ProgramID, name string) UniformLoc

	// Uniform setters. Callers skip locations equal to LocNone.
	SetUniformMat4(loc UniformLoc, m math.Mat4)
	SetUniform4fv(loc UniformLoc, values []float32)
	SetUniformVec3(loc UniformLoc, x, y, z float32)
	SetUniformInt(loc UniformLoc, v int32)
	SetUniformFloat(loc UniformLoc, v float32)

	// Pipeline state.
	SetBlend(state BlendState)
	SetDepth(test, write bool)
	SetCull(enabled bool)
	BindTexture(unit int, tex TextureID)
	SetTextureWrapClamp(unit int, clamp bool)

	// Geometry binding and draws.
	BindAttribBuffer(location uint32, buf BufferID, components int32)
	DisableAttrib(location uint32)
	DrawIndexed(indexBuf BufferID, count int32)

	// Frame operations.
	Clear(r, g, b, a float32)
	Viewport(width, height int32)

	// Textures.
	CreateTextureRGBA(width, height int32, pixels []byte, clamp bool) TextureID
	DeleteTexture(id TextureID)
}
