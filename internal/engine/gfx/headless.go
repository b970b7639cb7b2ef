package gfx

import (
	"fmt"

	"github.com/Faultbox/lumen/pkg/math"
)

// Headless implements Device without a GPU. Every buffer upload, uniform
// write, state change and draw is recorded, which makes it usable both for
// tests and for running the engine on machines without a GL context.
type Headless struct {
	nextBuffer  BufferID
	nextProgram ProgramID
	nextTexture TextureID
	nextLoc     UniformLoc

	Buffers  map[BufferID]*HeadlessBuffer
	Programs map[ProgramID]*HeadlessProgram
	Textures map[TextureID]bool

	// Uniform values by location, recorded on write. Matrix writes store 16
	// floats, vec3 writes store 3, and so on.
	Uniforms    map[UniformLoc][]float32
	IntUniforms map[UniformLoc]int32

	// CompileErr, when set, makes the next CompileProgram calls fail.
	CompileErr error
	// MissingUniforms lists names UniformLocation reports as absent.
	MissingUniforms map[string]bool

	CurrentProgram ProgramID
	Blend          BlendState
	DepthTest      bool
	DepthWrite     bool
	CullEnabled    bool
	BoundTextures  map[int]TextureID
	WrapClamp      map[int]bool
	EnabledAttribs map[uint32]bool
	AttribBuffers  map[uint32]BufferID

	Draws      []HeadlessDraw
	ClearCount int
}

// HeadlessBuffer is the recorded state of one device buffer.
type HeadlessBuffer struct {
	Data    []float32
	Index   []uint16
	Usage   Usage
	Deleted bool
}

// HeadlessProgram is the recorded state of one compiled program.
type HeadlessProgram struct {
	VertexSrc   string
	FragmentSrc string
	Attribs     []string
	Locations   map[string]UniformLoc
	Deleted     bool
}

// HeadlessDraw records one indexed draw call.
type HeadlessDraw struct {
	IndexBuffer BufferID
	Count       int32
	Program     ProgramID
}

// NewHeadless returns an empty recording device.
func NewHeadless() *Headless {
	return &Headless{
		Buffers:         make(map[BufferID]*HeadlessBuffer),
		Programs:        make(map[ProgramID]*HeadlessProgram),
		Textures:        make(map[TextureID]bool),
		Uniforms:        make(map[UniformLoc][]float32),
		IntUniforms:     make(map[UniformLoc]int32),
		MissingUniforms: make(map[string]bool),
		BoundTextures:   make(map[int]TextureID),
		WrapClamp:       make(map[int]bool),
		EnabledAttribs:  make(map[uint32]bool),
		AttribBuffers:   make(map[uint32]BufferID),
	}
}

func (d *Headless) CreateArrayBuffer(data []float32, usage Usage) BufferID {
	if len(data) == 0 {
		return 0
	}
	d.nextBuffer++
	d.Buffers[d.nextBuffer] = &HeadlessBuffer{
		Data:  append([]float32(nil), data...),
		Usage: usage,
	}
	return d.nextBuffer
}

func (d *Headless) CreateIndexBuffer(data []uint16, usage Usage) BufferID {
	if len(data) == 0 {
		return 0
	}
	d.nextBuffer++
	d.Buffers[d.nextBuffer] = &HeadlessBuffer{
		Index: append([]uint16(nil), data...),
		Usage: usage,
	}
	return d.nextBuffer
}

func (d *Headless) UpdateArrayBuffer(id BufferID, data []float32) {
	buf, ok := d.Buffers[id]
	if !ok || buf.Deleted {
		return
	}
	copy(buf.Data, data)
}

func (d *Headless) DeleteBuffer(id BufferID) {
	if buf, ok := d.Buffers[id]; ok {
		buf.Deleted = true
	}
}

func (d *Headless) CompileProgram(vertexSrc, fragmentSrc string, attribs []string) (ProgramID, error) {
	if d.CompileErr != nil {
		return 0, fmt.Errorf("compile: %w", d.CompileErr)
	}
	d.nextProgram++
	d.Programs[d.nextProgram] = &HeadlessProgram{
		VertexSrc:   vertexSrc,
		FragmentSrc: fragmentSrc,
		Attribs:     append([]string(nil), attribs...),
		Locations:   make(map[string]UniformLoc),
	}
	return d.nextProgram, nil
}

func (d *Headless) DeleteProgram(id ProgramID) {
	if p, ok := d.Programs[id]; ok {
		p.Deleted = true
	}
}

func (d *Headless) UseProgram(id ProgramID) {
	d.CurrentProgram = id
}

// UniformLocation hands out one unique location per (program, name) pair so
// uniform writes recorded in Uniforms can be traced back unambiguously.
func (d *Headless) UniformLocation(p ProgramID, name string) UniformLoc {
	if d.MissingUniforms[name] {
		return LocNone
	}
	prog, ok := d.Programs[p]
	if !ok {
		return LocNone
	}
	if loc, ok := prog.Locations[name]; ok {
		return loc
	}
	d.nextLoc++
	prog.Locations[name] = d.nextLoc
	return d.nextLoc
}

func (d *Headless) SetUniformMat4(loc UniformLoc, m math.Mat4) {
	d.Uniforms[loc] = append([]float32(nil), m[:]...)
}

func (d *Headless) SetUniform4fv(loc UniformLoc, values []float32) {
	d.Uniforms[loc] = append([]float32(nil), values...)
}

func (d *Headless) SetUniformVec3(loc UniformLoc, x, y, z float32) {
	d.Uniforms[loc] = []float32{x, y, z}
}

func (d *Headless) SetUniformInt(loc UniformLoc, v int32) {
	d.IntUniforms[loc] = v
}

func (d *Headless) SetUniformFloat(loc UniformLoc, v float32) {
	d.Uniforms[loc] = []float32{v}
}

func (d *Headless) SetBlend(state BlendState) {
	d.Blend = state
}

func (d *Headless) SetDepth(test, write bool) {
	d.DepthTest = test
	d.DepthWrite = write
}

func (d *Headless) SetCull(enabled bool) {
	d.CullEnabled = enabled
}

func (d *Headless) BindTexture(unit int, tex TextureID) {
	d.BoundTextures[unit] = tex
}

func (d *Headless) SetTextureWrapClamp(unit int, clamp bool) {
	d.WrapClamp[unit] = clamp
}

func (d *Headless) BindAttribBuffer(location uint32, buf BufferID, components int32) {
	d.AttribBuffers[location] = buf
	d.EnabledAttribs[location] = true
}

func (d *Headless) DisableAttrib(location uint32) {
	d.EnabledAttribs[location] = false
}

func (d *Headless) DrawIndexed(indexBuf BufferID, count int32) {
	d.Draws = append(d.Draws, HeadlessDraw{
		IndexBuffer: indexBuf,
		Count:       count,
		Program:     d.CurrentProgram,
	})
}

func (d *Headless) Clear(r, g, b, a float32) {
	d.ClearCount++
}

func (d *Headless) Viewport(width, height int32) {}

func (d *Headless) CreateTextureRGBA(width, height int32, pixels []byte, clamp bool) TextureID {
	if width <= 0 || height <= 0 {
		return 0
	}
	d.nextTexture++
	d.Textures[d.nextTexture] = true
	return d.nextTexture
}

func (d *Headless) DeleteTexture(id TextureID) {
	delete(d.Textures, id)
}

// UniformValue returns the last value written to the named uniform of the
// given program, or nil when it was never written.
func (d *Headless) UniformValue(p ProgramID, name string) []float32 {
	prog, ok := d.Programs[p]
	if !ok {
		return nil
	}
	loc, ok := prog.Locations[name]
	if !ok {
		return nil
	}
	return d.Uniforms[loc]
}

// LiveBufferCount returns the number of non-deleted buffers.
func (d *Headless) LiveBufferCount() int {
	n := 0
	for _, b := range d.Buffers {
		if !b.Deleted {
			n++
		}
	}
	return n
}
