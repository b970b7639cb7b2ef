package gfx

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// GLDevice implements Device on top of OpenGL 4.1 core.
type GLDevice struct {
	// Core profile requires a bound VAO for vertex attribute state; one
	// shared VAO carries all attribute bindings.
	vao uint32
}

// NewGLDevice initializes OpenGL and returns a device.
// IMPORTANT: must be called AFTER the GL context is created. A failure here
// is fatal for rendering; no draw calls are valid afterwards.
func NewGLDevice() (*GLDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	d := &GLDevice{}
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)

	return d, nil
}

// Close releases device-global state.
func (d *GLDevice) Close() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

func glUsage(u Usage) uint32 {
	if u == DynamicDraw {
		return gl.DYNAMIC_DRAW
	}
	return gl.STATIC_DRAW
}

func glBlendFactor(f BlendFactor) uint32 {
	switch f {
	case BlendOne:
		return gl.ONE
	case BlendSrcAlpha:
		return gl.SRC_ALPHA
	case BlendOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case BlendDstColor:
		return gl.DST_COLOR
	default:
		return gl.ZERO
	}
}

// CreateArrayBuffer uploads float vertex data into a new buffer object.
func (d *GLDevice) CreateArrayBuffer(data []float32, usage Usage) BufferID {
	if len(data) == 0 {
		return 0
	}
	var buf uint32
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), glUsage(usage))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return BufferID(buf)
}

// CreateIndexBuffer uploads 16-bit index data into a new buffer object.
func (d *GLDevice) CreateIndexBuffer(data []uint16, usage Usage) BufferID {
	if len(data) == 0 {
		return 0
	}
	var buf uint32
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*2, unsafe.Pointer(&data[0]), glUsage(usage))
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	return BufferID(buf)
}

// UpdateArrayBuffer rewrites buffer contents in place via a partial upload.
func (d *GLDevice) UpdateArrayBuffer(id BufferID, data []float32) {
	if id == 0 || len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(id))
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*4, unsafe.Pointer(&data[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// DeleteBuffer releases a buffer object.
func (d *GLDevice) DeleteBuffer(id BufferID) {
	if id == 0 {
		return
	}
	buf := uint32(id)
	gl.DeleteBuffers(1, &buf)
}

// CompileProgram compiles and links a program, binding attribs[i] to
// attribute location i before linking.
func (d *GLDevice) CompileProgram(vertexSrc, fragmentSrc string, attribs []string) (ProgramID, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)

	for i, name := range attribs {
		gl.BindAttribLocation(program, uint32(i), gl.Str(name+"\x00"))
	}

	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &infoLog[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(infoLog))
	}

	return ProgramID(program), nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &infoLog[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(infoLog))
	}

	return shader, nil
}

// DeleteProgram releases a program object.
func (d *GLDevice) DeleteProgram(id ProgramID) {
	if id != 0 {
		gl.DeleteProgram(uint32(id))
	}
}

// UseProgram binds the program for subsequent draws.
func (d *GLDevice) UseProgram(id ProgramID) {
	gl.UseProgram(uint32(id))
}

// UniformLocation returns the location of a uniform, or LocNone when the
// program does not declare it. Absence is not an error.
func (d *GLDevice) UniformLocation(p ProgramID, name string) UniformLoc {
	return UniformLoc(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

// SetUniformMat4 uploads a 4x4 matrix uniform.
func (d *GLDevice) SetUniformMat4(loc UniformLoc, m math.Mat4) {
	gl.UniformMatrix4fv(int32(loc), 1, false, m.Ptr())
}

// SetUniform4fv uploads an array of vec4 values (len(values)/4 entries).
func (d *GLDevice) SetUniform4fv(loc UniformLoc, values []float32) {
	if len(values) == 0 {
		return
	}
	gl.Uniform4fv(int32(loc), int32(len(values)/4), &values[0])
}

// SetUniformVec3 uploads a vec3 uniform.
func (d *GLDevice) SetUniformVec3(loc UniformLoc, x, y, z float32) {
	gl.Uniform3f(int32(loc), x, y, z)
}

// SetUniformInt uploads an int/sampler uniform.
func (d *GLDevice) SetUniformInt(loc UniformLoc, v int32) {
	gl.Uniform1i(int32(loc), v)
}

// SetUniformFloat uploads a float uniform.
func (d *GLDevice) SetUniformFloat(loc UniformLoc, v float32) {
	gl.Uniform1f(int32(loc), v)
}

// SetBlend applies a blend descriptor.
func (d *GLDevice) SetBlend(state BlendState) {
	if state.Enabled {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(glBlendFactor(state.Src), glBlendFactor(state.Dst))
	} else {
		gl.Disable(gl.BLEND)
	}
}

// SetDepth toggles depth testing and the depth write mask.
func (d *GLDevice) SetDepth(test, write bool) {
	if test {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(write)
}

// SetCull toggles backface culling.
func (d *GLDevice) SetCull(enabled bool) {
	if enabled {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
}

// BindTexture binds a texture to a unit; zero unbinds so stale bindings
// never leak into the next draw.
func (d *GLDevice) BindTexture(unit int, tex TextureID) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
}

// SetTextureWrapClamp sets clamp vs repeat wrapping for the texture
// currently bound on the given unit.
func (d *GLDevice) SetTextureWrapClamp(unit int, clamp bool) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	wrap := int32(gl.REPEAT)
	if clamp {
		wrap = gl.CLAMP_TO_EDGE
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
}

// BindAttribBuffer binds buf as the source of a float vertex attribute.
func (d *GLDevice) BindAttribBuffer(location uint32, buf BufferID, components int32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buf))
	gl.VertexAttribPointerWithOffset(location, components, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(location)
}

// DisableAttrib disables a vertex attribute array.
func (d *GLDevice) DisableAttrib(location uint32) {
	gl.DisableVertexAttribArray(location)
}

// DrawIndexed issues a triangle-list draw from a bound index buffer.
func (d *GLDevice) DrawIndexed(indexBuf BufferID, count int32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(indexBuf))
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_SHORT, nil)
}

// Clear clears the color and depth buffers.
func (d *GLDevice) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Viewport sets the output viewport size.
func (d *GLDevice) Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

// CreateTextureRGBA uploads RGBA pixel data into a new texture object.
func (d *GLDevice) CreateTextureRGBA(width, height int32, pixels []byte, clamp bool) TextureID {
	if width <= 0 || height <= 0 || len(pixels) < int(width*height*4) {
		return 0
	}
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	wrap := int32(gl.REPEAT)
	if clamp {
		wrap = gl.CLAMP_TO_EDGE
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	return TextureID(tex)
}

// DeleteTexture releases a texture object.
func (d *GLDevice) DeleteTexture(id TextureID) {
	if id == 0 {
		return
	}
	tex := uint32(id)
	gl.DeleteTextures(1, &tex)
}
