package renderer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/shader"
	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
)

// Renderer drives the gfx device: it owns the per-frame render context, the
// material/shader binding table and the per-buffer geometry cache, and
// turns Material + mesh.Buffer pairs into state changes and draw calls.
type Renderer struct {
	dev   gfx.Device
	table *shader.Table

	ctx     *Context
	current *shader.Program

	geoms map[*mesh.Buffer]*Geometry

	width  int32
	height int32

	// OnMaterialSet, when set, is invoked with the material type right
	// after program binding so callers can set uniforms the core does not
	// know about. A panicking hook is logged and isolated; it cannot abort
	// the frame.
	OnMaterialSet func(material.Type)

	drawCalls int
}

// New creates a renderer over the given device, compiling the built-in
// shader programs.
func New(dev gfx.Device, width, height int32) *Renderer {
	r := &Renderer{
		dev:    dev,
		table:  shader.NewTable(dev),
		ctx:    NewContext(),
		geoms:  make(map[*mesh.Buffer]*Geometry),
		width:  width,
		height: height,
	}
	dev.Viewport(width, height)
	return r
}

// Device returns the underlying gfx device.
func (r *Renderer) Device() gfx.Device { return r.dev }

// Materials returns the material/shader binding table, through which custom
// material types are registered.
func (r *Renderer) Materials() *shader.Table { return r.table }

// Ctx returns the per-frame render context. The scene and active camera
// write it; node render methods read it.
func (r *Renderer) Ctx() *Context { return r.ctx }

// Resize updates the output size used for viewport and 2D pixel-to-NDC
// conversion.
func (r *Renderer) Resize(width, height int32) {
	r.width = width
	r.height = height
	r.dev.Viewport(width, height)
}

// ScreenSize returns the current output dimensions.
func (r *Renderer) ScreenSize() (int32, int32) {
	return r.width, r.height
}

// BeginScene clears color and depth and resets the frame's draw counter.
func (r *Renderer) BeginScene(clearR, clearG, clearB, clearA float32) {
	r.drawCalls = 0
	r.dev.Clear(clearR, clearG, clearB, clearA)
}

// EndScene finishes the frame. Buffer swap is the window's job.
func (r *Renderer) EndScene() {}

// DrawCalls returns the number of draws issued since BeginScene.
func (r *Renderer) DrawCalls() int { return r.drawCalls }

// Matrix accessors. World is written per object, View and Projection once
// per frame by the active camera.

func (r *Renderer) SetWorld(m math.Mat4)      { r.ctx.World = m }
func (r *Renderer) World() math.Mat4          { return r.ctx.World }
func (r *Renderer) SetView(m math.Mat4)       { r.ctx.View = m }
func (r *Renderer) View() math.Mat4           { return r.ctx.View }
func (r *Renderer) SetProjection(m math.Mat4) { r.ctx.Projection = m }
func (r *Renderer) Projection() math.Mat4     { return r.ctx.Projection }

// ClearDynamicLights empties the active light list.
func (r *Renderer) ClearDynamicLights() {
	r.ctx.Lights = r.ctx.Lights[:0]
	r.ctx.HasDirLight = false
}

// AddDynamicLight appends a point light. Lights beyond the packed slot
// count are ignored at draw time, so callers submit in priority order.
func (r *Renderer) AddDynamicLight(l Light) {
	r.ctx.Lights = append(r.ctx.Lights, l)
}

// SetDirectionalLight sets the single directional light, or clears it when
// given nil.
func (r *Renderer) SetDirectionalLight(l *Light) {
	if l == nil {
		r.ctx.HasDirLight = false
		return
	}
	r.ctx.DirLight = *l
	r.ctx.HasDirLight = true
}

// SetAmbient sets the ambient light color carried in the packed color
// array's extra slot.
func (r *Renderer) SetAmbient(c [4]float32) {
	r.ctx.Ambient = c
}

// SetMaterial resolves the material's shader program and applies the full
// device state for it. When no program exists the call is a no-op: the
// previously bound program stays active, which is degraded but not fatal.
func (r *Renderer) SetMaterial(m material.Material) {
	prog := r.table.Resolve(m.Type, m.Lit)
	if prog == nil {
		return
	}
	r.current = prog
	r.dev.UseProgram(prog.ID)

	r.notifyMaterialSet(m.Type)

	r.dev.SetBlend(prog.Blend)

	zwrite := m.ZWriteEnabled && !(m.Type.Transparent() && prog.Blend.Enabled)
	r.dev.SetDepth(m.ZTestEnabled, zwrite)
	r.dev.SetCull(m.BackfaceCulling)

	// Always rebind both units; a missing or unloaded texture binds zero
	// so stale bindings never leak between draws.
	r.dev.BindTexture(0, m.Tex1.Handle())
	if prog.Loc.Texture0 != gfx.LocNone {
		r.dev.SetUniformInt(prog.Loc.Texture0, 0)
	}
	if m.Tex1.Loaded() {
		r.dev.SetTextureWrapClamp(0, m.ClampTexture1)
	}

	r.dev.BindTexture(1, m.Tex2.Handle())
	if prog.Loc.Texture1 != gfx.LocNone {
		r.dev.SetUniformInt(prog.Loc.Texture1, 1)
	}
	if m.Tex2.Loaded() {
		r.dev.SetTextureWrapClamp(1, m.ClampTexture2)
	}
}

func (r *Renderer) notifyMaterialSet(mt material.Type) {
	if r.OnMaterialSet == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("material hook panicked",
				zap.Int("materialType", int(mt)),
				zap.Any("panic", rec),
			)
		}
	}()
	r.OnMaterialSet(mt)
}

// DrawMeshBuffer synchronizes the buffer's device geometry and issues its
// triangle-list draw with the current context matrices and lights.
// indexCountOverride limits the number of indices drawn; pass 0 for all.
func (r *Renderer) DrawMeshBuffer(b *mesh.Buffer, indexCountOverride int32) {
	if r.current == nil {
		return
	}
	g := r.ensureGeometry(b)
	if g == nil {
		return
	}

	count := g.IndexCount
	if indexCountOverride > 0 && indexCountOverride < count {
		count = indexCountOverride
	}

	prog := r.current
	r.dev.UseProgram(prog.ID)
	loc := &prog.Loc

	worldView := r.ctx.View.Mul(r.ctx.World)
	if loc.WorldViewProj != gfx.LocNone {
		r.dev.SetUniformMat4(loc.WorldViewProj, r.ctx.Projection.Mul(worldView))
	}
	if loc.NormalMatrix != gfx.LocNone {
		// Inverse-transpose of View*World; only computed when the bound
		// program declares the uniform.
		r.dev.SetUniformMat4(loc.NormalMatrix, worldView.Inverse().Transposed())
	}
	if loc.ModelView != gfx.LocNone {
		r.dev.SetUniformMat4(loc.ModelView, worldView)
	}
	if loc.ModelWorld != gfx.LocNone {
		r.dev.SetUniformMat4(loc.ModelWorld, r.ctx.World)
	}

	if loc.LightPositions != gfx.LocNone || loc.LightColors != gfx.LocNone {
		r.uploadLights(prog)
	}

	r.dev.BindAttribBuffer(shader.AttribPosition, g.Positions, 3)
	r.dev.BindAttribBuffer(shader.AttribTexCoord0, g.TexCoords0, 2)
	r.dev.BindAttribBuffer(shader.AttribTexCoord1, g.TexCoords1, 2)
	r.dev.BindAttribBuffer(shader.AttribNormal, g.Normals, 3)
	r.dev.BindAttribBuffer(shader.AttribColor, g.Colors, 4)
	if g.HasTangents {
		r.dev.BindAttribBuffer(shader.AttribBinormal, g.Binormals, 3)
		r.dev.BindAttribBuffer(shader.AttribTangent, g.Tangents, 3)
	}

	r.dev.DrawIndexed(g.Indices, count)
	r.drawCalls++

	// Optional attributes must not leak into the next draw; the following
	// program may not declare them.
	if g.HasTangents {
		r.dev.DisableAttrib(shader.AttribBinormal)
		r.dev.DisableAttrib(shader.AttribTangent)
	}
}

// uploadLights packs the active lights into the fixed uniform slots. Light
// positions are transformed into the object's local space by the inverse
// world matrix unless the program asks for world-space positions.
func (r *Renderer) uploadLights(prog *shader.Program) {
	var transform *math.Mat4
	if !prog.WorldSpaceLights {
		inv := r.ctx.World.Inverse()
		transform = &inv
	}
	packed := r.ctx.PackLights(transform)

	loc := &prog.Loc
	if loc.LightPositions != gfx.LocNone {
		r.dev.SetUniform4fv(loc.LightPositions, packed.Positions[:])
	}
	if loc.LightColors != gfx.LocNone {
		r.dev.SetUniform4fv(loc.LightColors, packed.Colors[:])
	}
	if loc.DirLightDir != gfx.LocNone {
		r.dev.SetUniformVec3(loc.DirLightDir, packed.DirDir.X, packed.DirDir.Y, packed.DirDir.Z)
	}
	if loc.DirLightColor != gfx.LocNone {
		r.dev.SetUniform4fv(loc.DirLightColor, packed.DirColor[:])
	}
}

// Close releases every cached geometry and the program tables.
func (r *Renderer) Close() {
	for b, g := range r.geoms {
		r.destroyGeometry(g)
		delete(r.geoms, b)
	}
	r.table.Release()
}
