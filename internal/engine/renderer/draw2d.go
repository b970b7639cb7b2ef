package renderer

import (
	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/engine/shader"
	"github.com/Faultbox/lumen/internal/engine/texture"
)

// 2D overlay drawing. Quads are built per call in normalized device
// coordinates and their buffers are deleted right after the draw; overlays
// are few per frame so the churn is not worth a cache.

var quadIndices = []uint16{0, 1, 2, 2, 1, 3}

// toNDC converts pixel coordinates (origin top-left, y down) to normalized
// device coordinates (origin center, y up).
func (r *Renderer) toNDC(x, y float32) (float32, float32) {
	return x*2/float32(r.width) - 1, 1 - y*2/float32(r.height)
}

func (r *Renderer) drawQuad(prog *shader.Program, verts []float32) {
	vb := r.dev.CreateArrayBuffer(verts, gfx.StaticDraw)
	ib := r.dev.CreateIndexBuffer(quadIndices, gfx.StaticDraw)

	r.dev.BindAttribBuffer(shader.AttribPosition, vb, 3)
	r.dev.DrawIndexed(ib, int32(len(quadIndices)))
	r.drawCalls++

	r.dev.DeleteBuffer(vb)
	r.dev.DeleteBuffer(ib)
}

// Draw2DRectangle fills a pixel-space rectangle with a flat color. The call
// leaves no program bound as current material state; 3D drawing must set a
// material again afterwards.
func (r *Renderer) Draw2DRectangle(x, y, w, h float32, color [4]float32, blend bool) {
	prog := r.table.Color2D
	if prog == nil {
		return
	}
	r.current = nil
	r.dev.UseProgram(prog.ID)
	r.dev.SetDepth(false, false)
	r.dev.SetCull(false)
	if blend {
		r.dev.SetBlend(gfx.BlendState{Enabled: true, Src: gfx.BlendSrcAlpha, Dst: gfx.BlendOneMinusSrcAlpha})
	} else {
		r.dev.SetBlend(gfx.BlendState{})
	}
	if prog.Loc.Color != gfx.LocNone {
		r.dev.SetUniform4fv(prog.Loc.Color, color[:])
	}

	x0, y0 := r.toNDC(x, y)
	x1, y1 := r.toNDC(x+w, y+h)
	r.drawQuad(prog, []float32{
		x0, y0, 0,
		x1, y0, 0,
		x0, y1, 0,
		x1, y1, 0,
	})
}

// Draw2DImage draws a texture into a pixel-space rectangle. Unloaded
// textures draw nothing.
func (r *Renderer) Draw2DImage(tex *texture.Texture, x, y, w, h float32, blend bool) {
	r.Draw2DImageRegion(tex, x, y, w, h, 0, 0, 1, 1, blend)
}

// Draw2DImageRegion draws a sub-region of a texture, with the region given
// in normalized texture coordinates.
func (r *Renderer) Draw2DImageRegion(tex *texture.Texture, x, y, w, h, u0, v0, u1, v1 float32, blend bool) {
	if !tex.Loaded() {
		return
	}
	prog := r.table.Image2D
	if prog == nil {
		return
	}
	r.current = nil
	r.dev.UseProgram(prog.ID)
	r.dev.SetDepth(false, false)
	r.dev.SetCull(false)
	if blend {
		r.dev.SetBlend(gfx.BlendState{Enabled: true, Src: gfx.BlendSrcAlpha, Dst: gfx.BlendOneMinusSrcAlpha})
	} else {
		r.dev.SetBlend(gfx.BlendState{})
	}

	r.dev.BindTexture(0, tex.Handle())
	if prog.Loc.Texture0 != gfx.LocNone {
		r.dev.SetUniformInt(prog.Loc.Texture0, 0)
	}

	x0, y0 := r.toNDC(x, y)
	x1, y1 := r.toNDC(x+w, y+h)
	pos := r.dev.CreateArrayBuffer([]float32{
		x0, y0, 0,
		x1, y0, 0,
		x0, y1, 0,
		x1, y1, 0,
	}, gfx.StaticDraw)
	tc := r.dev.CreateArrayBuffer([]float32{
		u0, v0,
		u1, v0,
		u0, v1,
		u1, v1,
	}, gfx.StaticDraw)
	ib := r.dev.CreateIndexBuffer(quadIndices, gfx.StaticDraw)

	r.dev.BindAttribBuffer(shader.AttribPosition, pos, 3)
	r.dev.BindAttribBuffer(shader.AttribTexCoord0, tc, 2)
	r.dev.DrawIndexed(ib, int32(len(quadIndices)))
	r.drawCalls++

	r.dev.DeleteBuffer(pos)
	r.dev.DeleteBuffer(tc)
	r.dev.DeleteBuffer(ib)
}
