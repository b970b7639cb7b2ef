package renderer

import (
	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/engine/mesh"
)

// Geometry is the device-resident mirror of one mesh buffer: one buffer
// object per vertex attribute plus a re-wound index buffer. Each mesh
// buffer owns exactly one Geometry; it is recreated, never shared, when the
// buffer is invalidated or outgrows it.
type Geometry struct {
	Positions  gfx.BufferID
	TexCoords0 gfx.BufferID
	TexCoords1 gfx.BufferID
	Normals    gfx.BufferID
	Colors     gfx.BufferID
	Tangents   gfx.BufferID
	Binormals  gfx.BufferID
	Indices    gfx.BufferID

	VertexCount int
	IndexCount  int32
	HasTangents bool
}

func positionsOf(b *mesh.Buffer) []float32 {
	out := make([]float32, 0, len(b.Vertices)*3)
	for i := range b.Vertices {
		p := b.Vertices[i].Pos
		out = append(out, p.X, p.Y, p.Z)
	}
	return out
}

func normalsOf(b *mesh.Buffer) []float32 {
	out := make([]float32, 0, len(b.Vertices)*3)
	for i := range b.Vertices {
		n := b.Vertices[i].Normal
		out = append(out, n.X, n.Y, n.Z)
	}
	return out
}

func colorsOf(b *mesh.Buffer) []float32 {
	out := make([]float32, 0, len(b.Vertices)*4)
	for i := range b.Vertices {
		c := b.Vertices[i].Color
		out = append(out, c[0], c[1], c[2], c[3])
	}
	return out
}

func texCoordsOf(b *mesh.Buffer, second bool) []float32 {
	out := make([]float32, 0, len(b.Vertices)*2)
	for i := range b.Vertices {
		t := b.Vertices[i].TCoord
		if second {
			t = b.Vertices[i].TCoord2
		}
		out = append(out, t.X, t.Y)
	}
	return out
}

func tangentsOf(b *mesh.Buffer, binormal bool) []float32 {
	out := make([]float32, 0, len(b.Vertices)*3)
	for i := range b.Vertices {
		v := b.Vertices[i].Tangent
		if binormal {
			v = b.Vertices[i].Binormal
		}
		out = append(out, v.X, v.Y, v.Z)
	}
	return out
}

// rewoundIndices swaps the second and third index of every triangle between
// the CPU representation and the device representation. This is a fixed
// winding adaptation; it applies to every full index upload, initial or
// regenerated.
func rewoundIndices(in []uint16) []uint16 {
	out := make([]uint16, len(in))
	for i := 0; i+2 < len(in); i += 3 {
		out[i] = in[i]
		out[i+1] = in[i+2]
		out[i+2] = in[i+1]
	}
	return out
}

// createGeometry allocates device buffers for the mesh buffer. Positions
// and colors are dynamic (rewritten in place by the update paths); all
// other attributes are static. Returns nil for an empty buffer: nothing to
// draw, not an error.
func (r *Renderer) createGeometry(b *mesh.Buffer) *Geometry {
	if b.Empty() {
		return nil
	}

	g := &Geometry{
		Positions:   r.dev.CreateArrayBuffer(positionsOf(b), gfx.DynamicDraw),
		TexCoords0:  r.dev.CreateArrayBuffer(texCoordsOf(b, false), gfx.StaticDraw),
		TexCoords1:  r.dev.CreateArrayBuffer(texCoordsOf(b, true), gfx.StaticDraw),
		Normals:     r.dev.CreateArrayBuffer(normalsOf(b), gfx.StaticDraw),
		Colors:      r.dev.CreateArrayBuffer(colorsOf(b), gfx.DynamicDraw),
		Indices:     r.dev.CreateIndexBuffer(rewoundIndices(b.Indices), gfx.StaticDraw),
		VertexCount: len(b.Vertices),
		IndexCount:  int32(len(b.Indices)),
	}
	if b.Tangents {
		g.Tangents = r.dev.CreateArrayBuffer(tangentsOf(b, false), gfx.StaticDraw)
		g.Binormals = r.dev.CreateArrayBuffer(tangentsOf(b, true), gfx.StaticDraw)
		g.HasTangents = true
	}
	return g
}

func (r *Renderer) destroyGeometry(g *Geometry) {
	if g == nil {
		return
	}
	for _, id := range []gfx.BufferID{
		g.Positions, g.TexCoords0, g.TexCoords1, g.Normals,
		g.Colors, g.Tangents, g.Binormals, g.Indices,
	} {
		if id != 0 {
			r.dev.DeleteBuffer(id)
		}
	}
}

// ensureGeometry returns an up-to-date device geometry for the buffer,
// creating or updating it according to the buffer's pending dirty state.
// Growth always degrades an incremental update to a full recreate; the old
// device data is discarded, never migrated.
func (r *Renderer) ensureGeometry(b *mesh.Buffer) *Geometry {
	g := r.geoms[b]
	kind := b.ConsumePending()

	if g == nil {
		g = r.createGeometry(b)
		if g != nil {
			r.geoms[b] = g
		}
		return g
	}

	switch kind {
	case mesh.UpdateFull:
		r.destroyGeometry(g)
		delete(r.geoms, b)
		g = r.createGeometry(b)
		if g != nil {
			r.geoms[b] = g
		}

	case mesh.UpdateSizePreserving:
		if len(b.Vertices) > g.VertexCount || len(b.Indices) > int(g.IndexCount) {
			r.destroyGeometry(g)
			delete(r.geoms, b)
			g = r.createGeometry(b)
			if g != nil {
				r.geoms[b] = g
			}
			break
		}
		r.dev.UpdateArrayBuffer(g.Positions, positionsOf(b))
		r.dev.UpdateArrayBuffer(g.Colors, colorsOf(b))

	case mesh.UpdatePositions:
		if len(b.Vertices) > g.VertexCount || len(b.Indices) > int(g.IndexCount) {
			r.destroyGeometry(g)
			delete(r.geoms, b)
			g = r.createGeometry(b)
			if g != nil {
				r.geoms[b] = g
			}
			break
		}
		r.dev.UpdateArrayBuffer(g.Positions, positionsOf(b))
	}

	return g
}

// GeometryOf exposes the cached device geometry of a buffer, nil when none
// exists yet. Diagnostic accessor.
func (r *Renderer) GeometryOf(b *mesh.Buffer) *Geometry {
	return r.geoms[b]
}

// FreeMeshBuffer releases the device geometry owned by the buffer. The next
// draw recreates it from scratch.
func (r *Renderer) FreeMeshBuffer(b *mesh.Buffer) {
	if g, ok := r.geoms[b]; ok {
		r.destroyGeometry(g)
		delete(r.geoms, b)
	}
	b.SetDirty()
}
