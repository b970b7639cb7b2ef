package renderer

import (
	"testing"

	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/texture"
	"github.com/Faultbox/lumen/pkg/math"
)

func newTestRenderer() (*Renderer, *gfx.Headless) {
	dev := gfx.NewHeadless()
	return New(dev, 800, 600), dev
}

func triangleBuffer() *mesh.Buffer {
	b := mesh.New()
	b.Vertices = []mesh.Vertex{
		{Pos: math.Vec3{X: 0, Y: 0, Z: 0}, Color: [4]float32{1, 0, 0, 1}},
		{Pos: math.Vec3{X: 1, Y: 0, Z: 0}, Color: [4]float32{0, 1, 0, 1}},
		{Pos: math.Vec3{X: 0, Y: 1, Z: 0}, Color: [4]float32{0, 0, 1, 1}},
	}
	b.Indices = []uint16{0, 1, 2}
	b.RecalculateBoundingBox()
	return b
}

func TestDrawRewindsIndices(t *testing.T) {
	r, dev := newTestRenderer()
	b := triangleBuffer()

	r.SetMaterial(b.Mat)
	r.DrawMeshBuffer(b, 0)

	g := r.GeometryOf(b)
	if g == nil {
		t.Fatal("no geometry created")
	}
	idx := dev.Buffers[g.Indices].Index
	want := []uint16{0, 2, 1}
	for i := range want {
		if idx[i] != want[i] {
			t.Errorf("index %d = %d, want %d (second and third swapped)", i, idx[i], want[i])
		}
	}
}

func TestRewindAppliesToRegeneratedIndices(t *testing.T) {
	r, dev := newTestRenderer()
	b := triangleBuffer()

	r.SetMaterial(b.Mat)
	r.DrawMeshBuffer(b, 0)

	// Regenerate indices in a different order and force a full rebuild.
	b.Indices = []uint16{2, 0, 1}
	b.SetDirty()
	r.DrawMeshBuffer(b, 0)

	g := r.GeometryOf(b)
	idx := dev.Buffers[g.Indices].Index
	want := []uint16{2, 1, 0}
	for i := range want {
		if idx[i] != want[i] {
			t.Errorf("regenerated index %d = %d, want %d", i, idx[i], want[i])
		}
	}
}

func TestBufferUsageFlags(t *testing.T) {
	r, dev := newTestRenderer()
	b := triangleBuffer()

	r.SetMaterial(b.Mat)
	r.DrawMeshBuffer(b, 0)

	g := r.GeometryOf(b)
	if dev.Buffers[g.Positions].Usage != gfx.DynamicDraw {
		t.Error("positions should be a dynamic buffer")
	}
	if dev.Buffers[g.Colors].Usage != gfx.DynamicDraw {
		t.Error("colors should be a dynamic buffer")
	}
	if dev.Buffers[g.Normals].Usage != gfx.StaticDraw {
		t.Error("normals should be a static buffer")
	}
	if dev.Buffers[g.Indices].Usage != gfx.StaticDraw {
		t.Error("indices should be a static buffer")
	}
}

func TestEmptyBufferIsSilentNoOp(t *testing.T) {
	r, dev := newTestRenderer()
	b := mesh.New()

	r.SetMaterial(b.Mat)
	r.DrawMeshBuffer(b, 0)

	if len(dev.Draws) != 0 {
		t.Errorf("empty buffer produced %d draws, want 0", len(dev.Draws))
	}
	if r.GeometryOf(b) != nil {
		t.Error("empty buffer should not allocate device geometry")
	}
}

func TestSizePreservingUpdateKeepsHandles(t *testing.T) {
	r, dev := newTestRenderer()
	b := triangleBuffer()

	r.SetMaterial(b.Mat)
	r.DrawMeshBuffer(b, 0)

	g := r.GeometryOf(b)
	posID, colID, idxID := g.Positions, g.Colors, g.Indices

	b.Vertices[0].Pos = math.Vec3{X: 9, Y: 9, Z: 9}
	b.Vertices[0].Color = [4]float32{0.5, 0.5, 0.5, 1}
	b.ScheduleSizePreservingUpdate()
	r.DrawMeshBuffer(b, 0)

	g = r.GeometryOf(b)
	if g.Positions != posID || g.Colors != colID || g.Indices != idxID {
		t.Error("size-preserving update must keep the same device handles")
	}
	if dev.Buffers[posID].Data[0] != 9 {
		t.Errorf("position data not rewritten, got %f", dev.Buffers[posID].Data[0])
	}
	if dev.Buffers[colID].Data[0] != 0.5 {
		t.Errorf("color data not rewritten, got %f", dev.Buffers[colID].Data[0])
	}
}

func TestGrowthDegradesToFullRecreate(t *testing.T) {
	r, dev := newTestRenderer()
	b := triangleBuffer()

	r.SetMaterial(b.Mat)
	r.DrawMeshBuffer(b, 0)

	oldPos := r.GeometryOf(b).Positions

	// Grow the buffer, then ask for an in-place update.
	b.Vertices = append(b.Vertices, mesh.Vertex{Pos: math.Vec3{X: 2, Y: 2, Z: 2}})
	b.Indices = append(b.Indices, 0, 2, 3)
	b.ScheduleSizePreservingUpdate()
	r.DrawMeshBuffer(b, 0)

	g := r.GeometryOf(b)
	if g.Positions == oldPos {
		t.Error("growth must allocate a fresh device resource")
	}
	if !dev.Buffers[oldPos].Deleted {
		t.Error("outgrown device resource must be discarded")
	}
	if g.VertexCount != 4 || g.IndexCount != 6 {
		t.Errorf("recreated geometry has %d vertices / %d indices, want 4 / 6", g.VertexCount, g.IndexCount)
	}
}

func TestPositionOnlyUpdateLeavesColors(t *testing.T) {
	r, dev := newTestRenderer()
	b := triangleBuffer()

	r.SetMaterial(b.Mat)
	r.DrawMeshBuffer(b, 0)
	g := r.GeometryOf(b)

	b.Vertices[0].Pos = math.Vec3{X: 7, Y: 7, Z: 7}
	b.Vertices[0].Color = [4]float32{0.7, 0.7, 0.7, 1}
	b.SchedulePositionUpdate()
	r.DrawMeshBuffer(b, 0)

	if dev.Buffers[g.Positions].Data[0] != 7 {
		t.Error("positions-only update did not rewrite positions")
	}
	if dev.Buffers[g.Colors].Data[0] != 1 {
		t.Error("positions-only update must not touch colors")
	}
}

func TestSetMaterialUnknownTypeKeepsPriorProgram(t *testing.T) {
	r, dev := newTestRenderer()
	b := triangleBuffer()

	r.SetMaterial(b.Mat)
	bound := dev.CurrentProgram

	unknown := b.Mat
	unknown.Type = material.Type(999)
	r.SetMaterial(unknown)

	if dev.CurrentProgram != bound {
		t.Error("unresolvable material must keep the previously bound program")
	}
	r.DrawMeshBuffer(b, 0)
	if len(dev.Draws) != 1 {
		t.Errorf("draw after degraded SetMaterial: got %d draws, want 1", len(dev.Draws))
	}
}

func TestTransparentMaterialDisablesDepthWrite(t *testing.T) {
	r, dev := newTestRenderer()

	m := material.Default()
	m.Type = material.TransparentAlpha
	m.ZWriteEnabled = true
	r.SetMaterial(m)

	if dev.DepthWrite {
		t.Error("transparent material must not write depth")
	}
	if !dev.DepthTest {
		t.Error("depth test should stay enabled")
	}
}

func TestMaterialHookPanicIsContained(t *testing.T) {
	r, dev := newTestRenderer()
	r.OnMaterialSet = func(material.Type) { panic("hook exploded") }

	b := triangleBuffer()
	r.SetMaterial(b.Mat)
	r.DrawMeshBuffer(b, 0)

	if len(dev.Draws) != 1 {
		t.Errorf("draw after panicking hook: got %d draws, want 1", len(dev.Draws))
	}
}

func TestIndexCountOverride(t *testing.T) {
	r, dev := newTestRenderer()
	b := triangleBuffer()
	b.Indices = []uint16{0, 1, 2, 0, 2, 1}
	b.SetDirty()

	r.SetMaterial(b.Mat)
	r.DrawMeshBuffer(b, 3)

	if dev.Draws[0].Count != 3 {
		t.Errorf("draw count = %d, want 3", dev.Draws[0].Count)
	}

	// Zero means the full index range.
	r.DrawMeshBuffer(b, 0)
	if dev.Draws[1].Count != 6 {
		t.Errorf("full draw count = %d, want 6", dev.Draws[1].Count)
	}
}

func TestDrawCountsPerFrame(t *testing.T) {
	r, _ := newTestRenderer()
	b := triangleBuffer()

	r.BeginScene(0, 0, 0, 1)
	r.SetMaterial(b.Mat)
	r.DrawMeshBuffer(b, 0)
	r.DrawMeshBuffer(b, 0)
	if r.DrawCalls() != 2 {
		t.Errorf("draw calls = %d, want 2", r.DrawCalls())
	}

	r.BeginScene(0, 0, 0, 1)
	if r.DrawCalls() != 0 {
		t.Errorf("draw calls after BeginScene = %d, want 0", r.DrawCalls())
	}
}

func TestDraw2DBuffersAreEphemeral(t *testing.T) {
	r, dev := newTestRenderer()

	before := dev.LiveBufferCount()
	r.Draw2DRectangle(10, 10, 100, 50, [4]float32{1, 0, 0, 1}, true)

	if got := dev.LiveBufferCount(); got != before {
		t.Errorf("live buffers after 2D draw = %d, want %d", got, before)
	}
	if len(dev.Draws) != 1 {
		t.Errorf("2D rectangle produced %d draws, want 1", len(dev.Draws))
	}
	if !dev.Blend.Enabled || dev.Blend.Src != gfx.BlendSrcAlpha {
		t.Error("blended 2D rectangle should use source-alpha blending")
	}
	if dev.DepthTest || dev.DepthWrite {
		t.Error("2D draws must disable depth test and write")
	}
}

func TestFreeMeshBufferReleasesAndMarksDirty(t *testing.T) {
	r, dev := newTestRenderer()
	b := triangleBuffer()

	r.SetMaterial(b.Mat)
	r.DrawMeshBuffer(b, 0)
	pos := r.GeometryOf(b).Positions

	r.FreeMeshBuffer(b)

	if r.GeometryOf(b) != nil {
		t.Error("freed buffer should have no cached geometry")
	}
	if !dev.Buffers[pos].Deleted {
		t.Error("freed geometry's device buffers should be deleted")
	}
	if b.Pending() != mesh.UpdateFull {
		t.Error("freed buffer must be flagged for a full upload")
	}
}

func TestSetMaterialAppliesWrapModes(t *testing.T) {
	r, dev := newTestRenderer()

	t1 := texture.NewPlaceholder("base")
	t1.Upload(dev, 1, 1, make([]byte, 4), false)
	t2 := texture.NewPlaceholder("lightmap")
	t2.Upload(dev, 1, 1, make([]byte, 4), false)

	m := material.Default()
	m.Type = material.Lightmap
	m.Tex1, m.Tex2 = t1, t2
	m.ClampTexture1 = true
	m.ClampTexture2 = false
	r.SetMaterial(m)

	if !dev.WrapClamp[0] {
		t.Error("slot 0 must clamp")
	}
	if dev.WrapClamp[1] {
		t.Error("slot 1 must repeat")
	}

	m.ClampTexture2 = true
	r.SetMaterial(m)
	if !dev.WrapClamp[1] {
		t.Error("slot 1 must clamp")
	}
}

func TestDraw2DImageBlendIsOptional(t *testing.T) {
	r, dev := newTestRenderer()

	tex := texture.NewPlaceholder("hud")
	tex.Upload(dev, 1, 1, make([]byte, 4), false)

	r.Draw2DImage(tex, 0, 0, 64, 64, false)
	if dev.Blend.Enabled {
		t.Error("unblended image draw must disable blending")
	}

	r.Draw2DImage(tex, 0, 0, 64, 64, true)
	if !dev.Blend.Enabled || dev.Blend.Src != gfx.BlendSrcAlpha {
		t.Error("blended image draw must use source-alpha blending")
	}
	if len(dev.Draws) != 2 {
		t.Errorf("got %d draws, want 2", len(dev.Draws))
	}
}
