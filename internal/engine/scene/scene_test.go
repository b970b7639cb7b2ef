package scene

import (
	"testing"
	"time"

	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/renderer"
	"github.com/Faultbox/lumen/internal/engine/texture"
	"github.com/Faultbox/lumen/pkg/math"
)

const testAspect = float32(4.0 / 3.0)

// testRig bundles a scene with a headless renderer and a pinned camera
// looking down -Z from z=10.
type testRig struct {
	scene    *Scene
	renderer *renderer.Renderer
	dev      *gfx.Headless
	textures *texture.Manager
	cam      *CameraNode
	now      time.Time
}

func newTestRig() *testRig {
	dev := gfx.NewHeadless()
	tm := texture.NewManager()
	s := New(tm)

	cam := NewCameraNode("camera")
	cam.SetViewOverride(math.LookAt(
		math.Vec3{Z: 10},
		math.Vec3{},
		math.Vec3{Y: 1},
	))
	s.Add(cam)
	s.SetActiveCamera(cam)

	return &testRig{
		scene:    s,
		renderer: renderer.New(dev, 800, 600),
		dev:      dev,
		textures: tm,
		cam:      cam,
		now:      time.Now(),
	}
}

// frame advances time one tick, runs Update and renders when approved.
func (r *testRig) frame(t *testing.T) bool {
	t.Helper()
	r.now = r.now.Add(16 * time.Millisecond)
	if !r.scene.Update(r.now, testAspect) {
		return false
	}
	r.scene.Render(r.renderer)
	return true
}

func opaqueCube(name string, pos math.Vec3) *MeshNode {
	n := NewMeshNode(name, mesh.NewCube(2))
	n.SetPosition(pos)
	return n
}

func transparentCube(name string, pos math.Vec3) *MeshNode {
	b := mesh.NewCube(2)
	b.Mat.Type = material.TransparentAlpha
	n := NewMeshNode(name, b)
	n.SetPosition(pos)
	return n
}

func TestUpdateWithoutCameraSkipsFrame(t *testing.T) {
	s := New(texture.NewManager())
	s.Add(opaqueCube("box", math.Vec3{}))
	if s.Update(time.Now(), testAspect) {
		t.Error("scene without a camera must not redraw")
	}
}

func TestStaticSceneSuppressesRedraw(t *testing.T) {
	for _, policy := range []RedrawPolicy{RedrawWhenCameraMoved, RedrawWhenSceneChanged} {
		rig := newTestRig()
		rig.scene.Policy = policy
		rig.scene.Add(opaqueCube("box", math.Vec3{}))

		if !rig.frame(t) {
			t.Fatalf("policy %d: first frame must draw", policy)
		}
		if rig.frame(t) {
			t.Errorf("policy %d: unchanged frame must be suppressed", policy)
		}
	}
}

func TestCameraMoveTriggersRedraw(t *testing.T) {
	rig := newTestRig()
	rig.scene.Policy = RedrawWhenCameraMoved
	rig.scene.Add(opaqueCube("box", math.Vec3{}))
	rig.frame(t)

	rig.cam.SetViewOverride(math.LookAt(
		math.Vec3{X: 5, Z: 10},
		math.Vec3{},
		math.Vec3{Y: 1},
	))
	if !rig.frame(t) {
		t.Error("camera move must trigger a redraw")
	}
	if rig.frame(t) {
		t.Error("camera at rest must suppress the next frame")
	}
}

func TestNodeChangeRespectsPolicy(t *testing.T) {
	rig := newTestRig()
	rig.scene.Policy = RedrawWhenCameraMoved
	box := opaqueCube("box", math.Vec3{})
	rig.scene.Add(box)
	rig.frame(t)

	box.SetPosition(math.Vec3{X: 3})
	if rig.scene.Update(rig.now.Add(16*time.Millisecond), testAspect) {
		t.Error("node change must not redraw under the camera-moved policy")
	}

	rig = newTestRig()
	rig.scene.Policy = RedrawWhenSceneChanged
	box = opaqueCube("box", math.Vec3{})
	rig.scene.Add(box)
	rig.frame(t)

	box.SetPosition(math.Vec3{X: 3})
	if !rig.frame(t) {
		t.Error("node change must redraw under the scene-changed policy")
	}
}

func TestAnimatorChangeTriggersRedraw(t *testing.T) {
	rig := newTestRig()
	rig.scene.Policy = RedrawWhenSceneChanged
	box := opaqueCube("box", math.Vec3{})
	fire := false
	box.AddAnimator(AnimatorFunc(func(n Node, now time.Time) bool {
		return fire
	}))
	rig.scene.Add(box)
	rig.frame(t)

	if rig.frame(t) {
		t.Fatal("idle animator must not trigger a redraw")
	}
	fire = true
	if !rig.frame(t) {
		t.Error("animator reporting a change must trigger a redraw")
	}
}

func TestTextureLoadTriggersRedraw(t *testing.T) {
	rig := newTestRig()
	rig.scene.Policy = RedrawWhenSceneChanged
	rig.scene.Add(opaqueCube("box", math.Vec3{}))
	tex := rig.textures.Get("grass")
	rig.frame(t)

	if rig.frame(t) {
		t.Fatal("frame before texture load must be suppressed")
	}
	tex.Upload(rig.dev, 1, 1, []byte{255, 255, 255, 255}, false)
	rig.textures.MarkLoaded(tex)
	if !rig.frame(t) {
		t.Error("finished texture load must trigger a redraw")
	}
	if rig.frame(t) {
		t.Error("load flag must be consumed by one frame")
	}
}

func TestRedrawAlways(t *testing.T) {
	rig := newTestRig()
	rig.scene.Policy = RedrawAlways
	rig.scene.Add(opaqueCube("box", math.Vec3{}))
	for i := 0; i < 3; i++ {
		if !rig.frame(t) {
			t.Fatalf("frame %d suppressed under the always policy", i)
		}
	}
}

func TestForceRedrawIsOneShot(t *testing.T) {
	rig := newTestRig()
	rig.scene.Policy = RedrawWhenCameraMoved
	rig.scene.Add(opaqueCube("box", math.Vec3{}))
	rig.frame(t)

	rig.scene.ForceRedraw()
	if !rig.frame(t) {
		t.Fatal("forced frame must draw")
	}
	if rig.frame(t) {
		t.Error("force redraw must reset after one frame")
	}
}

func TestParseRedrawPolicy(t *testing.T) {
	cases := map[string]RedrawPolicy{
		"camera-moved":  RedrawWhenCameraMoved,
		"scene-changed": RedrawWhenSceneChanged,
		"always":        RedrawAlways,
		"bogus":         RedrawWhenSceneChanged,
		"":              RedrawWhenSceneChanged,
	}
	for in, want := range cases {
		if got := ParseRedrawPolicy(in); got != want {
			t.Errorf("ParseRedrawPolicy(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestTransparentDrawnFarthestFirst(t *testing.T) {
	rig := newTestRig()
	near := transparentCube("near", math.Vec3{Z: 5})
	far := transparentCube("far", math.Vec3{Z: -50})
	rig.scene.Add(near)
	rig.scene.Add(far)

	if !rig.frame(t) {
		t.Fatal("frame must draw")
	}

	farIdx := rig.renderer.GeometryOf(far.Buffers()[0]).Indices
	nearIdx := rig.renderer.GeometryOf(near.Buffers()[0]).Indices
	if len(rig.dev.Draws) != 2 {
		t.Fatalf("got %d draws, want 2", len(rig.dev.Draws))
	}
	if rig.dev.Draws[0].IndexBuffer != farIdx {
		t.Error("farthest transparent node must draw first")
	}
	if rig.dev.Draws[1].IndexBuffer != nearIdx {
		t.Error("nearest transparent node must draw last")
	}
}

func TestLightsSubmittedNearestFirst(t *testing.T) {
	rig := newTestRig()
	rig.scene.Add(opaqueCube("box", math.Vec3{}))

	farLight := NewLightNode("far", 100)
	farLight.SetPosition(math.Vec3{Z: -200})
	nearLight := NewLightNode("near", 100)
	nearLight.SetPosition(math.Vec3{Z: 8})
	rig.scene.Add(farLight)
	rig.scene.Add(nearLight)

	rig.frame(t)

	lights := rig.renderer.Ctx().Lights
	if len(lights) != 2 {
		t.Fatalf("got %d lights, want 2", len(lights))
	}
	if lights[0].Position.Z != 8 {
		t.Errorf("nearest light must be first, got position %v", lights[0].Position)
	}
}

func TestLastDirectionalLightWins(t *testing.T) {
	rig := newTestRig()
	rig.scene.Add(opaqueCube("box", math.Vec3{}))

	first := NewDirectionalLightNode("sun1", math.Vec3{Y: -1})
	second := NewDirectionalLightNode("sun2", math.Vec3{Y: -1})
	second.Color = [4]float32{0.5, 0, 0, 1}
	rig.scene.Add(first)
	rig.scene.Add(second)

	rig.frame(t)

	ctx := rig.renderer.Ctx()
	if !ctx.HasDirLight {
		t.Fatal("directional light not applied")
	}
	if ctx.DirLight.Color[0] != 0.5 {
		t.Errorf("last registered directional light must win, got color %v", ctx.DirLight.Color)
	}
	if len(ctx.Lights) != 0 {
		t.Errorf("directional lights must not occupy point slots, got %d", len(ctx.Lights))
	}
}

func TestSkyboxDrawsFirstWithoutTranslation(t *testing.T) {
	rig := newTestRig()
	sky := NewSkyBoxNode("sky", nil)
	rig.scene.Add(sky)
	rig.scene.Add(opaqueCube("box", math.Vec3{}))

	rig.frame(t)

	if len(rig.dev.Draws) != 2 {
		t.Fatalf("got %d draws, want 2", len(rig.dev.Draws))
	}
	skyIdx := rig.renderer.GeometryOf(sky.Buffer()).Indices
	if rig.dev.Draws[0].IndexBuffer != skyIdx {
		t.Error("skybox must draw before scene geometry")
	}
	// After the frame the renderer view must carry the camera translation
	// again; the stripped view is skybox-local state.
	if rig.renderer.View() != rig.cam.ViewMatrix() {
		t.Error("camera view not restored after the skybox pass")
	}
}

func TestFrustumCullingSkipsOffscreenOpaque(t *testing.T) {
	rig := newTestRig()
	rig.scene.Add(opaqueCube("visible", math.Vec3{}))
	rig.scene.Add(opaqueCube("behind", math.Vec3{Z: 1000}))

	rig.frame(t)
	if rig.scene.NodesRendered != 1 {
		t.Errorf("rendered %d nodes, want 1 (offscreen node culled)", rig.scene.NodesRendered)
	}

	rig.scene.FrustumCulling = false
	rig.scene.ForceRedraw()
	rig.frame(t)
	if rig.scene.NodesRendered != 2 {
		t.Errorf("rendered %d nodes with culling off, want 2", rig.scene.NodesRendered)
	}
}

func TestTransparentPassIsNotCulled(t *testing.T) {
	rig := newTestRig()
	rig.scene.Add(transparentCube("behind", math.Vec3{Z: 1000}))

	rig.frame(t)
	if rig.scene.NodesRendered != 1 {
		t.Errorf("rendered %d nodes, want 1 (transparent pass draws regardless)", rig.scene.NodesRendered)
	}
}

func TestMeshNodeRegistersMixedBuffers(t *testing.T) {
	rig := newTestRig()
	solid := mesh.NewCube(2)
	glass := mesh.NewCube(2)
	glass.Mat.Type = material.TransparentAlpha
	rig.scene.Add(NewMeshNode("mixed", solid, glass))

	rig.frame(t)

	if len(rig.scene.opaque) != 1 {
		t.Errorf("opaque items = %d, want 1", len(rig.scene.opaque))
	}
	if len(rig.scene.transparent) != 1 {
		t.Errorf("transparent items = %d, want 1", len(rig.scene.transparent))
	}
	if rig.scene.NodesRendered != 2 {
		t.Errorf("rendered %d buffers, want 2", rig.scene.NodesRendered)
	}
}

func TestInvisibleSubtreeIsSkipped(t *testing.T) {
	rig := newTestRig()
	group := NewGroup("group")
	group.AddChild(opaqueCube("hidden", math.Vec3{}))
	group.SetVisible(false)
	rig.scene.Add(group)
	rig.scene.Add(opaqueCube("shown", math.Vec3{X: 3}))

	rig.frame(t)
	if rig.scene.NodesRendered != 1 {
		t.Errorf("rendered %d nodes, want 1 (invisible subtree skipped)", rig.scene.NodesRendered)
	}
}

func TestDeferredDeletionRespectsDeadline(t *testing.T) {
	rig := newTestRig()
	idx := NewMapIndex()
	rig.scene.SetCollisionIndex(idx)

	box := opaqueCube("doomed", math.Vec3{})
	rig.scene.Add(box)
	idx.Insert(box)

	rig.scene.AddToDeletionQueue(box, time.Hour)
	rig.frame(t)
	if box.Parent() == nil {
		t.Fatal("node removed before its deadline")
	}

	rig.scene.AddToDeletionQueue(box, -time.Second)
	rig.frame(t)
	if box.Parent() != nil {
		t.Error("node past its deadline must be removed")
	}
	if idx.Len() != 0 {
		t.Error("removal must drop the node from the collision index")
	}
}

func TestFlushDeletionQueueIgnoresDeadlines(t *testing.T) {
	rig := newTestRig()
	box := opaqueCube("doomed", math.Vec3{})
	rig.scene.Add(box)
	rig.scene.AddToDeletionQueue(box, time.Hour)

	rig.scene.FlushDeletionQueue()
	if box.Parent() != nil {
		t.Error("flush must remove queued nodes immediately")
	}
}

func TestRemovalTriggersRedraw(t *testing.T) {
	rig := newTestRig()
	rig.scene.Policy = RedrawWhenSceneChanged
	box := opaqueCube("box", math.Vec3{})
	rig.scene.Add(box)
	rig.frame(t)

	rig.scene.Remove(box)
	if !rig.frame(t) {
		t.Error("node removal must trigger a redraw")
	}
}

func TestFirstVisibleCameraWins(t *testing.T) {
	s := New(texture.NewManager())
	hidden := NewCameraNode("hidden")
	hidden.SetVisible(false)
	second := NewCameraNode("second")
	s.Add(hidden)
	s.Add(second)

	if s.Camera() != second {
		t.Error("first visible camera in tree order must be selected")
	}

	pinned := NewCameraNode("pinned")
	s.Add(pinned)
	s.SetActiveCamera(pinned)
	if s.Camera() != pinned {
		t.Error("explicit camera must win over tree order")
	}
}

func TestTransparentEqualDistanceKeepsRegistrationOrder(t *testing.T) {
	rig := newTestRig()
	// Eye sits at z=10: "near" is 1 away, the other two tie at 25.
	near := transparentCube("near", math.Vec3{Z: 9})
	tieA := transparentCube("tieA", math.Vec3{Z: 5})
	tieB := transparentCube("tieB", math.Vec3{Z: 15})
	rig.scene.Add(near)
	rig.scene.Add(tieA)
	rig.scene.Add(tieB)

	if !rig.frame(t) {
		t.Fatal("frame must draw")
	}

	want := []gfx.BufferID{
		rig.renderer.GeometryOf(tieA.Buffers()[0]).Indices,
		rig.renderer.GeometryOf(tieB.Buffers()[0]).Indices,
		rig.renderer.GeometryOf(near.Buffers()[0]).Indices,
	}
	if len(rig.dev.Draws) != 3 {
		t.Fatalf("got %d draws, want 3", len(rig.dev.Draws))
	}
	for i, w := range want {
		if rig.dev.Draws[i].IndexBuffer != w {
			t.Errorf("draw %d out of order: equal distances must keep registration order, nearest last", i)
		}
	}
}

func TestLightsEqualDistanceKeepRegistrationOrder(t *testing.T) {
	rig := newTestRig()
	rig.scene.Add(opaqueCube("box", math.Vec3{}))

	// Eye sits at z=10: tieA and tieB are both 8 away, near is 2 away.
	tieA := NewLightNode("tieA", 100)
	tieA.SetPosition(math.Vec3{Z: 2})
	tieA.Color = [4]float32{1, 0, 0, 1}
	tieB := NewLightNode("tieB", 100)
	tieB.SetPosition(math.Vec3{Y: 8, Z: 10})
	tieB.Color = [4]float32{0, 1, 0, 1}
	near := NewLightNode("near", 100)
	near.SetPosition(math.Vec3{Z: 8})
	rig.scene.Add(tieA)
	rig.scene.Add(tieB)
	rig.scene.Add(near)

	rig.frame(t)

	lights := rig.renderer.Ctx().Lights
	if len(lights) != 3 {
		t.Fatalf("got %d lights, want 3", len(lights))
	}
	if lights[0].Position.Z != 8 {
		t.Errorf("nearest light must come first, got %v", lights[0].Position)
	}
	if lights[1].Color[0] != 1 || lights[2].Color[1] != 1 {
		t.Error("equal-distance lights must keep registration order")
	}
}

func TestLastRegisteredSkyboxWins(t *testing.T) {
	rig := newTestRig()
	first := NewSkyBoxNode("sky1", nil)
	second := NewSkyBoxNode("sky2", nil)
	rig.scene.Add(first)
	rig.scene.Add(second)

	rig.frame(t)

	if rig.scene.skybox != second {
		t.Error("skybox slot must hold the last registered skybox")
	}
	if len(rig.dev.Draws) != 1 {
		t.Fatalf("got %d draws, want 1 (single skybox slot)", len(rig.dev.Draws))
	}
	if rig.dev.Draws[0].IndexBuffer != rig.renderer.GeometryOf(second.Buffer()).Indices {
		t.Error("drawn skybox must be the last registered one")
	}
}
