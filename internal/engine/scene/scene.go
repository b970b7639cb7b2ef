package scene

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/renderer"
	"github.com/Faultbox/lumen/internal/engine/texture"
	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
)

// RedrawPolicy selects which change signals trigger a redraw.
type RedrawPolicy int

const (
	// RedrawWhenCameraMoved redraws only when the view-projection matrix
	// changed since the last drawn frame.
	RedrawWhenCameraMoved RedrawPolicy = iota
	// RedrawWhenSceneChanged additionally redraws when any node changed or
	// a texture finished loading.
	RedrawWhenSceneChanged
	// RedrawAlways redraws every tick.
	RedrawAlways
)

// ParseRedrawPolicy maps a config string to a policy, defaulting to
// RedrawWhenSceneChanged for unknown values.
func ParseRedrawPolicy(s string) RedrawPolicy {
	switch s {
	case "camera-moved":
		return RedrawWhenCameraMoved
	case "always":
		return RedrawAlways
	default:
		return RedrawWhenSceneChanged
	}
}

// renderItem is one buffer queued for a render pass.
type renderItem struct {
	node   Node
	buffer *mesh.Buffer
	dist   float32
}

type deletionEntry struct {
	node     Node
	deadline time.Time
}

// Scene owns the node graph and runs the per-tick state machine: deletion
// flush, animate pass, redraw decision, then (only when redrawing) the
// registration pass and the fixed-order render passes. All of it runs on
// the rendering tick; the scene is not safe for concurrent use.
type Scene struct {
	root *Group

	Policy         RedrawPolicy
	FrustumCulling bool
	Ambient        [4]float32

	textures  *texture.Manager
	collision CollisionIndex

	deletionQueue []deletionEntry

	forceRedraw       bool
	structuralChanged bool

	lastVP    math.Mat4
	hasLastVP bool

	explicitCamera *CameraNode

	// Per-frame registration state, rebuilt each redraw.
	activeCamera *CameraNode
	skybox       *SkyBoxNode
	lights       []*LightNode
	opaque       []renderItem
	transparent  []renderItem
	overlays     []*Overlay2DNode

	frameView math.Mat4
	frameProj math.Mat4
	frameVP   math.Mat4

	// NodesRendered counts buffers drawn in the last rendered frame.
	NodesRendered int
}

// New creates an empty scene with scene-changed redraws and frustum culling
// on.
func New(textures *texture.Manager) *Scene {
	return &Scene{
		root:           NewGroup("root"),
		Policy:         RedrawWhenSceneChanged,
		FrustumCulling: true,
		Ambient:        [4]float32{0.2, 0.2, 0.2, 1},
		textures:       textures,
	}
}

// Root returns the graph root. Adding to the scene is adding to the root.
func (s *Scene) Root() *Group { return s.root }

// Add attaches a node to the root.
func (s *Scene) Add(n Node) {
	s.root.AddChild(n)
	s.structuralChanged = true
}

// Remove detaches a node from its parent immediately and drops it from the
// collision index.
func (s *Scene) Remove(n Node) {
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
	if s.collision != nil {
		s.collision.Remove(n)
	}
	s.structuralChanged = true
}

// SetActiveCamera pins the camera used for rendering; without it the first
// visible camera registered wins.
func (s *Scene) SetActiveCamera(c *CameraNode) {
	s.explicitCamera = c
	s.structuralChanged = true
}

// SetCollisionIndex registers a spatial index kept consistent on node
// removal.
func (s *Scene) SetCollisionIndex(idx CollisionIndex) { s.collision = idx }

// ForceRedraw requests one redraw regardless of policy and change signals.
// The request resets once consumed.
func (s *Scene) ForceRedraw() { s.forceRedraw = true }

// AddToDeletionQueue schedules a node for removal after the given delay.
// The node keeps rendering until its deadline passes.
func (s *Scene) AddToDeletionQueue(n Node, delay time.Duration) {
	s.deletionQueue = append(s.deletionQueue, deletionEntry{
		node:     n,
		deadline: time.Now().Add(delay),
	})
}

// FlushDeletionQueue removes every queued node immediately, deadlines
// ignored.
func (s *Scene) FlushDeletionQueue() {
	s.flushDeletions(time.Time{}, true)
}

func (s *Scene) flushDeletions(now time.Time, all bool) {
	kept := s.deletionQueue[:0]
	for _, e := range s.deletionQueue {
		if !all && now.Before(e.deadline) {
			kept = append(kept, e)
			continue
		}
		s.Remove(e.node)
	}
	s.deletionQueue = kept
}

// Camera returns the camera that will render the next frame.
func (s *Scene) Camera() *CameraNode {
	if s.explicitCamera != nil {
		return s.explicitCamera
	}
	return findCamera(s.root)
}

func findCamera(n Node) *CameraNode {
	if !n.Visible() {
		return nil
	}
	if c, ok := n.(*CameraNode); ok {
		return c
	}
	for _, child := range n.Children() {
		if c := findCamera(child); c != nil {
			return c
		}
	}
	return nil
}

// Update runs deletion flush, the animate pass and the redraw decision for
// one tick. It returns whether the frame should be drawn; a false return
// must produce zero draw calls.
func (s *Scene) Update(now time.Time, aspect float32) bool {
	s.flushDeletions(now, false)

	changed := animate(s.root, math.Identity(), false, now)
	if s.structuralChanged {
		changed = true
		s.structuralChanged = false
	}

	cam := s.Camera()
	if cam == nil {
		logger.Debug("no camera in scene, skipping frame")
		return false
	}
	s.frameView = cam.ViewMatrix()
	s.frameProj = cam.ProjectionMatrix(aspect)
	s.frameVP = s.frameProj.Mul(s.frameView)

	viewChanged := !s.hasLastVP || s.frameVP != s.lastVP
	textureLoaded := s.textures != nil && s.textures.ConsumeLoadedFlag()

	redraw := false
	switch s.Policy {
	case RedrawAlways:
		redraw = true
	case RedrawWhenCameraMoved:
		redraw = viewChanged
	case RedrawWhenSceneChanged:
		redraw = viewChanged || changed || textureLoaded
	}
	if s.forceRedraw {
		redraw = true
		s.forceRedraw = false
	}
	return redraw
}

// Render runs the registration pass and the fixed-order render passes for
// the frame Update approved: camera, skybox, lights nearest first, opaque
// with frustum culling, transparent farthest first, then 2D overlays in
// registration order.
func (s *Scene) Render(r *renderer.Renderer) {
	s.activeCamera = s.explicitCamera
	s.skybox = nil
	s.lights = s.lights[:0]
	s.opaque = s.opaque[:0]
	s.transparent = s.transparent[:0]
	s.overlays = s.overlays[:0]

	registerTree(s, s.root)

	cam := s.activeCamera
	if cam == nil {
		return
	}
	eye := cam.EyePosition()

	// Camera pass.
	r.SetView(s.frameView)
	r.SetProjection(s.frameProj)

	s.NodesRendered = 0
	s.renderSkybox(r)
	s.applyLights(r, eye)

	// Opaque pass, front to back order is not required; culling is a
	// conservative box test, false positives draw harmlessly.
	frustum := math.FrustumBox(s.frameVP)
	for _, item := range s.opaque {
		if s.FrustumCulling && !item.node.WorldBox().Intersects(frustum) {
			continue
		}
		s.drawItem(r, item)
	}

	// Transparent pass, farthest first so near surfaces composite over
	// far ones. Stable sort keeps registration order for ties.
	for i := range s.transparent {
		c := s.transparent[i].node.WorldBox().Center()
		s.transparent[i].dist = c.DistanceSq(eye)
	}
	sort.SliceStable(s.transparent, func(i, j int) bool {
		return s.transparent[i].dist > s.transparent[j].dist
	})
	for _, item := range s.transparent {
		s.drawItem(r, item)
	}

	for _, o := range s.overlays {
		o.draw(r)
	}

	s.lastVP = s.frameVP
	s.hasLastVP = true

	if s.NodesRendered == 0 && len(s.opaque)+len(s.transparent) > 0 {
		logger.Debug("all registered nodes culled",
			zap.Int("opaque", len(s.opaque)),
			zap.Int("transparent", len(s.transparent)),
		)
	}
}

func registerTree(s *Scene, n Node) {
	if !n.Visible() {
		return
	}
	n.register(s)
	for _, c := range n.Children() {
		registerTree(s, c)
	}
}

func (s *Scene) drawItem(r *renderer.Renderer, item renderItem) {
	r.SetWorld(item.node.WorldTransform())
	r.SetMaterial(item.buffer.Mat)
	r.DrawMeshBuffer(item.buffer, 0)
	s.NodesRendered++
}

// renderSkybox draws the skybox slot with the view translation stripped so
// the box stays centered on the camera.
func (s *Scene) renderSkybox(r *renderer.Renderer) {
	if s.skybox == nil {
		return
	}
	r.SetView(s.frameView.WithoutTranslation())
	r.SetWorld(s.skybox.WorldTransform().WithoutTranslation())
	r.SetMaterial(s.skybox.buffer.Mat)
	r.DrawMeshBuffer(s.skybox.buffer, 0)
	r.SetView(s.frameView)
	s.NodesRendered++
}

// applyLights feeds the renderer's light slots, nearest point lights first.
// The renderer packs a fixed number of slots; everything past them is
// dropped for the frame.
func (s *Scene) applyLights(r *renderer.Renderer, eye math.Vec3) {
	r.ClearDynamicLights()
	r.SetAmbient(s.Ambient)

	points := make([]*LightNode, 0, len(s.lights))
	var directional *LightNode
	for _, l := range s.lights {
		if l.Directional {
			directional = l
			continue
		}
		points = append(points, l)
	}

	sort.SliceStable(points, func(i, j int) bool {
		di := points[i].WorldTransform().Translation().DistanceSq(eye)
		dj := points[j].WorldTransform().Translation().DistanceSq(eye)
		return di < dj
	})
	for _, l := range points {
		r.AddDynamicLight(l.light())
	}

	if directional != nil {
		dl := directional.light()
		r.SetDirectionalLight(&dl)
	} else {
		r.SetDirectionalLight(nil)
	}
}
