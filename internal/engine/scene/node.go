// Package scene provides the retained scene graph: a node hierarchy with
// animators, a per-tick redraw decision, and the fixed-order render passes
// that feed the renderer.
package scene

import (
	"time"

	"github.com/Faultbox/lumen/pkg/math"
)

// Node is the scene graph element. Concrete node types embed NodeBase and
// override the registration hook to opt into render categories.
type Node interface {
	Name() string
	SetName(string)

	Parent() Node
	Children() []Node
	AddChild(Node)
	RemoveChild(Node)

	Visible() bool
	SetVisible(bool)

	Position() math.Vec3
	SetPosition(math.Vec3)
	// Rotation is Euler angles in degrees, applied Y then X then Z.
	Rotation() math.Vec3
	SetRotation(math.Vec3)
	Scale() math.Vec3
	SetScale(math.Vec3)

	// WorldTransform is the cached composed transform. It is only valid
	// after the animate pass of the current tick.
	WorldTransform() math.Mat4
	LocalBox() math.Box3
	SetLocalBox(math.Box3)
	// WorldBox is the local box transformed by the world transform,
	// cached during the animate pass.
	WorldBox() math.Box3

	AddAnimator(Animator)

	setParent(Node)
	base() *NodeBase
	// register opts the node into the scene's render categories for this
	// frame. Called only on visible nodes; children are walked by the
	// scene, not by the node.
	register(s *Scene)
}

// NodeBase carries the state every node shares. Concrete types embed it and
// call init with themselves so parent back-links carry the concrete type.
type NodeBase struct {
	self Node

	name     string
	parent   Node
	children []Node

	visible  bool
	position math.Vec3
	rotation math.Vec3
	scale    math.Vec3

	animators []Animator

	localBox math.Box3

	world    math.Mat4
	worldBox math.Box3

	// transformDirty is set by every local mutation and cleared by the
	// animate pass; it feeds the scene-changed redraw signal.
	transformDirty bool
}

func (n *NodeBase) init(self Node, name string) {
	n.self = self
	n.name = name
	n.visible = true
	n.scale = math.Vec3{X: 1, Y: 1, Z: 1}
	n.localBox = math.EmptyBox3()
	n.world = math.Identity()
	n.worldBox = math.EmptyBox3()
	n.transformDirty = true
}

// Group is a plain transform node with no render behavior of its own.
type Group struct {
	NodeBase
}

// NewGroup creates an empty grouping node.
func NewGroup(name string) *Group {
	g := &Group{}
	g.init(g, name)
	return g
}

func (g *Group) register(*Scene) {}

func (n *NodeBase) Name() string        { return n.name }
func (n *NodeBase) SetName(name string) { n.name = name }

func (n *NodeBase) Parent() Node     { return n.parent }
func (n *NodeBase) setParent(p Node) { n.parent = p }
func (n *NodeBase) base() *NodeBase  { return n }

func (n *NodeBase) Children() []Node { return n.children }

// AddChild attaches a child, detaching it from any previous parent first.
// Children are owned by their parent; detaching a subtree detaches every
// node under it.
func (n *NodeBase) AddChild(child Node) {
	if old := child.Parent(); old != nil {
		old.RemoveChild(child)
	}
	child.setParent(n.self)
	n.children = append(n.children, child)
	n.transformDirty = true
}

func (n *NodeBase) RemoveChild(child Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.setParent(nil)
			n.transformDirty = true
			return
		}
	}
}

func (n *NodeBase) Visible() bool { return n.visible }
func (n *NodeBase) SetVisible(v bool) {
	if n.visible != v {
		n.visible = v
		n.transformDirty = true
	}
}

func (n *NodeBase) Position() math.Vec3 { return n.position }
func (n *NodeBase) SetPosition(p math.Vec3) {
	n.position = p
	n.transformDirty = true
}

func (n *NodeBase) Rotation() math.Vec3 { return n.rotation }
func (n *NodeBase) SetRotation(r math.Vec3) {
	n.rotation = r
	n.transformDirty = true
}

func (n *NodeBase) Scale() math.Vec3 { return n.scale }
func (n *NodeBase) SetScale(s math.Vec3) {
	n.scale = s
	n.transformDirty = true
}

func (n *NodeBase) WorldTransform() math.Mat4 { return n.world }

func (n *NodeBase) LocalBox() math.Box3 { return n.localBox }
func (n *NodeBase) SetLocalBox(b math.Box3) {
	n.localBox = b
	n.transformDirty = true
}

func (n *NodeBase) WorldBox() math.Box3 { return n.worldBox }

func (n *NodeBase) AddAnimator(a Animator) {
	n.animators = append(n.animators, a)
}

// localTransform composes translation, rotation and scale.
func (n *NodeBase) localTransform() math.Mat4 {
	m := math.Translate(n.position.X, n.position.Y, n.position.Z)
	if n.rotation != (math.Vec3{}) {
		m = m.Mul(math.EulerDegrees(n.rotation.X, n.rotation.Y, n.rotation.Z))
	}
	if n.scale != (math.Vec3{X: 1, Y: 1, Z: 1}) {
		m = m.Mul(math.Scale(n.scale.X, n.scale.Y, n.scale.Z))
	}
	return m
}

// animate runs the node's animators, recomputes cached world state and
// recurses into children. Returns whether anything in the subtree changed
// this tick. World transforms are refreshed only here; setters between
// ticks leave caches stale until the next pass.
func animate(n Node, parentWorld math.Mat4, parentChanged bool, now time.Time) bool {
	b := n.base()

	changed := b.transformDirty
	for _, a := range b.animators {
		if a.Animate(n, now) {
			changed = true
		}
	}

	if changed || parentChanged {
		b.world = parentWorld.Mul(b.localTransform())
		b.worldBox = b.localBox.Transformed(b.world)
	}
	b.transformDirty = false

	subtreeChanged := changed
	for _, c := range b.children {
		if animate(c, b.world, changed || parentChanged, now) {
			subtreeChanged = true
		}
	}
	return subtreeChanged
}
