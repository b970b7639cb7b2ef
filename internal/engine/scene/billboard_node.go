package scene

import (
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/texture"
	"github.com/Faultbox/lumen/pkg/math"
)

// BillboardNode is a camera-facing textured quad. The quad's vertex
// positions are rewritten against the frame's view matrix at registration
// time, so the buffer goes through the positions-only update path instead
// of a full rebuild every frame.
type BillboardNode struct {
	NodeBase

	Width  float32
	Height float32

	buffer *mesh.Buffer

	lastView math.Mat4
	oriented bool
}

// NewBillboardNode creates a billboard of the given size.
func NewBillboardNode(name string, tex *texture.Texture, width, height float32) *BillboardNode {
	b := mesh.New()
	b.Mat = material.Material{
		Type:            material.TransparentAlpha,
		Tex1:            tex,
		ZWriteEnabled:   false,
		ZTestEnabled:    true,
		BackfaceCulling: false,
	}
	b.Vertices = []mesh.Vertex{
		{TCoord: math.Vec2{X: 0, Y: 1}, Color: [4]float32{1, 1, 1, 1}},
		{TCoord: math.Vec2{X: 1, Y: 1}, Color: [4]float32{1, 1, 1, 1}},
		{TCoord: math.Vec2{X: 0, Y: 0}, Color: [4]float32{1, 1, 1, 1}},
		{TCoord: math.Vec2{X: 1, Y: 0}, Color: [4]float32{1, 1, 1, 1}},
	}
	b.Indices = []uint16{0, 1, 2, 2, 1, 3}

	n := &BillboardNode{Width: width, Height: height, buffer: b}
	n.init(n, name)
	half := width
	if height > half {
		half = height
	}
	half /= 2
	n.SetLocalBox(math.Box3{
		Min: math.Vec3{X: -half, Y: -half, Z: -half},
		Max: math.Vec3{X: half, Y: half, Z: half},
	})
	return n
}

// Buffer returns the billboard's quad buffer.
func (n *BillboardNode) Buffer() *mesh.Buffer { return n.buffer }

// orient rewrites the quad corners along the camera's right and up axes.
// The corners live in the node's local space, so the node's translation
// still places the billboard.
func (n *BillboardNode) orient(view math.Mat4) {
	if n.oriented && view == n.lastView {
		return
	}
	n.lastView = view
	n.oriented = true

	// View matrix rows carry the camera basis.
	right := math.Vec3{X: view[0], Y: view[4], Z: view[8]}
	up := math.Vec3{X: view[1], Y: view[5], Z: view[9]}

	hw, hh := n.Width/2, n.Height/2
	v := n.buffer.Vertices
	v[0].Pos = math.Vec3{X: -right.X*hw - up.X*hh, Y: -right.Y*hw - up.Y*hh, Z: -right.Z*hw - up.Z*hh}
	v[1].Pos = math.Vec3{X: right.X*hw - up.X*hh, Y: right.Y*hw - up.Y*hh, Z: right.Z*hw - up.Z*hh}
	v[2].Pos = math.Vec3{X: -right.X*hw + up.X*hh, Y: -right.Y*hw + up.Y*hh, Z: -right.Z*hw + up.Z*hh}
	v[3].Pos = math.Vec3{X: right.X*hw + up.X*hh, Y: right.Y*hw + up.Y*hh, Z: right.Z*hw + up.Z*hh}
	n.buffer.SchedulePositionUpdate()
}

func (n *BillboardNode) register(s *Scene) {
	n.orient(s.frameView)
	s.transparent = append(s.transparent, renderItem{node: n, buffer: n.buffer})
}
