package scene

import (
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/pkg/math"
)

// MeshNode renders one or more mesh buffers at the node's transform. Each
// buffer registers independently, so one node can contribute to both the
// opaque and the transparent pass.
type MeshNode struct {
	NodeBase

	buffers []*mesh.Buffer
}

// NewMeshNode creates a mesh node over the given buffers. The node's local
// box is the merge of the buffers' bounding boxes.
func NewMeshNode(name string, buffers ...*mesh.Buffer) *MeshNode {
	m := &MeshNode{buffers: buffers}
	m.init(m, name)
	m.refreshLocalBox()
	return m
}

// Buffers returns the node's mesh buffers.
func (m *MeshNode) Buffers() []*mesh.Buffer { return m.buffers }

// AddBuffer appends a buffer and grows the local box.
func (m *MeshNode) AddBuffer(b *mesh.Buffer) {
	m.buffers = append(m.buffers, b)
	m.refreshLocalBox()
}

func (m *MeshNode) refreshLocalBox() {
	box := math.EmptyBox3()
	for _, b := range m.buffers {
		box = box.Merge(b.Box)
	}
	m.SetLocalBox(box)
}

func (m *MeshNode) register(s *Scene) {
	for _, b := range m.buffers {
		if b.Empty() {
			continue
		}
		item := renderItem{node: m, buffer: b}
		if b.Mat.Type.Transparent() {
			s.transparent = append(s.transparent, item)
		} else {
			s.opaque = append(s.opaque, item)
		}
	}
}
