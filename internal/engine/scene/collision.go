package scene

import "github.com/Faultbox/lumen/pkg/math"

// CollisionIndex is the seam to an external spatial index. The scene only
// needs to keep the index consistent when nodes leave the graph; queries
// stay on the index's own API.
type CollisionIndex interface {
	Insert(n Node)
	Remove(n Node)
}

// MapIndex is the default CollisionIndex: a flat map over node world boxes.
// Good enough for small scenes; swap in a partitioned index when node
// counts grow.
type MapIndex struct {
	nodes map[Node]struct{}
}

func NewMapIndex() *MapIndex {
	return &MapIndex{nodes: make(map[Node]struct{})}
}

func (m *MapIndex) Insert(n Node) { m.nodes[n] = struct{}{} }
func (m *MapIndex) Remove(n Node) { delete(m.nodes, n) }

// Len returns the number of indexed nodes.
func (m *MapIndex) Len() int { return len(m.nodes) }

// Query returns the indexed nodes whose world box intersects the given box.
func (m *MapIndex) Query(box math.Box3) []Node {
	var out []Node
	for n := range m.nodes {
		if n.WorldBox().Intersects(box) {
			out = append(out, n)
		}
	}
	return out
}
