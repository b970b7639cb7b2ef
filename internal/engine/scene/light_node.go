package scene

import (
	"github.com/Faultbox/lumen/internal/engine/renderer"
	"github.com/Faultbox/lumen/pkg/math"
)

// LightNode contributes a point light at the node's world position, or a
// directional light when Directional is set. More point lights may register
// than the renderer can pack; the nearest ones win and the rest are
// silently dropped for the frame.
type LightNode struct {
	NodeBase

	Color  [4]float32
	Radius float32

	Directional bool
	Direction   math.Vec3
}

// NewLightNode creates a white point light with the given attenuation
// radius.
func NewLightNode(name string, radius float32) *LightNode {
	l := &LightNode{
		Color:  [4]float32{1, 1, 1, 1},
		Radius: radius,
	}
	l.init(l, name)
	return l
}

// NewDirectionalLightNode creates a sun-style light. Only one directional
// light is honored per frame; the last registered wins.
func NewDirectionalLightNode(name string, dir math.Vec3) *LightNode {
	l := &LightNode{
		Color:       [4]float32{1, 1, 1, 1},
		Directional: true,
		Direction:   dir.Normalize(),
	}
	l.init(l, name)
	return l
}

func (l *LightNode) register(s *Scene) {
	s.lights = append(s.lights, l)
}

// light builds the renderer light for this frame.
func (l *LightNode) light() renderer.Light {
	if l.Directional {
		return renderer.Light{
			Color:       l.Color,
			Directional: true,
			Direction:   l.Direction,
		}
	}
	return renderer.Light{
		Position: l.WorldTransform().Translation(),
		Color:    l.Color,
		Radius:   l.Radius,
	}
}
