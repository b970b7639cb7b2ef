package mesh

import "github.com/Faultbox/lumen/pkg/math"

// NewCube returns a unit-material cube of the given edge length centered at
// the origin. Used by the skybox node, demos and tests.
func NewCube(size float32) *Buffer {
	h := size / 2

	type face struct {
		normal  math.Vec3
		corners [4]math.Vec3
	}
	faces := []face{
		{math.Vec3{Z: -1}, [4]math.Vec3{{X: -h, Y: -h, Z: -h}, {X: -h, Y: h, Z: -h}, {X: h, Y: h, Z: -h}, {X: h, Y: -h, Z: -h}}},
		{math.Vec3{Z: 1}, [4]math.Vec3{{X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h}, {X: -h, Y: -h, Z: h}}},
		{math.Vec3{X: -1}, [4]math.Vec3{{X: -h, Y: -h, Z: h}, {X: -h, Y: h, Z: h}, {X: -h, Y: h, Z: -h}, {X: -h, Y: -h, Z: -h}}},
		{math.Vec3{X: 1}, [4]math.Vec3{{X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: h, Y: h, Z: h}, {X: h, Y: -h, Z: h}}},
		{math.Vec3{Y: 1}, [4]math.Vec3{{X: -h, Y: h, Z: -h}, {X: -h, Y: h, Z: h}, {X: h, Y: h, Z: h}, {X: h, Y: h, Z: -h}}},
		{math.Vec3{Y: -1}, [4]math.Vec3{{X: -h, Y: -h, Z: h}, {X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: -h, Z: h}}},
	}

	uvs := [4]math.Vec2{{X: 0, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}

	b := New()
	for _, f := range faces {
		base := uint16(len(b.Vertices))
		for i, c := range f.corners {
			b.Vertices = append(b.Vertices, Vertex{
				Pos:    c,
				Normal: f.normal,
				Color:  [4]float32{1, 1, 1, 1},
				TCoord: uvs[i],
			})
		}
		b.Indices = append(b.Indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}
	b.RecalculateBoundingBox()
	return b
}
