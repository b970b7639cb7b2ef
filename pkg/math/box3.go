package math

// Box3 is an axis-aligned bounding box.
type Box3 struct {
	Min, Max Vec3
}

// EmptyBox3 returns a box that contains nothing; adding any point to it
// produces a box containing exactly that point.
func EmptyBox3() Box3 {
	const big = 3.4e38
	return Box3{
		Min: Vec3{big, big, big},
		Max: Vec3{-big, -big, -big},
	}
}

// Empty reports whether the box contains no volume at all.
func (b Box3) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// AddPoint returns the box extended to include p.
func (b Box3) AddPoint(p Vec3) Box3 {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
	return b
}

// Merge returns the union of both boxes.
func (b Box3) Merge(other Box3) Box3 {
	if other.Empty() {
		return b
	}
	if b.Empty() {
		return other
	}
	return b.AddPoint(other.Min).AddPoint(other.Max)
}

// Center returns the center point of the box.
func (b Box3) Center() Vec3 {
	return Vec3{
		(b.Min.X + b.Max.X) / 2,
		(b.Min.Y + b.Max.Y) / 2,
		(b.Min.Z + b.Max.Z) / 2,
	}
}

// Intersects reports whether the two boxes overlap.
func (b Box3) Intersects(other Box3) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y &&
		b.Min.Z <= other.Max.Z && b.Max.Z >= other.Min.Z
}

// Transformed returns the AABB of this box transformed by m: all eight
// corners are transformed and a new axis-aligned box is fit around them.
func (b Box3) Transformed(m Mat4) Box3 {
	if b.Empty() {
		return b
	}
	out := EmptyBox3()
	for i := 0; i < 8; i++ {
		corner := Vec3{b.Min.X, b.Min.Y, b.Min.Z}
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		out = out.AddPoint(m.TransformVec3(corner))
	}
	return out
}

// FrustumBox returns a conservative axis-aligned box enclosing the view
// frustum of the given combined View*Projection matrix. The eight corners of
// the NDC cube are unprojected and a box is fit around them, so the test
// against it may report false positives but never false negatives.
func FrustumBox(viewProj Mat4) Box3 {
	inv := viewProj.Inverse()
	box := EmptyBox3()
	for _, z := range []float32{-1, 1} {
		for _, y := range []float32{-1, 1} {
			for _, x := range []float32{-1, 1} {
				box = box.AddPoint(inv.TransformVec3(Vec3{x, y, z}))
			}
		}
	}
	return box
}
