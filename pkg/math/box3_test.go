package math

import "testing"

func TestEmptyBox3(t *testing.T) {
	b := EmptyBox3()
	if !b.Empty() {
		t.Error("EmptyBox3 should report Empty")
	}

	b = b.AddPoint(Vec3{1, 2, 3})
	if b.Empty() {
		t.Error("box with a point should not be empty")
	}
	if b.Min != (Vec3{1, 2, 3}) || b.Max != (Vec3{1, 2, 3}) {
		t.Errorf("box after one point: min %v max %v, want both (1,2,3)", b.Min, b.Max)
	}
}

func TestBox3AddPoint(t *testing.T) {
	b := EmptyBox3().AddPoint(Vec3{0, 0, 0}).AddPoint(Vec3{2, -3, 4})
	if b.Min != (Vec3{0, -3, 0}) {
		t.Errorf("min = %v, want (0,-3,0)", b.Min)
	}
	if b.Max != (Vec3{2, 0, 4}) {
		t.Errorf("max = %v, want (2,0,4)", b.Max)
	}
}

func TestBox3Merge(t *testing.T) {
	a := EmptyBox3().AddPoint(Vec3{0, 0, 0}).AddPoint(Vec3{1, 1, 1})
	b := EmptyBox3().AddPoint(Vec3{2, 2, 2}).AddPoint(Vec3{3, 3, 3})

	m := a.Merge(b)
	if m.Min != (Vec3{0, 0, 0}) || m.Max != (Vec3{3, 3, 3}) {
		t.Errorf("merge: min %v max %v", m.Min, m.Max)
	}

	// Merging with an empty box is a no-op
	if a.Merge(EmptyBox3()) != a {
		t.Error("merge with empty box should return the original")
	}
	if EmptyBox3().Merge(a) != a {
		t.Error("empty merged with box should return the box")
	}
}

func TestBox3Intersects(t *testing.T) {
	a := Box3{Min: Vec3{0, 0, 0}, Max: Vec3{2, 2, 2}}
	b := Box3{Min: Vec3{1, 1, 1}, Max: Vec3{3, 3, 3}}
	c := Box3{Min: Vec3{5, 5, 5}, Max: Vec3{6, 6, 6}}

	if !a.Intersects(b) {
		t.Error("overlapping boxes should intersect")
	}
	if a.Intersects(c) {
		t.Error("separated boxes should not intersect")
	}

	// Touching faces count as intersecting
	d := Box3{Min: Vec3{2, 0, 0}, Max: Vec3{4, 2, 2}}
	if !a.Intersects(d) {
		t.Error("touching boxes should intersect")
	}
}

func TestBox3Transformed(t *testing.T) {
	b := Box3{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}
	moved := b.Transformed(Translate(10, 0, 0))

	if moved.Min != (Vec3{9, -1, -1}) || moved.Max != (Vec3{11, 1, 1}) {
		t.Errorf("translated box: min %v max %v", moved.Min, moved.Max)
	}

	// A rotated box grows to the AABB of its rotated corners
	rotated := b.Transformed(RotateY(0.785398))
	if rotated.Max.X <= 1.0 {
		t.Errorf("45 degree rotation should widen the box, max.X = %f", rotated.Max.X)
	}
}

func TestBox3TransformedEmpty(t *testing.T) {
	b := EmptyBox3().Transformed(Translate(5, 5, 5))
	if !b.Empty() {
		t.Error("transforming an empty box should stay empty")
	}
}

func TestFrustumBoxContainsVisiblePoint(t *testing.T) {
	view := LookAt(Vec3{0, 0, 10}, Vec3{0, 0, 0}, Vec3{0, 1, 0})
	proj := Perspective(0.785398, 1.0, 1.0, 100.0)
	frustum := FrustumBox(proj.Mul(view))

	// The origin is in front of the camera and must land inside the box.
	point := EmptyBox3().AddPoint(Vec3{0, 0, 0})
	if !frustum.Intersects(point) {
		t.Error("frustum box should contain a point in front of the camera")
	}

	// A point far behind the far plane must fall outside.
	behind := EmptyBox3().AddPoint(Vec3{0, 0, 500})
	if frustum.Intersects(behind) {
		t.Error("frustum box should not contain a point far behind the camera")
	}
}
