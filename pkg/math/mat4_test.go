package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestScale(t *testing.T) {
	m := Scale(2, 3, 4)

	if m[0] != 2 || m[5] != 3 || m[10] != 4 {
		t.Errorf("Scale diagonal: got (%f, %f, %f), want (2, 3, 4)", m[0], m[5], m[10])
	}
}

func TestTransformPoint(t *testing.T) {
	// Translate by (10, 20, 30)
	m := Translate(10, 20, 30)
	p := [3]float32{1, 2, 3}
	result := m.TransformPoint(p)

	expected := [3]float32{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestTransformPointScale(t *testing.T) {
	m := Scale(2, 2, 2)
	p := [3]float32{1, 2, 3}
	result := m.TransformPoint(p)

	expected := [3]float32{2, 4, 6}
	if result != expected {
		t.Errorf("TransformPoint with scale: got %v, want %v", result, expected)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2)) // 90 degrees
	p := [3]float32{1, 0, 0}           // Point on X axis
	result := m.TransformPoint(p)

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	if abs(result[0]) > 0.001 || abs(result[1]) > 0.001 || abs(result[2]+1) > 0.001 {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestPerspective(t *testing.T) {
	fov := float32(math.Pi / 4) // 45 degrees
	aspect := float32(1.0)
	near := float32(0.1)
	far := float32(100.0)

	m := Perspective(fov, aspect, near, far)

	// Should be a valid projection matrix (not identity)
	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	// Element [15] should be 0 for perspective projection
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	// Element [11] should be -1 for perspective projection
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAt(t *testing.T) {
	eye := Vec3{0, 0, 5}
	center := Vec3{0, 0, 0}
	up := Vec3{0, 1, 0}

	m := LookAt(eye, center, up)

	// Transform eye position - should result in origin (or close to it)
	// This is a simple sanity check
	if m[15] != 1 {
		t.Errorf("LookAt [15] should be 1, got %f", m[15])
	}
}

func TestMat3x3(t *testing.T) {
	m := Translate(5, 6, 7)
	m3 := m.Mat3x3()

	// Translation must not leak into the 3x3 portion
	expected := [9]float32{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
	if m3 != expected {
		t.Errorf("Mat3x3 of translation: got %v, want identity", m3)
	}
}

func TestInverseTranslate(t *testing.T) {
	m := Translate(3, -4, 5)
	inv := m.Inverse()

	p := [3]float32{10, 20, 30}
	back := inv.TransformPoint(m.TransformPoint(p))

	for i := 0; i < 3; i++ {
		if abs(back[i]-p[i]) > 0.001 {
			t.Errorf("Inverse round trip element %d: got %f, want %f", i, back[i], p[i])
		}
	}
}

func TestInverseComposite(t *testing.T) {
	m := Translate(1, 2, 3).Mul(RotateY(0.7)).Mul(Scale(2, 2, 2))
	result := m.Mul(m.Inverse())

	id := Identity()
	for i := 0; i < 16; i++ {
		if abs(result[i]-id[i]) > 0.001 {
			t.Errorf("M * M^-1 element %d: got %f, want %f", i, result[i], id[i])
		}
	}
}

func TestInverseSingular(t *testing.T) {
	m := Scale(0, 0, 0)
	inv := m.Inverse()
	if inv != Identity() {
		t.Error("Inverse of singular matrix should be identity")
	}
}

func TestWithoutTranslation(t *testing.T) {
	m := Translate(5, 6, 7).Mul(RotateX(0.3))
	stripped := m.WithoutTranslation()

	if stripped.Translation() != (Vec3{}) {
		t.Errorf("WithoutTranslation left translation %v", stripped.Translation())
	}
	// Rotation portion untouched
	if stripped[5] != m[5] || stripped[6] != m[6] {
		t.Error("WithoutTranslation altered the rotation portion")
	}
}

func TestEulerDegreesYOnly(t *testing.T) {
	m := EulerDegrees(0, 90, 0)
	p := m.TransformPoint([3]float32{1, 0, 0})

	if abs(p[0]) > 0.001 || abs(p[1]) > 0.001 || abs(p[2]+1) > 0.001 {
		t.Errorf("EulerDegrees(0,90,0): got %v, want (0, 0, -1)", p)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
