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
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestMulOrder(t *testing.T) {
	// Translate after rotate: the point is rotated first.
	m := Translate(10, 0, 0).Mul(RotateY(float32(math.Pi / 2)))
	got := m.TransformPoint([3]float32{1, 0, 0})

	if abs(got[0]-10) > 0.001 || abs(got[2]+1) > 0.001 {
		t.Errorf("T*R applied to (1,0,0): got %v, want (10, 0, -1)", got)
	}
}

func TestRow(t *testing.T) {
	m := Translate(5, 10, 15)

	tests := []struct {
		row  int
		want Vec4
	}{
		{0, Vec4{1, 0, 0, 5}},
		{1, Vec4{0, 1, 0, 10}},
		{2, Vec4{0, 0, 1, 15}},
		{3, Vec4{0, 0, 0, 1}},
	}
	for _, tt := range tests {
		if got := m.Row(tt.row); got != tt.want {
			t.Errorf("Row(%d) = %v, want %v", tt.row, got, tt.want)
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

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	result := m.TransformPoint([3]float32{1, 2, 3})

	expected := [3]float32{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2)) // 90 degrees
	result := m.TransformPoint([3]float32{1, 0, 0})

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	if abs(result[0]) > 0.001 || abs(result[1]) > 0.001 || abs(result[2]+1) > 0.001 {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1.0, 0.1, 100.0)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
	if !m.IsPerspective() {
		t.Error("Perspective matrix should report IsPerspective")
	}
}

func TestOrthoIsNotPerspective(t *testing.T) {
	m := Ortho(-10, 10, -10, 10, 0.1, 100)
	if m.IsPerspective() {
		t.Error("Ortho matrix should not report IsPerspective")
	}
}

func TestLookAt(t *testing.T) {
	eye := Vec3{0, 0, 5}
	m := LookAt(eye, Vec3{0, 0, 0}, Vec3{0, 1, 0})

	// The eye maps to the view-space origin.
	got := m.TransformPoint(eye.Array())
	if abs(got[0]) > 0.001 || abs(got[1]) > 0.001 || abs(got[2]) > 0.001 {
		t.Errorf("LookAt(eye) = %v, want origin", got)
	}

	// The target lies in front of the camera on -Z.
	got = m.TransformPoint([3]float32{0, 0, 0})
	if abs(got[2]+5) > 0.001 {
		t.Errorf("LookAt(center).z = %f, want -5", got[2])
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
