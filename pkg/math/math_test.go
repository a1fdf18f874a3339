package math

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	l := v.Normalize().Length()
	if !approx(l, 1) {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3LerpOvershoot(t *testing.T) {
	a := Vec3{0, 10, 0}
	b := Vec3{0, 0, 0}
	got := a.Lerp(b, 1.2)
	if !approx(got.Y, -2) {
		t.Errorf("Lerp(1.2).Y = %v, want -2", got.Y)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float32
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestInverseLerp(t *testing.T) {
	if got := InverseLerp(2, 4, 3); !approx(got, 0.5) {
		t.Errorf("InverseLerp(2, 4, 3) = %v, want 0.5", got)
	}
	if got := InverseLerp(1, 1, 3); got != 0 {
		t.Errorf("InverseLerp on empty range = %v, want 0", got)
	}
}

func TestTranslateTransformPoint(t *testing.T) {
	m := Translate(Vec3{5, 10, 15})
	got := m.TransformPoint(Vec3{1, 1, 1})
	want := Vec3{6, 11, 16}
	if got != want {
		t.Errorf("TransformPoint() = %v, want %v", got, want)
	}
}

func TestComposeScalesThenTranslates(t *testing.T) {
	m := Compose(Vec3{1, 0, 0}, QuatIdentity(), Vec3{2, 2, 2})
	got := m.TransformPoint(Vec3{1, 1, 1})
	want := Vec3{3, 2, 2}
	if !approx(got.X, want.X) || !approx(got.Y, want.Y) || !approx(got.Z, want.Z) {
		t.Errorf("Compose().TransformPoint() = %v, want %v", got, want)
	}
}

func TestQuatRotatesAroundY(t *testing.T) {
	q := QuatFromAxisAngle(Up, Pi/2)
	got := q.ToMat4().TransformDirection(Vec3{1, 0, 0})
	// +X rotated 90 degrees about +Y lands on -Z.
	if !approx(got.X, 0) || !approx(got.Z, -1) {
		t.Errorf("rotated direction = %v, want (0, 0, -1)", got)
	}
}

func TestQuatNormalizeDegenerate(t *testing.T) {
	if got := (Quat{}).Normalize(); got != QuatIdentity() {
		t.Errorf("Normalize(zero) = %v, want identity", got)
	}
}
