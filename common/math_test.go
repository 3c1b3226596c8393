package common

import (
	"math"
	"testing"
)

const epsilon = 1e-4

func nearf(a, b float32) bool {
	return math.Abs(float64(a-b)) < epsilon
}

// --- Scalars ---

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 1); got != 1 {
		t.Errorf("Clamp(5, 0, 1) = %v, want 1", got)
	}
	if got := Clamp(-2, 0, 1); got != 0 {
		t.Errorf("Clamp(-2, 0, 1) = %v, want 0", got)
	}
	if got := Clamp(0.3, 0, 1); got != 0.3 {
		t.Errorf("Clamp(0.3, 0, 1) = %v, want 0.3", got)
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(2, 4, 0.5); got != 3 {
		t.Errorf("Lerp(2, 4, 0.5) = %v, want 3", got)
	}
	// Factors outside [0, 1] extrapolate.
	if got := Lerp(0, 10, 1.5); got != 15 {
		t.Errorf("Lerp(0, 10, 1.5) = %v, want 15", got)
	}
}

func TestRemEuclid(t *testing.T) {
	cases := []struct {
		a, b, want float32
	}{
		{0.5, 2, 0.5},
		{2.5, 2, 0.5},
		{-0.5, 2, 1.5},
		{-4.5, 2, 1.5},
		{2, 2, 0},
	}
	for _, c := range cases {
		if got := RemEuclid(c.a, c.b); !nearf(got, c.want) {
			t.Errorf("RemEuclid(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

// --- Quaternions ---

func TestQuatFromAxisAngleIdentity(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{Z: 1}, 0)
	id := QuatIdentity()
	if !nearf(q.X, id.X) || !nearf(q.Y, id.Y) || !nearf(q.Z, id.Z) || !nearf(q.W, id.W) {
		t.Errorf("zero-angle rotation = %+v, want identity", q)
	}
}

func TestQuatSlerpHalfway(t *testing.T) {
	a := QuatIdentity()
	b := QuatFromAxisAngle(Vec3{Z: 1}, float32(math.Pi/2))
	got := a.Slerp(b, 0.5)
	want := QuatFromAxisAngle(Vec3{Z: 1}, float32(math.Pi/4))
	if !nearf(got.Z, want.Z) || !nearf(got.W, want.W) {
		t.Errorf("Slerp halfway = %+v, want %+v", got, want)
	}
}

func TestQuatAngleToDoubleCover(t *testing.T) {
	// q and -q represent the same rotation, so the angle between them is 0.
	q := QuatFromAxisAngle(Vec3{Z: 1}, 1.2)
	neg := Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: -q.W}
	if got := q.AngleTo(neg); !nearf(got, 0) {
		t.Errorf("AngleTo(-q) = %v, want 0", got)
	}
}

func TestQuatAngleTo(t *testing.T) {
	a := QuatIdentity()
	b := QuatFromAxisAngle(Vec3{Z: 1}, float32(math.Pi/2))
	if got := a.AngleTo(b); !nearf(got, float32(math.Pi/2)) {
		t.Errorf("AngleTo = %v, want %v", got, math.Pi/2)
	}
}

func TestQuatMulInverse(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{X: 1, Y: 0.5, Z: 0.25}, 1.1)
	got := q.Mul(q.Inverse())
	if !nearf(got.W, 1) || !nearf(got.X, 0) || !nearf(got.Y, 0) || !nearf(got.Z, 0) {
		t.Errorf("q * q^-1 = %+v, want identity", got)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 3, Y: 0, Z: 4, W: 0}.Normalize()
	if !nearf(q.Length(), 1) {
		t.Errorf("normalized length = %v, want 1", q.Length())
	}
}

// --- Vectors ---

func TestVec3Lerp(t *testing.T) {
	got := Vec3{X: 1}.Lerp(Vec3{X: 3, Y: 2}, 0.5)
	if !nearf(got.X, 2) || !nearf(got.Y, 1) || !nearf(got.Z, 0) {
		t.Errorf("Lerp = %+v, want {2 1 0}", got)
	}
}

func TestVec2Distance(t *testing.T) {
	got := Vec2{X: 1, Y: 2}.Distance(Vec2{X: 4, Y: 6})
	if !nearf(got, 5) {
		t.Errorf("Distance = %v, want 5", got)
	}
}
