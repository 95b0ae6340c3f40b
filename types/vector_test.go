package types

import (
	"math"
	"testing"
)

func TestGLSLMod(t *testing.T) {
	type spec struct {
		x, m float32
		exp  float32
	}
	specs := []spec{
		{0.5, 2, 0.5},
		{2.5, 2, 0.5},
		{-0.5, 2, 1.5},
		{-2, 2, 0},
		{0.125, 0.1, 0.025},
	}

	for index, s := range specs {
		got := Mod(s.x, s.m)
		if math.Abs(float64(got-s.exp)) > 1e-6 {
			t.Fatalf("[spec %d] expected mod(%f, %f) to be %f; got %f", index, s.x, s.m, s.exp, got)
		}
	}
}

func TestNormalize(t *testing.T) {
	v := XYZ(3, 0, 4).Normalize()
	if math.Abs(float64(v.Len()-1)) > 1e-6 {
		t.Fatalf("expected unit length; got %f", v.Len())
	}

	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Fatalf("expected zero vector to normalize to zero; got %v", z)
	}
}

func TestQuatRotate(t *testing.T) {
	q := QuatFromAxisAngle(AxisY, math.Pi/2)
	got := q.Rotate(AxisZ)
	exp := XYZ(1, 0, 0)
	if got.Sub(exp).Len() > 1e-6 {
		t.Fatalf("expected rotating +z by 90deg around y to give %v; got %v", exp, got)
	}

	// Composition applies the right-hand quaternion first.
	pitch := QuatFromAxisAngle(AxisX, math.Pi/2)
	got = q.Mul(pitch).Normalize().Rotate(AxisZ)
	exp = XYZ(0, -1, 0)
	if got.Sub(exp).Len() > 1e-6 {
		t.Fatalf("expected %v; got %v", exp, got)
	}
}
