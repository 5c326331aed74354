package model

import (
	"math"
	"testing"
)

func TestRotateUzMapsLocalZOntoAxis(t *testing.T) {
	rng := newRand(1)
	for range 500 {
		u := randomDirection(rng)
		assertVecClose(t, "rotated z", Vec3{0, 0, 1}.RotateUz(u), u, 1e-12)
	}
}

func TestRotateUzPreservesLengthAndAngles(t *testing.T) {
	rng := newRand(2)
	for range 500 {
		u := randomDirection(rng)
		a := randomDirection(rng).Scale(3.)
		b := randomDirection(rng)
		ra, rb := a.RotateUz(u), b.RotateUz(u)
		assertClose(t, "|a|", ra.Mag(), a.Mag(), 1e-12)
		assertClose(t, "a.b", ra.Dot(rb), a.Dot(b), 1e-12)
		// the local z component becomes the projection on u
		assertClose(t, "projection on u", ra.Dot(u), a.Z, 1e-12)
	}
}

func TestRotateUzDegenerateAxes(t *testing.T) {
	v := Vec3{0.3, -0.4, 0.5}
	if got := v.RotateUz(Vec3{0, 0, 1}); got != v {
		t.Fatalf("expected identity for +z, got %+v", got)
	}
	if got := v.RotateUz(Vec3{0, 0, -1}); got != (Vec3{-0.3, -0.4, -0.5}) {
		t.Fatalf("expected half turn about y for -z, got %+v", got)
	}
}

func TestUnit(t *testing.T) {
	assertClose(t, "|unit|", Vec3{3, 4, 12}.Unit().Mag(), 1., 1e-15)
	if got := (Vec3{}).Unit(); got != (Vec3{}) {
		t.Fatalf("expected zero vector, got %+v", got)
	}
}

func TestCross(t *testing.T) {
	x, y := Vec3{1, 0, 0}, Vec3{0, 1, 0}
	if got := x.Cross(y); got != (Vec3{0, 0, 1}) {
		t.Fatalf("expected z, got %+v", got)
	}
	a, b := Vec3{1, 2, 3}, Vec3{-2, 0.5, 4}
	c := a.Cross(b)
	if math.Abs(c.Dot(a)) > 1e-12 || math.Abs(c.Dot(b)) > 1e-12 {
		t.Fatalf("expected cross product orthogonal to both, got %+v", c)
	}
}
