package shape

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewCapsule(t *testing.T) {
	if _, err := NewCapsule(mgl64.Vec3{0, -1, 0}, mgl64.Vec3{0, 1, 0}, -1); err == nil {
		t.Error("expected error for negative radius")
	}
	if _, err := NewCapsule(mgl64.Vec3{0, -1, 0}, mgl64.Vec3{0, 1, 0}, 0.5); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCapsuleSupportLocal(t *testing.T) {
	c := Capsule{PointA: mgl64.Vec3{0, -1, 0}, PointB: mgl64.Vec3{0, 1, 0}, Radius: 0.5}

	got := c.SupportLocal(mgl64.Vec3{0, 1, 0})
	want := mgl64.Vec3{0, 1.5, 0}
	if !vec3Equal(got, want, 1e-9) {
		t.Errorf("support toward +Y = %v, want %v", got, want)
	}

	got = c.SupportLocal(mgl64.Vec3{0, -1, 0})
	want = mgl64.Vec3{0, -1.5, 0}
	if !vec3Equal(got, want, 1e-9) {
		t.Errorf("support toward -Y = %v, want %v", got, want)
	}

	got = c.SupportLocal(mgl64.Vec3{1, 0, 0})
	want = mgl64.Vec3{0.5, 1, 0}
	if !vec3Equal(got, want, 1e-9) {
		t.Errorf("support toward +X (axis tie -> B) = %v, want %v", got, want)
	}
}

func TestCapsuleAABB(t *testing.T) {
	c := Capsule{PointA: mgl64.Vec3{0, -1, 0}, PointB: mgl64.Vec3{0, 1, 0}, Radius: 0.5}
	aabb := c.AABB(Identity())

	want := AABB{Min: mgl64.Vec3{-0.5, -1.5, -0.5}, Max: mgl64.Vec3{0.5, 1.5, 0.5}}
	if !vec3Equal(aabb.Min, want.Min, 1e-9) || !vec3Equal(aabb.Max, want.Max, 1e-9) {
		t.Errorf("AABB = %v, want %v", aabb, want)
	}
}

func TestCapsuleDegenerateToSphere(t *testing.T) {
	c := Capsule{PointA: mgl64.Vec3{1, 1, 1}, PointB: mgl64.Vec3{1, 1, 1}, Radius: 2}
	got := c.SupportLocal(mgl64.Vec3{1, 0, 0})
	want := mgl64.Vec3{3, 1, 1}
	if !vec3Equal(got, want, 1e-9) {
		t.Errorf("degenerate capsule support = %v, want %v", got, want)
	}
}
