package shape

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Sphere is a ball of the given radius centered at the origin in local
// space. It is one of the three primitives with a dedicated narrow-phase
// contact generator (the other two are AABB and Capsule).
type Sphere struct {
	Radius float64
}

// NewSphere validates and builds a Sphere. Radius must be finite and
// non-negative.
func NewSphere(radius float64) (Sphere, error) {
	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		return Sphere{}, fmt.Errorf("shape: sphere radius must be finite, got %v", radius)
	}
	if radius < 0 {
		return Sphere{}, fmt.Errorf("shape: sphere radius must be non-negative, got %v", radius)
	}
	return Sphere{Radius: radius}, nil
}

func (s Sphere) SupportLocal(direction mgl64.Vec3) mgl64.Vec3 {
	length := direction.Len()
	if length < 1e-12 {
		return mgl64.Vec3{}
	}
	return direction.Mul(s.Radius / length)
}

// Shape returns the support-mapping adapter for this sphere at the given
// world pose.
func (s Sphere) Shape(pose Pose) Shape {
	return Shape{
		Kind:    KindSphere,
		Support: func(direction mgl64.Vec3) mgl64.Vec3 { return pose.SupportWorld(s.SupportLocal, direction) },
	}
}

// AABB returns the world-space axis-aligned bound of the sphere at pose.
// Rotation never affects a sphere's bound.
func (s Sphere) AABB(pose Pose) AABB {
	r := mgl64.Vec3{s.Radius, s.Radius, s.Radius}
	return AABB{Min: pose.Position.Sub(r), Max: pose.Position.Add(r)}
}
