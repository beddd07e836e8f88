package shape

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Capsule is a swept sphere between two local-space points: the Minkowski
// sum of a segment [PointA, PointB] and a ball of Radius. It is one of the
// three primitives with a dedicated narrow-phase contact generator.
type Capsule struct {
	PointA mgl64.Vec3
	PointB mgl64.Vec3
	Radius float64
}

// NewCapsule validates and builds a Capsule. The radius must be finite and
// non-negative and both endpoints must be finite.
func NewCapsule(pointA, pointB mgl64.Vec3, radius float64) (Capsule, error) {
	if !finiteVec3(pointA) || !finiteVec3(pointB) {
		return Capsule{}, fmt.Errorf("shape: capsule endpoints must be finite, got a=%v b=%v", pointA, pointB)
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		return Capsule{}, fmt.Errorf("shape: capsule radius must be finite, got %v", radius)
	}
	if radius < 0 {
		return Capsule{}, fmt.Errorf("shape: capsule radius must be non-negative, got %v", radius)
	}
	return Capsule{PointA: pointA, PointB: pointB, Radius: radius}, nil
}

// Segment returns the two endpoints of the capsule's medial axis.
func (c Capsule) Segment() (mgl64.Vec3, mgl64.Vec3) {
	return c.PointA, c.PointB
}

func (c Capsule) SupportLocal(direction mgl64.Vec3) mgl64.Vec3 {
	axisPoint := c.PointA
	if direction.Dot(c.PointB.Sub(c.PointA)) >= 0 {
		axisPoint = c.PointB
	}
	length := direction.Len()
	if length < 1e-12 {
		return axisPoint
	}
	return axisPoint.Add(direction.Mul(c.Radius / length))
}

// Shape returns the support-mapping adapter for this capsule at the given
// world pose.
func (c Capsule) Shape(pose Pose) Shape {
	return Shape{
		Kind:    KindCapsule,
		Support: func(direction mgl64.Vec3) mgl64.Vec3 { return pose.SupportWorld(c.SupportLocal, direction) },
	}
}

// AABB returns the world-space axis-aligned bound of the capsule at pose.
func (c Capsule) AABB(pose Pose) AABB {
	a := pose.Rotation.Rotate(c.PointA).Add(pose.Position)
	b := pose.Rotation.Rotate(c.PointB).Add(pose.Position)
	r := mgl64.Vec3{c.Radius, c.Radius, c.Radius}
	min := mgl64.Vec3{minFloat(a.X(), b.X()), minFloat(a.Y(), b.Y()), minFloat(a.Z(), b.Z())}
	max := mgl64.Vec3{maxFloat(a.X(), b.X()), maxFloat(a.Y(), b.Y()), maxFloat(a.Z(), b.Z())}
	return AABB{Min: min.Sub(r), Max: max.Add(r)}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
