// Package shape provides the immutable primitive volumes (AABB, Sphere,
// Capsule, Ray) and the support-mapping abstraction the narrow phase is
// built on.
package shape

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned bounding box. Min and Max must satisfy
// Min[i] <= Max[i] on every axis; a degenerate box (Min == Max) is a legal
// point volume.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewAABB validates and builds an AABB. It returns an error if any
// component is non-finite or if Min exceeds Max on any axis.
func NewAABB(min, max mgl64.Vec3) (AABB, error) {
	if !finiteVec3(min) || !finiteVec3(max) {
		return AABB{}, fmt.Errorf("shape: AABB bounds must be finite, got min=%v max=%v", min, max)
	}
	if min.X() > max.X() || min.Y() > max.Y() || min.Z() > max.Z() {
		return AABB{}, fmt.Errorf("shape: AABB min %v exceeds max %v on some axis", min, max)
	}
	return AABB{Min: min, Max: max}, nil
}

// ContainsPoint reports whether point lies within the box, inclusive of the
// boundary.
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps reports whether two AABBs intersect, inclusive of touching faces,
// edges and corners.
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// Center returns the midpoint of the box.
func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// HalfExtents returns half the box's full width/height/depth on each axis.
func (a AABB) HalfExtents() mgl64.Vec3 {
	return a.Max.Sub(a.Min).Mul(0.5)
}

// Support implements the convex support mapping for the box: the vertex
// farthest along direction.
func (a AABB) Support(direction mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		axisSupport(direction.X(), a.Min.X(), a.Max.X()),
		axisSupport(direction.Y(), a.Min.Y(), a.Max.Y()),
		axisSupport(direction.Z(), a.Min.Z(), a.Max.Z()),
	}
}

func axisSupport(d, lo, hi float64) float64 {
	if d < 0 {
		return lo
	}
	return hi
}
