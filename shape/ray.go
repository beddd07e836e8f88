package shape

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half-line Origin + t*Direction, t >= 0. Direction need not be
// unit length; callers that need a hit distance in world units should pass
// a normalized Direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewRay validates and builds a Ray. Direction must be finite and non-zero.
func NewRay(origin, direction mgl64.Vec3) (Ray, error) {
	if !finiteVec3(origin) || !finiteVec3(direction) {
		return Ray{}, fmt.Errorf("shape: ray origin/direction must be finite, got origin=%v direction=%v", origin, direction)
	}
	if direction.Len() < 1e-12 {
		return Ray{}, fmt.Errorf("shape: ray direction must be non-zero")
	}
	return Ray{Origin: origin, Direction: direction}, nil
}

// IntersectAABB performs the slab test against box, returning the entry
// distance along the ray and whether it hit within [0, +Inf).
func (r Ray) IntersectAABB(box AABB) (float64, bool) {
	tMin, tMax := 0.0, math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		d := r.Direction[axis]
		o := r.Origin[axis]
		lo := box.Min[axis]
		hi := box.Max[axis]
		if math.Abs(d) < 1e-12 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		inv := 1 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// IntersectSphere returns the nearest positive hit distance against sphere
// placed at pose, following the standard quadratic ray/sphere test.
func (r Ray) IntersectSphere(sphere Sphere, pose Pose) (float64, bool) {
	toCenter := r.Origin.Sub(pose.Position)
	a := r.Direction.Dot(r.Direction)
	b := 2 * toCenter.Dot(r.Direction)
	c := toCenter.Dot(toCenter) - sphere.Radius*sphere.Radius
	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}
	sqrtDisc := math.Sqrt(discriminant)
	t := (-b - sqrtDisc) / (2 * a)
	if t < 0 {
		t = (-b + sqrtDisc) / (2 * a)
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// ConeRejects reports whether the ray can be rejected against a bounding
// cone without testing the triangles inside it: a meshlet's cone apex,
// axis and half-angle bound the normals of every triangle it contains, so
// if the ray direction falls entirely on the back side of that cone (the
// ray cannot face any triangle in the cluster) the whole cluster is culled
// in one dot product. coneCutoff is cos(halfAngle) as stored by the host.
func (r Ray) ConeRejects(apex, axis mgl64.Vec3, coneCutoff float64) bool {
	toApex := apex.Sub(r.Origin)
	if toApex.Dot(r.Direction) <= 0 {
		return false
	}
	normalizedDir := r.Direction.Normalize()
	return normalizedDir.Dot(axis) > -coneCutoff
}
