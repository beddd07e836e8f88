package narrowphase

import (
	"github.com/ljramones/DynamisCollision/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// SphereSphere generates a contact for two spheres given their world-space
// centers and radii. The normal points from A toward B; when the centers
// coincide (within epsilon) it falls back to a fixed +X axis rather than
// dividing by a near-zero length.
func SphereSphere(poseA shape.Pose, a shape.Sphere, poseB shape.Pose, b shape.Sphere) (Manifold, bool) {
	return sphereLikeContact(poseA.Position, a.Radius, poseB.Position, b.Radius)
}

// sphereLikeContact is the shared distance test behind SphereSphere and the
// capsule generators once each has reduced its shape to a center/radius
// pair (the capsule's closest point on its medial axis).
func sphereLikeContact(centerA mgl64.Vec3, radiusA float64, centerB mgl64.Vec3, radiusB float64) (Manifold, bool) {
	delta := centerB.Sub(centerA)
	distance := delta.Len()
	radiusSum := radiusA + radiusB

	if distance > radiusSum {
		return Manifold{}, false
	}

	var normal mgl64.Vec3
	if distance < epsilon {
		normal = mgl64.Vec3{1, 0, 0}
	} else {
		normal = delta.Mul(1 / distance)
	}

	penetration := radiusSum - distance
	point := centerA.Add(normal.Mul(radiusA - penetration/2))

	return Manifold{
		Normal:      normal,
		Penetration: penetration,
		Point:       point,
	}, true
}

// CapsuleSphere generates a contact between a capsule and a sphere by
// reducing the capsule to its closest point on the medial segment, then
// delegating to the shared sphere-sphere distance test.
func CapsuleSphere(capsulePose shape.Pose, capsule shape.Capsule, spherePose shape.Pose, sphere shape.Sphere) (Manifold, bool) {
	a, b := worldSegment(capsulePose, capsule)
	closest := closestPointOnSegment(spherePose.Position, a, b)
	return sphereLikeContact(closest, capsule.Radius, spherePose.Position, sphere.Radius)
}

// SphereCapsule is CapsuleSphere with the arguments reversed; the normal is
// negated so it still points from the first argument toward the second.
func SphereCapsule(spherePose shape.Pose, sphere shape.Sphere, capsulePose shape.Pose, capsule shape.Capsule) (Manifold, bool) {
	m, ok := CapsuleSphere(capsulePose, capsule, spherePose, sphere)
	if !ok {
		return Manifold{}, false
	}
	m.Normal = m.Normal.Mul(-1)
	return m, true
}

func closestPointOnSegment(point, a, b mgl64.Vec3) mgl64.Vec3 {
	axis := b.Sub(a)
	lengthSq := axis.Dot(axis)
	if lengthSq < epsilon {
		return a
	}
	t := clamp01(point.Sub(a).Dot(axis) / lengthSq)
	return a.Add(axis.Mul(t))
}
