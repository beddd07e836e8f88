package narrowphase

import (
	"github.com/ljramones/DynamisCollision/shape"
	"github.com/go-gl/mathgl/mgl64"
)

const ternaryIterations = 48

// worldSegment transforms a capsule's local medial-axis endpoints into world
// space under pose.
func worldSegment(pose shape.Pose, capsule shape.Capsule) (mgl64.Vec3, mgl64.Vec3) {
	a, b := capsule.Segment()
	return pose.Rotation.Rotate(a).Add(pose.Position), pose.Rotation.Rotate(b).Add(pose.Position)
}

// CapsuleCapsule generates a contact between two capsules by finding the
// closest points on their medial segments, then delegating to the shared
// sphere-like distance test on those two points.
func CapsuleCapsule(poseA shape.Pose, a shape.Capsule, poseB shape.Pose, b shape.Capsule) (Manifold, bool) {
	p1, q1 := worldSegment(poseA, a)
	p2, q2 := worldSegment(poseB, b)
	closestA, closestB := closestPointsBetweenSegments(p1, q1, p2, q2)
	return sphereLikeContact(closestA, a.Radius, closestB, b.Radius)
}

// closestPointsBetweenSegments finds the closest pair of points between
// segments [p1,q1] and [p2,q2], handling degenerate (point-like) segments.
// Grounded on the standard closest-point-between-segments construction
// (Ericson, "Real-Time Collision Detection" §5.1.9).
func closestPointsBetweenSegments(p1, q1, p2, q2 mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)

	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64

	if a < epsilon && e < epsilon {
		return p1, p2
	}

	if a < epsilon {
		s = 0
		t = clamp01(f / e)
	} else {
		c := d1.Dot(r)
		if e < epsilon {
			t = 0
			s = clamp01(-c / a)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b

			if denom > epsilon {
				s = clamp01((b*f - c*e) / denom)
			} else {
				s = 0
			}

			t = (b*s + f) / e

			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}

	closestA := p1.Add(d1.Mul(s))
	closestB := p2.Add(d2.Mul(t))
	return closestA, closestB
}

// CapsuleAABB generates a contact between a capsule and an axis-aligned box
// by ternary-searching the capsule's medial segment for the point closest to
// the box. The search is valid because distance-to-box along a line segment
// is convex. When the segment's closest point lands inside the box (a fully
// degenerate overlap), it falls back to projecting onto the nearest box
// face instead of trusting a zero-length gradient.
func CapsuleAABB(capsulePose shape.Pose, capsule shape.Capsule, box shape.AABB) (Manifold, bool) {
	a, b := worldSegment(capsulePose, capsule)
	segPoint, boxPoint, distance := closestPointsSegmentAABB(a, b, box)

	if distance < epsilon {
		normal, penetration, point := nearestFaceProjection(segPoint, box)
		penetration += capsule.Radius
		return Manifold{Normal: normal.Mul(-1), Penetration: penetration, Point: point}, true
	}

	if distance > capsule.Radius {
		return Manifold{}, false
	}

	normal := boxPoint.Sub(segPoint).Mul(1 / distance)
	penetration := capsule.Radius - distance
	point := boxPoint.Sub(normal.Mul(penetration / 2))

	return Manifold{
		Normal:      normal,
		Penetration: penetration,
		Point:       point,
	}, true
}

// AABBCapsule is CapsuleAABB with the arguments reversed.
func AABBCapsule(box shape.AABB, capsulePose shape.Pose, capsule shape.Capsule) (Manifold, bool) {
	m, ok := CapsuleAABB(capsulePose, capsule, box)
	if !ok {
		return Manifold{}, false
	}
	m.Normal = m.Normal.Mul(-1)
	return m, true
}

// closestPointsSegmentAABB ternary-searches t in [0,1] along segment [a,b]
// for the point minimizing distance to box, returning that segment point,
// the corresponding closest point on the box, and their distance.
func closestPointsSegmentAABB(a, b mgl64.Vec3, box shape.AABB) (mgl64.Vec3, mgl64.Vec3, float64) {
	distanceAt := func(t float64) float64 {
		p := a.Add(b.Sub(a).Mul(t))
		return closestPointOnAABB(p, box).Sub(p).Len()
	}

	lo, hi := 0.0, 1.0
	for i := 0; i < ternaryIterations; i++ {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3
		if distanceAt(m1) < distanceAt(m2) {
			hi = m2
		} else {
			lo = m1
		}
	}

	t := (lo + hi) / 2
	segPoint := a.Add(b.Sub(a).Mul(t))
	boxPoint := closestPointOnAABB(segPoint, box)
	return segPoint, boxPoint, boxPoint.Sub(segPoint).Len()
}

func closestPointOnAABB(point mgl64.Vec3, box shape.AABB) mgl64.Vec3 {
	return mgl64.Vec3{
		clamp(point.X(), box.Min.X(), box.Max.X()),
		clamp(point.Y(), box.Min.Y(), box.Max.Y()),
		clamp(point.Z(), box.Min.Z(), box.Max.Z()),
	}
}

// nearestFaceProjection handles the degenerate case where a segment point
// lies inside the box: it picks the box face the point is nearest to and
// returns the outward normal through that face, the penetration to reach
// it, and the point on that face.
func nearestFaceProjection(point mgl64.Vec3, box shape.AABB) (mgl64.Vec3, float64, mgl64.Vec3) {
	distances := [6]float64{
		point.X() - box.Min.X(),
		box.Max.X() - point.X(),
		point.Y() - box.Min.Y(),
		box.Max.Y() - point.Y(),
		point.Z() - box.Min.Z(),
		box.Max.Z() - point.Z(),
	}
	normals := [6]mgl64.Vec3{
		{-1, 0, 0}, {1, 0, 0},
		{0, -1, 0}, {0, 1, 0},
		{0, 0, -1}, {0, 0, 1},
	}

	best := 0
	for i := 1; i < 6; i++ {
		if distances[i] < distances[best] {
			best = i
		}
	}

	normal := normals[best]
	penetration := distances[best]
	facePoint := point.Add(normal.Mul(-penetration))
	return normal, penetration, facePoint
}
