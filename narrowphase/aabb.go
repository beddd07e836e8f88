package narrowphase

import "github.com/ljramones/DynamisCollision/shape"

// AABBAABB generates a contact for two axis-aligned boxes that overlap or
// touch exactly, using the minimum-overlap-axis method: among the three
// axes, the contact normal is the axis on which the boxes overlap the
// least, since that is the cheapest axis to separate them along. Exact
// touch (overlap == 0 on any axis) is a legal zero-penetration contact,
// not a rejection.
func AABBAABB(a, b shape.AABB) (Manifold, bool) {
	overlapX := axisOverlap(a.Min.X(), a.Max.X(), b.Min.X(), b.Max.X())
	overlapY := axisOverlap(a.Min.Y(), a.Max.Y(), b.Min.Y(), b.Max.Y())
	overlapZ := axisOverlap(a.Min.Z(), a.Max.Z(), b.Min.Z(), b.Max.Z())

	if overlapX < 0 || overlapY < 0 || overlapZ < 0 {
		return Manifold{}, false
	}

	aMin := [3]float64{a.Min.X(), a.Min.Y(), a.Min.Z()}
	aMax := [3]float64{a.Max.X(), a.Max.Y(), a.Max.Z()}
	bMin := [3]float64{b.Min.X(), b.Min.Y(), b.Min.Z()}
	bMax := [3]float64{b.Max.X(), b.Max.Y(), b.Max.Z()}

	overlaps := [3]float64{overlapX, overlapY, overlapZ}
	selected := 0
	for axis := 1; axis < 3; axis++ {
		if overlaps[axis] < overlaps[selected] {
			selected = axis
		}
	}

	centerA, centerB := a.Center(), b.Center()
	delta := centerB.Sub(centerA)
	var normal [3]float64
	normal[selected] = 1
	sign := 1.0
	if delta[selected] < 0 {
		normal[selected] = -1
		sign = -1
	}

	// The selected axis gets the face-plane midpoint between the two boxes'
	// touching faces; the other two axes get the midpoint of the overlap
	// interval, so the point lands inside the intersection region on every
	// axis rather than on the boxes' unrelated centers.
	var point [3]float64
	for axis := 0; axis < 3; axis++ {
		if axis == selected {
			if sign > 0 {
				point[axis] = (aMax[axis] + bMin[axis]) * 0.5
			} else {
				point[axis] = (aMin[axis] + bMax[axis]) * 0.5
			}
			continue
		}
		point[axis] = (max64(aMin[axis], bMin[axis]) + min64(aMax[axis], bMax[axis])) * 0.5
	}

	return Manifold{
		Normal:      vec3(normal[0], normal[1], normal[2]),
		Penetration: overlaps[selected],
		Point:       vec3(point[0], point[1], point[2]),
	}, true
}

func axisOverlap(minA, maxA, minB, maxB float64) float64 {
	return min64(maxA, maxB) - max64(minA, minB)
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
