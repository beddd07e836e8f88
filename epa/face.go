package epa

import "github.com/go-gl/mathgl/mgl64"

// Face is one triangular facet of the expanding polytope: three Minkowski
// difference points, the outward-facing normal, and the normal's distance
// from the origin along that normal.
type Face struct {
	Points   [3]mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// compareVec3 orders two points lexicographically (x, then y, then z), used
// by PolytopeBuilder to keep its unique-point and edge buffers sorted for
// binary search.
func compareVec3(a, b mgl64.Vec3) int {
	if a[0] != b[0] {
		if a[0] < b[0] {
			return -1
		}
		return 1
	}
	if a[1] != b[1] {
		if a[1] < b[1] {
			return -1
		}
		return 1
	}
	if a[2] != b[2] {
		if a[2] < b[2] {
			return -1
		}
		return 1
	}
	return 0
}
