// Package narrowphase provides closed-form contact generators for the
// primitive shape pairs that have one: AABB-AABB, Sphere-Sphere,
// Capsule-Capsule, Capsule-Sphere and Capsule-AABB. Every other shape pair
// falls back to gjk/epa, which has no dedicated generator but handles any
// convex support mapping.
package narrowphase

import "github.com/go-gl/mathgl/mgl64"

// Manifold is the contact result of a narrow-phase generator: a single
// contact point, the separating normal (pointing from A toward B) and the
// penetration depth along that normal.
type Manifold struct {
	Normal      mgl64.Vec3
	Penetration float64
	Point       mgl64.Vec3
}

const epsilon = 1e-9

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func vec3(x, y, z float64) mgl64.Vec3 {
	return mgl64.Vec3{x, y, z}
}
