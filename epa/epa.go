// Package epa implements the Expanding Polytope Algorithm for computing penetration depth.
//
// EPA is run after GJK detects a collision to determine:
//   - Penetration depth (how far shapes overlap)
//   - Contact normal (direction to separate shapes)
//   - A representative contact point
//
// The algorithm expands a polytope (starting from GJK's final simplex) toward the origin
// in the Minkowski difference space, finding the closest face which gives us the
// Minimum Translation Vector (MTV) to separate the shapes.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation on 3D Game Objects" (2001)
package epa

import (
	"fmt"
	"math"

	"github.com/ljramones/DynamisCollision/gjk"
	"github.com/ljramones/DynamisCollision/shape"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// EPAMinFaceDistance is the minimum face distance before we skip it.
	// Faces very close to or behind the origin are likely degenerate.
	EPAMinFaceDistance = 0.0001

	// NormalSnapThreshold is used to clamp nearly-zero normal components to exactly zero.
	// This helps with numerical stability and axis-aligned collisions.
	NormalSnapThreshold = 1e-8

	// DegeneratePenetrationEstimate is a fallback penetration depth for degenerate cases
	// where we have insufficient simplex points to compute accurate depth.
	DegeneratePenetrationEstimate = 0.01

	polytopeInitialCapacity = 4
)

// Config tunes EPA's expansion loop. DefaultConfig matches the tolerances used
// throughout the rest of the narrow phase.
type Config struct {
	// MaxIterations limits polytope expansion to prevent infinite loops.
	MaxIterations int

	// ConvergenceTolerance defines when EPA has converged: once a new support
	// point improves the closest face's distance by less than this, that face
	// is accepted as the Minimum Translation Vector.
	ConvergenceTolerance float64
}

// DefaultConfig returns EPA's default iteration bound and convergence tolerance.
func DefaultConfig() Config {
	return Config{
		MaxIterations:        64,
		ConvergenceTolerance: 1e-6,
	}
}

// Result is the Minimum Translation Vector found by EPA, plus a single
// representative contact point. Callers needing a full multi-point manifold
// should prefer a dedicated narrowphase generator when one exists for their
// shape pair; Result.Point is a single-point fallback suitable for any
// convex pair, grounded on the same fallback the teacher used when its own
// manifold clipping produced zero points.
type Result struct {
	Normal mgl64.Vec3
	Depth  float64
	Point  mgl64.Vec3
}

// Solve computes penetration depth and a contact point for two overlapping
// convex shapes given their world-space support mappings.
//
// Algorithm overview:
//  1. Start with simplex from GJK (tetrahedron containing origin)
//  2. Build initial polytope faces from simplex
//  3. Find face closest to origin
//  4. Get support point in face normal direction
//  5. If converged (new point doesn't improve distance) → done
//  6. Otherwise, expand polytope by adding support point
//  7. Repeat from step 3
//
// The contact normal points from shape A toward shape B (separation direction).
// Penetration depth is always positive (how far to move B away from A).
func Solve(supportA, supportB shape.SupportFn, simplex *gjk.Simplex, cfg Config) (Result, error) {
	if simplex.Count < 4 {
		return handleDegenerateSimplex(supportA, supportB, simplex), nil
	}

	builder := polytopeBuilderPool.Get().(*PolytopeBuilder)
	defer polytopeBuilderPool.Put(builder)
	builder.Reset()

	if err := builder.BuildInitialFaces(simplex); err != nil {
		return Result{}, err
	}

	var closestFaceIndex int
	var closestFace *Face
	var support mgl64.Vec3
	var distance float64

	for i := 0; i < cfg.MaxIterations; i++ {
		if len(builder.faces) == 0 {
			break
		}

		closestFaceIndex = builder.FindClosestFaceIndex()
		closestFace = &builder.faces[closestFaceIndex]

		if closestFace.Distance < EPAMinFaceDistance {
			builder.faces[closestFaceIndex] = builder.faces[len(builder.faces)-1]
			builder.faces = builder.faces[:len(builder.faces)-1]
			continue
		}

		support = gjk.MinkowskiSupport(supportA, supportB, closestFace.Normal)
		distance = support.Dot(closestFace.Normal)

		if distance-closestFace.Distance < cfg.ConvergenceTolerance {
			return resultFromFace(supportA, supportB, closestFace), nil
		}

		if err := builder.AddPointAndRebuildFaces(support, closestFaceIndex); err != nil {
			return resultFromFace(supportA, supportB, closestFace), nil
		}
	}

	return Result{}, fmt.Errorf("EPA failed to converge after %d iterations", cfg.MaxIterations)
}

// resultFromFace turns a converged closest face into a Result, placing the
// representative contact point at the support of B in the -normal direction
// (the deepest point of B inside A).
func resultFromFace(supportA, supportB shape.SupportFn, face *Face) Result {
	point := supportB(face.Normal.Mul(-1))
	return Result{Normal: face.Normal, Depth: face.Distance, Point: point}
}

// handleDegenerateSimplex estimates a contact when GJK returns an incomplete
// simplex. This happens in rare edge cases where shapes are touching but GJK
// couldn't build a full tetrahedron.
func handleDegenerateSimplex(supportA, supportB shape.SupportFn, simplex *gjk.Simplex) Result {
	if simplex.Count >= 2 {
		a := simplex.Points[0]
		b := simplex.Points[1]

		distA := math.Sqrt(a.Dot(a))
		distB := math.Sqrt(b.Dot(b))

		var penetration float64
		var normal mgl64.Vec3

		if distA < distB {
			penetration = distA
			normal = a.Normalize()
		} else {
			penetration = distB
			normal = b.Normalize()
		}

		point := supportB(normal.Mul(-1))
		return Result{Normal: normal, Depth: penetration, Point: point}
	}

	up, down := mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, -1, 0}
	probe := supportB(up).Add(supportB(down)).Sub(supportA(up)).Sub(supportA(down))
	normalLen := probe.Len()

	var normal mgl64.Vec3
	if normalLen < NormalSnapThreshold {
		normal = mgl64.Vec3{0, 1, 0}
	} else {
		normal = probe.Mul(1.0 / normalLen)
	}

	penetration := DegeneratePenetrationEstimate
	point := supportB(normal.Mul(-1))

	return Result{Normal: normal, Depth: penetration, Point: point}
}

// snapNormalToAxis clamps nearly-zero components of a normal vector to exactly zero.
//
// This improves numerical stability for axis-aligned collisions (box on ground)
// by preventing tiny floating-point errors from causing jitter in tangent directions.
func snapNormalToAxis(normal mgl64.Vec3) mgl64.Vec3 {
	const threshold = NormalSnapThreshold

	x := normal[0]
	y := normal[1]
	z := normal[2]

	if math.Abs(x) < threshold {
		x = 0
	}
	if math.Abs(y) < threshold {
		y = 0
	}
	if math.Abs(z) < threshold {
		z = 0
	}

	clamped := mgl64.Vec3{x, y, z}

	length := math.Sqrt(clamped.Dot(clamped))
	if length > 1e-8 {
		clamped = clamped.Mul(1.0 / length)
	} else {
		return mgl64.Vec3{0, 1, 0}
	}

	return clamped
}
