// Package constraint provides translate-only positional constraints and an
// iterative, warm-starting contact solver, all driven through a
// host-supplied RigidBodyAdapter rather than a concrete body type.
package constraint

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RigidBodyAdapter is the host's view onto a body of type T: position and
// velocity getters/setters in a single shared world frame, plus getters for
// the scalar properties the solver and constraints need. Grounded on
// RigidBodyAdapter3D: the teacher's own concrete actor.RigidBody is not a
// fit to keep as-is (decision 5), since rotation/sleep/force accumulation
// have no home in a translate-only solver.
type RigidBodyAdapter[T any] interface {
	Position(body T) mgl64.Vec3
	SetPosition(body T, position mgl64.Vec3)
	Velocity(body T) mgl64.Vec3
	SetVelocity(body T, velocity mgl64.Vec3)
	InverseMass(body T) float64
	Restitution(body T) float64
	Friction(body T) float64
}

// Constraint is a positional constraint between one or more bodies of type
// T, applied once per solve call with no velocity term — consistent with
// the solver's translate-only, rotation-free model.
type Constraint[T any] interface {
	Solve(adapter RigidBodyAdapter[T], dt float64)
}

const epsilon = 1e-9

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validateStiffness(stiffness float64) error {
	if !finite(stiffness) || stiffness < 0 || stiffness > 1 {
		return fmt.Errorf("constraint: stiffness must be in [0,1], got %v", stiffness)
	}
	return nil
}
