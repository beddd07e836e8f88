package constraint

import (
	"fmt"
)

// DistanceConstraint holds two bodies of type T apart by a fixed distance.
// Grounded on DistanceConstraint3D: a purely positional correction, no
// velocity term, split between the two bodies proportional to their share
// of the combined inverse mass.
type DistanceConstraint[T any] struct {
	BodyA, BodyB   T
	TargetDistance float64
	Stiffness      float64
}

// NewDistanceConstraint validates targetDistance and stiffness before
// building the constraint, matching DistanceConstraint3D's constructor
// checks.
func NewDistanceConstraint[T any](bodyA, bodyB T, targetDistance, stiffness float64) (DistanceConstraint[T], error) {
	if !finite(targetDistance) || targetDistance < 0 {
		return DistanceConstraint[T]{}, fmt.Errorf("constraint: targetDistance must be finite and >= 0, got %v", targetDistance)
	}
	if err := validateStiffness(stiffness); err != nil {
		return DistanceConstraint[T]{}, err
	}
	return DistanceConstraint[T]{
		BodyA:          bodyA,
		BodyB:          bodyB,
		TargetDistance: targetDistance,
		Stiffness:      stiffness,
	}, nil
}

// Solve nudges both bodies toward satisfying the target distance, splitting
// the correction by each body's share of the combined inverse mass. No-ops
// if the bodies are coincident, both effectively static, or already at
// rest within the constraint's tolerance.
func (c DistanceConstraint[T]) Solve(adapter RigidBodyAdapter[T], dt float64) {
	posA := adapter.Position(c.BodyA)
	posB := adapter.Position(c.BodyB)

	delta := posB.Sub(posA)
	dist := delta.Len()
	if dist <= epsilon {
		return
	}

	invMassA := maxFloat(adapter.InverseMass(c.BodyA), 0)
	invMassB := maxFloat(adapter.InverseMass(c.BodyB), 0)
	invMassSum := invMassA + invMassB
	if invMassSum <= 0 {
		return
	}

	positionError := dist - c.TargetDistance
	if absFloat(positionError) <= epsilon {
		return
	}

	direction := delta.Mul(1 / dist)
	correctionMag := positionError * c.Stiffness
	correction := direction.Mul(correctionMag)

	adapter.SetPosition(c.BodyA, posA.Add(correction.Mul(invMassA/invMassSum)))
	adapter.SetPosition(c.BodyB, posB.Sub(correction.Mul(invMassB/invMassSum)))
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
