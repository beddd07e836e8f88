package constraint

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

func vec3From(a [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{a[0], a[1], a[2]}
}

// PointConstraint pulls a single body of type T toward a fixed world-space
// anchor. Grounded on PointConstraint3D: a one-sided positional spring with
// no velocity term, skipped entirely for kinematic or static bodies.
type PointConstraint[T any] struct {
	Body      T
	Anchor    [3]float64
	Stiffness float64
}

// NewPointConstraint validates stiffness before building the constraint,
// matching PointConstraint3D's constructor checks.
func NewPointConstraint[T any](body T, anchor [3]float64, stiffness float64) (PointConstraint[T], error) {
	if !finite(anchor[0]) || !finite(anchor[1]) || !finite(anchor[2]) {
		return PointConstraint[T]{}, fmt.Errorf("constraint: anchor must be finite, got %v", anchor)
	}
	if err := validateStiffness(stiffness); err != nil {
		return PointConstraint[T]{}, err
	}
	return PointConstraint[T]{Body: body, Anchor: anchor, Stiffness: stiffness}, nil
}

// Solve pulls Body a fraction of the way toward Anchor proportional to
// Stiffness. No-ops if the body has zero or negative inverse mass.
func (c PointConstraint[T]) Solve(adapter RigidBodyAdapter[T], dt float64) {
	invMass := maxFloat(adapter.InverseMass(c.Body), 0)
	if invMass <= 0 {
		return
	}

	pos := adapter.Position(c.Body)
	anchor := vec3From(c.Anchor)
	corrected := pos.Add(anchor.Sub(pos).Mul(c.Stiffness))
	adapter.SetPosition(c.Body, corrected)
}
