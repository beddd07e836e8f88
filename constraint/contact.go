package constraint

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ljramones/DynamisCollision/narrowphase"
)

// WarmStartImpulse carries the accumulated normal and tangent impulse
// magnitudes for a contact pair from one frame into the next, letting the
// velocity solver converge faster by starting from last frame's answer
// instead of zero. Grounded on ContactSolver3D's WarmStartImpulse record.
type WarmStartImpulse struct {
	NormalImpulse  float64
	TangentImpulse float64
}

// ZeroWarmStart is the warm-start value for a contact with no prior-frame
// history, equivalent to ContactSolver3D's WarmStartImpulse.ZERO.
var ZeroWarmStart = WarmStartImpulse{}

// ContactSolver resolves a single-point contact manifold between two
// bodies of type T with positional correction followed by a velocity
// impulse pass. Grounded directly on ContactSolver3D: translate-only,
// point-mass, no rotational terms, one Baumgarte-style positional
// correction percent and slop, and Coulomb friction clamped to the
// accumulated normal impulse.
type ContactSolver[T any] struct {
	adapter RigidBodyAdapter[T]

	// PositionCorrectionPercent is the fraction of penetration depth beyond
	// Slop corrected per solve call. Default 0.8.
	PositionCorrectionPercent float64

	// PositionCorrectionSlop is the penetration depth left uncorrected, to
	// avoid jitter from resolving contacts to exactly zero depth. Default
	// 0.001.
	PositionCorrectionSlop float64
}

// NewContactSolver builds a ContactSolver with the default
// correction percent and slop. adapter must not be nil.
func NewContactSolver[T any](adapter RigidBodyAdapter[T]) (*ContactSolver[T], error) {
	if adapter == nil {
		return nil, fmt.Errorf("constraint: adapter must not be nil")
	}
	return &ContactSolver[T]{
		adapter:                   adapter,
		PositionCorrectionPercent: 0.8,
		PositionCorrectionSlop:    0.001,
	}, nil
}

// SetPositionCorrectionPercent validates and sets the correction percent.
func (s *ContactSolver[T]) SetPositionCorrectionPercent(percent float64) error {
	if !finite(percent) || percent < 0 || percent > 1 {
		return fmt.Errorf("constraint: positionCorrectionPercent must be in [0,1], got %v", percent)
	}
	s.PositionCorrectionPercent = percent
	return nil
}

// SetPositionCorrectionSlop validates and sets the correction slop.
func (s *ContactSolver[T]) SetPositionCorrectionSlop(slop float64) error {
	if !finite(slop) || slop < 0 {
		return fmt.Errorf("constraint: positionCorrectionSlop must be >= 0, got %v", slop)
	}
	s.PositionCorrectionSlop = slop
	return nil
}

// SolvePosition pushes bodyA and bodyB apart along manifold's normal by a
// fraction of the penetration depth beyond the configured slop, split by
// each body's share of the combined inverse mass. No-ops if both bodies
// are effectively static.
func (s *ContactSolver[T]) SolvePosition(bodyA, bodyB T, manifold narrowphase.Manifold) {
	invMassA := maxFloat(s.adapter.InverseMass(bodyA), 0)
	invMassB := maxFloat(s.adapter.InverseMass(bodyB), 0)
	invMassSum := invMassA + invMassB
	if invMassSum <= 0 {
		return
	}

	correctionMagnitude := maxFloat(manifold.Penetration-s.PositionCorrectionSlop, 0) * s.PositionCorrectionPercent / invMassSum
	if correctionMagnitude <= 0 {
		return
	}

	correction := manifold.Normal.Mul(correctionMagnitude)

	posA := s.adapter.Position(bodyA)
	posB := s.adapter.Position(bodyB)
	s.adapter.SetPosition(bodyA, posA.Sub(correction.Mul(invMassA)))
	s.adapter.SetPosition(bodyB, posB.Add(correction.Mul(invMassB)))
}

// SolveVelocity resolves the relative velocity along manifold's normal and
// tangent, applying warmStart's accumulated impulses before computing the
// new normal and friction impulses, and returns the updated accumulated
// impulses for next frame's warm start. No-ops (returning the zero warm
// start) if both bodies are effectively static.
func (s *ContactSolver[T]) SolveVelocity(bodyA, bodyB T, manifold narrowphase.Manifold, warmStart WarmStartImpulse) WarmStartImpulse {
	invMassA := maxFloat(s.adapter.InverseMass(bodyA), 0)
	invMassB := maxFloat(s.adapter.InverseMass(bodyB), 0)
	invMassSum := invMassA + invMassB
	if invMassSum <= 0 {
		return ZeroWarmStart
	}

	normal := manifold.Normal
	velA := s.adapter.Velocity(bodyA)
	velB := s.adapter.Velocity(bodyB)

	accumulatedNormal := warmStart.NormalImpulse
	accumulatedTangent := warmStart.TangentImpulse

	if accumulatedNormal != 0 || accumulatedTangent != 0 {
		relativeVelocity := velB.Sub(velA)
		tangentDir := tangentDirection(relativeVelocity, normal)
		warmImpulse := normal.Mul(accumulatedNormal).Add(tangentDir.Mul(accumulatedTangent))
		velA = velA.Sub(warmImpulse.Mul(invMassA))
		velB = velB.Add(warmImpulse.Mul(invMassB))
	}

	relativeVelocity := velB.Sub(velA)
	velocityAlongNormal := relativeVelocity.Dot(normal)
	if velocityAlongNormal > 0 {
		s.adapter.SetVelocity(bodyA, velA)
		s.adapter.SetVelocity(bodyB, velB)
		return WarmStartImpulse{NormalImpulse: accumulatedNormal, TangentImpulse: accumulatedTangent}
	}

	restitution := minFloat(clamp01(s.adapter.Restitution(bodyA)), clamp01(s.adapter.Restitution(bodyB)))
	impulseScalar := -(1 + restitution) * velocityAlongNormal / invMassSum

	newAccumulatedNormal := maxFloat(0, accumulatedNormal+impulseScalar)
	clampedNormalDelta := newAccumulatedNormal - accumulatedNormal
	accumulatedNormal = newAccumulatedNormal

	normalImpulse := normal.Mul(clampedNormalDelta)
	velA = velA.Sub(normalImpulse.Mul(invMassA))
	velB = velB.Add(normalImpulse.Mul(invMassB))

	relativeVelocityAfterNormal := velB.Sub(velA)
	tangent := tangentDirection(relativeVelocityAfterNormal, normal)
	jt := -relativeVelocityAfterNormal.Dot(tangent) / invMassSum

	friction := sqrtFloat(maxFloat(s.adapter.Friction(bodyA), 0) * maxFloat(s.adapter.Friction(bodyB), 0))
	maxFriction := accumulatedNormal * friction

	desiredTangent := accumulatedTangent + jt
	clampedTangent := clampFloat(desiredTangent, -maxFriction, maxFriction)
	tangentDelta := clampedTangent - accumulatedTangent
	accumulatedTangent = clampedTangent

	if absFloat(tangentDelta) > 1e-12 {
		tangentImpulse := tangent.Mul(tangentDelta)
		velA = velA.Sub(tangentImpulse.Mul(invMassA))
		velB = velB.Add(tangentImpulse.Mul(invMassB))
	}

	s.adapter.SetVelocity(bodyA, velA)
	s.adapter.SetVelocity(bodyB, velB)

	return WarmStartImpulse{NormalImpulse: accumulatedNormal, TangentImpulse: accumulatedTangent}
}

// tangentDirection derives a unit tangent from the relative velocity's
// component orthogonal to normal, falling back to an arbitrary
// perpendicular when the relative velocity is (near) parallel to normal.
func tangentDirection(relativeVelocity, normal mgl64.Vec3) mgl64.Vec3 {
	tangent := relativeVelocity.Sub(normal.Mul(relativeVelocity.Dot(normal)))
	if tangent.Len() > 1e-9 {
		return tangent.Normalize()
	}
	return anyPerpendicular(normal)
}

// anyPerpendicular returns an arbitrary unit vector orthogonal to normal.
func anyPerpendicular(normal mgl64.Vec3) mgl64.Vec3 {
	axis := mgl64.Vec3{0, 1, 0}
	if absFloat(normal.X()) < 0.9 {
		axis = mgl64.Vec3{1, 0, 0}
	}
	perp := axis.Cross(normal)
	if perp.Len() > 1e-9 {
		return perp.Normalize()
	}
	return mgl64.Vec3{0, 0, 1}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sqrtFloat(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}
