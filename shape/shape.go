package shape

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind tags the geometric family a SupportFn was built from. The narrow
// phase dispatches on Kind to pick a dedicated contact generator when one
// exists (AABB/Sphere/Capsule); every other Kind falls back to GJK/EPA.
type Kind int

const (
	KindSphere Kind = iota
	KindBox
	KindCapsule
	KindCylinder
	KindPlane
	KindConvexHull
	KindTriangleMesh
	KindHeightfield
	KindCompound
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindBox:
		return "box"
	case KindCapsule:
		return "capsule"
	case KindCylinder:
		return "cylinder"
	case KindPlane:
		return "plane"
	case KindConvexHull:
		return "convex_hull"
	case KindTriangleMesh:
		return "triangle_mesh"
	case KindHeightfield:
		return "heightfield"
	case KindCompound:
		return "compound"
	default:
		return "unknown"
	}
}

// SupportFn is the convex support mapping GJK and EPA operate on: given a
// world-space direction, it returns the point of the shape farthest along
// that direction. Implementations need not be normalized-direction safe;
// callers normalize when the magnitude matters.
type SupportFn func(direction mgl64.Vec3) mgl64.Vec3

// Shape pairs a support mapping with the tag that identifies what produced
// it, so narrow-phase dispatch can special-case primitives it has a direct
// contact generator for.
type Shape struct {
	Kind    Kind
	Support SupportFn
}

// Box is an oriented box described by its half-extents in local space.
// Boxes are serviced purely through GJK/EPA; there is no dedicated
// box-specific contact generator.
type Box struct {
	HalfExtents mgl64.Vec3
}

// NewBox validates and builds a Box shape. HalfExtents must be finite and
// non-negative on every axis.
func NewBox(halfExtents mgl64.Vec3) (Box, error) {
	if !finiteVec3(halfExtents) {
		return Box{}, fmt.Errorf("shape: box half-extents must be finite, got %v", halfExtents)
	}
	if halfExtents.X() < 0 || halfExtents.Y() < 0 || halfExtents.Z() < 0 {
		return Box{}, fmt.Errorf("shape: box half-extents must be non-negative, got %v", halfExtents)
	}
	return Box{HalfExtents: halfExtents}, nil
}

func (b Box) SupportLocal(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()
	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}
	return mgl64.Vec3{hx, hy, hz}
}

// Shape returns the support-mapping adapter for this box, world-placed by
// transform (rotation then translation applied to the local support point).
func (b Box) Shape(transform Pose) Shape {
	return Shape{
		Kind:    KindBox,
		Support: func(direction mgl64.Vec3) mgl64.Vec3 { return transform.SupportWorld(b.SupportLocal, direction) },
	}
}

// Plane is an infinite half-space boundary, Normal*p == Distance. Like Box,
// planes only ever participate via GJK/EPA support mapping; they are
// represented internally as a large flat box so EPA's polytope construction
// stays well-conditioned.
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
}

// NewPlane validates and builds a Plane. Normal must be finite and non-zero;
// it is stored normalized.
func NewPlane(normal mgl64.Vec3, distance float64) (Plane, error) {
	if !finiteVec3(normal) {
		return Plane{}, fmt.Errorf("shape: plane normal must be finite, got %v", normal)
	}
	length := normal.Len()
	if length < 1e-12 {
		return Plane{}, fmt.Errorf("shape: plane normal must be non-zero")
	}
	if math.IsNaN(distance) || math.IsInf(distance, 0) {
		return Plane{}, fmt.Errorf("shape: plane distance must be finite, got %v", distance)
	}
	return Plane{Normal: normal.Mul(1 / length), Distance: distance}, nil
}

// planeHalfWidth is the flat-box approximation used for the plane's in-plane
// extent; large enough that realistic query shapes never walk off the edge.
const planeHalfWidth = 1000.0
const planeHalfThickness = 0.5

func (p Plane) SupportLocal(direction mgl64.Vec3) mgl64.Vec3 {
	tangent1, tangent2 := TangentBasis(p.Normal)
	along := func(axis mgl64.Vec3, half float64) float64 {
		d := direction.Dot(axis)
		if d < 0 {
			return -half
		}
		return half
	}
	planePoint := p.Normal.Mul(p.Distance)
	offset := tangent1.Mul(along(tangent1, planeHalfWidth)).
		Add(tangent2.Mul(along(tangent2, planeHalfWidth))).
		Add(p.Normal.Mul(along(p.Normal, planeHalfThickness)))
	return planePoint.Add(offset)
}

func (p Plane) Shape() Shape {
	return Shape{Kind: KindPlane, Support: p.SupportLocal}
}

// TangentBasis returns two unit vectors orthogonal to normal and to each
// other, forming a right-handed basis with normal.
func TangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var seed mgl64.Vec3
	if math.Abs(normal.X()) > 0.9 {
		seed = mgl64.Vec3{0, 1, 0}
	} else {
		seed = mgl64.Vec3{1, 0, 0}
	}
	tangent1 := seed.Sub(normal.Mul(seed.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()
	return tangent1, tangent2
}

func finiteVec3(v mgl64.Vec3) bool {
	return !math.IsNaN(v.X()) && !math.IsInf(v.X(), 0) &&
		!math.IsNaN(v.Y()) && !math.IsInf(v.Y(), 0) &&
		!math.IsNaN(v.Z()) && !math.IsInf(v.Z(), 0)
}
