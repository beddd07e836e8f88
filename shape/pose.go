package shape

import "github.com/go-gl/mathgl/mgl64"

// Pose places a shape's local support mapping into world space: rotate
// then translate, mirroring the teacher's actor.Transform convention.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Identity returns a Pose with zero translation and no rotation.
func Identity() Pose {
	return Pose{Rotation: mgl64.QuatIdent()}
}

// SupportWorld transforms direction into local space, evaluates localSupport
// there, then maps the result back into world space.
func (p Pose) SupportWorld(localSupport SupportFn, direction mgl64.Vec3) mgl64.Vec3 {
	inverse := p.Rotation.Inverse()
	localDirection := inverse.Rotate(direction)
	localPoint := localSupport(localDirection)
	return p.Rotation.Rotate(localPoint).Add(p.Position)
}
