// Command simpleScene demonstrates wiring a concrete RigidBodyAdapter
// through collision.World: a static ground sphere and a dynamic sphere
// falling onto it under gravity, stepped for 180 frames at 60 Hz.
package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ljramones/DynamisCollision"
	"github.com/ljramones/DynamisCollision/examples/body"
	"github.com/ljramones/DynamisCollision/narrowphase"
	"github.com/ljramones/DynamisCollision/shape"
)

func boundsOf(b *body.Body) shape.AABB { return b.AABB() }

func narrowPhase(a, b *body.Body) (narrowphase.Manifold, bool) {
	return narrowphase.SphereSphere(a.Pose(), a.Sphere(), b.Pose(), b.Sphere())
}

func keyOf(b *body.Body) string { return fmt.Sprintf("%p", b) }

func main() {
	ground := body.NewStaticBody(mgl64.Vec3{0, -5, 0}, 5.0, body.Material{Restitution: 0.3, Friction: 0.8})
	falling := body.NewDynamicBody(mgl64.Vec3{0, 5, 0}, 1.0, 1.0, body.Material{Restitution: 0.3, Friction: 0.8})

	world, err := collision.NewWorld(boundsOf, narrowPhase, keyOf, nil)
	if err != nil {
		panic(err)
	}
	world.Gravity = mgl64.Vec3{0, -9.81, 0}
	world.CellSize = 4.0

	if err := world.WithAdapter(body.Adapter{}); err != nil {
		panic(err)
	}

	bodies := []*body.Body{ground, falling}
	const dt = 1.0 / 60.0

	for step := 0; step < 180; step++ {
		events, err := world.Step(bodies, dt)
		if err != nil {
			panic(err)
		}
		for _, e := range events {
			if e.Kind == collision.Enter {
				fmt.Printf("step %d: ENTER at y=%.3f, depth=%.4f\n", step, falling.Position.Y(), e.Manifold.Penetration)
			}
		}
	}

	fmt.Printf("final position: %v\n", falling.Position)
	fmt.Printf("final velocity: %v\n", falling.Velocity)
}
