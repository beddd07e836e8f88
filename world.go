package collision

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ljramones/DynamisCollision/broadphase"
	"github.com/ljramones/DynamisCollision/constraint"
	"github.com/ljramones/DynamisCollision/narrowphase"
	"github.com/ljramones/DynamisCollision/pair"
	"github.com/ljramones/DynamisCollision/shape"
)

// BoundsFn returns the world-space AABB of an item, used for broad-phase
// culling. Must be a pure function of item during a frame.
type BoundsFn[T comparable] func(item T) shape.AABB

// NarrowPhaseFn decides whether two items are in contact and, if so,
// produces the manifold describing that contact. May delegate to the
// built-in narrowphase primitive generators or to the GJK/EPA engine.
type NarrowPhaseFn[T comparable] func(a, b T) (narrowphase.Manifold, bool)

// KeyFn derives a stable, comparable identity string for an item, used to
// order response events deterministically.
type KeyFn[T comparable] func(item T) string

// EventResponder is invoked once per response-enabled event when no
// built-in solver handling applies.
type EventResponder[T comparable] func(event CollisionEvent[T])

// World orchestrates one frame's broad phase, filter, narrow phase, event
// diff, cache discipline, and optional contact response for a host's item
// collection. Grounded on world.go/collision.go, generalized from
// *actor.RigidBody to a generic T driven entirely through callbacks and
// the RigidBodyAdapter[T] boundary, and trimmed of the XPBD substep loop
// per the spec's translate-only, rotation-free solver model.
type World[T comparable] struct {
	BoundsOf    BoundsFn[T]
	FilterOf    FilterProvider[T]
	NarrowPhase NarrowPhaseFn[T]
	KeyOf       KeyFn[T]

	// Adapter is required for Step; Update alone does not need it.
	Adapter constraint.RigidBodyAdapter[T]

	Gravity mgl64.Vec3

	// CellSize configures the default spatial-hash broad phase. Defaults
	// to 1.0 when <= 0.
	CellSize float64
	// Workers gates optional broad-phase parallelism; 0 means sequential.
	Workers int

	// RetentionFrames bounds how long a stale manifold cache entry
	// survives without being refreshed.
	RetentionFrames uint64

	// ConstraintIterations is how many passes of Constraints run per Step
	// before the collision pipeline.
	ConstraintIterations int
	Constraints          []constraint.Constraint[T]

	// SolverIterations is how many positional-then-velocity passes the
	// built-in ContactSolver runs per Update when response-enabled events
	// exist.
	SolverIterations int
	Responder        EventResponder[T]

	cache  *ManifoldCache[T]
	events *EventTracker[T]
	solver *constraint.ContactSolver[T]
}

// NewWorld validates the required callbacks and builds a World ready for
// Update. boundsOf, narrowPhase, and keyOf must be non-nil; filterOf may
// be nil (every item then uses DefaultFilter).
func NewWorld[T comparable](boundsOf BoundsFn[T], narrowPhase NarrowPhaseFn[T], keyOf KeyFn[T], filterOf FilterProvider[T]) (*World[T], error) {
	if boundsOf == nil {
		return nil, fmt.Errorf("collision: boundsOf must not be nil")
	}
	if narrowPhase == nil {
		return nil, fmt.Errorf("collision: narrowPhase must not be nil")
	}
	if keyOf == nil {
		return nil, fmt.Errorf("collision: keyOf must not be nil")
	}
	if filterOf == nil {
		filterOf = func(T) *CollisionFilter { return nil }
	}

	return &World[T]{
		BoundsOf:             boundsOf,
		FilterOf:             filterOf,
		NarrowPhase:          narrowPhase,
		KeyOf:                keyOf,
		CellSize:             1.0,
		RetentionFrames:      4,
		ConstraintIterations: 1,
		SolverIterations:     4,
		cache:                NewManifoldCache[T](),
		events:               NewEventTracker[T](),
	}, nil
}

// WithAdapter binds a RigidBodyAdapter, enabling Step and the built-in
// ContactSolver response path.
func (w *World[T]) WithAdapter(adapter constraint.RigidBodyAdapter[T]) error {
	solver, err := constraint.NewContactSolver[T](adapter)
	if err != nil {
		return err
	}
	w.Adapter = adapter
	w.solver = solver
	return nil
}

func (w *World[T]) cellSize() float64 {
	if w.CellSize <= 0 {
		return 1.0
	}
	return w.CellSize
}

func (w *World[T]) findCandidates(items []T) []pair.UnorderedPair[T] {
	hash := broadphase.NewSpatialHash[T](w.cellSize(), 1024, broadphase.BoundsFn[T](w.BoundsOf), nil)
	var broadPairs []broadphase.Pair[T]
	if w.Workers > 1 {
		ch := hash.FindPairsParallel(items, w.Workers)
		for p := range ch {
			broadPairs = append(broadPairs, p)
		}
	} else {
		broadPairs = hash.FindPairs(items)
	}

	out := make([]pair.UnorderedPair[T], 0, len(broadPairs))
	for _, p := range broadPairs {
		out = append(out, pair.New(p.A, p.B))
	}
	return out
}

// Update runs broad phase, the filter classifier, the narrow phase, the
// ENTER/STAY/EXIT event diff, manifold cache discipline, and — when an
// adapter is bound and any response-enabled event exists — the built-in
// contact solver, then returns the frame's events in ENTER-then-STAY-
// then-EXIT order.
func (w *World[T]) Update(items []T) ([]CollisionEvent[T], error) {
	candidates := w.findCandidates(items)
	filtered := ClassifyFilters(candidates, w.FilterOf)

	curr := make([]trackedContact[T], 0, len(filtered))
	for _, f := range filtered {
		manifold, ok := w.NarrowPhase(f.Pair.First(), f.Pair.Second())
		if !ok {
			continue
		}
		curr = append(curr, trackedContact[T]{
			pair:            f.Pair,
			responseEnabled: f.ResponseEnabled,
			manifold:        manifold,
		})
	}

	events := w.events.Diff(curr, w.KeyOf)

	for _, c := range curr {
		w.cache.Put(c.pair, c.manifold)
	}
	w.cache.NextFrame()
	w.cache.PruneStale(w.RetentionFrames)

	w.respond(events)

	return events, nil
}

// respond runs contact response for the frame's response-enabled,
// non-EXIT events: the built-in solver if bound, else the configured
// EventResponder once per event. Events are already in the diff's
// deterministic sort order.
func (w *World[T]) respond(events []CollisionEvent[T]) {
	var active []CollisionEvent[T]
	for _, e := range events {
		if e.ResponseEnabled && e.Kind != Exit {
			active = append(active, e)
		}
	}
	if len(active) == 0 {
		return
	}

	if w.solver == nil {
		if w.Responder != nil {
			for _, e := range active {
				w.Responder(e)
			}
		}
		return
	}

	iterations := w.SolverIterations
	if iterations <= 0 {
		iterations = 1
	}

	for i := 0; i < iterations; i++ {
		for _, e := range active {
			w.solver.SolvePosition(e.Pair.First(), e.Pair.Second(), e.Manifold)
		}
	}

	// Warm-start impulses are read from the cache once, compounded across
	// this frame's velocity iterations, and only written back after the
	// last one: re-reading the stale cached value every iteration would
	// re-apply last frame's impulse to the bodies' velocities on each pass
	// instead of carrying this frame's own accumulation forward.
	warmStarts := make([]constraint.WarmStartImpulse, len(active))
	for idx, e := range active {
		warmStarts[idx] = w.cache.GetWarmStart(e.Pair)
	}

	for i := 0; i < iterations; i++ {
		for idx, e := range active {
			warmStarts[idx] = w.solver.SolveVelocity(e.Pair.First(), e.Pair.Second(), e.Manifold, warmStarts[idx])
		}
	}

	for idx, e := range active {
		w.cache.SetWarmStart(e.Pair, warmStarts[idx])
	}
}

// Step integrates gravity and the bound Constraints, runs Update, then
// integrates position by velocity*dt for every item with positive inverse
// mass. Requires a bound adapter; dt must be finite and > 0.
func (w *World[T]) Step(items []T, dt float64) ([]CollisionEvent[T], error) {
	if w.Adapter == nil {
		return nil, fmt.Errorf("collision: Step requires WithAdapter to be called first")
	}
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return nil, fmt.Errorf("collision: dt must be finite and > 0, got %v", dt)
	}

	task(w.Workers, items, func(item T) {
		if w.Adapter.InverseMass(item) <= 0 {
			return
		}
		v := w.Adapter.Velocity(item)
		w.Adapter.SetVelocity(item, v.Add(w.Gravity.Mul(dt)))
	})

	for i := 0; i < w.ConstraintIterations; i++ {
		for _, c := range w.Constraints {
			c.Solve(w.Adapter, dt)
		}
	}

	events, err := w.Update(items)
	if err != nil {
		return nil, err
	}

	task(w.Workers, items, func(item T) {
		if w.Adapter.InverseMass(item) <= 0 {
			return
		}
		pos := w.Adapter.Position(item)
		vel := w.Adapter.Velocity(item)
		w.Adapter.SetPosition(item, pos.Add(vel.Mul(dt)))
	})

	return events, nil
}
