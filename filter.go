// Package collision ties the broad phase, filter, narrow phase, contact
// solver, and manifold cache into a per-frame World orchestrator.
package collision

import "github.com/ljramones/DynamisCollision/pair"

// FilterKind distinguishes a solid collider, which participates in contact
// response, from a trigger, which only reports overlap events.
type FilterKind int

const (
	// Solid pairs are response-eligible when both sides are Solid.
	Solid FilterKind = iota
	// Trigger pairs never receive contact response, only events.
	Trigger
)

// CollisionFilter is the layer/mask gate a pair of items must pass before
// the narrow phase runs on them. Grounded on the spec's mutual layer/mask
// test; the teacher has no analogous concept, so this is new.
type CollisionFilter struct {
	Layer uint32
	Mask  uint32
	Kind  FilterKind
}

// DefaultFilter matches every other default filter and participates in
// response as a Solid collider.
var DefaultFilter = CollisionFilter{Layer: ^uint32(0), Mask: ^uint32(0), Kind: Solid}

// passes reports whether a and b mutually accept each other under the
// layer/mask test: (a.Layer & b.Mask) != 0 AND (b.Layer & a.Mask) != 0.
func (a CollisionFilter) passes(b CollisionFilter) bool {
	return a.Layer&b.Mask != 0 && b.Layer&a.Mask != 0
}

// FilterProvider resolves the filter for an item of type T, or nil if the
// item has none — in which case DefaultFilter applies.
type FilterProvider[T comparable] func(item T) *CollisionFilter

// FilteredPair is a candidate pair that passed the layer/mask test,
// annotated with whether contact response is enabled for it.
type FilteredPair[T comparable] struct {
	Pair            pair.UnorderedPair[T]
	ResponseEnabled bool
}

// ClassifyFilters retains the candidate pairs that pass the mutual
// layer/mask test and annotates each with responseEnabled = (both sides
// Solid). Every candidate is classified, none is skipped; a nil filterOf
// is a user error.
func ClassifyFilters[T comparable](candidates []pair.UnorderedPair[T], filterOf FilterProvider[T]) []FilteredPair[T] {
	out := make([]FilteredPair[T], 0, len(candidates))
	for _, c := range candidates {
		filterA := resolveFilter(filterOf(c.First()))
		filterB := resolveFilter(filterOf(c.Second()))

		if !filterA.passes(filterB) {
			continue
		}

		out = append(out, FilteredPair[T]{
			Pair:            c,
			ResponseEnabled: filterA.Kind == Solid && filterB.Kind == Solid,
		})
	}
	return out
}

func resolveFilter(f *CollisionFilter) CollisionFilter {
	if f == nil {
		return DefaultFilter
	}
	return *f
}
