package broadphase

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// SweepAndPrune finds candidate pairs by sorting items along the X axis and
// sweeping an active list, pruning items whose bounds have fallen behind
// before testing the Y/Z intervals of whatever remains active. There is no
// teacher grounding for this strategy — it is authored directly from the
// spec's own description: sort by min-X ascending, evict from the active
// list anything whose max-X has fallen behind the current item's min-X,
// then emit a pair for every remaining active item whose Y and Z intervals
// both overlap the current item's.
type SweepAndPrune[T any] struct {
	boundsOf BoundsFn[T]
	filter   FilterFn[T]
}

// NewSweepAndPrune builds a sweep-and-prune broad phase using boundsOf to
// read each item's current AABB and filter (optional) to drop pairs after
// their Y and Z intervals are found to overlap.
func NewSweepAndPrune[T any](boundsOf BoundsFn[T], filter FilterFn[T]) *SweepAndPrune[T] {
	return &SweepAndPrune[T]{boundsOf: boundsOf, filter: filter}
}

// FindPairs returns every candidate pair whose AABBs overlap, in a
// deterministic order driven by the stable sort on min-X.
func (sp *SweepAndPrune[T]) FindPairs(items []T) []Pair[T] {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}

	bounds := make([]boundsWithIndex, len(items))
	for i, item := range items {
		bounds[i] = boundsWithIndex{index: i, min: sp.boundsOf(item).Min, max: sp.boundsOf(item).Max}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return bounds[order[i]].min.X() < bounds[order[j]].min.X()
	})

	pairs := make([]Pair[T], 0, len(items)/2)
	active := make([]int, 0, len(items))

	for _, idx := range order {
		current := bounds[idx]

		kept := active[:0]
		for _, activeIdx := range active {
			if bounds[activeIdx].max.X() < current.min.X() {
				continue
			}
			kept = append(kept, activeIdx)
		}
		active = kept

		for _, activeIdx := range active {
			other := bounds[activeIdx]
			if !intervalsOverlap(current.min.Y(), current.max.Y(), other.min.Y(), other.max.Y()) {
				continue
			}
			if !intervalsOverlap(current.min.Z(), current.max.Z(), other.min.Z(), other.max.Z()) {
				continue
			}

			a, b := items[activeIdx], items[idx]
			if sp.filter != nil && !sp.filter(a, b) {
				continue
			}
			pairs = append(pairs, Pair[T]{A: a, B: b})
		}

		active = append(active, idx)
	}

	return pairs
}

type boundsWithIndex struct {
	index    int
	min, max mgl64.Vec3
}

func intervalsOverlap(minA, maxA, minB, maxB float64) bool {
	return maxA >= minB && minA <= maxB
}
