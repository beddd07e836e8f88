// Package broadphase finds candidate pairs of items whose bounds overlap,
// without running any narrow-phase test on the shapes themselves. It
// provides two independent strategies: a uniform spatial hash grid
// (SpatialHash) and a sort-and-sweep axis list (SweepAndPrune).
package broadphase

import (
	"math"
	"sort"
	"sync"

	"github.com/ljramones/DynamisCollision/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// BoundsFn extracts the current world-space AABB of an item. Broad phase
// never touches an item's shape or transform directly — this is its only
// way to learn where an item is.
type BoundsFn[T any] func(item T) shape.AABB

// FilterFn reports whether a candidate pair should be kept. SpatialHash
// calls it before the (cheap but not free) AABB overlap check runs;
// SweepAndPrune calls it after a pair's Y and Z intervals overlap. A nil FilterFn accepts
// every pair; hosts typically use this to skip pairs of items that can
// never meaningfully collide (two static items, two sleeping items, and so
// on) without the broad phase needing to know what "static" or "sleeping"
// means for T.
type FilterFn[T any] func(a, b T) bool

// Pair is a candidate pair of items whose bounds overlap and that the
// FilterFn, if any, accepted.
type Pair[T any] struct {
	A, B T
}

type cell struct {
	indices []int
}

// SpatialHash is a uniform grid broad phase: each item is inserted into
// every cell its AABB touches, and candidate pairs are found by walking
// each item's cells and testing against whatever else landed there.
// Adapted from the teacher's SpatialGrid, generalized from []*actor.RigidBody
// to []T plus a BoundsFn callback.
type SpatialHash[T any] struct {
	cellSize float64
	cells    []cell
	cellMask int
	boundsOf BoundsFn[T]
	filter   FilterFn[T]
}

// CellKey identifies a single grid cell by its integer coordinates.
type CellKey struct {
	X, Y, Z int
}

// NewSpatialHash creates a grid with the given cell size and a hint for the
// number of backing cells (rounded up to the next power of two so cell
// lookup can use a bitmask instead of a modulo).
func NewSpatialHash[T any](cellSize float64, numCells int, boundsOf BoundsFn[T], filter FilterFn[T]) *SpatialHash[T] {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]cell, numCells)
	for i := range cells {
		cells[i].indices = make([]int, 0, 8)
	}

	return &SpatialHash[T]{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
		boundsOf: boundsOf,
		filter:   filter,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Clear empties every cell without releasing their backing arrays, so the
// next Insert pass reuses the allocations.
func (sh *SpatialHash[T]) Clear() {
	for i := range sh.cells {
		sh.cells[i].indices = sh.cells[i].indices[:0]
	}
}

// Insert places itemIndex into every cell its bounds touch.
func (sh *SpatialHash[T]) Insert(itemIndex int, item T) {
	bounds := sh.boundsOf(item)
	minCell := sh.worldToCell(bounds.Min)
	maxCell := sh.worldToCell(bounds.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				idx := sh.hashCell(CellKey{x, y, z})
				sh.cells[idx].indices = append(sh.cells[idx].indices, itemIndex)
			}
		}
	}
}

// SortCells sorts each cell's item indices, used by callers that want a
// deterministic pair iteration order for tests or replay.
func (sh *SpatialHash[T]) SortCells() {
	for i := range sh.cells {
		if len(sh.cells[i].indices) > 1 {
			sort.Ints(sh.cells[i].indices)
		}
	}
}

// FindPairs rebuilds the grid from items and returns every candidate pair
// whose AABBs overlap, each reported exactly once.
func (sh *SpatialHash[T]) FindPairs(items []T) []Pair[T] {
	sh.Clear()
	for i, item := range items {
		sh.Insert(i, item)
	}

	pairs := make([]Pair[T], 0, len(items)/2)
	seen := make([]bool, len(items))

	for i, item := range items {
		for k := range seen {
			seen[k] = false
		}

		minCell := sh.worldToCell(sh.boundsOf(item).Min)
		maxCell := sh.worldToCell(sh.boundsOf(item).Max)

		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				for z := minCell.Z; z <= maxCell.Z; z++ {
					idx := sh.hashCell(CellKey{x, y, z})
					for _, j := range sh.cells[idx].indices {
						if j <= i || seen[j] {
							continue
						}
						seen[j] = true
						if sh.testPair(item, items[j]) {
							pairs = append(pairs, Pair[T]{A: item, B: items[j]})
						}
					}
				}
			}
		}
	}

	return pairs
}

// FindPairsParallel splits items into numWorkers ranges and streams
// candidate pairs onto the returned channel as each worker finds them; the
// channel is closed once every worker has finished. Like FindPairs, it
// first clears the grid and re-inserts every item.
func (sh *SpatialHash[T]) FindPairsParallel(items []T, numWorkers int) <-chan Pair[T] {
	sh.Clear()
	for i, item := range items {
		sh.Insert(i, item)
	}

	var wg sync.WaitGroup
	out := make(chan Pair[T], numWorkers*10)

	perWorker := len(items) / numWorkers
	if perWorker == 0 {
		perWorker = 1
	}

	for w := 0; w < numWorkers; w++ {
		start := w * perWorker
		end := start + perWorker
		if w == numWorkers-1 {
			end = len(items)
		}
		if start >= len(items) {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			seen := make([]bool, len(items))

			for i := start; i < end; i++ {
				for k := range seen {
					seen[k] = false
				}

				item := items[i]
				minCell := sh.worldToCell(sh.boundsOf(item).Min)
				maxCell := sh.worldToCell(sh.boundsOf(item).Max)

				for x := minCell.X; x <= maxCell.X; x++ {
					for y := minCell.Y; y <= maxCell.Y; y++ {
						for z := minCell.Z; z <= maxCell.Z; z++ {
							idx := sh.hashCell(CellKey{x, y, z})
							for _, j := range sh.cells[idx].indices {
								if j <= i || seen[j] {
									continue
								}
								seen[j] = true
								if sh.testPair(item, items[j]) {
									out <- Pair[T]{A: item, B: items[j]}
								}
							}
						}
					}
				}
			}
		}(start, end)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

func (sh *SpatialHash[T]) testPair(a, b T) bool {
	if sh.filter != nil && !sh.filter(a, b) {
		return false
	}
	return sh.boundsOf(a).Overlaps(sh.boundsOf(b))
}

func (sh *SpatialHash[T]) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sh.cellSize)),
		Y: int(math.Floor(pos.Y() / sh.cellSize)),
		Z: int(math.Floor(pos.Z() / sh.cellSize)),
	}
}

func (sh *SpatialHash[T]) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sh.cellMask
}
