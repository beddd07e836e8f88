package collision

import (
	"github.com/ljramones/DynamisCollision/constraint"
	"github.com/ljramones/DynamisCollision/narrowphase"
	"github.com/ljramones/DynamisCollision/pair"
)

// manifoldCacheEntry is a pair's latest manifold, the frame it was last
// refreshed on, and its accumulated warm-start impulse.
type manifoldCacheEntry struct {
	manifold  narrowphase.Manifold
	lastSeen  uint64
	warmStart constraint.WarmStartImpulse
}

// ManifoldCache keys per-pair contact state by pair.Key, so warm-start
// impulses and manifolds survive from one frame to the next even though
// the pair's UnorderedPair value is reconstructed each frame. Grounded on
// the cache half of trigger.go's Events (previousActivePairs bookkeeping)
// generalized to hold manifold+impulse state rather than just presence.
type ManifoldCache[T comparable] struct {
	entries      map[pair.Key]manifoldCacheEntry
	currentFrame uint64
}

// NewManifoldCache builds an empty cache starting at frame 0.
func NewManifoldCache[T comparable]() *ManifoldCache[T] {
	return &ManifoldCache[T]{entries: make(map[pair.Key]manifoldCacheEntry)}
}

// Put records manifold for pair, stamping it with the cache's current
// frame and preserving any previously-stored warm-start impulse.
func (c *ManifoldCache[T]) Put(p pair.UnorderedPair[T], manifold narrowphase.Manifold) {
	key := p.Key()
	entry := c.entries[key]
	entry.manifold = manifold
	entry.lastSeen = c.currentFrame
	c.entries[key] = entry
}

// Get returns the cached manifold for pair, if any.
func (c *ManifoldCache[T]) Get(p pair.UnorderedPair[T]) (narrowphase.Manifold, bool) {
	entry, ok := c.entries[p.Key()]
	if !ok {
		return narrowphase.Manifold{}, false
	}
	return entry.manifold, true
}

// GetWarmStart returns the accumulated impulse for pair, or the zero
// warm start if the pair has no cache entry yet.
func (c *ManifoldCache[T]) GetWarmStart(p pair.UnorderedPair[T]) constraint.WarmStartImpulse {
	entry, ok := c.entries[p.Key()]
	if !ok {
		return constraint.ZeroWarmStart
	}
	return entry.warmStart
}

// SetWarmStart stores the accumulated impulse produced by this frame's
// solver for later warm-starting.
func (c *ManifoldCache[T]) SetWarmStart(p pair.UnorderedPair[T], impulse constraint.WarmStartImpulse) {
	key := p.Key()
	entry := c.entries[key]
	entry.warmStart = impulse
	c.entries[key] = entry
}

// NextFrame advances the cache's frame counter. Called once per World
// frame after all Puts for that frame have happened.
func (c *ManifoldCache[T]) NextFrame() {
	c.currentFrame++
}

// PruneStale removes entries whose last-seen frame is more than maxAge
// frames behind the current one, so EXIT pairs that never resurface
// eventually stop holding cache state.
func (c *ManifoldCache[T]) PruneStale(maxAge uint64) {
	for key, entry := range c.entries {
		if c.currentFrame-entry.lastSeen > maxAge {
			delete(c.entries, key)
		}
	}
}
