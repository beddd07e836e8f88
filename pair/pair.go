// Package pair provides an order-independent identity for two values of a
// comparable type, used to key collision/contact state across frames.
package pair

import "hash/maphash"

var seed = maphash.MakeSeed()

// UnorderedPair holds two values of type T whose identity does not depend
// on construction order: New(a, b) and New(b, a) compare as the same key
// via Key, even though First/Second still report the order they were
// constructed with.
type UnorderedPair[T comparable] struct {
	first  T
	second T
}

// New builds an UnorderedPair, preserving a and b in construction order for
// First/Second while giving the pair an order-independent identity.
func New[T comparable](a, b T) UnorderedPair[T] {
	return UnorderedPair[T]{first: a, second: b}
}

// First returns the value passed first to New.
func (p UnorderedPair[T]) First() T { return p.first }

// Second returns the value passed second to New.
func (p UnorderedPair[T]) Second() T { return p.second }

// Other returns the element of the pair that is not v. If v is neither
// First nor Second it returns First; it does not panic.
func (p UnorderedPair[T]) Other(v T) T {
	if v == p.first {
		return p.second
	}
	return p.first
}

// Key returns a canonical, order-independent comparable key suitable for
// use as a map key: New(a, b).Key() == New(b, a).Key().
func (p UnorderedPair[T]) Key() Key {
	ha := maphash.Comparable(seed, p.first)
	hb := maphash.Comparable(seed, p.second)
	if ha <= hb {
		return Key{low: ha, high: hb}
	}
	return Key{low: hb, high: ha}
}

// Key is the canonical, hashable identity of an UnorderedPair. Two pairs
// with the same unordered members produce equal Keys and can therefore be
// compared or used directly as map keys.
type Key struct {
	low  uint64
	high uint64
}
