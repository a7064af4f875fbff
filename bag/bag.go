// Package bag specifies, at interface level, the counting-map type used by
// the rwbag family of analysis tools: a key (typically an address, port, or
// sensor id) mapped to an accumulated counter.
package bag

import "iter"

// Bag counts occurrences of a comparable key.
type Bag[K comparable] struct {
	counts map[K]uint64
}

// New returns an empty Bag.
func New[K comparable]() *Bag[K] {
	return &Bag[K]{counts: make(map[K]uint64)}
}

// Add increases the counter for key by value.
func (b *Bag[K]) Add(key K, value uint64) {
	b.counts[key] += value
}

// Get returns the current counter for key.
func (b *Bag[K]) Get(key K) uint64 {
	return b.counts[key]
}

// Len returns the number of distinct keys held.
func (b *Bag[K]) Len() int {
	return len(b.counts)
}

// Iter returns an iterator over (key, counter) pairs.
func (b *Bag[K]) Iter() iter.Seq2[K, uint64] {
	return func(yield func(K, uint64) bool) {
		for k, v := range b.counts {
			if !yield(k, v) {
				return
			}
		}
	}
}
