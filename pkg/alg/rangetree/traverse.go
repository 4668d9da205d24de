package rangetree

import "cmp"

// Ascend calls fn for each key in ascending order until fn returns false.
func (t *Tree[K, V]) Ascend(fn func(key K, value V) bool) {
	ascend(t.root, fn)
}

// Rehome inserts every pair of t into dst[bucket(key)] in ascending key
// order. t is left unchanged; the copies start with zero adjustment.
func (t *Tree[K, V]) Rehome(dst []*Tree[K, V], bucket func(K) int) {
	t.Ascend(func(key K, value V) bool {
		// Keys are unique in t, and dst trees are expected to start empty.
		_ = dst[bucket(key)].Insert(key, value)

		return true
	})
}

// Reset calls fn on every value in ascending key order and clears all
// pending range adjustments. fn may be nil.
func (t *Tree[K, V]) Reset(fn func(V)) {
	reset(t.root, fn)
}

func ascend[K cmp.Ordered, V any](n *node[K, V], fn func(K, V) bool) bool {
	if n == nil {
		return true
	}

	if !ascend(n.left, fn) {
		return false
	}

	if !fn(n.key, n.value) {
		return false
	}

	return ascend(n.right, fn)
}

func reset[K cmp.Ordered, V any](n *node[K, V], fn func(V)) {
	if n == nil {
		return
	}

	reset(n.left, fn)

	if fn != nil {
		fn(n.value)
	}

	n.extra = 0

	reset(n.right, fn)
}
