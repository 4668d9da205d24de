// Package rangetree provides an AVL-balanced ordered map augmented with a
// lazy range-additive annotation. RangeAdd applies a delta to every entry
// whose key falls in [lo, hi] in O(log N) by writing deltas on a handful of
// nodes only; the effective adjustment of a key is the sum of those deltas
// along its root path.
//
// Insert, Remove, Find, RangeAdd and Adjustment are O(log N). The tree is
// not safe for concurrent use.
package rangetree

import (
	"cmp"
	"errors"
)

// ErrKeyExists is returned when inserting a key that is already present.
var ErrKeyExists = errors.New("key already present")

// ErrKeyNotFound is returned when a key is not present in the tree.
var ErrKeyNotFound = errors.New("key not found")

// emptyHeight is the height of an absent subtree. Leaves have height 0.
const emptyHeight = -1

// Tree is an AVL tree keyed by K with lazily accumulated range adjustments.
type Tree[K cmp.Ordered, V any] struct {
	root *node[K, V]
	min  *entry[K, V]
	size int
}

// node is an internal AVL node. extra is the pending delta shared by the
// node and its whole subtree.
type node[K cmp.Ordered, V any] struct {
	key         K
	value       V
	left, right *node[K, V]
	height      int
	extra       float64
}

// entry is a detached key/value copy. It is never aliased to a live node.
type entry[K cmp.Ordered, V any] struct {
	key   K
	value V
}

// New creates an empty tree.
func New[K cmp.Ordered, V any]() *Tree[K, V] {
	return &Tree[K, V]{}
}

// Len returns the number of keys in the tree.
func (t *Tree[K, V]) Len() int {
	return t.size
}

// Height returns the height of the root, or -1 for an empty tree.
func (t *Tree[K, V]) Height() int {
	return t.root.h()
}

// Clear removes all keys from the tree.
func (t *Tree[K, V]) Clear() {
	t.root = nil
	t.min = nil
	t.size = 0
}

// Insert adds key with value. A new key starts with a zero adjustment: range
// updates applied before the insert do not affect it. Inserting a present key
// returns ErrKeyExists and discards value.
func (t *Tree[K, V]) Insert(key K, value V) error {
	inserted := false
	t.root = insert(t.root, key, value, 0, &inserted)

	if !inserted {
		return ErrKeyExists
	}

	t.size++

	if t.min == nil || key < t.min.key {
		t.min = &entry[K, V]{key: key, value: value}
	}

	return nil
}

// Remove deletes key from the tree, or returns ErrKeyNotFound.
func (t *Tree[K, V]) Remove(key K) error {
	removed := false
	t.root = remove(t.root, key, &removed)

	if !removed {
		return ErrKeyNotFound
	}

	t.size--

	if t.min != nil && t.min.key == key {
		t.refreshMin()
	}

	return nil
}

// Find returns the value stored under key.
func (t *Tree[K, V]) Find(key K) (V, bool) {
	n, _ := t.lookup(key)
	if n == nil {
		var zero V

		return zero, false
	}

	return n.value, true
}

// Min returns the smallest key and its value.
func (t *Tree[K, V]) Min() (K, V, bool) {
	if t.min == nil {
		var (
			zeroK K
			zeroV V
		)

		return zeroK, zeroV, false
	}

	return t.min.key, t.min.value, true
}

// refreshMin rebuilds the cached minimum from the leftmost node.
func (t *Tree[K, V]) refreshMin() {
	if t.root == nil {
		t.min = nil

		return
	}

	n := leftmost(t.root)
	t.min = &entry[K, V]{key: n.key, value: n.value}
}

// lookup finds the node for key together with the extra sum along its path.
func (t *Tree[K, V]) lookup(key K) (*node[K, V], float64) {
	var sum float64

	n := t.root
	for n != nil {
		sum += n.extra

		switch c := cmp.Compare(key, n.key); {
		case c == 0:
			return n, sum
		case c < 0:
			n = n.left
		default:
			n = n.right
		}
	}

	return nil, 0
}

// insert places key below n. above is the extra sum of n's ancestors.
func insert[K cmp.Ordered, V any](n *node[K, V], key K, value V, above float64, inserted *bool) *node[K, V] {
	if n == nil {
		*inserted = true

		return &node[K, V]{key: key, value: value, extra: -above}
	}

	switch c := cmp.Compare(key, n.key); {
	case c < 0:
		n.left = insert(n.left, key, value, above+n.extra, inserted)
	case c > 0:
		n.right = insert(n.right, key, value, above+n.extra, inserted)
	default:
		return n
	}

	return rebalance(n)
}

// remove deletes key from the subtree rooted at n and returns the new root.
func remove[K cmp.Ordered, V any](n *node[K, V], key K, removed *bool) *node[K, V] {
	if n == nil {
		return nil
	}

	switch c := cmp.Compare(key, n.key); {
	case c < 0:
		n.left = remove(n.left, key, removed)
	case c > 0:
		n.right = remove(n.right, key, removed)
	default:
		*removed = true

		if n.left == nil || n.right == nil {
			return unlink(n)
		}

		n.takeSuccessor()
		n.right = remove(n.right, n.key, removed)
	}

	return rebalance(n)
}

// unlink detaches n, which has at most one child, and returns that child.
// The child inherits n's extra so its path sum does not change.
func unlink[K cmp.Ordered, V any](n *node[K, V]) *node[K, V] {
	child := n.left
	if child == nil {
		child = n.right
	}

	if child != nil {
		child.extra += n.extra
	}

	return child
}

// takeSuccessor copies the in-order successor's key and value into n. The
// successor's path sum is moved onto n, and both children are compensated
// so every other key keeps its adjustment.
func (n *node[K, V]) takeSuccessor() {
	succ := n.right
	delta := succ.extra

	for succ.left != nil {
		succ = succ.left
		delta += succ.extra
	}

	n.key, n.value = succ.key, succ.value
	n.extra += delta
	n.right.extra -= delta

	if n.left != nil {
		n.left.extra -= delta
	}
}

// leftmost returns the node with the smallest key in the subtree rooted at n.
func leftmost[K cmp.Ordered, V any](n *node[K, V]) *node[K, V] {
	for n.left != nil {
		n = n.left
	}

	return n
}
