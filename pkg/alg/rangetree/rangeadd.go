package rangetree

import "cmp"

// RangeAdd adds amount to the adjustment of every key in [lo, hi]. Neither
// bound has to be present in the tree. An inverted range is a no-op.
//
// The delta is written on the lowest node whose key lies in the range, and
// the two boundary paths below it are corrected so keys outside the range
// are excluded again. At most O(log N) nodes are written.
func (t *Tree[K, V]) RangeAdd(lo, hi K, amount float64) {
	if hi < lo {
		return
	}

	split := splitNode(t.root, lo, hi)
	if split == nil {
		return
	}

	split.extra += amount

	excludeBelow(split.left, lo, amount)
	excludeAbove(split.right, hi, amount)
}

// Adjustment returns the accumulated range adjustment of key.
func (t *Tree[K, V]) Adjustment(key K) (float64, bool) {
	n, sum := t.lookup(key)
	if n == nil {
		return 0, false
	}

	return sum, true
}

// PointQuery returns base(value) minus the accumulated adjustment of key, or
// ErrKeyNotFound.
func (t *Tree[K, V]) PointQuery(key K, base func(V) float64) (float64, error) {
	n, sum := t.lookup(key)
	if n == nil {
		return 0, ErrKeyNotFound
	}

	return base(n.value) - sum, nil
}

// splitNode returns the first node on the search path whose key lies in
// [lo, hi]: the lowest common ancestor of both boundaries.
func splitNode[K cmp.Ordered, V any](n *node[K, V], lo, hi K) *node[K, V] {
	for n != nil {
		switch {
		case hi < n.key:
			n = n.left
		case n.key < lo:
			n = n.right
		default:
			return n
		}
	}

	return nil
}

// excludeBelow walks from n toward lo, taking amount back off every key
// below lo. Each node of n's subtree starts with amount applied. inRange
// tracks whether the previous turn left amount applied to the current
// subtree; a node is only written when the turn direction flips.
func excludeBelow[K cmp.Ordered, V any](n *node[K, V], lo K, amount float64) {
	inRange := true

	for n != nil {
		if n.key < lo {
			if inRange {
				n.extra -= amount
				inRange = false
			}

			n = n.right

			continue
		}

		if !inRange {
			n.extra += amount
			inRange = true
		}

		if n.key == lo {
			if n.left != nil {
				n.left.extra -= amount
			}

			return
		}

		n = n.left
	}
}

// excludeAbove mirrors excludeBelow for keys above hi.
func excludeAbove[K cmp.Ordered, V any](n *node[K, V], hi K, amount float64) {
	inRange := true

	for n != nil {
		if hi < n.key {
			if inRange {
				n.extra -= amount
				inRange = false
			}

			n = n.left

			continue
		}

		if !inRange {
			n.extra += amount
			inRange = true
		}

		if n.key == hi {
			if n.right != nil {
				n.right.extra -= amount
			}

			return
		}

		n = n.right
	}
}
