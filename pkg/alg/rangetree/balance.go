package rangetree

import "cmp"

// h returns the height of n, treating nil as an empty subtree.
func (n *node[K, V]) h() int {
	if n == nil {
		return emptyHeight
	}

	return n.height
}

// fixHeight recomputes n's height from its children.
func (n *node[K, V]) fixHeight() {
	n.height = 1 + max(n.left.h(), n.right.h())
}

// balance returns the AVL balance factor h(left) - h(right).
func (n *node[K, V]) balance() int {
	return n.left.h() - n.right.h()
}

// child returns the left child when left is true, otherwise the right one.
func (n *node[K, V]) child(left bool) *node[K, V] {
	if left {
		return n.left
	}

	return n.right
}

// setChild replaces the left or right child of n.
func (n *node[K, V]) setChild(left bool, c *node[K, V]) {
	if left {
		n.left = c
	} else {
		n.right = c
	}
}

// rebalance refreshes n's height and applies the AVL rotation its balance
// factor calls for. It returns the new root of the subtree.
func rebalance[K cmp.Ordered, V any](n *node[K, V]) *node[K, V] {
	if n == nil {
		return nil
	}

	n.fixHeight()

	switch bf := n.balance(); {
	case bf > 1:
		// Left-right case.
		if n.left.balance() < 0 {
			n.left = rotate(n.left, true)
		}

		return rotate(n, false)
	case bf < -1:
		// Right-left case.
		if n.right.balance() > 0 {
			n.right = rotate(n.right, false)
		}

		return rotate(n, true)
	default:
		return n
	}
}

// rotate performs a rotation at n. When left is true, n.right is promoted;
// otherwise n.left is. Returns the promoted node.
func rotate[K cmp.Ordered, V any](n *node[K, V], left bool) *node[K, V] {
	pivot := n.child(!left)
	inner := pivot.child(left)

	shiftExtra(n, pivot, inner)

	n.setChild(!left, inner)
	pivot.setChild(left, n)

	// Heights bottom-up: n first, then pivot.
	n.fixHeight()
	pivot.fixHeight()

	return pivot
}

// shiftExtra redistributes extra before pivot is promoted over n so that the
// path sum of every node in the rotated subtree stays the same. inner is the
// pivot child that moves across to n.
func shiftExtra[K cmp.Ordered, V any](n, pivot, inner *node[K, V]) {
	displaced := pivot.extra

	pivot.extra += n.extra
	n.extra = -displaced

	if inner != nil {
		inner.extra += displaced
	}
}
