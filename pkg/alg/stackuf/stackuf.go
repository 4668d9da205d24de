// Package stackuf provides a weighted union-find over a fixed set of
// elements where every set is an ordered stack. Union places one stack on
// top of another, and every element keeps its height relative to the bottom
// of the stack it now belongs to.
//
// Find uses full path compression and rewrites each compressed element's
// offset so that heights stay exact. The structure is not safe for
// concurrent use.
package stackuf

import (
	"errors"
	"fmt"
)

// ErrSameSet is returned when both ids of a Union already share a stack.
var ErrSameSet = errors.New("elements already in the same stack")

// ErrOutOfRange is returned for an id outside [0, Len()).
var ErrOutOfRange = errors.New("element id out of range")

// ErrNegativeHeight is returned when initializing with a negative height.
var ErrNegativeHeight = errors.New("negative stack height")

// element is a union-find slot.
//
// For a root, height is the total height of its stack and column is the
// stack's public id. r is the element's offset from its parent; the
// relative height of an element is the sum of r along its path to the root,
// including the root's own r.
type element struct {
	parent int
	height int
	r      int
	rank   int
	column int
}

// UnionFind is a weighted union-find of stacks.
type UnionFind struct {
	elems []element
}

// New creates a union-find with one singleton stack per entry of heights.
func New(heights []int) (*UnionFind, error) {
	uf := &UnionFind{}

	err := uf.Reset(heights)
	if err != nil {
		return nil, err
	}

	return uf, nil
}

// Reset discards all merges and re-initializes len(heights) singleton stacks.
// Element i starts as its own root and column with stack height heights[i].
func (uf *UnionFind) Reset(heights []int) error {
	for i, h := range heights {
		if h < 0 {
			return fmt.Errorf("%w: element %d has height %d", ErrNegativeHeight, i, h)
		}
	}

	elems := make([]element, len(heights))
	for i, h := range heights {
		elems[i] = element{parent: i, height: h, column: i}
	}

	uf.elems = elems

	return nil
}

// Len returns the number of elements.
func (uf *UnionFind) Len() int {
	return len(uf.elems)
}

// Find returns the root of the stack containing id.
func (uf *UnionFind) Find(id int) (int, error) {
	err := uf.check(id)
	if err != nil {
		return 0, err
	}

	root, _ := uf.find(id)

	return root, nil
}

// Union stacks the set containing id1 on top of the set containing id2.
// Afterwards every element of id1's set sits above the whole former stack of
// id2, and the merged stack reports id2's column.
func (uf *UnionFind) Union(id1, id2 int) error {
	err := uf.check(id1)
	if err != nil {
		return err
	}

	err = uf.check(id2)
	if err != nil {
		return err
	}

	top, _ := uf.find(id1)
	bottom, _ := uf.find(id2)

	if top == bottom {
		return fmt.Errorf("%w: %d and %d", ErrSameSet, id1, id2)
	}

	b, a := &uf.elems[top], &uf.elems[bottom]

	if a.rank >= b.rank {
		b.parent = bottom
		a.rank++
		b.r += a.height - a.r
		a.height += b.height
	} else {
		a.parent = top
		b.rank++
		b.r += a.height
		a.r -= b.r
		b.height += a.height
		b.column = a.column
	}

	return nil
}

// Position returns the column of the stack containing id and id's height
// relative to the bottom of that stack.
func (uf *UnionFind) Position(id int) (column, height int, err error) {
	err = uf.check(id)
	if err != nil {
		return 0, 0, err
	}

	root, height := uf.find(id)

	return uf.elems[root].column, height, nil
}

// StackHeight returns the total height of the stack containing id.
func (uf *UnionFind) StackHeight(id int) (int, error) {
	err := uf.check(id)
	if err != nil {
		return 0, err
	}

	root, _ := uf.find(id)

	return uf.elems[root].height, nil
}

func (uf *UnionFind) check(id int) error {
	if id < 0 || id >= len(uf.elems) {
		return fmt.Errorf("%w: %d (size %d)", ErrOutOfRange, id, len(uf.elems))
	}

	return nil
}

// find returns the root of id and id's relative height, compressing the
// path. The first pass sums offsets up to the root; the second repoints
// every visited element at the root with its offset from the root.
func (uf *UnionFind) find(id int) (root, height int) {
	sum := 0

	cur := id
	for uf.elems[cur].parent != cur {
		sum += uf.elems[cur].r
		cur = uf.elems[cur].parent
	}

	root = cur

	passed := 0

	cur = id
	for uf.elems[cur].parent != cur {
		e := &uf.elems[cur]
		next := e.parent

		own := e.r
		e.r = sum - passed
		e.parent = root
		passed += own

		cur = next
	}

	return root, sum + uf.elems[root].r
}
