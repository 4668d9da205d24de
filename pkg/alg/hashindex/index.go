// Package hashindex provides a bucketed hash index whose buckets are
// balanced ordered trees.
//
// Keys are distributed over a power-of-two number of buckets by a caller
// supplied hash. When the average bucket load exceeds the configured limit
// the bucket array doubles and every entry is re-inserted. Each bucket keeps
// O(log b) lookups even under a poor hash. Not safe for concurrent use.
package hashindex

import (
	"cmp"

	"github.com/Sumatoshi-tech/recordstore/pkg/alg/rangetree"
)

// Defaults.
const (
	// DefaultBuckets is the initial bucket count.
	DefaultBuckets = 16

	// DefaultMaxLoad is the average entries per bucket that triggers growth.
	DefaultMaxLoad = 2

	growthFactor = 2
)

type options struct {
	buckets int
	maxLoad int
}

// Option configures an Index.
type Option func(*options)

// WithInitialBuckets sets the initial bucket count. It is rounded up to a
// power of two; values below one are ignored.
func WithInitialBuckets(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.buckets = n
		}
	}
}

// WithMaxLoad sets the average bucket load that triggers growth. Values
// below one are ignored.
func WithMaxLoad(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLoad = n
		}
	}
}

// Index maps keys to values through hashed tree buckets.
type Index[K cmp.Ordered, V any] struct {
	buckets []*rangetree.Tree[K, V]
	hash    func(K) uint64
	maxLoad int
	size    int
}

// New creates an empty index using hash to pick buckets.
func New[K cmp.Ordered, V any](hash func(K) uint64, opts ...Option) *Index[K, V] {
	o := options{buckets: DefaultBuckets, maxLoad: DefaultMaxLoad}
	for _, opt := range opts {
		opt(&o)
	}

	return &Index[K, V]{
		buckets: newBuckets[K, V](roundPow2(o.buckets)),
		hash:    hash,
		maxLoad: o.maxLoad,
	}
}

// Len returns the number of entries.
func (ix *Index[K, V]) Len() int {
	return ix.size
}

// Buckets returns the current bucket count.
func (ix *Index[K, V]) Buckets() int {
	return len(ix.buckets)
}

// Insert adds key with value. It returns rangetree.ErrKeyExists and leaves
// the index unchanged when key is already present.
func (ix *Index[K, V]) Insert(key K, value V) error {
	err := ix.bucketFor(key).Insert(key, value)
	if err != nil {
		return err
	}

	ix.size++

	if ix.size > len(ix.buckets)*ix.maxLoad {
		ix.grow()
	}

	return nil
}

// Remove deletes key. It returns rangetree.ErrKeyNotFound when key is absent.
func (ix *Index[K, V]) Remove(key K) error {
	err := ix.bucketFor(key).Remove(key)
	if err != nil {
		return err
	}

	ix.size--

	return nil
}

// Find returns the value stored under key.
func (ix *Index[K, V]) Find(key K) (V, bool) {
	return ix.bucketFor(key).Find(key)
}

// Ascend visits every entry bucket by bucket, each bucket in ascending key
// order, until fn returns false. The order across buckets is unspecified.
func (ix *Index[K, V]) Ascend(fn func(key K, value V) bool) {
	more := true

	for _, b := range ix.buckets {
		b.Ascend(func(key K, value V) bool {
			more = fn(key, value)

			return more
		})

		if !more {
			return
		}
	}
}

func (ix *Index[K, V]) bucketFor(key K) *rangetree.Tree[K, V] {
	return ix.buckets[ix.slot(key, len(ix.buckets))]
}

// slot relies on n being a power of two.
func (ix *Index[K, V]) slot(key K, n int) int {
	return int(ix.hash(key) & uint64(n-1)) //nolint:gosec // masked below n.
}

func (ix *Index[K, V]) grow() {
	n := len(ix.buckets) * growthFactor
	next := newBuckets[K, V](n)

	for _, b := range ix.buckets {
		b.Rehome(next, func(key K) int { return ix.slot(key, n) })
	}

	ix.buckets = next
}

func newBuckets[K cmp.Ordered, V any](n int) []*rangetree.Tree[K, V] {
	out := make([]*rangetree.Tree[K, V], n)
	for i := range out {
		out[i] = rangetree.New[K, V]()
	}

	return out
}

func roundPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
