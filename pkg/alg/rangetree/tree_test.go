package rangetree

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants.
const (
	testDelta      = 1e-9
	testPrize10    = 10.0
	testPrizeNeg4  = -4.0
	testBase100    = 100.0
	testKeyAbsent  = 6
	testBucketMod  = 4
	testManyKeys   = 1000
	testRootKey    = 5
	testBalancedH  = 2
	testRemoveHalf = 500
)

// scenarioKeys is inserted in this order by several tests.
var scenarioKeys = []int{5, 3, 8, 1, 4, 7, 9}

// checkInvariants walks the whole tree asserting AVL heights and balance
// factors plus BST ordering, and returns the number of nodes seen.
func checkInvariants[K cmp.Ordered, V any](t *testing.T, tree *Tree[K, V]) int {
	t.Helper()

	var (
		count int
		walk  func(n *node[K, V], lo, hi *K) int
	)

	walk = func(n *node[K, V], lo, hi *K) int {
		if n == nil {
			return emptyHeight
		}

		count++

		if lo != nil {
			require.Less(t, *lo, n.key, "BST order violated")
		}

		if hi != nil {
			require.Less(t, n.key, *hi, "BST order violated")
		}

		lh := walk(n.left, lo, &n.key)
		rh := walk(n.right, &n.key, hi)

		require.Equal(t, 1+max(lh, rh), n.height, "stale height at %v", n.key)
		require.LessOrEqual(t, lh-rh, 1, "left heavy at %v", n.key)
		require.GreaterOrEqual(t, lh-rh, -1, "right heavy at %v", n.key)

		return n.height
	}

	walk(tree.root, nil, nil)
	require.Equal(t, tree.Len(), count, "size does not match node count")

	return count
}

// pathSums returns the root-path extra sum for every key under n.
func pathSums[K cmp.Ordered, V any](n *node[K, V]) map[K]float64 {
	sums := make(map[K]float64)

	var walk func(n *node[K, V], above float64)

	walk = func(n *node[K, V], above float64) {
		if n == nil {
			return
		}

		s := above + n.extra
		sums[n.key] = s

		walk(n.left, s)
		walk(n.right, s)
	}

	walk(n, 0)

	return sums
}

func newScenarioTree(t *testing.T) *Tree[int, float64] {
	t.Helper()

	tree := New[int, float64]()
	for _, k := range scenarioKeys {
		require.NoError(t, tree.Insert(k, testBase100))
	}

	return tree
}

// TestNew verifies empty tree creation.
func TestNew(t *testing.T) {
	t.Parallel()

	tree := New[int, string]()
	require.NotNil(t, tree)
	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, emptyHeight, tree.Height())

	_, _, ok := tree.Min()
	assert.False(t, ok)
}

// TestInsert_ScenarioShape verifies the seven-key insert produces a balanced tree rooted at 5.
func TestInsert_ScenarioShape(t *testing.T) {
	t.Parallel()

	tree := newScenarioTree(t)

	assert.Equal(t, len(scenarioKeys), checkInvariants(t, tree))
	assert.Equal(t, testRootKey, tree.root.key)
	assert.Equal(t, testBalancedH, tree.Height())

	_, ok := tree.Find(testKeyAbsent)
	assert.False(t, ok)

	for _, k := range scenarioKeys {
		v, found := tree.Find(k)
		assert.True(t, found)
		assert.InDelta(t, testBase100, v, testDelta)
	}
}

// TestInsert_Duplicate verifies a duplicate insert is a reported no-op.
func TestInsert_Duplicate(t *testing.T) {
	t.Parallel()

	tree := New[int, string]()
	require.NoError(t, tree.Insert(1, "first"))

	err := tree.Insert(1, "second")
	require.ErrorIs(t, err, ErrKeyExists)

	v, ok := tree.Find(1)
	require.True(t, ok)
	assert.Equal(t, "first", v)
	assert.Equal(t, 1, tree.Len())
}

// TestInsert_SequentialStaysBalanced verifies ascending inserts trigger rotations.
func TestInsert_SequentialStaysBalanced(t *testing.T) {
	t.Parallel()

	tree := New[int, int]()
	for i := range testManyKeys {
		require.NoError(t, tree.Insert(i, i))
	}

	checkInvariants(t, tree)
	// AVL height bound: 1.44 * log2(1000) < 15.
	assert.Less(t, tree.Height(), 15)
}

// TestRemove_Cases verifies leaf, single-child, and two-children removal.
func TestRemove_Cases(t *testing.T) {
	t.Parallel()

	tree := newScenarioTree(t)

	require.NoError(t, tree.Remove(1)) // Leaf.
	require.NoError(t, tree.Remove(3)) // One child (4).
	require.NoError(t, tree.Remove(5)) // Two children, root.
	require.ErrorIs(t, tree.Remove(5), ErrKeyNotFound)

	checkInvariants(t, tree)

	var keys []int

	tree.Ascend(func(k int, _ float64) bool {
		keys = append(keys, k)

		return true
	})

	assert.Equal(t, []int{4, 7, 8, 9}, keys)
}

// TestRemove_Absent verifies removing a missing key leaves the tree intact.
func TestRemove_Absent(t *testing.T) {
	t.Parallel()

	tree := newScenarioTree(t)
	tree.RangeAdd(3, 8, testPrize10)

	before := pathSums(tree.root)

	require.ErrorIs(t, tree.Remove(testKeyAbsent), ErrKeyNotFound)
	assert.Equal(t, len(scenarioKeys), tree.Len())
	assert.Equal(t, before, pathSums(tree.root))
}

// TestMin_TracksInsertAndRemove verifies the cached minimum.
func TestMin_TracksInsertAndRemove(t *testing.T) {
	t.Parallel()

	tree := New[int, string]()
	require.NoError(t, tree.Insert(10, "ten"))
	require.NoError(t, tree.Insert(20, "twenty"))

	k, v, ok := tree.Min()
	require.True(t, ok)
	assert.Equal(t, 10, k)
	assert.Equal(t, "ten", v)

	require.NoError(t, tree.Insert(5, "five"))

	k, _, _ = tree.Min()
	assert.Equal(t, 5, k)

	require.NoError(t, tree.Remove(5))

	k, v, _ = tree.Min()
	assert.Equal(t, 10, k)
	assert.Equal(t, "ten", v)

	require.NoError(t, tree.Remove(20))
	require.NoError(t, tree.Remove(10))

	_, _, ok = tree.Min()
	assert.False(t, ok)
}

// TestClear verifies clear empties the tree.
func TestClear(t *testing.T) {
	t.Parallel()

	tree := newScenarioTree(t)
	tree.Clear()

	assert.Equal(t, 0, tree.Len())
	assert.Nil(t, tree.root)

	_, _, ok := tree.Min()
	assert.False(t, ok)
}

// TestAscend_StopsEarly verifies in-order iteration and early exit.
func TestAscend_StopsEarly(t *testing.T) {
	t.Parallel()

	tree := newScenarioTree(t)

	var keys []int

	tree.Ascend(func(k int, _ float64) bool {
		keys = append(keys, k)

		return k < 4
	})

	assert.Equal(t, []int{1, 3, 4}, keys)
}

// TestRehome verifies every pair lands in the bucket chosen by the hash.
func TestRehome(t *testing.T) {
	t.Parallel()

	tree := newScenarioTree(t)
	tree.RangeAdd(1, 9, testPrize10)

	dst := make([]*Tree[int, float64], testBucketMod)
	for i := range dst {
		dst[i] = New[int, float64]()
	}

	tree.Rehome(dst, func(k int) int { return k % testBucketMod })

	total := 0

	for i, bucket := range dst {
		total += checkInvariants(t, bucket)

		bucket.Ascend(func(k int, _ float64) bool {
			assert.Equal(t, i, k%testBucketMod)

			adj, ok := bucket.Adjustment(k)
			assert.True(t, ok)
			assert.InDelta(t, 0, adj, testDelta)

			return true
		})
	}

	assert.Equal(t, len(scenarioKeys), total)
	assert.Equal(t, len(scenarioKeys), tree.Len())
}

// TestReset verifies the side effect visits values in order and adjustments clear.
func TestReset(t *testing.T) {
	t.Parallel()

	tree := New[int, *float64]()

	for _, k := range scenarioKeys {
		v := float64(k)
		require.NoError(t, tree.Insert(k, &v))
	}

	tree.RangeAdd(1, 9, testPrize10)

	var visited []float64

	tree.Reset(func(v *float64) {
		visited = append(visited, *v)
		*v = 0
	})

	assert.Equal(t, []float64{1, 3, 4, 5, 7, 8, 9}, visited)

	for _, k := range scenarioKeys {
		adj, ok := tree.Adjustment(k)
		require.True(t, ok)
		assert.InDelta(t, 0, adj, testDelta)

		v, _ := tree.Find(k)
		assert.InDelta(t, 0, *v, testDelta)
	}

	tree.Reset(nil)
	checkInvariants(t, tree)
}

// TestRemove_ManyKeepsInvariants verifies bulk removal keeps the tree balanced.
func TestRemove_ManyKeepsInvariants(t *testing.T) {
	t.Parallel()

	tree := New[int, int]()
	for i := range testManyKeys {
		require.NoError(t, tree.Insert(i, i))
	}

	for i := 0; i < testManyKeys; i += 2 {
		require.NoError(t, tree.Remove(i))
	}

	assert.Equal(t, testRemoveHalf, checkInvariants(t, tree))

	k, _, ok := tree.Min()
	require.True(t, ok)
	assert.Equal(t, 1, k)
}
