package hashutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test constants.
const (
	testInput   = uint64(0x12345678)
	testSpread  = 1024
	testBuckets = 16
)

func TestMix64_Deterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Mix64(testInput), Mix64(testInput))
	assert.NotEqual(t, Mix64(1), Mix64(2))
}

func TestMix64_ZeroFixedPoint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(0), Mix64(0))
}

func TestSplitmix64_NoZeroFixedPoint(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, uint64(0), Splitmix64(0))
	assert.NotEqual(t, Mix64(testInput), Splitmix64(testInput))
}

// TestSplitmix64_SpreadsDenseKeys verifies consecutive keys fill every bucket.
func TestSplitmix64_SpreadsDenseKeys(t *testing.T) {
	t.Parallel()

	var counts [testBuckets]int

	for i := range uint64(testSpread) {
		counts[Splitmix64(i)%testBuckets]++
	}

	for b, c := range counts {
		assert.Positive(t, c, "bucket %d empty", b)
	}
}

func TestBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Bytes([]byte("record")), Bytes([]byte("record")))
	assert.NotEqual(t, Bytes([]byte("record")), Bytes([]byte("records")))
}
