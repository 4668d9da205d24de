// Package hashutil provides the 64-bit hash mixing shared by the bucketed
// indexes under pkg/alg.
//
// Integer keys go through the splitmix64 step by Vigna (2014), byte keys
// through FNV-1a followed by the same finalizer.
package hashutil

import "hash/fnv"

// Splitmix64 constants.
const (
	// MixShift1 is the first right-shift in the finalizer.
	MixShift1 = 30

	// MixMul1 is the first multiplier in the finalizer.
	MixMul1 = 0xbf58476d1ce4e5b9

	// MixShift2 is the second right-shift in the finalizer.
	MixShift2 = 27

	// MixMul2 is the second multiplier in the finalizer.
	MixMul2 = 0x94d049bb133111eb

	// MixShift3 is the third right-shift in the finalizer.
	MixShift3 = 31

	// splitmix64Increment is the golden-ratio increment of the state step.
	splitmix64Increment = 0x9e3779b97f4a7c15
)

// Mix64 applies the splitmix64 finalizer. Zero is a fixed point.
func Mix64(v uint64) uint64 {
	v ^= v >> MixShift1
	v *= MixMul1
	v ^= v >> MixShift2
	v *= MixMul2
	v ^= v >> MixShift3

	return v
}

// Splitmix64 advances state by the golden-ratio increment and mixes it.
// Unlike Mix64 it has no fixed point at zero, so it suits small dense keys.
func Splitmix64(state uint64) uint64 {
	return Mix64(state + splitmix64Increment)
}

// Bytes hashes data with FNV-1a and mixes the result.
func Bytes(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)

	return Mix64(h.Sum64())
}
