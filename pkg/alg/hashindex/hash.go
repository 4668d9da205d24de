package hashindex

import "github.com/Sumatoshi-tech/recordstore/pkg/alg/internal/hashutil"

// HashInt hashes integer keys with the splitmix64 step.
func HashInt(key int) uint64 {
	return hashutil.Splitmix64(uint64(key)) //nolint:gosec // bit reinterpretation.
}

// HashString hashes string keys with mixed FNV-1a.
func HashString(key string) uint64 {
	return hashutil.Bytes([]byte(key))
}
