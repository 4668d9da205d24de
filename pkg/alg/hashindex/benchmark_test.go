package hashindex

import "testing"

const benchKeys = 100000

// BenchmarkInsert benchmarks inserting dense integer keys with growth.
func BenchmarkInsert(b *testing.B) {
	for range b.N {
		ix := New[int, int](HashInt)
		for i := range benchKeys {
			_ = ix.Insert(i, i)
		}
	}
}

// BenchmarkFind benchmarks lookups in a populated index.
func BenchmarkFind(b *testing.B) {
	ix := New[int, int](HashInt)
	for i := range benchKeys {
		_ = ix.Insert(i, i)
	}

	b.ResetTimer()

	for i := range b.N {
		_, _ = ix.Find(i % benchKeys)
	}
}
