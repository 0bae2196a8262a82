package compiler

import "github.com/dolthub/swiss"

// interner deduplicates the names and string contents EncodeBinary writes
// out (Call/Capture callee names, LoadString payloads). The wire format
// itself re-emits every occurrence in full — spec.md §6 says the VM does
// its own interning on load, there is no shared constant pool on disk — so
// this only saves the encoder redundant length computation for a name seen
// more than once within a single Program, backed by the same swiss-table
// implementation the rest of the corpus uses for its hot lookup maps.
type interner struct {
	sizes *swiss.Map[string, int]
}

func newInterner() *interner {
	return &interner{sizes: swiss.NewMap[string, int](uint32(8))}
}

// size returns len(s), memoized.
func (in *interner) size(s string) int {
	if n, ok := in.sizes.Get(s); ok {
		return n
	}
	n := len(s)
	in.sizes.Put(s, n)
	return n
}
