// Package iter composes per-source iterators (one memtable, one SST) into
// the single merged, bounded, ordered stream returned by a scan.
package iter

import "lsmkv/kv"

// StorageIterator is implemented by every stage of the iterator tower:
// block, memtable, SST, and the merge/bounded combinators built on top of
// them. Peek must be idempotent; Next must advance exactly once per call.
type StorageIterator interface {
	// Peek returns the current entry without advancing, or false if the
	// iterator is exhausted.
	Peek() (kv.Pair, bool)
	// Next returns the current entry and advances to the next one.
	Next() (kv.Pair, bool)
	// Valid reports whether the iterator is still able to produce entries.
	// An iterator that hit an I/O error reports false here even if Peek
	// still holds a stale cached entry (see block-load error handling in
	// table.Iterator).
	Valid() bool
}

// Bound mirrors the three ways a scan endpoint can be expressed.
type BoundKind int

const (
	Unbounded BoundKind = iota
	Included
	Excluded
)

// Bound is one endpoint of a scan range.
type Bound struct {
	Kind BoundKind
	Key  []byte
}

func IncludedBound(key []byte) Bound { return Bound{Kind: Included, Key: key} }
func ExcludedBound(key []byte) Bound { return Bound{Kind: Excluded, Key: key} }
func UnboundedBound() Bound          { return Bound{Kind: Unbounded} }
