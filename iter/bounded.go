package iter

import "lsmkv/kv"

// BoundedIterator wraps a sub-iterator with an upper bound. Once the
// sub-iterator's current key crosses the bound, the bounded iterator
// reports empty even though the sub-iterator may still have entries.
type BoundedIterator struct {
	sub   StorageIterator
	upper Bound
}

// NewBoundedIterator wraps sub with the given upper bound.
func NewBoundedIterator(sub StorageIterator, upper Bound) *BoundedIterator {
	return &BoundedIterator{sub: sub, upper: upper}
}

func (b *BoundedIterator) withinBound(entry kv.Pair) bool {
	switch b.upper.Kind {
	case Included:
		return entry.Key.Compare(kv.NewTimestampedKey(b.upper.Key)) <= 0
	case Excluded:
		return entry.Key.Compare(kv.NewTimestampedKey(b.upper.Key)) < 0
	default:
		return true
	}
}

func (b *BoundedIterator) Peek() (kv.Pair, bool) {
	entry, ok := b.sub.Peek()
	if !ok || !b.withinBound(entry) {
		return kv.Pair{}, false
	}
	return entry, true
}

func (b *BoundedIterator) Next() (kv.Pair, bool) {
	entry, ok := b.sub.Peek()
	if !ok || !b.withinBound(entry) {
		return kv.Pair{}, false
	}
	return b.sub.Next()
}

func (b *BoundedIterator) Valid() bool {
	return b.sub.Valid()
}
