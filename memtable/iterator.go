package memtable

import (
	"bytes"

	"lsmkv/iter"
	"lsmkv/kv"
)

// Iterator is a bounded ordered scan over a memtable snapshot: it copies
// out the matching key-value pairs once at construction time, since the
// underlying skip list is not itself a positioned cursor.
type Iterator struct {
	entries []kv.Pair
	pos     int
}

// NewIterator builds an iterator over every entry in m whose key falls
// within lower and upper, each bound included, excluded or unbounded per
// its Kind.
func NewIterator(m *Memtable, lower, upper iter.Bound) *Iterator {
	var entries []kv.Pair
	for _, rec := range m.Entries() {
		key := []byte(rec.Key)
		if !withinLower(key, lower) || !withinUpper(key, upper) {
			continue
		}
		entries = append(entries, kv.Pair{Key: kv.NewTimestampedKey(key), Value: rec.Value})
	}
	return &Iterator{entries: entries}
}

func withinLower(key []byte, lower iter.Bound) bool {
	switch lower.Kind {
	case iter.Included:
		return bytes.Compare(key, lower.Key) >= 0
	case iter.Excluded:
		return bytes.Compare(key, lower.Key) > 0
	default:
		return true
	}
}

func withinUpper(key []byte, upper iter.Bound) bool {
	switch upper.Kind {
	case iter.Included:
		return bytes.Compare(key, upper.Key) <= 0
	case iter.Excluded:
		return bytes.Compare(key, upper.Key) < 0
	default:
		return true
	}
}

// Peek returns the current entry without advancing.
func (it *Iterator) Peek() (kv.Pair, bool) {
	if it.pos >= len(it.entries) {
		return kv.Pair{}, false
	}
	return it.entries[it.pos], true
}

// Next returns the current entry and advances.
func (it *Iterator) Next() (kv.Pair, bool) {
	entry, ok := it.Peek()
	if ok {
		it.pos++
	}
	return entry, ok
}

// Valid always reports true: a memtable snapshot, once copied out, cannot
// fail to produce further entries.
func (it *Iterator) Valid() bool {
	return true
}
