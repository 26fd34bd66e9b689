package block

import (
	"encoding/binary"
	"sort"

	"lsmkv/kv"
)

// Iterator positions within a single Block by offset-array index plus a
// cached parsed current entry.
type Iterator struct {
	block    *Block
	index    int
	current  kv.Pair
	haveCur  bool
	firstKey []byte
}

// CreateAndSeekToFirst builds an iterator positioned at the block's first
// entry.
func CreateAndSeekToFirst(b *Block) *Iterator {
	it := &Iterator{block: b, firstKey: firstKeyOf(b)}
	it.current, it.haveCur = it.parseCurrent()
	return it
}

// CreateAndSeekToKey builds an iterator positioned at the first entry whose
// key is >= key.
func CreateAndSeekToKey(b *Block, key []byte) *Iterator {
	it := &Iterator{block: b, firstKey: firstKeyOf(b)}
	it.SeekToKey(key)
	return it
}

func firstKeyOf(b *Block) []byte {
	if len(b.offsets) == 0 {
		return nil
	}
	it := &Iterator{block: b}
	entry, ok := it.parseCurrent()
	if !ok {
		return nil
	}
	return entry.Key.Key()
}

// SeekToFirst resets the cursor to index 0.
func (it *Iterator) SeekToFirst() {
	it.index = 0
	it.current, it.haveCur = it.parseCurrent()
}

// SeekToKey binary-searches for the first entry whose reconstructed key is
// >= key; ties land on the exact match. If no such entry exists, the
// cursor advances one past the last index and subsequent Next calls yield
// nothing.
func (it *Iterator) SeekToKey(key []byte) {
	n := it.block.NumEntries()
	idx := sort.Search(n, func(i int) bool {
		it.index = i
		entry, _ := it.parseCurrent()
		return bytesCompare(entry.Key.Key(), key) >= 0
	})
	it.index = idx
	it.current, it.haveCur = it.parseCurrent()
}

func bytesCompare(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// parseCurrent decodes the entry at it.index, or reports false if index is
// out of range.
func (it *Iterator) parseCurrent() (kv.Pair, bool) {
	if it.index >= it.block.NumEntries() {
		return kv.Pair{}, false
	}
	offset := it.block.offsets[it.index]
	data := it.block.data

	var keyBytes, valueBytes []byte
	if it.index == 0 {
		keyContentsOffset := int(offset) + 2
		keyLen := int(binary.BigEndian.Uint16(data[offset:keyContentsOffset]))
		keyBytes = data[keyContentsOffset : keyContentsOffset+keyLen]
		valueLenOffset := keyContentsOffset + keyLen
		valueLen := int(binary.BigEndian.Uint16(data[valueLenOffset : valueLenOffset+2]))
		valueBytes = data[valueLenOffset+2 : valueLenOffset+2+valueLen]
	} else {
		overlapLen := int(binary.BigEndian.Uint16(data[offset : int(offset)+2]))
		restLenOffset := int(offset) + 2
		restLen := int(binary.BigEndian.Uint16(data[restLenOffset : restLenOffset+2]))
		restOffset := restLenOffset + 2
		rest := data[restOffset : restOffset+restLen]
		keyBytes = append(append([]byte(nil), it.firstKey[:overlapLen]...), rest...)
		valueLenOffset := restOffset + restLen
		valueLen := int(binary.BigEndian.Uint16(data[valueLenOffset : valueLenOffset+2]))
		valueBytes = data[valueLenOffset+2 : valueLenOffset+2+valueLen]
	}

	return kv.Pair{Key: kv.NewTimestampedKey(keyBytes), Value: valueBytes}, true
}

// Peek returns the current entry without advancing.
func (it *Iterator) Peek() (kv.Pair, bool) {
	return it.current, it.haveCur
}

// Next returns the current entry and advances.
func (it *Iterator) Next() (kv.Pair, bool) {
	res, ok := it.current, it.haveCur
	if !ok {
		return kv.Pair{}, false
	}
	it.index++
	it.current, it.haveCur = it.parseCurrent()
	return res, true
}

// Valid always reports true: a block, once loaded into memory, cannot fail
// to decode further entries.
func (it *Iterator) Valid() bool {
	return true
}
