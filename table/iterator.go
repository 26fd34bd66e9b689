package table

import (
	"bytes"

	"lsmkv/block"
	"lsmkv/kv"
)

// Iterator walks one SST in key order, crossing block boundaries as
// needed
type Iterator struct {
	sst         *SST
	blockIndex  int
	blockIter   *block.Iterator
	current     kv.Pair
	haveCurrent bool
	valid       bool
}

// CreateAndSeekToFirst loads block 0 and positions at its first entry.
func CreateAndSeekToFirst(sst *SST) (*Iterator, error) {
	b, err := sst.ReadBlockCached(0)
	if err != nil {
		return nil, err
	}
	bi := block.CreateAndSeekToFirst(b)
	entry, ok := bi.Peek()
	return &Iterator{sst: sst, blockIndex: 0, blockIter: bi, current: entry, haveCurrent: ok, valid: true}, nil
}

// CreateAndSeekToKey locates the block that may hold key via
// BlockIndexForKey, loads it, and positions at the first entry >= key.
func CreateAndSeekToKey(sst *SST, key []byte) (*Iterator, error) {
	blockIndex := sst.BlockIndexForKey(key)
	b, err := sst.ReadBlockCached(blockIndex)
	if err != nil {
		return nil, err
	}
	bi := block.CreateAndSeekToKey(b, key)
	entry, ok := bi.Peek()
	if !ok && blockIndex+1 < sst.NumBlocks() {
		blockIndex++
		b, err = sst.ReadBlockCached(blockIndex)
		if err != nil {
			return nil, err
		}
		bi = block.CreateAndSeekToFirst(b)
		entry, ok = bi.Peek()
	}
	return &Iterator{sst: sst, blockIndex: blockIndex, blockIter: bi, current: entry, haveCurrent: ok, valid: true}, nil
}

// Peek returns the current entry without advancing.
func (it *Iterator) Peek() (kv.Pair, bool) {
	return it.current, it.haveCurrent
}

// Valid reports whether the stream is still usable; it is latched false
// after an I/O error while crossing into a new block.
func (it *Iterator) Valid() bool {
	return it.valid
}

// Next returns the cached current entry, then advances: stepping within the
// current block while the current key is still strictly less than the
// block's last key, otherwise crossing into the next block. An I/O error on
// the crossing latches Valid() to false and ends the stream.
func (it *Iterator) Next() (kv.Pair, bool) {
	if !it.valid || !it.haveCurrent {
		return kv.Pair{}, false
	}
	res := it.current

	if it.blockIndex >= it.sst.NumBlocks() {
		it.haveCurrent = false
		return res, true
	}

	lastKey := it.sst.metaBlocks[it.blockIndex].LastKey
	if bytes.Compare(res.Key.Key(), lastKey) < 0 {
		it.blockIter.Next()
		it.current, it.haveCurrent = it.blockIter.Peek()
		return res, true
	}

	it.blockIndex++
	if it.blockIndex >= it.sst.NumBlocks() {
		it.haveCurrent = false
		return res, true
	}

	nextBlock, err := it.sst.ReadBlockCached(it.blockIndex)
	if err != nil {
		it.valid = false
		it.haveCurrent = false
		return res, true
	}
	it.blockIter = block.CreateAndSeekToFirst(nextBlock)
	it.current, it.haveCurrent = it.blockIter.Peek()
	return res, true
}
