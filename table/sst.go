// Package table implements the sorted-string-table (SST): an immutable,
// on-disk run of sorted key-value entries with a block index and a bloom
// filter
package table

import (
	"bytes"
	"encoding/binary"

	"lsmkv/block"
	"lsmkv/bloomfilter"
)

// SST is a typed, read-only view over one immutable sorted file.
type SST struct {
	id              uint64
	file            *File
	metaBlocks      []block.Metadata
	metaBlockOffset uint32
	bloom           *bloomfilter.Filter
	cache           *Cache
}

// newSST assembles an SST handle from its already-decoded parts; shared by
// Open and Builder.Build.
func newSST(id uint64, file *File, metaBlocks []block.Metadata, metaBlockOffset uint32, bloom *bloomfilter.Filter, cache *Cache) *SST {
	return &SST{id: id, file: file, metaBlocks: metaBlocks, metaBlockOffset: metaBlockOffset, bloom: bloom, cache: cache}
}

// Open reads an existing SST file from path: trailing bloom_filter_offset,
// then bloom region, then meta_block_offset, then meta region, then data
// region.
func Open(id uint64, path string, cache *Cache) (*SST, error) {
	f, err := OpenFile(path)
	if err != nil {
		return nil, err
	}

	size := f.Size()
	bloomOffsetBytes, err := f.ReadAt(size-4, 4)
	if err != nil {
		return nil, err
	}
	bloomFilterOffset := binary.BigEndian.Uint32(bloomOffsetBytes)

	bloomRegion, err := f.ReadAt(int64(bloomFilterOffset), size-4-int64(bloomFilterOffset))
	if err != nil {
		return nil, err
	}
	bloom := bloomfilter.Decode(bloomRegion)

	metaOffsetBytes, err := f.ReadAt(int64(bloomFilterOffset)-4, 4)
	if err != nil {
		return nil, err
	}
	metaBlockOffset := binary.BigEndian.Uint32(metaOffsetBytes)

	metaRegion, err := f.ReadAt(int64(metaBlockOffset), int64(bloomFilterOffset)-4-int64(metaBlockOffset))
	if err != nil {
		return nil, err
	}
	metaBlocks := block.DecodeMetadataList(metaRegion)

	return newSST(id, f, metaBlocks, metaBlockOffset, bloom, cache), nil
}

// ID returns the SST's identity (also its filename stem).
func (s *SST) ID() uint64 {
	return s.id
}

// FirstKey returns the smallest key in the SST.
func (s *SST) FirstKey() []byte {
	return s.metaBlocks[0].FirstKey
}

// LastKey returns the largest key in the SST.
func (s *SST) LastKey() []byte {
	return s.metaBlocks[len(s.metaBlocks)-1].LastKey
}

// MaybeContain reports whether key might be present: it must pass the bloom
// test AND fall within [FirstKey, LastKey].
func (s *SST) MaybeContain(key []byte) bool {
	if bytes.Compare(key, s.FirstKey()) < 0 || bytes.Compare(key, s.LastKey()) > 0 {
		return false
	}
	return s.bloom.MaybeContains(bloomfilter.HashKey(key))
}

// NumBlocks returns the number of data blocks in the SST.
func (s *SST) NumBlocks() int {
	return len(s.metaBlocks)
}

// ReadBlock decodes block i directly from disk, bypassing the cache.
func (s *SST) ReadBlock(i int) (*block.Block, error) {
	offset := s.metaBlocks[i].Offset
	nextOffset := s.metaBlockOffset
	if i+1 < len(s.metaBlocks) {
		nextOffset = s.metaBlocks[i+1].Offset
	}
	raw, err := s.file.ReadAt(int64(offset), int64(nextOffset-offset))
	if err != nil {
		return nil, err
	}
	return block.Decode(raw), nil
}

// ReadBlockCached reads block i through the shared block cache if one is
// configured, deduplicating concurrent loads; otherwise it defers to
// ReadBlock.
func (s *SST) ReadBlockCached(i int) (*block.Block, error) {
	if s.cache == nil {
		return s.ReadBlock(i)
	}
	return s.cache.GetOrLoad(s.id, i, func() (*block.Block, error) {
		return s.ReadBlock(i)
	})
}

// BlockIndexForKey binary-searches for the largest index i such that
// metaBlocks[i].FirstKey <= key. May return the last index when key exceeds
// the SST's last key; callers filter with MaybeContain first.
func (s *SST) BlockIndexForKey(key []byte) int {
	lo, hi := 0, len(s.metaBlocks)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if bytes.Compare(s.metaBlocks[mid].FirstKey, key) <= 0 {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Close releases the underlying file handle.
func (s *SST) Close() error {
	return s.file.Close()
}
