package table

import (
	"encoding/binary"

	"lsmkv/block"
	"lsmkv/bloomfilter"
)

// Builder streams sorted entries into a sequence of data blocks and, on
// Build, assembles the full byte-exact SST file image.
type Builder struct {
	blockBuilder    *block.Builder
	blockMetaList   []block.Metadata
	blockSize       int
	blockData       []byte
	metaBlockOffset uint32
	firstKey        []byte
	lastKey         []byte
	allKeyHashes    []uint64
}

// NewBuilder returns a builder targeting the given data block size.
func NewBuilder(blockSize int) *Builder {
	return &Builder{
		blockBuilder: block.NewBuilder(blockSize),
		blockSize:    blockSize,
	}
}

// Add appends one entry in ascending key order, finalizing the current
// block first if the entry would overflow it.
func (b *Builder) Add(key, value []byte) error {
	if !b.blockBuilder.IsEmpty() && b.blockBuilder.ProjectedSize(key, value) > b.blockSize {
		b.finalizeBlock()
	}
	if b.blockBuilder.IsEmpty() {
		b.firstKey = append([]byte(nil), key...)
	}
	b.lastKey = append([]byte(nil), key...)
	b.allKeyHashes = append(b.allKeyHashes, bloomfilter.HashKey(key))

	if err := b.blockBuilder.Add(key, value); err != nil {
		return err
	}
	return nil
}

// finalizeBlock closes out the in-progress block: records its metadata
// record, appends its encoding to the data buffer, and opens a fresh
// builder for the next block.
func (b *Builder) finalizeBlock() {
	meta := block.Metadata{
		Offset:   b.metaBlockOffset,
		FirstKey: b.firstKey,
		LastKey:  b.lastKey,
	}
	b.blockMetaList = append(b.blockMetaList, meta)

	built := b.blockBuilder.Build()
	b.blockData = append(b.blockData, built.Encode()...)
	b.metaBlockOffset = uint32(len(b.blockData))
	b.blockBuilder = block.NewBuilder(b.blockSize)
}

// Build finalizes the last block, assembles the data/meta/bloom regions,
// writes the file, and returns an open SST handle.
func (b *Builder) Build(id uint64, path string, cache *Cache) (*SST, error) {
	if !b.blockBuilder.IsEmpty() {
		b.finalizeBlock()
	}

	buffer := append([]byte(nil), b.blockData...)

	metaBlockOffset := uint32(len(buffer))
	for _, meta := range b.blockMetaList {
		buffer = append(buffer, meta.Encode()...)
	}
	buffer = binary.BigEndian.AppendUint32(buffer, metaBlockOffset)

	bloom := bloomfilter.Build(b.allKeyHashes, bloomfilter.BitsPerKey())
	bloomFilterOffset := uint32(len(buffer))
	buffer = append(buffer, bloom.Encode()...)
	buffer = binary.BigEndian.AppendUint32(buffer, bloomFilterOffset)

	f, err := CreateFile(path, buffer)
	if err != nil {
		return nil, err
	}

	return newSST(id, f, b.blockMetaList, metaBlockOffset, bloom, cache), nil
}
