package block

import (
	"encoding/binary"
	"errors"

	"lsmkv/kv"
)

// ErrBlockFull is returned by Builder.Add when adding an entry would push
// the block's projected encoded size above its target.
var ErrBlockFull = errors.New("block: max block size reached")

// Builder accumulates entries, in strictly ascending key order, into one
// data block. The first entry is always accepted regardless of size.
type Builder struct {
	data          []byte
	offsets       []uint16
	currentOffset uint16
	targetSize    int
	firstKey      []byte
}

// NewBuilder returns a builder targeting the given encoded block size.
func NewBuilder(targetSize int) *Builder {
	return &Builder{targetSize: targetSize}
}

// IsEmpty reports whether any entry has been added yet.
func (b *Builder) IsEmpty() bool {
	return len(b.data) == 0
}

// Size returns the block's current serialized size in bytes.
func (b *Builder) Size() int {
	return len(b.data) + 2*len(b.offsets) + 2
}

// ProjectedSize returns the serialized size if key/value were added next:
// the first entry pays 2+keyLen+2+valLen+2; every later entry pays the
// prefix-compression header worst case, 4+keyLen+2+valLen+2 (full key
// length is charged to rest_len for budgeting even though the real
// encoding may compress it).
func (b *Builder) ProjectedSize(key, value []byte) int {
	if b.IsEmpty() {
		return 2 + len(key) + 2 + len(value) + 2
	}
	return b.Size() + 4 + len(key) + 2 + len(value) + 2
}

// Add appends key/value in key order. The first entry is always accepted;
// later entries are rejected with ErrBlockFull if they would overflow the
// builder's target size.
func (b *Builder) Add(key, value []byte) error {
	if err := kv.CheckSize(key, value); err != nil {
		return err
	}
	if !b.IsEmpty() && b.ProjectedSize(key, value) > b.targetSize {
		return ErrBlockFull
	}

	if b.IsEmpty() {
		b.firstKey = append([]byte(nil), key...)
		b.appendEntry(uint16(len(key)), key, value)
	} else {
		overlap := commonPrefixLen(b.firstKey, key)
		rest := key[overlap:]
		b.data = binary.BigEndian.AppendUint16(b.data, uint16(overlap))
		b.appendEntry(uint16(len(rest)), rest, value)
	}
	return nil
}

// appendEntry writes the rest_len|rest_bytes|value_len|value_bytes tail
// shared by both the first-entry and later-entry encodings, recording the
// entry's offset first.
func (b *Builder) appendEntry(restLen uint16, rest, value []byte) {
	b.offsets = append(b.offsets, b.currentOffset)
	b.data = binary.BigEndian.AppendUint16(b.data, restLen)
	b.data = append(b.data, rest...)
	b.data = binary.BigEndian.AppendUint16(b.data, uint16(len(value)))
	b.data = append(b.data, value...)
	b.currentOffset = uint16(len(b.data))
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// Build consumes the builder and yields an immutable Block.
func (b *Builder) Build() *Block {
	return New(b.data, b.offsets, b.currentOffset)
}
