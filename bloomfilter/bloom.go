// Package bloomfilter implements the Kirsch-Mitzenmacher double-hashing
// bloom filter used to skip SSTs that cannot contain a probed key.
package bloomfilter

import (
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/zeebo/xxh3"
)

// targetFalsePositiveRate is the fixed design point these filters size for.
const targetFalsePositiveRate = 0.01

// BitsPerKey returns the number of filter bits to budget per expected key:
// ceil(-ln(p) / ln(2)^2), independent of n.
func BitsPerKey() int {
	return int(math.Ceil(-math.Log(targetFalsePositiveRate) / (math.Ln2 * math.Ln2)))
}

// Filter is an immutable, byte-exact-encodable bloom filter over a fixed set
// of key hashes.
type Filter struct {
	bits *bitset.BitSet
	k    uint8
}

// Build constructs a filter over keyHashes (one 64-bit xxh3 hash per key),
// sizing the bit array to bitsPerKey*len(keyHashes) bits rounded up to a
// multiple of 8, and choosing k = round((m/n) * ln2)
func Build(keyHashes []uint64, bitsPerKey int) *Filter {
	n := len(keyHashes)
	if bitsPerKey < 0 {
		bitsPerKey = 0
	}

	m := bitsPerKey * n
	if m < 8 {
		m = 8
	}
	m = int(math.Ceil(float64(m)/8)) * 8

	k := 1
	if n > 0 {
		k = int(math.Round(float64(m) / float64(n) * math.Ln2))
		if k < 1 {
			k = 1
		}
	}
	if k > 30 {
		k = 30
	}

	bits := bitset.New(uint(m))
	for _, h := range keyHashes {
		setBits(bits, h, uint(m), k)
	}
	return &Filter{bits: bits, k: uint8(k)}
}

// setBits sets the k index positions derived from hash h within an m-bit
// array via h_i = h1 + i*h2, with wrapping 32-bit addition
func setBits(bits *bitset.BitSet, h uint64, m uint, k int) {
	h1 := uint32(h >> 32)
	h2 := uint32(h)
	for i := 0; i < k; i++ {
		hi := h1 + uint32(i)*h2
		bits.Set(uint(hi) % m)
	}
}

// HashKey computes the 64-bit xxh3 hash of raw key bytes.
func HashKey(key []byte) uint64 {
	return xxh3.Hash(key)
}

// MaybeContains reports whether the key hash may be present. False means
// definitely absent; true may be a false positive.
func (f *Filter) MaybeContains(h uint64) bool {
	m := uint(f.bits.Len())
	if m == 0 {
		return false
	}
	h1 := uint32(h >> 32)
	h2 := uint32(h)
	for i := 0; i < int(f.k); i++ {
		hi := h1 + uint32(i)*h2
		if !f.bits.Test(uint(hi) % m) {
			return false
		}
	}
	return true
}

// Encode serializes the filter: little-endian packed bytes of
// the bit array (bit i lives in byte i/8, bit i%8, least-significant first)
// followed by one trailing byte holding k.
func (f *Filter) Encode() []byte {
	m := f.bits.Len()
	nbytes := (m + 7) / 8
	out := make([]byte, nbytes+1)
	for i := uint(0); i < m; i++ {
		if f.bits.Test(i) {
			out[i/8] |= 1 << (i % 8)
		}
	}
	out[nbytes] = byte(f.k)
	return out
}

// Decode is the inverse of Encode.
func Decode(encoded []byte) *Filter {
	k := encoded[len(encoded)-1]
	bitBytes := encoded[:len(encoded)-1]
	m := uint(len(bitBytes)) * 8
	bits := bitset.New(m)
	for i := uint(0); i < m; i++ {
		if bitBytes[i/8]&(1<<(i%8)) != 0 {
			bits.Set(i)
		}
	}
	return &Filter{bits: bits, k: k}
}
