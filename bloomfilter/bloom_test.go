package bloomfilter

import "testing"

// TestSizingScenario6 pins scenario 6: a filter built for
// ("hello","world") must have m=24 bits and k=8, and must accept both keys
// while rejecting "not here".
func TestSizingScenario6(t *testing.T) {
	hashes := []uint64{HashKey([]byte("hello")), HashKey([]byte("world"))}
	bitsPerKey := BitsPerKey()

	f := Build(hashes, bitsPerKey)

	if got := int(f.bits.Len()); got != 24 {
		t.Fatalf("m = %d, want 24", got)
	}
	if f.k != 8 {
		t.Fatalf("k = %d, want 8", f.k)
	}

	if !f.MaybeContains(HashKey([]byte("hello"))) {
		t.Fatalf("expected hello to be present")
	}
	if !f.MaybeContains(HashKey([]byte("world"))) {
		t.Fatalf("expected world to be present")
	}
	if f.MaybeContains(HashKey([]byte("not here"))) {
		t.Fatalf("did not expect 'not here' to be present")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	hashes := []uint64{HashKey([]byte("a")), HashKey([]byte("b")), HashKey([]byte("c"))}
	f := Build(hashes, BitsPerKey())

	encoded := f.Encode()
	decoded := Decode(encoded)

	for _, h := range hashes {
		if !decoded.MaybeContains(h) {
			t.Fatalf("decoded filter lost membership for hash %d", h)
		}
	}
	if decoded.k != f.k {
		t.Fatalf("k mismatch after round trip: %d != %d", decoded.k, f.k)
	}
}
