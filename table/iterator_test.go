package table

import (
	"testing"
)

func TestCreateAndSeekToFirst(t *testing.T) {
	sst, _ := buildTestSST(t, 25, nil)
	it, err := CreateAndSeekToFirst(sst)
	if err != nil {
		t.Fatalf("seek to first: %v", err)
	}

	want := []string{"k1", "k2", "k3"}
	for i, k := range want {
		entry, ok := it.Next()
		if !ok {
			t.Fatalf("entry %d: expected ok", i)
		}
		if string(entry.Key.Key()) != k {
			t.Fatalf("entry %d key = %s, want %s", i, entry.Key.Key(), k)
		}
	}
	if !it.Valid() {
		t.Fatalf("expected iterator to remain valid after full scan")
	}
	if _, ok := it.Next(); ok {
		t.Fatalf("expected exhaustion after three entries")
	}
}

func TestCreateAndSeekToKey(t *testing.T) {
	sst, _ := buildTestSST(t, 25, nil)
	it, err := CreateAndSeekToKey(sst, []byte("k3"))
	if err != nil {
		t.Fatalf("seek to key: %v", err)
	}
	entry, ok := it.Peek()
	if !ok {
		t.Fatalf("expected a match for k3")
	}
	if string(entry.Key.Key()) != "k3" {
		t.Fatalf("peeked key = %s, want k3", entry.Key.Key())
	}
}
