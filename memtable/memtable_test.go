package memtable

import (
	"bytes"
	"testing"

	"lsmkv/iter"
)

func TestPutGet(t *testing.T) {
	m := New(0)
	m.Put([]byte("hello"), []byte("world"))

	value, ok := m.Get([]byte("hello"))
	if !ok {
		t.Fatalf("expected hello to be found")
	}
	if !bytes.Equal(value, []byte("world")) {
		t.Fatalf("value = %q, want world", value)
	}
}

func TestSizeBytesAccumulates(t *testing.T) {
	m := New(0)
	m.Put([]byte("hello"), []byte("world"))
	if got := m.SizeBytes(); got != 10 {
		t.Fatalf("size = %d, want 10", got)
	}
	m.Put([]byte("hi"), []byte("!"))
	if got := m.SizeBytes(); got != 13 {
		t.Fatalf("size = %d, want 13", got)
	}
}

func TestFreezeIdempotence(t *testing.T) {
	m := New(0)
	if err := m.Freeze(); err != nil {
		t.Fatalf("first freeze: %v", err)
	}
	if !m.IsFrozen() {
		t.Fatalf("expected frozen")
	}
	if err := m.Freeze(); err != ErrMemtableImmutable {
		t.Fatalf("second freeze err = %v, want ErrMemtableImmutable", err)
	}
}

func TestIteratorOrderAndBounds(t *testing.T) {
	m := New(0)
	m.Put([]byte("k1"), []byte("v1"))
	m.Put([]byte("k3"), []byte("v3"))
	m.Put([]byte("k2"), []byte("v2"))

	it := NewIterator(m, iter.UnboundedBound(), iter.UnboundedBound())
	var got []string
	for {
		entry, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, string(entry.Key.Key()))
	}
	want := []string{"k1", "k2", "k3"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestIteratorBoundedRange(t *testing.T) {
	m := New(0)
	m.Put([]byte("k1"), []byte("v1"))
	m.Put([]byte("k2"), []byte("v2"))
	m.Put([]byte("k3"), []byte("v3"))

	it := NewIterator(m, iter.IncludedBound([]byte("k2")), iter.ExcludedBound([]byte("k3")))
	entry, ok := it.Next()
	if !ok {
		t.Fatalf("expected one entry")
	}
	if string(entry.Key.Key()) != "k2" {
		t.Fatalf("key = %s, want k2", entry.Key.Key())
	}
	if _, ok := it.Next(); ok {
		t.Fatalf("expected exactly one entry in range")
	}
}
