package table

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func buildTestSST(t *testing.T, blockSize int, cache *Cache) (*SST, string) {
	t.Helper()
	builder := NewBuilder(blockSize)
	for _, kv := range [][2]string{{"k1", "v1"}, {"k2", "v2"}, {"k3", "v3"}} {
		if err := builder.Add([]byte(kv[0]), []byte(kv[1])); err != nil {
			t.Fatalf("add %s: %v", kv[0], err)
		}
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "00000.sst")
	sst, err := builder.Build(0, path, cache)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return sst, path
}

// TestSSTRoundTripScenario7 pins scenario 7: building k1,k2,k3 with
// block_size=25 puts k1,k2 in block 0 and k3 in block 1; re-opening from
// path must reproduce the two metadata records and block index lookups.
func TestSSTRoundTripScenario7(t *testing.T) {
	sst, path := buildTestSST(t, 25, nil)
	if sst.NumBlocks() != 2 {
		t.Fatalf("num blocks = %d, want 2", sst.NumBlocks())
	}

	reopened, err := Open(sst.id, path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if reopened.NumBlocks() != 2 {
		t.Fatalf("reopened num blocks = %d, want 2", reopened.NumBlocks())
	}
	if string(reopened.metaBlocks[0].FirstKey) != "k1" || string(reopened.metaBlocks[0].LastKey) != "k2" {
		t.Fatalf("block 0 keys = [%s,%s], want [k1,k2]", reopened.metaBlocks[0].FirstKey, reopened.metaBlocks[0].LastKey)
	}
	if string(reopened.metaBlocks[1].FirstKey) != "k3" || string(reopened.metaBlocks[1].LastKey) != "k3" {
		t.Fatalf("block 1 keys = [%s,%s], want [k3,k3]", reopened.metaBlocks[1].FirstKey, reopened.metaBlocks[1].LastKey)
	}

	if got := reopened.BlockIndexForKey([]byte("k2")); got != 0 {
		t.Fatalf("block_index_for_key(k2) = %d, want 0", got)
	}
	if got := reopened.BlockIndexForKey([]byte("k3")); got != 1 {
		t.Fatalf("block_index_for_key(k3) = %d, want 1", got)
	}
}

func TestBuildFileLayout(t *testing.T) {
	sst, path := buildTestSST(t, 25, nil)
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	bloomOffset := binary.BigEndian.Uint32(contents[len(contents)-4:])
	metaOffset := binary.BigEndian.Uint32(contents[bloomOffset-4 : bloomOffset])
	if metaOffset != sst.metaBlockOffset {
		t.Fatalf("meta offset in file = %d, want %d", metaOffset, sst.metaBlockOffset)
	}
}

func TestReadBlockCached(t *testing.T) {
	cache, err := NewCache(16)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	sst, _ := buildTestSST(t, 25, cache)

	b1, err := sst.ReadBlockCached(0)
	if err != nil {
		t.Fatalf("read block cached: %v", err)
	}
	b2, err := sst.ReadBlockCached(0)
	if err != nil {
		t.Fatalf("read block cached: %v", err)
	}
	if b1 != b2 {
		t.Fatalf("expected cached block to be the same pointer across calls")
	}
}

func TestBlockIndexForKey(t *testing.T) {
	sst, _ := buildTestSST(t, 25, nil)
	cases := []struct {
		key  string
		want int
	}{
		{"k1", 0},
		{"k2", 0},
		{"k3", 1},
	}
	for _, c := range cases {
		if got := sst.BlockIndexForKey([]byte(c.key)); got != c.want {
			t.Fatalf("block_index_for_key(%s) = %d, want %d", c.key, got, c.want)
		}
	}
}

func TestMaybeContain(t *testing.T) {
	sst, _ := buildTestSST(t, 25, nil)
	for _, key := range []string{"k1", "k2", "k3"} {
		if !sst.MaybeContain([]byte(key)) {
			t.Fatalf("expected MaybeContain(%s) to be true", key)
		}
	}
	if sst.MaybeContain([]byte("zzz")) {
		t.Fatalf("expected MaybeContain(zzz) to be false (out of key range)")
	}
}
