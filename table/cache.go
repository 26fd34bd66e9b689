package table

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"lsmkv/block"
)

// cacheKey identifies one block within one SST for the shared block cache.
type cacheKey struct {
	sstID      uint64
	blockIndex int
}

// Cache is the shared, process-wide block cache keyed by (sstID,
// blockIndex). Concurrent misses on the same key are deduplicated by a
// singleflight group so at most one load is in flight per key at a time,
//
type Cache struct {
	entries *lru.Cache[cacheKey, *block.Block]
	loads   singleflight.Group
}

// NewCache builds a cache holding up to maxEntries decoded blocks.
func NewCache(maxEntries int) (*Cache, error) {
	if maxEntries < 1 {
		maxEntries = 1
	}
	entries, err := lru.New[cacheKey, *block.Block](maxEntries)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// GetOrLoad returns the cached block for (sstID, blockIndex), invoking load
// at most once across concurrent callers racing on the same key.
func (c *Cache) GetOrLoad(sstID uint64, blockIndex int, load func() (*block.Block, error)) (*block.Block, error) {
	key := cacheKey{sstID: sstID, blockIndex: blockIndex}
	if b, ok := c.entries.Get(key); ok {
		return b, nil
	}

	v, err, _ := c.loads.Do(keyString(key), func() (any, error) {
		if b, ok := c.entries.Get(key); ok {
			return b, nil
		}
		b, err := load()
		if err != nil {
			return nil, err
		}
		c.entries.Add(key, b)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*block.Block), nil
}

func keyString(k cacheKey) string {
	buf := make([]byte, 0, 24)
	buf = appendUint64(buf, k.sstID)
	buf = append(buf, '/')
	buf = appendUint64(buf, uint64(k.blockIndex))
	return string(buf)
}

func appendUint64(buf []byte, v uint64) []byte {
	if v == 0 {
		return append(buf, '0')
	}
	var tmp [20]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	return append(buf, tmp[i:]...)
}
