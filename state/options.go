// Package state owns the live storage state: the current and frozen
// memtables, the L0 SST list, and the background flush loop.
package state

// Options configures a storage state.
type Options struct {
	// SSTMaxSizeBytes triggers a memtable freeze once the current
	// memtable's size plus an incoming entry would exceed it.
	SSTMaxSizeBytes int64
	// BlockMaxSizeBytes is the target block size inside the SST builder.
	BlockMaxSizeBytes int
	// BlockCacheSizeBytes bounds the shared block cache. The cache is
	// keyed by entry count (see table.Cache); this is converted to an
	// entry-count budget at open time using BlockMaxSizeBytes.
	BlockCacheSizeBytes int64
	// Path is the directory holding SST files.
	Path string
	// NumMemtablesLimit is the frozen-memtable count that triggers a
	// flush.
	NumMemtablesLimit int
}

// DefaultOptions returns the standard configuration rooted at path.
func DefaultOptions(path string) Options {
	return Options{
		SSTMaxSizeBytes:     2 << 20,
		BlockMaxSizeBytes:   4096,
		BlockCacheSizeBytes: 1 << 20,
		Path:                path,
		NumMemtablesLimit:   3,
	}
}
