package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"lsmkv/iter"
	"lsmkv/kv"
	"lsmkv/memtable"
	"lsmkv/table"
)

// ErrKeyNotFound is returned by Delete when the key does not currently
// exist.
var ErrKeyNotFound = errors.New("state: key not found")

// snapshot is the immutable view published under the read-write lock.
// Writers clone it, mutate the clone, and swap the pointer; readers take a
// brief read lock to copy the pointer, then work outside the lock.
type snapshot struct {
	currentMemtable *memtable.Memtable
	frozenMemtables []*memtable.Memtable // newest first
	l0SSTs          []*table.SST         // newest first
}

// StorageState owns current/frozen memtables and L0 SSTs behind one
// reader-writer lock holding a copy-on-write snapshot
type StorageState struct {
	mu      sync.RWMutex
	snap    *snapshot
	counter atomic.Uint64
	cache   *table.Cache
	options Options
	log     *zap.SugaredLogger
}

// Open creates the SST directory if needed and returns a storage state with
// one empty current memtable.
func Open(options Options, log *zap.SugaredLogger) (*StorageState, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if err := os.MkdirAll(options.Path, 0o755); err != nil {
		return nil, fmt.Errorf("state: open: %w", err)
	}

	entriesPerBlock := options.BlockMaxSizeBytes
	if entriesPerBlock <= 0 {
		entriesPerBlock = 4096
	}
	cacheEntries := int(options.BlockCacheSizeBytes / int64(entriesPerBlock))
	cache, err := table.NewCache(cacheEntries)
	if err != nil {
		return nil, fmt.Errorf("state: open: %w", err)
	}

	s := &StorageState{cache: cache, options: options, log: log}
	s.snap = &snapshot{currentMemtable: memtable.New(s.nextID())}
	return s, nil
}

func (s *StorageState) nextID() uint64 {
	return s.counter.Add(1) - 1
}

func (s *StorageState) readSnapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Get checks the current memtable, then frozen memtables newest-first, then
// L0 SSTs newest-first, returning the newest value for key or absence.
func (s *StorageState) Get(key []byte) ([]byte, bool, error) {
	snap := s.readSnapshot()

	if v, ok := snap.currentMemtable.Get(key); ok {
		return tombstoneToAbsent(v)
	}
	for _, mt := range snap.frozenMemtables {
		if v, ok := mt.Get(key); ok {
			return tombstoneToAbsent(v)
		}
	}

	for _, sst := range snap.l0SSTs {
		if !sst.MaybeContain(key) {
			continue
		}
		it, err := table.CreateAndSeekToKey(sst, key)
		if err != nil {
			return nil, false, fmt.Errorf("state: get: %w", err)
		}
		entry, ok := it.Peek()
		if ok && bytesEqual(entry.Key.Key(), key) {
			return tombstoneToAbsent(entry.Value)
		}
	}

	return nil, false, nil
}

func tombstoneToAbsent(v []byte) ([]byte, bool, error) {
	if (kv.Pair{Value: v}).IsTombstone() {
		return nil, false, nil
	}
	return v, true, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Put inserts key/value, freezing the current memtable first if it is
// nonempty and the new entry would overflow the size budget. A single
// first entry is always accepted even if it alone exceeds the budget.
func (s *StorageState) Put(key, value []byte) error {
	if err := kv.CheckSize(key, value); err != nil {
		return err
	}

	snap := s.readSnapshot()
	size := snap.currentMemtable.SizeBytes()
	if size > 0 && size+int64(len(key)+len(value)) > s.options.SSTMaxSizeBytes {
		if err := s.FreezeMemtable(); err != nil {
			return fmt.Errorf("state: put: %w", err)
		}
		snap = s.readSnapshot()
	}

	snap.currentMemtable.Put(key, value)
	return nil
}

// Delete fails with ErrKeyNotFound if the key is absent; otherwise writes a
// tombstone via Put.
func (s *StorageState) Delete(key []byte) error {
	_, ok, err := s.Get(key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrKeyNotFound
	}
	return s.Put(key, kv.TOMBSTONE)
}

// Scan builds one memtable iterator per memtable and one SST iterator per
// overlapping L0 SST, merges each group, then combines the two streams via
// a two-way merge with the upper bound enforced on the composite.
func (s *StorageState) Scan(lower, upper iter.Bound) (iter.StorageIterator, error) {
	snap := s.readSnapshot()

	memtableSources := []iter.StorageIterator{memtable.NewIterator(snap.currentMemtable, lower, upper)}
	for _, mt := range snap.frozenMemtables {
		memtableSources = append(memtableSources, memtable.NewIterator(mt, lower, upper))
	}
	memtableMerge := iter.NewMergeIterator(memtableSources)

	var sstSources []iter.StorageIterator
	for _, sst := range snap.l0SSTs {
		if !iter.RangeOverlap(lower, upper, sst.FirstKey(), sst.LastKey()) {
			continue
		}
		sstIter, err := seekSST(sst, lower)
		if err != nil {
			return nil, fmt.Errorf("state: scan: %w", err)
		}
		sstSources = append(sstSources, sstIter)
	}
	sstMerge := iter.NewMergeIterator(sstSources)

	combined := iter.NewTwoMergeIterator(memtableMerge, sstMerge)
	return iter.NewBoundedIterator(combined, upper), nil
}

func seekSST(sst *table.SST, lower iter.Bound) (iter.StorageIterator, error) {
	switch lower.Kind {
	case iter.Unbounded:
		return table.CreateAndSeekToFirst(sst)
	case iter.Included:
		return table.CreateAndSeekToKey(sst, lower.Key)
	case iter.Excluded:
		it, err := table.CreateAndSeekToKey(sst, lower.Key)
		if err != nil {
			return nil, err
		}
		if entry, ok := it.Peek(); ok && bytesEqual(entry.Key.Key(), lower.Key) {
			it.Next()
		}
		return it, nil
	default:
		return table.CreateAndSeekToFirst(sst)
	}
}

// FreezeMemtable allocates a new current memtable, freezes the old one, and
// publishes the new snapshot under the exclusive lock.
func (s *StorageState) FreezeMemtable() error {
	newMemtable := memtable.New(s.nextID())

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.snap.currentMemtable.Freeze(); err != nil {
		return err
	}

	next := &snapshot{
		currentMemtable: newMemtable,
		frozenMemtables: append([]*memtable.Memtable{s.snap.currentMemtable}, s.snap.frozenMemtables...),
		l0SSTs:          s.snap.l0SSTs,
	}
	s.snap = next
	return nil
}

// FlushNextMemtableToL0 picks the oldest frozen memtable, drains it into an
// SST, and installs the SST at the head of L0. Returns false if there was
// no frozen memtable to flush.
func (s *StorageState) FlushNextMemtableToL0() (bool, error) {
	snap := s.readSnapshot()
	if len(snap.frozenMemtables) == 0 {
		return false, nil
	}
	oldest := snap.frozenMemtables[len(snap.frozenMemtables)-1]

	builder := table.NewBuilder(s.options.BlockMaxSizeBytes)
	for _, rec := range oldest.Entries() {
		if err := builder.Add([]byte(rec.Key), rec.Value); err != nil {
			return false, fmt.Errorf("state: flush: %w", err)
		}
	}

	sstPath := filepath.Join(s.options.Path, fmt.Sprintf("%05d.sst", oldest.ID()))
	sst, err := builder.Build(oldest.ID(), sstPath, s.cache)
	if err != nil {
		return false, fmt.Errorf("state: flush: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.snap.frozenMemtables) == 0 || s.snap.frozenMemtables[len(s.snap.frozenMemtables)-1].ID() != oldest.ID() {
		return false, nil
	}

	next := &snapshot{
		currentMemtable: s.snap.currentMemtable,
		frozenMemtables: s.snap.frozenMemtables[:len(s.snap.frozenMemtables)-1],
		l0SSTs:          append([]*table.SST{sst}, s.snap.l0SSTs...),
	}
	s.snap = next
	return true, nil
}

// FlushAll drains every frozen memtable to L0, in oldest-first order.
func (s *StorageState) FlushAll() error {
	for {
		flushed, err := s.FlushNextMemtableToL0()
		if err != nil {
			return err
		}
		if !flushed {
			return nil
		}
	}
}

// TriggerFlush invokes one flush when the number of frozen memtables
// reaches the configured threshold.
func (s *StorageState) TriggerFlush() {
	snap := s.readSnapshot()
	if len(snap.frozenMemtables) < s.options.NumMemtablesLimit {
		return
	}
	if _, err := s.FlushNextMemtableToL0(); err != nil {
		s.log.Errorw("flush failed", "error", err)
	}
}
