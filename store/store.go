// Package store is the public facade over the storage engine: it wraps
// state.StorageState with a background flush loop, mirroring the
// WALWriter lifecycle pattern of a channel-driven loop plus a WaitGroup
// for graceful shutdown.
package store

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"lsmkv/iter"
	"lsmkv/state"
)

const flushTickInterval = 50 * time.Millisecond

// Store is the top-level handle a CLI or embedding application opens.
type Store struct {
	state *state.StorageState
	log   *zap.Logger

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Open starts a storage state at path with default options and launches
// the background flush loop.
func Open(path string) (*Store, error) {
	return OpenWithOptions(state.DefaultOptions(path))
}

// OpenWithOptions starts a storage state with caller-supplied options.
func OpenWithOptions(options state.Options) (*Store, error) {
	log, err := zap.NewProduction()
	if err != nil {
		log = zap.NewNop()
	}

	ss, err := state.Open(options, log.Sugar())
	if err != nil {
		return nil, err
	}

	s := &Store{
		state: ss,
		log:   log,
		done:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.flushLoop()
	return s, nil
}

func (s *Store) flushLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(flushTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.state.TriggerFlush()
		case <-s.done:
			return
		}
	}
}

// Get returns the value for key and whether it was found.
func (s *Store) Get(key []byte) ([]byte, bool, error) {
	return s.state.Get(key)
}

// Put inserts or overwrites key with value.
func (s *Store) Put(key, value []byte) error {
	return s.state.Put(key, value)
}

// Delete removes key, failing with state.ErrKeyNotFound if it is absent.
func (s *Store) Delete(key []byte) error {
	return s.state.Delete(key)
}

// Scan returns an ordered stream of entries between lower and upper, each
// bound included, excluded or unbounded per its Kind.
func (s *Store) Scan(lower, upper iter.Bound) (iter.StorageIterator, error) {
	return s.state.Scan(lower, upper)
}

// Close stops the flush loop after draining every frozen memtable to L0,
// then flushes and closes the logger. Safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if err := s.state.FlushAll(); err != nil {
			s.log.Sugar().Errorw("flush all failed during close", "error", err)
		}

		close(s.done)
		s.wg.Wait()

		_ = s.log.Sync()
	})
	return nil
}
