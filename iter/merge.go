package iter

import (
	"container/heap"

	"lsmkv/kv"
)

// mergeItem is one entry in the merge heap: the current entry from a
// source plus that source's index. Sources must be supplied newest-first
// by the caller (state.StorageState does this for memtables and L0 SSTs)
// so that on a key-and-timestamp tie the lower index - the newer source -
// wins.
type mergeItem struct {
	entry kv.Pair
	index int
}

type mergeHeap []mergeItem

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	if c := h[i].entry.Key.Compare(h[j].entry.Key); c != 0 {
		return c < 0
	}
	return h[i].index < h[j].index
}
func (h mergeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x any)        { *h = append(*h, x.(mergeItem)) }
func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// MergeIterator merges N sorted sources into one ordered stream via a
// min-heap keyed by (key, timestamp, source index).
type MergeIterator struct {
	heap    mergeHeap
	sources []StorageIterator
}

// NewMergeIterator primes every source once and builds the heap.
func NewMergeIterator(sources []StorageIterator) *MergeIterator {
	m := &MergeIterator{sources: sources}
	heap.Init(&m.heap)
	for i, src := range sources {
		if entry, ok := src.Next(); ok {
			heap.Push(&m.heap, mergeItem{entry: entry, index: i})
		}
	}
	return m
}

func (m *MergeIterator) Peek() (kv.Pair, bool) {
	if len(m.heap) == 0 {
		return kv.Pair{}, false
	}
	return m.heap[0].entry, true
}

func (m *MergeIterator) Next() (kv.Pair, bool) {
	if len(m.heap) == 0 {
		return kv.Pair{}, false
	}
	top := heap.Pop(&m.heap).(mergeItem)
	if entry, ok := m.sources[top.index].Next(); ok {
		heap.Push(&m.heap, mergeItem{entry: entry, index: top.index})
	}
	return top.entry, true
}

func (m *MergeIterator) Valid() bool {
	return true
}
