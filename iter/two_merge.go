package iter

import "lsmkv/kv"

// TwoMergeIterator merges two ordered sources, always preferring the first
// (X) on a tie. state.StorageState uses this with X as the memtable
// stream and Y as the L0 SST stream, since the memtable stream is always
// newer than anything already flushed to disk.
type TwoMergeIterator struct {
	x, y    StorageIterator
	current kv.Pair
	haveCur bool
	useX    bool
	valid   bool
}

// NewTwoMergeIterator builds the combined iterator and primes its cursor.
func NewTwoMergeIterator(x, y StorageIterator) *TwoMergeIterator {
	t := &TwoMergeIterator{x: x, y: y, valid: true}
	t.current, t.useX, t.haveCur = selectCurrent(x, y)
	return t
}

func selectCurrent(x, y StorageIterator) (kv.Pair, bool, bool) {
	xv, xok := x.Peek()
	yv, yok := y.Peek()
	switch {
	case xok && yok:
		if xv.Key.Compare(yv.Key) <= 0 {
			return xv, true, true
		}
		return yv, false, true
	case xok:
		return xv, true, true
	case yok:
		return yv, false, true
	default:
		return kv.Pair{}, false, false
	}
}

func (t *TwoMergeIterator) Peek() (kv.Pair, bool) {
	return t.current, t.haveCur
}

func (t *TwoMergeIterator) Valid() bool {
	return t.valid
}

func (t *TwoMergeIterator) Next() (kv.Pair, bool) {
	res, ok := t.current, t.haveCur
	if !ok {
		return kv.Pair{}, false
	}
	if t.useX {
		t.x.Next()
		if !t.x.Valid() {
			t.valid = false
		}
	} else {
		t.y.Next()
		if !t.y.Valid() {
			t.valid = false
		}
	}
	t.current, t.useX, t.haveCur = selectCurrent(t.x, t.y)
	return res, true
}
