package searcher

import "sync/atomic"

// Budget caps the number of live nodes below a root. Expansion reserves all
// children of a node at once and fails when the reservation does not fit.
// A nil *Budget never runs out.
type Budget struct {
	limit int64
	live  atomic.Int64
}

// NewBudget returns a budget for limit live nodes, or nil when limit <= 0.
func NewBudget(limit int) *Budget {
	if limit <= 0 {
		return nil
	}
	return &Budget{limit: int64(limit)}
}

func (b *Budget) reserve(n int) bool {
	if b == nil {
		return true
	}
	for {
		live := b.live.Load()
		if live+int64(n) > b.limit {
			return false
		}
		if b.live.CompareAndSwap(live, live+int64(n)) {
			return true
		}
	}
}

func (b *Budget) release(n int) {
	if b == nil {
		return
	}
	if b.live.Add(-int64(n)) < 0 {
		panic("budget released more nodes than it reserved")
	}
}

// Live returns the number of reserved nodes.
func (b *Budget) Live() int {
	if b == nil {
		return 0
	}
	return int(b.live.Load())
}

// Limit returns the maximum number of live nodes, 0 when unlimited.
func (b *Budget) Limit() int {
	if b == nil {
		return 0
	}
	return int(b.limit)
}
