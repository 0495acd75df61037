package physics

import "sync/atomic"

// ID identifies a body, collection or engine.
type ID int64

// NoID marks an absent handle, e.g. a body without a parent collection.
const NoID ID = -1

var _ IDSource = (*IDAllocator)(nil)

// IDAllocator returns monotonically increasing ids starting at zero.
// The zero value is ready to use and safe for concurrent use.
type IDAllocator struct {
	next atomic.Int64
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

func (a *IDAllocator) Next() ID {
	return ID(a.next.Add(1) - 1)
}

// Reset makes the next call to Next return seed.
func (a *IDAllocator) Reset(seed ID) {
	a.next.Store(int64(seed))
}
