package data

import "sync/atomic"

// IndexAllocator hands out unique, monotonically increasing directory
// indexes. Each tree owns its allocator; nothing is process-global, so
// independent archives never collide.
type IndexAllocator struct {
	counter atomic.Int64
}

// NewIndexAllocator creates an allocator starting at zero.
func NewIndexAllocator() *IndexAllocator {
	return &IndexAllocator{}
}

// Next returns the next unused index.
func (a *IndexAllocator) Next() int64 {
	return a.counter.Add(1) - 1
}
