package internal

import "sync"

// BytesPool is a sync.Pool-backed recycler for []byte scratch buffers:
// grow once, reuse the backing array across many short-lived operations.
type BytesPool struct {
	pool sync.Pool
}

// NewBytesPool creates a pool whose buffers start at the given capacity.
func NewBytesPool(initialCap int) *BytesPool {
	p := &BytesPool{}
	p.pool.New = func() any {
		b := make([]byte, 0, initialCap)
		return &b
	}
	return p
}

// Get returns a zero-length buffer with at least its pool's initial
// capacity, reused from a prior Put when available.
func (p *BytesPool) Get() []byte {
	b := p.pool.Get().(*[]byte)
	return (*b)[:0]
}

// Put returns buf to the pool for reuse.
func (p *BytesPool) Put(buf []byte) {
	buf = buf[:0]
	p.pool.Put(&buf)
}
