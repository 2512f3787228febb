package pool

import (
	"sync"
)

// Sizes of the pooled container body buffers.
const (
	ContainerBufferDefaultSize  = 1024 * 64        // 64KiB
	ContainerBufferMaxThreshold = 1024 * 1024 * 16 // 16MiB
)

// ByteBuffer is an append-only byte slice that an encoder fills block by block.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates an empty buffer with the given capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the buffered bytes.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the number of buffered bytes.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Reset empties the buffer and keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Truncate discards everything after the first n bytes.
// It is how a partially written block is rolled back.
func (bb *ByteBuffer) Truncate(n int) {
	if n < 0 || n > len(bb.B) {
		return
	}
	bb.B = bb.B[:n]
}

// Grow makes room for n more bytes.
//
// Small buffers grow by ContainerBufferDefaultSize, larger ones by a quarter of
// their capacity, and never by less than n.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	by := ContainerBufferDefaultSize
	if cap(bb.B) > 4*ContainerBufferDefaultSize {
		by = cap(bb.B) / 4
	}
	by = max(by, n)

	grown := make([]byte, len(bb.B), len(bb.B)+by)
	copy(grown, bb.B)
	bb.B = grown
}

// ByteBufferPool recycles ByteBuffers. Buffers that grew beyond maxCap are
// dropped on Put.
type ByteBufferPool struct {
	pool   sync.Pool
	maxCap int
}

// NewByteBufferPool creates a pool handing out buffers of the given initial capacity.
func NewByteBufferPool(capacity, maxCap int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(capacity) },
		},
		maxCap: maxCap,
	}
}

// Get returns an empty buffer.
func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put gives bb back to the pool.
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil || (p.maxCap > 0 && cap(bb.B) > p.maxCap) {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var containerPool = NewByteBufferPool(ContainerBufferDefaultSize, ContainerBufferMaxThreshold)

// GetContainerBuffer returns a buffer from the shared container body pool.
func GetContainerBuffer() *ByteBuffer {
	return containerPool.Get()
}

// PutContainerBuffer returns bb to the shared container body pool.
func PutContainerBuffer(bb *ByteBuffer) {
	containerPool.Put(bb)
}
