package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())
	require.Equal(t, 1024, cap(bb.B))
}

func TestByteBuffer_TruncateAndReset(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.B = append(bb.B, "header+block"...)

	bb.Truncate(6)
	require.Equal(t, []byte("header"), bb.Bytes())

	bb.Truncate(-1)
	bb.Truncate(100)
	require.Equal(t, 6, bb.Len(), "out of range truncation is ignored")

	capBefore := cap(bb.B)
	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.Equal(t, capBefore, cap(bb.B))
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(100)
		bb.Grow(50)
		require.Equal(t, 100, cap(bb.B))
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(8)
		bb.B = append(bb.B, 1, 2, 3, 4, 5, 6, 7, 8)
		bb.Grow(1)
		require.Equal(t, 8+ContainerBufferDefaultSize, cap(bb.B))
		require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, bb.B)
	})

	t.Run("large buffer grows by a quarter", func(t *testing.T) {
		size := 8 * ContainerBufferDefaultSize
		bb := NewByteBuffer(size)
		bb.B = bb.B[:size]
		bb.Grow(1)
		require.Equal(t, size+size/4, cap(bb.B))
	})

	t.Run("grows at least required bytes", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(ContainerBufferDefaultSize * 2)
		require.GreaterOrEqual(t, cap(bb.B), ContainerBufferDefaultSize*2)
	})
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	large := NewByteBuffer(128)
	p.Put(large)

	bb := p.Get()
	require.NotNil(t, bb)
	require.LessOrEqual(t, cap(bb.B), 64)

	p.Put(nil)
}

func TestContainerBuffer_Reuse(t *testing.T) {
	bb := GetContainerBuffer()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())

	bb.B = append(bb.B, "payload"...)
	PutContainerBuffer(bb)

	again := GetContainerBuffer()
	require.Equal(t, 0, again.Len(), "pooled buffers must come back empty")
	PutContainerBuffer(again)
}

func TestContainerBuffer_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bb := GetContainerBuffer()
			bb.B = append(bb.B, byte(i))
			PutContainerBuffer(bb)
		}(i)
	}
	wg.Wait()
}
