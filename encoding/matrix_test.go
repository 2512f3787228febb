package encoding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/perfdat/format"
)

func TestMatrix_Float32(t *testing.T) {
	m := NewMatrix(2, 3, 4, format.ValueFloat32)

	s, e, k := m.Dims()
	require.Equal(t, [3]int{2, 3, 4}, [3]int{s, e, k})
	require.Equal(t, 24, m.Len())
	require.Equal(t, 96, m.Size())
	require.Equal(t, format.ValueFloat32, m.Kind())

	m.Set(1, 2, 3, 12.5)
	m.Set(0, 0, 0, -0.25)
	require.Equal(t, 12.5, m.At(1, 2, 3))
	require.Equal(t, float32(-0.25), m.Float32(0, 0, 0))
	require.Equal(t, math.Float32bits(12.5), m.Bits(1, 2, 3))

	// row-major, metric fastest
	require.Equal(t, math.Float32bits(12.5), m.Raw()[(1*3+2)*4+3])

	require.Equal(t, []float64{0, 0, 0, 12.5}, m.Row(1, 2))
}

func TestMatrix_Int32(t *testing.T) {
	m := NewMatrix(1, 1, 3, format.ValueInt32)

	m.Set(0, 0, 0, -7)
	m.Set(0, 0, 1, 3.9)
	m.SetBits(0, 0, 2, 0xffffffff)

	require.Equal(t, -7.0, m.At(0, 0, 0))
	require.Equal(t, int32(3), m.Int32(0, 0, 1))
	require.Equal(t, -1.0, m.At(0, 0, 2))
	require.Equal(t, []float64{-7, 3, -1}, m.Row(0, 0))
}

func TestMatrix_Empty(t *testing.T) {
	m := NewMatrix(60, 2, 0, format.ValueFloat32)
	require.Zero(t, m.Len())
	require.Zero(t, m.Size())
	require.Nil(t, m.Row(0, 0))
}

func TestMatrix_Panics(t *testing.T) {
	require.Panics(t, func() { NewMatrix(-1, 1, 1, format.ValueFloat32) })

	m := NewMatrix(1, 2, 3, format.ValueFloat32)
	require.Panics(t, func() { m.At(1, 0, 0) })
	require.Panics(t, func() { m.At(0, 2, 0) })
	require.Panics(t, func() { m.At(0, 0, -1) })
}
