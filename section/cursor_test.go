package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/perfdat/endian"
	"github.com/arloliu/perfdat/errs"
)

func TestCursor_Reads(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 'a', 'b', 0x00, 0x00, 0xff}
	cur := NewCursor(data, nil)

	require.Equal(t, endian.GetLittleEndianEngine(), cur.Engine())
	require.Equal(t, len(data), cur.Len())

	v, err := cur.ReadUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x04030201), v)
	require.Equal(t, 4, cur.Offset())

	text, err := cur.ReadFixedText(4)
	require.NoError(t, err)
	require.Equal(t, "ab", text)
	require.Equal(t, 8, cur.Offset())
	require.Equal(t, 1, cur.Remaining())

	require.NoError(t, cur.Skip(1))
	require.Zero(t, cur.Remaining())
}

func TestCursor_BigEndian(t *testing.T) {
	cur := NewCursor([]byte{0x01, 0x02, 0x03, 0x04}, endian.GetBigEndianEngine())

	v, err := cur.ReadUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x01020304), v)
}

func TestCursor_TruncationLeavesOffset(t *testing.T) {
	cur := NewCursor([]byte{1, 2, 3}, nil)
	require.NoError(t, cur.Skip(1))

	_, err := cur.ReadUint32()
	require.ErrorIs(t, err, errs.ErrTruncatedInput)
	require.Equal(t, 1, cur.Offset())

	_, err = cur.ReadBytes(3)
	require.ErrorIs(t, err, errs.ErrTruncatedInput)
	require.ErrorIs(t, cur.Skip(3), errs.ErrTruncatedInput)
	require.Equal(t, 1, cur.Offset())

	_, err = cur.ReadBytes(-1)
	require.ErrorIs(t, err, errs.ErrInvalidFixedWidth)

	b, err := cur.ReadBytes(2)
	require.NoError(t, err)
	require.Equal(t, []byte{2, 3}, b)
}

func TestCursor_ReadBytesCapsCapacity(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	cur := NewCursor(data, nil)

	b, err := cur.ReadBytes(2)
	require.NoError(t, err)
	require.Equal(t, 2, cap(b))

	// appending must not clobber the source
	_ = append(b, 9)
	require.Equal(t, []byte{1, 2, 3, 4}, data)
}

func TestCursor_ReadFixedText(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{name: "all nul", in: []byte{0, 0, 0, 0}, want: ""},
		{name: "no padding", in: []byte("ABCD"), want: "A\uFFFD"},
		{name: "embedded nul kept", in: []byte{'A', 0, 'B', 0}, want: "A\uFFFD"},
		{name: "invalid utf8", in: []byte{'A', 0xff, 0, 0}, want: "A\uFFFD"},
		{name: "zero width", in: []byte{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := NewCursor(tt.in, nil)
			got, err := cur.ReadFixedText(len(tt.in))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, len(tt.in), cur.Offset())
		})
	}
}
