package section

import (
	"fmt"
	"math"

	"github.com/arloliu/perfdat/endian"
	"github.com/arloliu/perfdat/errs"
)

// ContainerHeader is the fixed preamble at the start of a performance archive.
//
// Layout (little-endian, 337 bytes):
//
//	marker      [32]byte
//	version     uint32
//	serial      [256]byte  NUL padded
//	name        [41]byte   NUL padded
//	data length uint32     bytes following the header
type ContainerHeader struct {
	// Marker is the opaque correctness marker, kept verbatim.
	Marker [MarkerSize]byte
	// Version is the message format version.
	Version uint32
	// Serial is the equipment serial number with trailing NULs removed.
	Serial string
	// Name is the equipment display name with trailing NULs removed.
	Name string
	// DataLength is the declared number of bytes following the header.
	DataLength uint32
	// DataOffset is the absolute offset of the first byte after the header.
	DataOffset int
}

// StopOffset returns the absolute offset at which block decoding ends,
// clamped to math.MaxInt.
func (h ContainerHeader) StopOffset() int {
	stop := uint64(h.DataOffset) + uint64(h.DataLength) //nolint: gosec
	if stop > math.MaxInt {
		return math.MaxInt
	}

	return int(stop)
}

// ParseContainerHeader reads a container header at the cursor position.
//
// Returns errs.ErrTruncatedInput if the source ends before every field is read.
func ParseContainerHeader(cur *Cursor) (ContainerHeader, error) {
	var h ContainerHeader

	marker, err := cur.ReadBytes(MarkerSize)
	if err != nil {
		return h, fmt.Errorf("read header marker: %w", err)
	}
	copy(h.Marker[:], marker)

	if h.Version, err = cur.ReadUint32(); err != nil {
		return h, fmt.Errorf("read header version: %w", err)
	}

	if h.Serial, err = cur.ReadFixedText(SerialSize); err != nil {
		return h, fmt.Errorf("read equipment serial: %w", err)
	}

	if h.Name, err = cur.ReadFixedText(NameSize); err != nil {
		return h, fmt.Errorf("read equipment name: %w", err)
	}

	if h.DataLength, err = cur.ReadUint32(); err != nil {
		return h, fmt.Errorf("read data length: %w", err)
	}

	h.DataOffset = cur.Offset()

	return h, nil
}

// AppendTo serializes the header to dst.
//
// Serial and Name are NUL padded to their field widths; values longer than the
// field return errs.ErrInvalidOption.
func (h ContainerHeader) AppendTo(dst []byte, engine endian.EndianEngine) ([]byte, error) {
	if len(h.Serial) > SerialSize {
		return dst, fmt.Errorf("%w: serial is %d bytes, max %d", errs.ErrInvalidOption, len(h.Serial), SerialSize)
	}

	if len(h.Name) > NameSize {
		return dst, fmt.Errorf("%w: name is %d bytes, max %d", errs.ErrInvalidOption, len(h.Name), NameSize)
	}

	dst = append(dst, h.Marker[:]...)
	dst = engine.AppendUint32(dst, h.Version)
	dst = appendPadded(dst, h.Serial, SerialSize)
	dst = appendPadded(dst, h.Name, NameSize)
	dst = engine.AppendUint32(dst, h.DataLength)

	return dst, nil
}

func appendPadded(dst []byte, s string, width int) []byte {
	dst = append(dst, s...)
	for i := len(s); i < width; i++ {
		dst = append(dst, 0)
	}

	return dst
}
