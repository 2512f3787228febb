package section

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/arloliu/perfdat/endian"
	"github.com/arloliu/perfdat/errs"
)

// Cursor is a positioned reader over an in-memory archive.
//
// Every read either advances the offset by exactly the requested width or fails
// with errs.ErrTruncatedInput and leaves the offset untouched.
//
// Note: Cursor is NOT thread-safe.
type Cursor struct {
	data   []byte
	off    int
	engine endian.EndianEngine
}

// NewCursor creates a cursor at offset 0 of data.
// A nil engine selects little-endian, the byte order written by controllers.
func NewCursor(data []byte, engine endian.EndianEngine) *Cursor {
	if engine == nil {
		engine = endian.GetLittleEndianEngine()
	}

	return &Cursor{data: data, engine: engine}
}

// Offset returns the absolute offset of the next byte to read.
func (c *Cursor) Offset() int {
	return c.off
}

// Len returns the total length of the underlying source.
func (c *Cursor) Len() int {
	return len(c.data)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.off
}

// Engine returns the byte order engine used for integer fields.
func (c *Cursor) Engine() endian.EndianEngine {
	return c.engine
}

// ReadBytes returns the next n bytes and advances the cursor.
//
// The returned slice aliases the source; callers that retain it past the
// lifetime of the source must copy it.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.check(n); err != nil {
		return nil, err
	}

	b := c.data[c.off : c.off+n : c.off+n]
	c.off += n

	return b, nil
}

// Skip advances the cursor by n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	if err := c.check(n); err != nil {
		return err
	}
	c.off += n

	return nil
}

// ReadUint32 reads a 4-byte unsigned integer.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}

	return c.engine.Uint32(b), nil
}

// ReadFixedText reads an n-byte text field.
//
// Trailing NUL bytes are stripped and invalid UTF-8 sequences are replaced with
// U+FFFD, so the call only fails on truncation.
func (c *Cursor) ReadFixedText(n int) (string, error) {
	b, err := c.ReadBytes(n)
	if err != nil {
		return "", err
	}

	return strings.ToValidUTF8(string(bytes.TrimRight(b, "\x00")), "\uFFFD"), nil
}

func (c *Cursor) check(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", errs.ErrInvalidFixedWidth, n)
	}

	if rem := c.Remaining(); n > rem {
		return fmt.Errorf("%w: need %d bytes at offset %d, %d remaining",
			errs.ErrTruncatedInput, n, c.off, rem)
	}

	return nil
}
