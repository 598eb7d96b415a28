package record

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/KevoDB/inspect/pkg/varint"
)

// ErrTruncated is returned when a field runs past the remaining window.
// It is a stop signal, not corruption severe enough to abort a walk:
// partially written blocks are common at truncation points.
var ErrTruncated = errors.New("record: truncated")

// Cursor is a bounded window over a block payload. Every read checks the
// remaining byte budget before consuming, so a hostile or truncated payload
// can only produce an early ErrTruncated, never an out-of-window access.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor creates a cursor positioned at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Remaining returns the number of unconsumed bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.off
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int {
	return c.off
}

// ReadByte consumes and returns a single byte.
func (c *Cursor) ReadByte() (byte, error) {
	if c.Remaining() < 1 {
		return 0, ErrTruncated
	}
	b := c.buf[c.off]
	c.off++
	return b, nil
}

// ReadUvarint consumes one variable-length unsigned integer.
func (c *Cursor) ReadUvarint() (uint64, error) {
	v, n, err := varint.Uvarint(c.buf[c.off:])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	c.off += n
	return v, nil
}

// ReadInt64 consumes a fixed 8-byte little-endian signed integer.
func (c *Cursor) ReadInt64() (int64, error) {
	if c.Remaining() < 8 {
		return 0, ErrTruncated
	}
	v := int64(binary.LittleEndian.Uint64(c.buf[c.off:]))
	c.off += 8
	return v, nil
}

// ReadBytes consumes n bytes and returns them as a subslice of the underlying
// buffer. The result aliases the payload and is only valid while the payload is.
func (c *Cursor) ReadBytes(n uint64) ([]byte, error) {
	if n > uint64(c.Remaining()) {
		return nil, ErrTruncated
	}
	b := c.buf[c.off : c.off+int(n)]
	c.off += int(n)
	return b, nil
}
