package pngdecode

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// cursor is a bounded, big-endian reader over an immutable byte slice. It
// never allocates and never reads past the end of the backing slice.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

// has reports whether n more bytes are available from the current position.
func (c *cursor) has(n int) bool {
	return n >= 0 && c.pos+n <= len(c.buf)
}

// remaining returns the number of unread bytes.
func (c *cursor) remaining() int {
	return len(c.buf) - c.pos
}

// skip advances the cursor by n bytes, never past the end.
func (c *cursor) skip(n int) error {
	if !c.has(n) {
		return errors.WithStack(ErrNotEnoughBytes)
	}
	c.pos += n
	return nil
}

// rewind moves the cursor back by n bytes, never past the start.
func (c *cursor) rewind(n int) {
	c.pos -= n
	if c.pos < 0 {
		c.pos = 0
	}
}

// peekAt returns a borrowed slice of len bytes starting offset bytes ahead of
// the current position, without advancing the cursor.
func (c *cursor) peekAt(offset, length int) ([]byte, error) {
	start := c.pos + offset
	end := start + length
	if offset < 0 || start < 0 || end > len(c.buf) {
		return nil, errors.WithStack(ErrNotEnoughBytes)
	}
	return c.buf[start:end], nil
}

func (c *cursor) getU8() (byte, error) {
	b, err := c.peekAt(0, 1)
	if err != nil {
		return 0, err
	}
	c.pos++
	return b[0], nil
}

func (c *cursor) getU16BE() (uint16, error) {
	b, err := c.peekAt(0, 2)
	if err != nil {
		return 0, err
	}
	c.pos += 2
	return binary.BigEndian.Uint16(b), nil
}

func (c *cursor) getU32BE() (uint32, error) {
	b, err := c.peekAt(0, 4)
	if err != nil {
		return 0, err
	}
	c.pos += 4
	return binary.BigEndian.Uint32(b), nil
}

func (c *cursor) getU64BE() (uint64, error) {
	b, err := c.peekAt(0, 8)
	if err != nil {
		return 0, err
	}
	c.pos += 8
	return binary.BigEndian.Uint64(b), nil
}
