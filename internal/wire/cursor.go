package wire

// Cursor is a read position over an immutable byte sequence.
// The position only moves forward. A Cursor must not be shared between
// concurrent decodes.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor returns a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the current read offset.
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Done reports whether every byte has been consumed.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.data)
}

// ReadByte returns the next byte and advances by one.
func (c *Cursor) ReadByte() (byte, error) {
	if c.Done() {
		return 0, ErrUnexpectedEndOfBuffer
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// Next returns the next n bytes and advances past them. The returned slice
// aliases the backing buffer; callers that retain it must copy.
// On failure the cursor does not move.
func (c *Cursor) Next(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, ErrUnexpectedEndOfBuffer
	}
	out := c.data[c.pos : c.pos+n]
	c.pos += n
	return out, nil
}
