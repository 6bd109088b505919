package wire

import "errors"

var (
	ErrMalformedVarint       = errors.New("wire: malformed varint")
	ErrUnexpectedEndOfBuffer = errors.New("wire: unexpected end of buffer")
	ErrNegativeVarint        = errors.New("wire: negative varint")
)
