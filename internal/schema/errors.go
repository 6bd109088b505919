package schema

import (
	"errors"
	"fmt"

	"github.com/danmuck/rowcodec/internal/attr"
	"github.com/danmuck/rowcodec/internal/wire"
)

var (
	ErrUnknownAttribute = errors.New("schema: unknown attribute")
	ErrInvalidFormat    = errors.New("schema: invalid format")
	ErrTagOrder         = errors.New("schema: tags out of order")
)

// FormatError is returned by New when the schema description cannot be built.
type FormatError struct {
	Index int
	Name  string
	Type  string
	Err   error
}

func (e FormatError) Error() string {
	return fmt.Sprintf("schema: attribute[%d] name=%q type=%q: %v", e.Index, e.Name, e.Type, e.Err)
}

func (e FormatError) Unwrap() error { return e.Err }

// EncodeError is returned when a record cannot be serialized.
type EncodeError struct {
	Schema    string
	Attribute string
	Err       error
}

func (e EncodeError) Error() string {
	return fmt.Sprintf("schema %s: encode attribute %q: %v", e.Schema, e.Attribute, e.Err)
}

func (e EncodeError) Unwrap() error { return e.Err }

// DecodeError is returned when a buffer cannot be decoded. Offset is where
// the failing tag started. Tag is zero when the tag itself was unreadable.
type DecodeError struct {
	Schema    string
	Offset    int
	Tag       uint64
	Attribute string
	Err       error
}

func (e DecodeError) Error() string {
	if e.Attribute == "" {
		return fmt.Sprintf("schema %s: decode at offset %d tag=%d: %v", e.Schema, e.Offset, e.Tag, e.Err)
	}
	return fmt.Sprintf("schema %s: decode at offset %d tag=%d attribute=%q: %v",
		e.Schema, e.Offset, e.Tag, e.Attribute, e.Err)
}

func (e DecodeError) Unwrap() error { return e.Err }

// resultLabel classifies err for metrics.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnknownAttribute):
		return "unknown_attribute"
	case errors.Is(err, ErrTagOrder):
		return "tag_order"
	case errors.Is(err, wire.ErrMalformedVarint):
		return "malformed_varint"
	case errors.Is(err, wire.ErrUnexpectedEndOfBuffer):
		return "unexpected_end"
	case errors.Is(err, attr.ErrInvalidValue):
		return "invalid_value"
	default:
		return "error"
	}
}
