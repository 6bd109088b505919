package attr

import (
	"fmt"

	"github.com/danmuck/rowcodec/internal/wire"
)

// Codec serializes one attribute type. Implementations are immutable and
// safe for concurrent use.
type Codec interface {
	// TypeName is the name the codec was resolved from, e.g. "uint64" or "string[]".
	TypeName() string
	// Serialize returns the value bytes without any tag.
	Serialize(v Value) ([]byte, error)
	// Deserialize reads one value and advances c past it.
	Deserialize(c *wire.Cursor) (Value, error)
	// Coerce converts plain Go data (as produced by JSON or YAML decoders)
	// into the value kind this codec serializes.
	Coerce(raw any) (Value, error)
}

const maxInt = uint64(int(^uint(0) >> 1))

func invalid(typeName string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidValue, typeName, fmt.Sprintf(format, args...))
}

func kindMismatch(typeName string, want Kind, got Value) error {
	if got == nil {
		return invalid(typeName, "want %s, got nil", want)
	}
	return invalid(typeName, "want %s, got %s", want, got.Kind())
}

// readLength reads a varint length prefix followed by that many bytes.
func readLength(c *wire.Cursor) ([]byte, error) {
	n, err := wire.UnpackUint(c, maxInt)
	if err != nil {
		return nil, err
	}
	return c.Next(int(n))
}

func withLength(b []byte) []byte {
	prefix := wire.PackUint(uint64(len(b)))
	out := make([]byte, 0, len(prefix)+len(b))
	out = append(out, prefix...)
	return append(out, b...)
}
