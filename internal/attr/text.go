package attr

import (
	"bytes"
	"encoding/base64"

	"github.com/danmuck/rowcodec/internal/wire"
	"github.com/mr-tron/base58"
)

// stringCodec writes a varint byte length followed by the string bytes.
type stringCodec struct {
	name string
}

func (c *stringCodec) TypeName() string { return c.name }

func (c *stringCodec) Serialize(v Value) ([]byte, error) {
	s, ok := v.(String)
	if !ok {
		return nil, kindMismatch(c.name, KindString, v)
	}
	return withLength([]byte(s)), nil
}

func (c *stringCodec) Deserialize(cur *wire.Cursor) (Value, error) {
	b, err := readLength(cur)
	if err != nil {
		return nil, err
	}
	return String(b), nil
}

func (c *stringCodec) Coerce(raw any) (Value, error) {
	switch v := raw.(type) {
	case String:
		return v, nil
	case string:
		return String(v), nil
	default:
		return nil, invalid(c.name, "cannot use %T as string", raw)
	}
}

// ipfsCodec carries base58 content identifiers in their decoded binary form.
type ipfsCodec struct{}

func (ipfsCodec) TypeName() string { return "ipfs" }

func (c ipfsCodec) Serialize(v Value) ([]byte, error) {
	s, ok := v.(String)
	if !ok {
		return nil, kindMismatch("ipfs", KindString, v)
	}
	raw, err := decodeCID(string(s))
	if err != nil {
		return nil, err
	}
	return withLength(raw), nil
}

// decodeCID treats the empty string as an empty payload, the form an empty
// value decodes to.
func decodeCID(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, invalid("ipfs", "%q: %v", s, err)
	}
	return raw, nil
}

func (ipfsCodec) Deserialize(cur *wire.Cursor) (Value, error) {
	b, err := readLength(cur)
	if err != nil {
		return nil, err
	}
	return String(base58.Encode(b)), nil
}

func (c ipfsCodec) Coerce(raw any) (Value, error) {
	var s string
	switch v := raw.(type) {
	case String:
		s = string(v)
	case string:
		s = v
	default:
		return nil, invalid("ipfs", "cannot use %T as string", raw)
	}
	if _, err := decodeCID(s); err != nil {
		return nil, err
	}
	return String(s), nil
}

// bytesCodec writes a varint length followed by raw bytes.
type bytesCodec struct{}

func (bytesCodec) TypeName() string { return "bytes" }

func (bytesCodec) Serialize(v Value) ([]byte, error) {
	b, ok := v.(Bytes)
	if !ok {
		return nil, kindMismatch("bytes", KindBytes, v)
	}
	return withLength(b), nil
}

func (bytesCodec) Deserialize(cur *wire.Cursor) (Value, error) {
	b, err := readLength(cur)
	if err != nil {
		return nil, err
	}
	return Bytes(bytes.Clone(b)), nil
}

// Coerce accepts raw bytes, base64 text (the JSON form of []byte), or a
// list of byte-sized integers.
func (bytesCodec) Coerce(raw any) (Value, error) {
	switch v := raw.(type) {
	case Bytes:
		return Bytes(bytes.Clone(v)), nil
	case []byte:
		return Bytes(bytes.Clone(v)), nil
	case string:
		b, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, invalid("bytes", "expected base64 text: %v", err)
		}
		return Bytes(b), nil
	case []any:
		out := make([]byte, len(v))
		elem := newVarInt("uint8", 1, false)
		for i, item := range v {
			iv, err := elem.Coerce(item)
			if err != nil {
				return nil, invalid("bytes", "element %d: %v", i, err)
			}
			out[i] = byte(iv.(Int).Big().Uint64())
		}
		return Bytes(out), nil
	default:
		return nil, invalid("bytes", "cannot use %T as bytes", raw)
	}
}
