package attr

import (
	"strconv"

	"github.com/danmuck/rowcodec/internal/wire"
)

type boolCodec struct{}

func (boolCodec) TypeName() string { return "bool" }

func (boolCodec) Serialize(v Value) ([]byte, error) {
	b, ok := v.(Bool)
	if !ok {
		return nil, kindMismatch("bool", KindBool, v)
	}
	if b {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

func (boolCodec) Deserialize(cur *wire.Cursor) (Value, error) {
	b, err := cur.ReadByte()
	if err != nil {
		return nil, err
	}
	switch b {
	case 0:
		return Bool(false), nil
	case 1:
		return Bool(true), nil
	default:
		return nil, invalid("bool", "byte 0x%02x is not 0 or 1", b)
	}
}

func (boolCodec) Coerce(raw any) (Value, error) {
	switch v := raw.(type) {
	case Bool:
		return v, nil
	case bool:
		return Bool(v), nil
	case string:
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, invalid("bool", "%q is not a boolean", v)
		}
		return Bool(parsed), nil
	default:
		return nil, invalid("bool", "cannot use %T as bool", raw)
	}
}
