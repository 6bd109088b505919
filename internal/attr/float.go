package attr

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"strconv"

	"github.com/danmuck/rowcodec/internal/wire"
)

// floatCodec writes IEEE-754 little-endian values of 4 or 8 bytes.
type floatCodec struct {
	name string
	size int
}

func (c *floatCodec) TypeName() string { return c.name }

func (c *floatCodec) Serialize(v Value) ([]byte, error) {
	f, ok := v.(Float)
	if !ok {
		return nil, kindMismatch(c.name, KindFloat, v)
	}
	out := make([]byte, c.size)
	if c.size == 4 {
		binary.LittleEndian.PutUint32(out, math.Float32bits(float32(f)))
	} else {
		binary.LittleEndian.PutUint64(out, math.Float64bits(float64(f)))
	}
	return out, nil
}

func (c *floatCodec) Deserialize(cur *wire.Cursor) (Value, error) {
	b, err := cur.Next(c.size)
	if err != nil {
		return nil, err
	}
	if c.size == 4 {
		return Float(math.Float32frombits(binary.LittleEndian.Uint32(b))), nil
	}
	return Float(math.Float64frombits(binary.LittleEndian.Uint64(b))), nil
}

func (c *floatCodec) Coerce(raw any) (Value, error) {
	var f float64
	switch v := raw.(type) {
	case Float:
		f = float64(v)
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil, invalid(c.name, "%q is not a number", string(v))
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, invalid(c.name, "%q is not a number", v)
		}
		f = parsed
	default:
		return nil, invalid(c.name, "cannot use %T as float", raw)
	}
	// 4-byte values are stored rounded so decode returns what was coerced.
	if c.size == 4 {
		f = float64(float32(f))
	}
	return Float(f), nil
}
