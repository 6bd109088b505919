package attr

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/danmuck/rowcodec/internal/wire"
)

// varIntCodec packs intN/uintN as varints; signed values are zigzag mapped.
type varIntCodec struct {
	name   string
	signed bool
	min    *big.Int
	max    *big.Int
}

func newVarInt(name string, width int, signed bool) *varIntCodec {
	bits := uint(width * 8)
	lo, hi := new(big.Int), new(big.Int)
	if signed {
		hi.Lsh(big.NewInt(1), bits-1)
		lo.Neg(hi)
		hi.Sub(hi, big.NewInt(1))
	} else {
		hi.Lsh(big.NewInt(1), bits)
		hi.Sub(hi, big.NewInt(1))
	}
	return &varIntCodec{name: name, signed: signed, min: lo, max: hi}
}

func (c *varIntCodec) TypeName() string { return c.name }

func (c *varIntCodec) Serialize(v Value) ([]byte, error) {
	n, err := c.checked(v)
	if err != nil {
		return nil, err
	}
	if c.signed {
		n = wire.ZigZag(n)
	}
	return wire.Pack(n)
}

func (c *varIntCodec) Deserialize(cur *wire.Cursor) (Value, error) {
	n, err := wire.Unpack(cur)
	if err != nil {
		return nil, err
	}
	if c.signed {
		n = wire.UnZigZag(n)
	}
	// A value wider than the declared type could not be re-encoded.
	if n.Cmp(c.min) < 0 || n.Cmp(c.max) > 0 {
		return nil, invalid(c.name, "decoded %s out of range [%s, %s]", n, c.min, c.max)
	}
	return Int{v: n}, nil
}

func (c *varIntCodec) Coerce(raw any) (Value, error) {
	v, err := coerceInt(c.name, raw)
	if err != nil {
		return nil, err
	}
	if _, err := c.checked(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (c *varIntCodec) checked(v Value) (*big.Int, error) {
	iv, ok := v.(Int)
	if !ok {
		return nil, kindMismatch(c.name, KindInt, v)
	}
	n := iv.Big()
	if n.Cmp(c.min) < 0 || n.Cmp(c.max) > 0 {
		return nil, invalid(c.name, "%s out of range [%s, %s]", n, c.min, c.max)
	}
	return n, nil
}

// fixedIntCodec writes unsigned integers as exactly size little-endian bytes.
type fixedIntCodec struct {
	name string
	size int
	max  *big.Int
}

func newFixedInt(name string, size int) *fixedIntCodec {
	hi := new(big.Int).Lsh(big.NewInt(1), uint(size*8))
	return &fixedIntCodec{name: name, size: size, max: hi.Sub(hi, big.NewInt(1))}
}

func (c *fixedIntCodec) TypeName() string { return c.name }

func (c *fixedIntCodec) Serialize(v Value) ([]byte, error) {
	n, err := c.checked(v)
	if err != nil {
		return nil, err
	}
	be := n.FillBytes(make([]byte, c.size))
	out := make([]byte, c.size)
	for i := range be {
		out[c.size-1-i] = be[i]
	}
	return out, nil
}

func (c *fixedIntCodec) Deserialize(cur *wire.Cursor) (Value, error) {
	le, err := cur.Next(c.size)
	if err != nil {
		return nil, err
	}
	be := make([]byte, c.size)
	for i := range le {
		be[c.size-1-i] = le[i]
	}
	return Int{v: new(big.Int).SetBytes(be)}, nil
}

func (c *fixedIntCodec) Coerce(raw any) (Value, error) {
	v, err := coerceInt(c.name, raw)
	if err != nil {
		return nil, err
	}
	if _, err := c.checked(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (c *fixedIntCodec) checked(v Value) (*big.Int, error) {
	iv, ok := v.(Int)
	if !ok {
		return nil, kindMismatch(c.name, KindInt, v)
	}
	n := iv.Big()
	if n.Sign() < 0 || n.Cmp(c.max) > 0 {
		return nil, invalid(c.name, "%s out of range [0, %s]", n, c.max)
	}
	return n, nil
}

func coerceInt(typeName string, raw any) (Int, error) {
	switch v := raw.(type) {
	case Int:
		return v, nil
	case *big.Int:
		if v == nil {
			return Int{}, invalid(typeName, "nil integer")
		}
		return NewBigInt(v), nil
	case big.Int:
		return NewBigInt(&v), nil
	case int:
		return NewInt(int64(v)), nil
	case int8:
		return NewInt(int64(v)), nil
	case int16:
		return NewInt(int64(v)), nil
	case int32:
		return NewInt(int64(v)), nil
	case int64:
		return NewInt(v), nil
	case uint:
		return NewUint(uint64(v)), nil
	case uint8:
		return NewUint(uint64(v)), nil
	case uint16:
		return NewUint(uint64(v)), nil
	case uint32:
		return NewUint(uint64(v)), nil
	case uint64:
		return NewUint(v), nil
	case float64:
		return intFromFloat(typeName, v)
	case float32:
		return intFromFloat(typeName, float64(v))
	case json.Number:
		return intFromString(typeName, string(v))
	case string:
		return intFromString(typeName, v)
	default:
		return Int{}, invalid(typeName, "cannot use %T as integer", raw)
	}
}

func intFromFloat(typeName string, f float64) (Int, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return Int{}, invalid(typeName, "%v is not an integer", f)
	}
	n, _ := big.NewFloat(f).Int(nil)
	return Int{v: n}, nil
}

func intFromString(typeName string, s string) (Int, error) {
	v, ok := ParseInt(strings.TrimSpace(s))
	if !ok {
		return Int{}, invalid(typeName, "%q is not an integer", s)
	}
	return v, nil
}
