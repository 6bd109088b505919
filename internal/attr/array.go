package attr

import (
	"reflect"

	"github.com/danmuck/rowcodec/internal/wire"
)

const arraySuffix = "[]"

// arrayCodec writes a varint element count followed by each element.
type arrayCodec struct {
	elem Codec
}

func (c *arrayCodec) TypeName() string { return c.elem.TypeName() + arraySuffix }

func (c *arrayCodec) Serialize(v Value) ([]byte, error) {
	arr, ok := v.(Array)
	if !ok {
		return nil, kindMismatch(c.TypeName(), KindArray, v)
	}
	out := wire.PackUint(uint64(len(arr)))
	for i, elem := range arr {
		b, err := c.elem.Serialize(elem)
		if err != nil {
			return nil, invalid(c.TypeName(), "element %d: %v", i, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

func (c *arrayCodec) Deserialize(cur *wire.Cursor) (Value, error) {
	n, err := wire.UnpackUint(cur, maxInt)
	if err != nil {
		return nil, err
	}
	// Every element occupies at least one byte.
	if n > uint64(cur.Remaining()) {
		return nil, wire.ErrUnexpectedEndOfBuffer
	}
	out := make(Array, 0, n)
	for i := uint64(0); i < n; i++ {
		elem, err := c.elem.Deserialize(cur)
		if err != nil {
			return nil, err
		}
		out = append(out, elem)
	}
	return out, nil
}

func (c *arrayCodec) Coerce(raw any) (Value, error) {
	if arr, ok := raw.(Array); ok {
		out := make(Array, len(arr))
		for i, elem := range arr {
			v, err := c.elem.Coerce(elem)
			if err != nil {
				return nil, invalid(c.TypeName(), "element %d: %v", i, err)
			}
			out[i] = v
		}
		return out, nil
	}
	rv := reflect.ValueOf(raw)
	if raw == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, invalid(c.TypeName(), "cannot use %T as array", raw)
	}
	out := make(Array, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		v, err := c.elem.Coerce(rv.Index(i).Interface())
		if err != nil {
			return nil, invalid(c.TypeName(), "element %d: %v", i, err)
		}
		out[i] = v
	}
	return out, nil
}
