package attr

import (
	"bytes"
	"math/big"
)

// Kind identifies a Value variant.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindBool
	KindInt
	KindFloat
	KindBytes
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a decoded attribute value. The set of implementations is closed.
type Value interface {
	Kind() Kind
	// Native converts the value into plain Go data suitable for JSON/YAML/CBOR.
	Native() any
	isValue()
}

type String string

func (String) Kind() Kind    { return KindString }
func (v String) Native() any { return string(v) }
func (String) isValue()      {}

type Bool bool

func (Bool) Kind() Kind    { return KindBool }
func (v Bool) Native() any { return bool(v) }
func (Bool) isValue()      {}

type Float float64

func (Float) Kind() Kind    { return KindFloat }
func (v Float) Native() any { return float64(v) }
func (Float) isValue()      {}

type Bytes []byte

func (Bytes) Kind() Kind { return KindBytes }
func (v Bytes) Native() any {
	return bytes.Clone([]byte(v))
}
func (Bytes) isValue() {}

type Array []Value

func (Array) Kind() Kind { return KindArray }
func (v Array) Native() any {
	out := make([]any, len(v))
	for i, elem := range v {
		out[i] = elem.Native()
	}
	return out
}
func (Array) isValue() {}

// Int is an arbitrary-precision integer value. The zero Int is 0.
type Int struct {
	v *big.Int
}

// NewInt returns an Int holding n.
func NewInt(n int64) Int {
	return Int{v: big.NewInt(n)}
}

// NewUint returns an Int holding n.
func NewUint(n uint64) Int {
	return Int{v: new(big.Int).SetUint64(n)}
}

// NewBigInt returns an Int holding a copy of n.
func NewBigInt(n *big.Int) Int {
	if n == nil {
		return Int{}
	}
	return Int{v: new(big.Int).Set(n)}
}

// ParseInt parses a base-10 integer of any magnitude.
func ParseInt(s string) (Int, bool) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int{}, false
	}
	return Int{v: n}, true
}

// Big returns a copy of the underlying integer.
func (v Int) Big() *big.Int {
	if v.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v.v)
}

func (v Int) String() string {
	return v.Big().String()
}

func (Int) Kind() Kind { return KindInt }

// Native returns int64 or uint64 when the value fits, else its decimal string.
func (v Int) Native() any {
	n := v.Big()
	switch {
	case n.IsInt64():
		return n.Int64()
	case n.IsUint64():
		return n.Uint64()
	default:
		return n.String()
	}
}

func (Int) isValue() {}

// Equal reports whether a and b hold the same variant and value.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case String:
		return av == b.(String)
	case Bool:
		return av == b.(Bool)
	case Float:
		return av == b.(Float)
	case Int:
		return av.Big().Cmp(b.(Int).Big()) == 0
	case Bytes:
		return bytes.Equal(av, b.(Bytes))
	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
