package wire

import (
	"math/big"
)

const (
	groupBits        = 7
	groupMask        = 0x7f
	continuationFlag = 0x80
)

var bigOne = big.NewInt(1)

// Pack encodes a non-negative integer of any magnitude as 7-bit groups,
// least-significant group first, with the high bit set on every byte
// except the last.
func Pack(n *big.Int) ([]byte, error) {
	if n == nil || n.Sign() == 0 {
		return []byte{0}, nil
	}
	if n.Sign() < 0 {
		return nil, ErrNegativeVarint
	}
	out := make([]byte, 0, Size(n))
	rest := new(big.Int).Set(n)
	group := new(big.Int)
	mask := big.NewInt(groupMask)
	for {
		group.And(rest, mask)
		rest.Rsh(rest, groupBits)
		b := byte(group.Uint64())
		if rest.Sign() == 0 {
			return append(out, b), nil
		}
		out = append(out, b|continuationFlag)
	}
}

// PackUint packs a native unsigned value. Used for tags, lengths and counts.
func PackUint(n uint64) []byte {
	out := make([]byte, 0, 10)
	for n >= continuationFlag {
		out = append(out, byte(n&groupMask)|continuationFlag)
		n >>= groupBits
	}
	return append(out, byte(n))
}

// Size returns the packed length of n in bytes.
func Size(n *big.Int) int {
	if n == nil || n.Sign() <= 0 {
		return 1
	}
	bits := n.BitLen()
	return (bits + groupBits - 1) / groupBits
}

// Unpack reads one varint from c. If the buffer ends before a byte without
// the continuation flag is seen, it fails with ErrMalformedVarint.
func Unpack(c *Cursor) (*big.Int, error) {
	n := new(big.Int)
	group := new(big.Int)
	shift := uint(0)
	for {
		b, err := c.ReadByte()
		if err != nil {
			return nil, ErrMalformedVarint
		}
		group.SetUint64(uint64(b & groupMask))
		group.Lsh(group, shift)
		n.Or(n, group)
		if b&continuationFlag == 0 {
			return n, nil
		}
		shift += groupBits
	}
}

// UnpackUint reads a varint that must not exceed max. Lengths and counts
// use it: a value above max cannot be satisfied by the remaining buffer,
// so it fails with ErrUnexpectedEndOfBuffer.
func UnpackUint(c *Cursor, max uint64) (uint64, error) {
	n, err := Unpack(c)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() || n.Uint64() > max {
		return 0, ErrUnexpectedEndOfBuffer
	}
	return n.Uint64(), nil
}

// ZigZag maps signed integers onto unsigned ones: 0, -1, 1, -2 become 0, 1, 2, 3.
func ZigZag(n *big.Int) *big.Int {
	out := new(big.Int)
	if n.Sign() >= 0 {
		return out.Lsh(n, 1)
	}
	// -n*2 - 1
	out.Neg(n)
	out.Lsh(out, 1)
	return out.Sub(out, bigOne)
}

// UnZigZag reverses ZigZag.
func UnZigZag(n *big.Int) *big.Int {
	out := new(big.Int).Rsh(n, 1)
	if n.Bit(0) == 1 {
		// -(n>>1) - 1
		out.Neg(out)
		out.Sub(out, bigOne)
	}
	return out
}
