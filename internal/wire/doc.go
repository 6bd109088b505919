// Package wire owns the byte-level primitives of the record codec.
//
// Ownership boundary:
// - read cursor over an immutable buffer
// - arbitrary-precision varint pack/unpack
// - zigzag mapping for signed integers
package wire
