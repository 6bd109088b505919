// Package schema owns schema construction and the sparse record codec.
//
// Ownership boundary:
// - attribute declaration order and tag assignment (tag = position + 1)
// - record encode/decode over wire primitives
// - construction, encode and decode error types
//
// Wire form:
//
//	record := (tag:varint value:bytes)* terminator:varint(0)
package schema
