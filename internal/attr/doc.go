// Package attr owns attribute value types and their codecs.
//
// Ownership boundary:
// - typed value sum (string, bool, int, float, bytes, array)
// - per-type serialize/deserialize/coerce
// - type-name registry consulted at schema construction
package attr
