// Package cache owns the in-process store of ledger rows.
//
// Ownership boundary:
// - per-kind keyed stores with absolute expiry and last-refresh time
// - read / fresh read / write / invalidate accessors
// - row copies on write and read so cached payload bytes are never aliased
//
// Row payloads stay encoded; the cache never decodes them.
package cache
