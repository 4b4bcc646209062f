// Package index encodes and decodes biglist index files.
//
// An index file is a fixed 20-byte little-endian header followed by one
// 4-byte record per frame holding the number of source bytes the frame spans.
// Frame offsets are not stored; Load reconstructs them by prefix-summing the
// spans. Decoding failures are reported as ErrStale so callers can rebuild
// the index instead of failing.
package index
