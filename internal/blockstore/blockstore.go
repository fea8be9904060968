// Package blockstore implements a sequential byte store split across a
// numbered series of capacity-bounded segment files. A Writer appends
// payloads, rolling over to a new file whenever the current one fills, and
// reports exactly where each chunk landed; a Reader reassembles byte ranges
// from those recorded locations. The store has no notion of what the bytes
// mean.
package blockstore

import "fmt"

// BlockSize is the capacity of one segment file in bytes. It is deliberately
// not a multiple of the posting record size, so a logical payload may be
// split mid-record across two files; Writer and Reader handle that
// symmetrically.
const BlockSize = 1999998

// Location identifies where a contiguous chunk of a payload begins inside
// one segment file.
type Location struct {
	File   string `json:"f"`
	Offset int64  `json:"o"`
}

// segmentName returns the file name of the seq-th segment for a base name,
// e.g. "postings_000.bin".
func segmentName(name string, seq int) string {
	return fmt.Sprintf("%s_%03d.bin", name, seq)
}
