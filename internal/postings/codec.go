// Package postings defines the fixed-width binary codec for posting-list
// entries. Every entry is exactly 6 bytes, big-endian: 4 bytes of document
// id followed by 2 bytes of term frequency.
package postings

import "encoding/binary"

const (
	// EntrySize is the encoded size of one posting entry in bytes.
	EntrySize = 6
	// TFMask keeps the low 16 bits of a term frequency. Counts of 65536 or
	// more silently lose their high bits; this is a wire-format constraint,
	// not an error.
	TFMask = 1<<16 - 1
)

// Entry is one posting: a document id and the term's frequency in that
// document.
type Entry struct {
	DocID uint32
	TF    uint16
}

// AppendEntry appends the 6-byte encoding of (docID, tf) to dst. tf is
// masked to 16 bits.
func AppendEntry(dst []byte, docID uint32, tf int) []byte {
	var rec [EntrySize]byte
	binary.BigEndian.PutUint32(rec[0:4], docID)
	binary.BigEndian.PutUint16(rec[4:6], uint16(tf&TFMask))
	return append(dst, rec[:]...)
}

// EncodeList encodes a whole posting list into one contiguous buffer.
func EncodeList(entries []Entry) []byte {
	buf := make([]byte, 0, len(entries)*EntrySize)
	for _, e := range entries {
		buf = AppendEntry(buf, e.DocID, int(e.TF))
	}
	return buf
}

// DecodeList decodes n entries from b, in encoding order. b must hold at
// least n*EntrySize bytes.
func DecodeList(b []byte, n int) []Entry {
	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		rec := b[i*EntrySize : (i+1)*EntrySize]
		entries = append(entries, Entry{
			DocID: binary.BigEndian.Uint32(rec[0:4]),
			TF:    binary.BigEndian.Uint16(rec[4:6]),
		})
	}
	return entries
}
