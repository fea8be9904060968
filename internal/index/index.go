// Package index implements the inverted index: per-term document frequency
// and total occurrence statistics, a location directory pointing into the
// segmented block store, and the construction-time posting accumulator.
//
// An Index lives in two phases. During construction, AddDocument fills the
// transient accumulator; WriteShard then encodes disjoint term partitions
// into the block store (independently, one writer per shard) and
// WriteMetadata persists the statistics and location directory. At query
// time an Index is rebuilt from metadata alone, the accumulator stays empty
// and posting lists are read on demand from the block store.
package index

import (
	"context"

	"github.com/hadarkn/IR-Final-Project-2026/internal/blockstore"
	"github.com/hadarkn/IR-Final-Project-2026/internal/postings"
	"github.com/hadarkn/IR-Final-Project-2026/internal/storage"
)

// TermPostings pairs a term with its accumulated posting list.
type TermPostings struct {
	Term     string
	Postings []postings.Entry
}

// Index is the term statistics and location directory of one field index
// (body, title or anchor).
type Index struct {
	// DocFreq counts the distinct documents containing each term.
	DocFreq map[string]int
	// TermTotal sums each term's frequency across all documents.
	TermTotal map[string]int
	// PostingLocs maps each term to the block-store locations of its
	// encoded posting list, in write order.
	PostingLocs map[string][]blockstore.Location

	// termOrder preserves the insertion order of PostingLocs keys so
	// iteration is deterministic.
	termOrder []string

	// accum is the construction-only posting accumulator. It is never
	// serialized; the metadata schema has no field for it.
	accum      map[string][]postings.Entry
	accumOrder []string
}

// New creates an empty index ready for construction.
func New() *Index {
	return &Index{
		DocFreq:     make(map[string]int),
		TermTotal:   make(map[string]int),
		PostingLocs: make(map[string][]blockstore.Location),
		accum:       make(map[string][]postings.Entry),
	}
}

// NewFromDocs builds an index from a document set in one pass.
func NewFromDocs(docs map[uint32][]string) *Index {
	idx := New()
	for docID, tokens := range docs {
		idx.AddDocument(docID, tokens)
	}
	return idx
}

// AddDocument counts the tokens of one document and folds them into the
// index: DocFreq rises by one per distinct term, TermTotal by the term's
// count, and (docID, count) is appended to the term's accumulator. Adding
// the same docID twice is not deduplicated; callers add each document once.
func (idx *Index) AddDocument(docID uint32, tokens []string) {
	counts := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, seen := counts[tok]; !seen {
			order = append(order, tok)
		}
		counts[tok]++
	}
	for _, term := range order {
		cnt := counts[term]
		idx.DocFreq[term]++
		idx.TermTotal[term] += cnt
		if _, ok := idx.accum[term]; !ok {
			idx.accumOrder = append(idx.accumOrder, term)
		}
		idx.accum[term] = append(idx.accum[term], postings.Entry{
			DocID: docID,
			TF:    uint16(cnt & postings.TFMask),
		})
	}
}

// Accumulated returns the transient posting lists in first-seen term order.
// The slices alias the accumulator; callers must not mutate them.
func (idx *Index) Accumulated() []TermPostings {
	out := make([]TermPostings, 0, len(idx.accumOrder))
	for _, term := range idx.accumOrder {
		out = append(out, TermPostings{Term: term, Postings: idx.accum[term]})
	}
	return out
}

// Terms returns the terms of the location directory in insertion order.
func (idx *Index) Terms() []string {
	return idx.termOrder
}

// addLocations records locs for term, preserving first-insertion order of
// terms.
func (idx *Index) addLocations(term string, locs []blockstore.Location) {
	if _, ok := idx.PostingLocs[term]; !ok {
		idx.termOrder = append(idx.termOrder, term)
	}
	idx.PostingLocs[term] = append(idx.PostingLocs[term], locs...)
}

// ReadPostingList fetches and decodes the posting list of one term. Unknown
// terms yield an empty list, not an error. A fresh block-store reader is
// opened and closed per call.
func (idx *Index) ReadPostingList(ctx context.Context, backend storage.Backend, dir, term string) ([]postings.Entry, error) {
	locs, ok := idx.PostingLocs[term]
	if !ok {
		return nil, nil
	}
	r := blockstore.NewReader(backend, dir)
	defer r.Close()

	n := idx.DocFreq[term]
	b, err := r.Read(ctx, locs, n*postings.EntrySize)
	if err != nil {
		return nil, err
	}
	if avail := len(b) / postings.EntrySize; avail < n {
		n = avail
	}
	return postings.DecodeList(b, n), nil
}

// Iterate calls fn for every term's posting list, in location-directory
// insertion order, sharing one block-store reader across all terms. It is a
// single pass; iterating again opens a new reader.
func (idx *Index) Iterate(ctx context.Context, backend storage.Backend, dir string, fn func(term string, pl []postings.Entry) error) error {
	r := blockstore.NewReader(backend, dir)
	defer r.Close()

	for _, term := range idx.termOrder {
		n := idx.DocFreq[term]
		b, err := r.Read(ctx, idx.PostingLocs[term], n*postings.EntrySize)
		if err != nil {
			return err
		}
		if avail := len(b) / postings.EntrySize; avail < n {
			n = avail
		}
		if err := fn(term, postings.DecodeList(b, n)); err != nil {
			return err
		}
	}
	return nil
}
