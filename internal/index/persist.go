package index

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/hadarkn/IR-Final-Project-2026/internal/blockstore"
	"github.com/hadarkn/IR-Final-Project-2026/internal/postings"
	"github.com/hadarkn/IR-Final-Project-2026/internal/storage"
	pkgerrors "github.com/hadarkn/IR-Final-Project-2026/pkg/errors"
)

const (
	metadataVersion = 1
	metaSuffix      = ".meta"
	shardLocsSuffix = "_locations.meta"
)

// metadataV1 is the persisted form of an Index. The construction-time
// accumulator has no field here; it can never leak into storage.
type metadataV1 struct {
	Version     int                              `json:"version"`
	DocFreq     map[string]int                   `json:"doc_freq"`
	TermTotal   map[string]int                   `json:"term_total"`
	PostingLocs map[string][]blockstore.Location `json:"posting_locs"`
	TermOrder   []string                         `json:"term_order"`
}

// shardTermV1 records one term of a shard: its locations plus the exact
// statistics computed at construction time. Persisting the real counts
// avoids re-deriving document frequency from the number of shard files,
// which would only approximate it.
type shardTermV1 struct {
	Term      string                `json:"term"`
	DocFreq   int                   `json:"doc_freq"`
	TermTotal int                   `json:"term_total"`
	Locs      []blockstore.Location `json:"locs"`
}

// shardLocsV1 is the persisted location directory of one shard.
type shardLocsV1 struct {
	Version int           `json:"version"`
	Shard   string        `json:"shard"`
	Terms   []shardTermV1 `json:"terms"`
}

// WriteMetadata serializes the index statistics and location directory to
// {name}.meta under dir. The posting accumulator is excluded by schema.
func (idx *Index) WriteMetadata(ctx context.Context, backend storage.Backend, dir, name string) error {
	meta := metadataV1{
		Version:     metadataVersion,
		DocFreq:     idx.DocFreq,
		TermTotal:   idx.TermTotal,
		PostingLocs: idx.PostingLocs,
		TermOrder:   idx.termOrder,
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling index metadata: %w", err)
	}
	if err := storage.WriteAll(ctx, backend, path.Join(dir, name+metaSuffix), data); err != nil {
		return fmt.Errorf("writing index metadata: %w", err)
	}
	return nil
}

// LoadMetadata reconstructs an Index from {name}.meta. The returned index
// has an empty accumulator. If shards were persisted separately its
// location directory may be incomplete until MergeShardLocations runs.
func LoadMetadata(ctx context.Context, backend storage.Backend, dir, name string) (*Index, error) {
	data, err := storage.ReadAll(ctx, backend, path.Join(dir, name+metaSuffix))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s/%s%s: %v", pkgerrors.ErrIndexNotFound, dir, name, metaSuffix, err)
	}
	var meta metadataV1
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: parsing %s/%s%s: %v", pkgerrors.ErrMetadataCorrupt, dir, name, metaSuffix, err)
	}
	if meta.Version != metadataVersion {
		return nil, fmt.Errorf("%w: unsupported metadata version %d", pkgerrors.ErrMetadataCorrupt, meta.Version)
	}
	idx := New()
	if meta.DocFreq != nil {
		idx.DocFreq = meta.DocFreq
	}
	if meta.TermTotal != nil {
		idx.TermTotal = meta.TermTotal
	}
	if meta.PostingLocs != nil {
		idx.PostingLocs = meta.PostingLocs
	}
	if meta.TermOrder != nil {
		idx.termOrder = meta.TermOrder
	} else {
		for term := range idx.PostingLocs {
			idx.termOrder = append(idx.termOrder, term)
		}
	}
	return idx, nil
}

// WriteShard persists one disjoint term partition: every posting list is
// encoded into a contiguous buffer and appended through a fresh block-store
// writer scoped to shardID, and the resulting shard-local location directory
// is written to {shardID}_locations.meta. WriteShard is stateless and safe
// to run concurrently with other shards; no two shards touch the same
// segment files. It returns shardID as a completion token.
func WriteShard(ctx context.Context, backend storage.Backend, dir, shardID string, terms []TermPostings) (string, error) {
	w, err := blockstore.NewWriter(ctx, backend, dir, shardID)
	if err != nil {
		return shardID, fmt.Errorf("shard %s: %w", shardID, err)
	}

	shard := shardLocsV1{
		Version: metadataVersion,
		Shard:   shardID,
		Terms:   make([]shardTermV1, 0, len(terms)),
	}
	for _, tp := range terms {
		buf := postings.EncodeList(tp.Postings)
		locs, err := w.Write(ctx, buf)
		if err != nil {
			w.Close()
			return shardID, fmt.Errorf("shard %s: writing postings for term %q: %w", shardID, tp.Term, err)
		}
		total := 0
		for _, e := range tp.Postings {
			total += int(e.TF)
		}
		shard.Terms = append(shard.Terms, shardTermV1{
			Term:      tp.Term,
			DocFreq:   len(tp.Postings),
			TermTotal: total,
			Locs:      locs,
		})
	}
	if err := w.Close(); err != nil {
		return shardID, fmt.Errorf("shard %s: closing writer: %w", shardID, err)
	}

	data, err := json.Marshal(shard)
	if err != nil {
		return shardID, fmt.Errorf("shard %s: marshaling locations: %w", shardID, err)
	}
	if err := storage.WriteAll(ctx, backend, path.Join(dir, shardID+shardLocsSuffix), data); err != nil {
		return shardID, fmt.Errorf("shard %s: writing locations: %w", shardID, err)
	}
	return shardID, nil
}

// MergeShardLocations discovers every {shard}_locations.meta under dir and
// folds it into the index. Merging is a commutative union over term keys:
// shard files may arrive in any order. Location lists are taken verbatim
// from each shard; statistics are taken from the shard files' exact counts
// for terms the loaded metadata does not already cover.
func (idx *Index) MergeShardLocations(ctx context.Context, backend storage.Backend, dir string) error {
	names, err := backend.List(ctx, dir+"/")
	if err != nil {
		return fmt.Errorf("listing shard locations in %s: %w", dir, err)
	}
	for _, name := range names {
		if !strings.HasSuffix(name, shardLocsSuffix) {
			continue
		}
		data, err := storage.ReadAll(ctx, backend, name)
		if err != nil {
			return fmt.Errorf("reading shard locations %s: %w", name, err)
		}
		var shard shardLocsV1
		if err := json.Unmarshal(data, &shard); err != nil {
			return fmt.Errorf("%w: parsing %s: %v", pkgerrors.ErrMetadataCorrupt, name, err)
		}
		for _, st := range shard.Terms {
			hadStats := idx.DocFreq[st.Term] > 0
			idx.addLocations(st.Term, st.Locs)
			if !hadStats {
				idx.DocFreq[st.Term] += st.DocFreq
				idx.TermTotal[st.Term] += st.TermTotal
			}
		}
	}
	return nil
}
