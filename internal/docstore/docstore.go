// Package docstore holds the per-document metadata consumed at query time:
// titles, TF-IDF norms, page views and PageRank scores. Each map is
// persisted as its own versioned record through the storage backend, so the
// search service can run with any subset present.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/hadarkn/IR-Final-Project-2026/internal/storage"
)

const (
	TitlesFile    = "id_to_title.meta"
	NormsFile     = "doc_norms.meta"
	PageViewsFile = "page_views.meta"
	PageRankFile  = "page_rank.meta"

	recordVersion = 1
)

// UnknownTitle is returned for document ids with no recorded title.
const UnknownTitle = "Unknown"

// Store is the read-only document metadata loaded at startup.
type Store struct {
	Titles    map[uint32]string
	Norms     map[uint32]float64
	PageViews map[uint32]int64
	PageRank  map[uint32]float64
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		Titles:    make(map[uint32]string),
		Norms:     make(map[uint32]float64),
		PageViews: make(map[uint32]int64),
		PageRank:  make(map[uint32]float64),
	}
}

// Title returns the document's title, or UnknownTitle.
func (s *Store) Title(docID uint32) string {
	if t, ok := s.Titles[docID]; ok {
		return t
	}
	return UnknownTitle
}

// Norm returns the document's TF-IDF norm, defaulting to 1 so that missing
// norms leave scores unscaled.
func (s *Store) Norm(docID uint32) float64 {
	if n, ok := s.Norms[docID]; ok && n != 0 {
		return n
	}
	return 1
}

// DocCount reports the number of documents with a recorded norm; this is
// the corpus size N used by idf.
func (s *Store) DocCount() int {
	return len(s.Norms)
}

type record[V any] struct {
	Version int          `json:"version"`
	Entries map[uint32]V `json:"entries"`
}

// Load reads every metadata record under dir. A missing record leaves its
// map empty and is logged, not fatal; a corrupt one is an error.
func Load(ctx context.Context, backend storage.Backend, dir string) (*Store, error) {
	s := New()
	if err := loadRecord(ctx, backend, path.Join(dir, TitlesFile), &s.Titles); err != nil {
		return nil, err
	}
	if err := loadRecord(ctx, backend, path.Join(dir, NormsFile), &s.Norms); err != nil {
		return nil, err
	}
	if err := loadRecord(ctx, backend, path.Join(dir, PageViewsFile), &s.PageViews); err != nil {
		return nil, err
	}
	if err := loadRecord(ctx, backend, path.Join(dir, PageRankFile), &s.PageRank); err != nil {
		return nil, err
	}
	return s, nil
}

// Save persists every non-empty metadata map under dir.
func (s *Store) Save(ctx context.Context, backend storage.Backend, dir string) error {
	if err := saveRecord(ctx, backend, path.Join(dir, TitlesFile), s.Titles); err != nil {
		return err
	}
	if err := saveRecord(ctx, backend, path.Join(dir, NormsFile), s.Norms); err != nil {
		return err
	}
	if err := saveRecord(ctx, backend, path.Join(dir, PageViewsFile), s.PageViews); err != nil {
		return err
	}
	return saveRecord(ctx, backend, path.Join(dir, PageRankFile), s.PageRank)
}

func loadRecord[V any](ctx context.Context, backend storage.Backend, name string, dst *map[uint32]V) error {
	data, err := storage.ReadAll(ctx, backend, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.Warn("document metadata record missing", "record", name)
			return nil
		}
		return fmt.Errorf("reading %s: %w", name, err)
	}
	var rec record[V]
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	if rec.Entries != nil {
		*dst = rec.Entries
	}
	return nil
}

func saveRecord[V any](ctx context.Context, backend storage.Backend, name string, entries map[uint32]V) error {
	data, err := json.Marshal(record[V]{Version: recordVersion, Entries: entries})
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}
	if err := storage.WriteAll(ctx, backend, name, data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
