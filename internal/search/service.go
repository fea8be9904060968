// Package search wires the loaded field indices, document metadata, and the
// ranker into the query-time scoring service. All state is loaded once at
// construction and is immutable afterwards; query handlers share one
// Service by reference.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/hadarkn/IR-Final-Project-2026/internal/docstore"
	"github.com/hadarkn/IR-Final-Project-2026/internal/index"
	"github.com/hadarkn/IR-Final-Project-2026/internal/postings"
	"github.com/hadarkn/IR-Final-Project-2026/internal/search/ranker"
	"github.com/hadarkn/IR-Final-Project-2026/internal/storage"
	"github.com/hadarkn/IR-Final-Project-2026/internal/tokenizer"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/config"
)

// Result is one ranked search hit: the document id as text and its title
// (or a placeholder when unknown).
type Result struct {
	DocID string `json:"doc_id"`
	Title string `json:"title"`
}

// fieldIndex pairs a loaded index with the storage directory its segment
// files live in.
type fieldIndex struct {
	idx *index.Index
	dir string
}

// Service executes the four ranking modes plus the PageRank and page-view
// lookups against loaded indices. A fully absent index contributes zero to
// every score; it never fails a query.
type Service struct {
	backend storage.Backend

	body   *fieldIndex
	title  *fieldIndex
	anchor *fieldIndex
	docs   *docstore.Store

	totalDocs   int
	titleWeight float64
	bodyWeight  float64
	maxResults  int

	logger *slog.Logger
}

// NewService loads the three field indices (merging their shard location
// files) and the document metadata, then returns an immutable Service. A
// missing index is logged and left nil rather than failing startup.
func NewService(ctx context.Context, backend storage.Backend, idxCfg config.IndexConfig, searchCfg config.SearchConfig) (*Service, error) {
	s := &Service{
		backend:     backend,
		titleWeight: searchCfg.TitleWeight,
		bodyWeight:  searchCfg.BodyWeight,
		maxResults:  searchCfg.MaxResults,
		logger:      slog.Default().With("component", "search-service"),
	}

	docs, err := docstore.Load(ctx, backend, "")
	if err != nil {
		return nil, fmt.Errorf("loading document metadata: %w", err)
	}
	s.docs = docs
	s.totalDocs = docs.DocCount()
	if s.totalDocs == 0 {
		s.totalDocs = searchCfg.DefaultCorpus
	}

	s.body = s.loadField(ctx, idxCfg.BodyDir, idxCfg.IndexName, "body")
	s.title = s.loadField(ctx, idxCfg.TitleDir, idxCfg.IndexName, "title")
	s.anchor = s.loadField(ctx, idxCfg.AnchorDir, idxCfg.IndexName, "anchor")

	return s, nil
}

func (s *Service) loadField(ctx context.Context, dir, name, field string) *fieldIndex {
	idx, err := index.LoadMetadata(ctx, s.backend, dir, name)
	if err != nil {
		s.logger.Warn("field index unavailable", "field", field, "dir", dir, "error", err)
		return nil
	}
	if err := idx.MergeShardLocations(ctx, s.backend, dir); err != nil {
		s.logger.Warn("merging shard locations failed", "field", field, "dir", dir, "error", err)
		return nil
	}
	s.logger.Info("field index loaded", "field", field, "dir", dir, "terms", len(idx.DocFreq))
	return &fieldIndex{idx: idx, dir: dir}
}

// getPosting reads one term's posting list from a field index. Unknown
// terms, absent indices, and read failures all yield an empty list.
func (s *Service) getPosting(ctx context.Context, fi *fieldIndex, term string) []postings.Entry {
	if fi == nil {
		return nil
	}
	pl, err := fi.idx.ReadPostingList(ctx, s.backend, fi.dir, term)
	if err != nil {
		s.logger.Error("reading posting list failed", "term", term, "dir", fi.dir, "error", err)
		return nil
	}
	return pl
}

// TotalDocs reports the corpus size used for IDF computation.
func (s *Service) TotalDocs() int {
	return s.totalDocs
}

// SearchTitle ranks documents by how many query terms appear in their
// title. Each posting adds one; ties keep first-encounter order.
func (s *Service) SearchTitle(ctx context.Context, query string) []Result {
	return s.countSearch(ctx, s.title, query)
}

// SearchAnchor ranks documents by how many query terms appear in anchor
// text pointing at them.
func (s *Service) SearchAnchor(ctx context.Context, query string) []Result {
	return s.countSearch(ctx, s.anchor, query)
}

func (s *Service) countSearch(ctx context.Context, fi *fieldIndex, query string) []Result {
	acc := ranker.NewAccumulator()
	for _, term := range tokenizer.Tokenize(query) {
		for _, p := range s.getPosting(ctx, fi, term) {
			acc.Add(p.DocID, 1)
		}
	}
	return s.resolve(acc.Ranked(0))
}

// SearchBody ranks documents by TF-IDF cosine similarity against the body
// index, truncated to the top results.
func (s *Service) SearchBody(ctx context.Context, query string) []Result {
	acc := ranker.NewAccumulator()
	for _, term := range tokenizer.Tokenize(query) {
		// idf can be zero for a term present in every document; its
		// postings still enter the ranking with zero contribution.
		idf := s.bodyIDF(term)
		for _, p := range s.getPosting(ctx, s.body, term) {
			acc.Add(p.DocID, ranker.TFIDF(p.TF, idf, s.docs.Norm(p.DocID)))
		}
	}
	return s.resolve(acc.Ranked(s.maxResults))
}

// Search is the hybrid mode: per query term, a fixed weight for every title
// match plus a weighted TF-IDF contribution for every body match. The
// result is truncated to the top documents after all terms are summed.
func (s *Service) Search(ctx context.Context, query string) []Result {
	acc := ranker.NewAccumulator()
	for _, term := range tokenizer.Tokenize(query) {
		for _, p := range s.getPosting(ctx, s.title, term) {
			acc.Add(p.DocID, s.titleWeight)
		}
		idf := s.bodyIDF(term)
		for _, p := range s.getPosting(ctx, s.body, term) {
			acc.Add(p.DocID, s.bodyWeight*ranker.TFIDF(p.TF, idf, s.docs.Norm(p.DocID)))
		}
	}
	return s.resolve(acc.Ranked(s.maxResults))
}

// PageRank returns each document's PageRank score, 0 when unknown.
func (s *Service) PageRank(docIDs []uint32) []float64 {
	out := make([]float64, len(docIDs))
	for i, id := range docIDs {
		out[i] = s.docs.PageRank[id]
	}
	return out
}

// PageView returns each document's view count, 0 when unknown.
func (s *Service) PageView(docIDs []uint32) []int64 {
	out := make([]int64, len(docIDs))
	for i, id := range docIDs {
		out[i] = s.docs.PageViews[id]
	}
	return out
}

func (s *Service) bodyIDF(term string) float64 {
	if s.body == nil {
		return 0
	}
	return ranker.IDF(s.totalDocs, s.body.idx.DocFreq[term])
}

func (s *Service) resolve(ranked []ranker.ScoredDoc) []Result {
	results := make([]Result, 0, len(ranked))
	for _, d := range ranked {
		results = append(results, Result{
			DocID: strconv.FormatUint(uint64(d.DocID), 10),
			Title: s.docs.Title(d.DocID),
		})
	}
	return results
}
