// Package builder performs the corpus pass: it accumulates the body, title
// and anchor indices plus per-document metadata, then persists everything
// through the storage backend with one independent writer per term shard.
package builder

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hadarkn/IR-Final-Project-2026/internal/docstore"
	"github.com/hadarkn/IR-Final-Project-2026/internal/index"
	"github.com/hadarkn/IR-Final-Project-2026/internal/search/ranker"
	"github.com/hadarkn/IR-Final-Project-2026/internal/storage"
	"github.com/hadarkn/IR-Final-Project-2026/internal/tokenizer"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/config"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/metrics"
)

// Document is one corpus document as consumed by the builder.
type Document struct {
	ID          uint32   `json:"id"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	AnchorTexts []string `json:"anchor_texts,omitempty"`
	PageViews   int64    `json:"page_views,omitempty"`
	PageRank    float64  `json:"page_rank,omitempty"`
}

// Builder accumulates the three field indices over one corpus pass.
// Add is safe for concurrent use; Persist must run after the last Add.
type Builder struct {
	backend storage.Backend
	cfg     config.IndexConfig

	mu     sync.Mutex
	body   *index.Index
	title  *index.Index
	anchor *index.Index
	docs   *docstore.Store
	nDocs  int

	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates an empty Builder. m may be nil.
func New(backend storage.Backend, cfg config.IndexConfig, m *metrics.Metrics) *Builder {
	return &Builder{
		backend: backend,
		cfg:     cfg,
		body:    index.New(),
		title:   index.New(),
		anchor:  index.New(),
		docs:    docstore.New(),
		metrics: m,
		logger:  slog.Default().With("component", "builder"),
	}
}

// Add folds one document into the in-memory indices. Documents must be
// added exactly once; repeated ids are not deduplicated.
func (b *Builder) Add(doc Document) {
	bodyTokens := tokenizer.Tokenize(doc.Body)
	titleTokens := tokenizer.Tokenize(doc.Title)
	var anchorTokens []string
	for _, a := range doc.AnchorTexts {
		anchorTokens = append(anchorTokens, tokenizer.Tokenize(a)...)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.body.AddDocument(doc.ID, bodyTokens)
	b.title.AddDocument(doc.ID, titleTokens)
	if len(anchorTokens) > 0 {
		b.anchor.AddDocument(doc.ID, anchorTokens)
	}
	b.docs.Titles[doc.ID] = doc.Title
	if doc.PageViews > 0 {
		b.docs.PageViews[doc.ID] = doc.PageViews
	}
	if doc.PageRank > 0 {
		b.docs.PageRank[doc.ID] = doc.PageRank
	}
	b.nDocs++

	if b.metrics != nil {
		b.metrics.DocsIndexedTotal.Inc()
	}
}

// DocCount reports how many documents have been added.
func (b *Builder) DocCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nDocs
}

// Persist writes all three indices and the document metadata. Posting
// shards are written in parallel, one writer per shard; the location
// directories land in per-shard files that readers merge at load time.
func (b *Builder) Persist(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.computeNorms()

	fields := []struct {
		name string
		dir  string
		idx  *index.Index
	}{
		{"body", b.cfg.BodyDir, b.body},
		{"title", b.cfg.TitleDir, b.title},
		{"anchor", b.cfg.AnchorDir, b.anchor},
	}
	for _, f := range fields {
		if err := b.persistField(ctx, f.name, f.dir, f.idx); err != nil {
			return err
		}
	}
	if err := b.docs.Save(ctx, b.backend, ""); err != nil {
		return fmt.Errorf("saving document metadata: %w", err)
	}
	b.logger.Info("corpus persisted", "docs", b.nDocs, "shards_per_index", b.cfg.NumShards)
	return nil
}

func (b *Builder) persistField(ctx context.Context, name, dir string, idx *index.Index) error {
	parts := partition(idx.Accumulated(), b.cfg.NumShards)

	g, gctx := errgroup.WithContext(ctx)
	for i, part := range parts {
		if len(part) == 0 {
			continue
		}
		shardID := fmt.Sprintf("shard-%d", i)
		terms := part
		g.Go(func() error {
			id, err := index.WriteShard(gctx, b.backend, dir, shardID, terms)
			status := "ok"
			if err != nil {
				status = "error"
			}
			if b.metrics != nil {
				b.metrics.ShardsPersistedTotal.WithLabelValues(status).Inc()
			}
			if err != nil {
				return err
			}
			b.logger.Info("shard persisted", "index", name, "shard", id, "terms", len(terms))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("persisting %s shards: %w", name, err)
	}
	if b.metrics != nil {
		if names, err := b.backend.List(ctx, dir+"/"); err == nil {
			segments := 0
			for _, n := range names {
				if strings.HasSuffix(n, ".bin") {
					segments++
				}
			}
			b.metrics.SegmentsWrittenTotal.Add(float64(segments))
		}
	}
	if err := idx.WriteMetadata(ctx, b.backend, dir, b.cfg.IndexName); err != nil {
		return fmt.Errorf("persisting %s metadata: %w", name, err)
	}
	return nil
}

// computeNorms fills the per-document TF-IDF vector lengths for the body
// index, used as cosine denominators at query time.
func (b *Builder) computeNorms() {
	sq := make(map[uint32]float64, b.nDocs)
	for _, tp := range b.body.Accumulated() {
		idf := ranker.IDF(b.nDocs, b.body.DocFreq[tp.Term])
		for _, p := range tp.Postings {
			w := float64(p.TF) * idf
			sq[p.DocID] += w * w
		}
	}
	for docID, v := range sq {
		b.docs.Norms[docID] = math.Sqrt(v)
	}
	// Documents whose every term has zero idf still need a norm entry so
	// the corpus count N stays exact.
	for docID := range b.docs.Titles {
		if _, ok := b.docs.Norms[docID]; !ok {
			b.docs.Norms[docID] = 1
		}
	}
}

// partition splits term postings across n shards by term hash, so every
// shard owns a disjoint term set.
func partition(terms []index.TermPostings, n int) [][]index.TermPostings {
	parts := make([][]index.TermPostings, n)
	for _, tp := range terms {
		h := fnv.New32a()
		h.Write([]byte(tp.Term))
		k := int(h.Sum32()) % n
		if k < 0 {
			k += n
		}
		parts[k] = append(parts[k], tp)
	}
	return parts
}
