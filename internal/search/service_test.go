package search

import (
	"context"
	"testing"

	"github.com/hadarkn/IR-Final-Project-2026/internal/builder"
	"github.com/hadarkn/IR-Final-Project-2026/internal/index"
	"github.com/hadarkn/IR-Final-Project-2026/internal/storage"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/config"
)

func testIndexConfig() config.IndexConfig {
	return config.IndexConfig{
		BodyDir:   "postings_body",
		TitleDir:  "postings_title",
		AnchorDir: "postings_anchor",
		IndexName: "index",
		NumShards: 2,
	}
}

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		TitleWeight:   0.7,
		BodyWeight:    0.3,
		MaxResults:    100,
		DefaultCorpus: 6000000,
	}
}

// buildCorpus persists a small three-document corpus and returns a Service
// loaded from it.
func buildCorpus(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()
	backend := storage.NewMemory()
	cfg := testIndexConfig()

	b := builder.New(backend, cfg, nil)
	b.Add(builder.Document{
		ID:    1,
		Title: "Cat Encyclopedia",
		Body:  "cat cat dog",
		AnchorTexts: []string{
			"feline overview", "cat article",
		},
		PageViews: 150,
		PageRank:  0.42,
	})
	b.Add(builder.Document{ID: 2, Title: "Dog Manual", Body: "dog training basics"})
	b.Add(builder.Document{ID: 3, Title: "River Atlas", Body: "river river river delta"})
	if err := b.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	svc, err := NewService(ctx, backend, cfg, testSearchConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func docIDs(results []Result) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.DocID
	}
	return ids
}

func TestServiceLoadsCorpus(t *testing.T) {
	svc := buildCorpus(t)
	if svc.TotalDocs() != 3 {
		t.Errorf("TotalDocs = %d, want 3", svc.TotalDocs())
	}
}

func TestSearchTitleCountsMatches(t *testing.T) {
	svc := buildCorpus(t)
	ctx := context.Background()

	results := svc.SearchTitle(ctx, "cat dog")
	if len(results) != 2 {
		t.Fatalf("got %d results: %v", len(results), results)
	}
	// One title match each; the tie keeps first-encounter order.
	if results[0].DocID != "1" || results[1].DocID != "2" {
		t.Errorf("order: %v", docIDs(results))
	}
	if results[0].Title != "Cat Encyclopedia" {
		t.Errorf("title: %q", results[0].Title)
	}
}

func TestSearchTitleUnknownTermIsEmpty(t *testing.T) {
	svc := buildCorpus(t)
	if results := svc.SearchTitle(context.Background(), "zeppelin"); len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}

func TestSearchBodyOrdersByTFIDF(t *testing.T) {
	svc := buildCorpus(t)
	results := svc.SearchBody(context.Background(), "cat")
	if len(results) != 1 {
		t.Fatalf("got %d results: %v", len(results), results)
	}
	if results[0].DocID != "1" {
		t.Errorf("top doc: %v", results[0])
	}
}

func TestSearchBodyKeepsZeroIDFTerms(t *testing.T) {
	// A term present in every document has zero idf; matching documents must
	// still appear, scored zero, rather than vanish.
	ctx := context.Background()
	backend := storage.NewMemory()
	cfg := testIndexConfig()

	b := builder.New(backend, cfg, nil)
	b.Add(builder.Document{ID: 1, Title: "One", Body: "dog walks"})
	b.Add(builder.Document{ID: 2, Title: "Two", Body: "dog sleeps"})
	if err := b.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	svc, err := NewService(ctx, backend, cfg, testSearchConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	results := svc.SearchBody(ctx, "dog")
	if len(results) != 2 {
		t.Fatalf("got %d results, want both documents: %v", len(results), results)
	}
}

func TestHybridFavoursTitleMatches(t *testing.T) {
	svc := buildCorpus(t)
	results := svc.Search(context.Background(), "dog")
	if len(results) != 2 {
		t.Fatalf("got %d results: %v", len(results), results)
	}
	// Doc 2 matches in both title and body; doc 1 only in body.
	if results[0].DocID != "2" {
		t.Errorf("top doc: %v, want 2", results[0])
	}
}

func TestSearchAnchor(t *testing.T) {
	svc := buildCorpus(t)
	results := svc.SearchAnchor(context.Background(), "feline")
	if len(results) != 1 || results[0].DocID != "1" {
		t.Errorf("anchor results: %v", results)
	}
}

func TestEmptyQuery(t *testing.T) {
	svc := buildCorpus(t)
	ctx := context.Background()
	for name, results := range map[string][]Result{
		"title":  svc.SearchTitle(ctx, ""),
		"body":   svc.SearchBody(ctx, ""),
		"anchor": svc.SearchAnchor(ctx, ""),
		"hybrid": svc.Search(ctx, ""),
	} {
		if len(results) != 0 {
			t.Errorf("%s: empty query returned %v", name, results)
		}
	}
}

func TestPageRankAndPageViewDefaults(t *testing.T) {
	svc := buildCorpus(t)

	pr := svc.PageRank([]uint32{1, 99})
	if pr[0] != 0.42 || pr[1] != 0 {
		t.Errorf("PageRank = %v", pr)
	}
	pv := svc.PageView([]uint32{1, 99})
	if pv[0] != 150 || pv[1] != 0 {
		t.Errorf("PageView = %v", pv)
	}
}

func TestMissingTitleResolvesToPlaceholder(t *testing.T) {
	// An index without document metadata still answers queries; titles fall
	// back to the placeholder and N to the configured default.
	ctx := context.Background()
	backend := storage.NewMemory()
	cfg := testIndexConfig()

	idx := index.NewFromDocs(map[uint32][]string{7: {"orphan"}})
	if _, err := index.WriteShard(ctx, backend, cfg.TitleDir, "shard-0", idx.Accumulated()); err != nil {
		t.Fatalf("WriteShard: %v", err)
	}
	if err := idx.WriteMetadata(ctx, backend, cfg.TitleDir, cfg.IndexName); err != nil {
		t.Fatalf("WriteMetadata: %v", err)
	}

	svc, err := NewService(ctx, backend, cfg, testSearchConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if svc.TotalDocs() != 6000000 {
		t.Errorf("TotalDocs = %d, want configured default", svc.TotalDocs())
	}
	results := svc.SearchTitle(ctx, "orphan")
	if len(results) != 1 || results[0].Title != "Unknown" {
		t.Errorf("results: %v", results)
	}
}
