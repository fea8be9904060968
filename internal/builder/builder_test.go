package builder

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/hadarkn/IR-Final-Project-2026/internal/docstore"
	"github.com/hadarkn/IR-Final-Project-2026/internal/index"
	"github.com/hadarkn/IR-Final-Project-2026/internal/storage"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/config"
)

func testConfig() config.IndexConfig {
	return config.IndexConfig{
		BodyDir:   "postings_body",
		TitleDir:  "postings_title",
		AnchorDir: "postings_anchor",
		IndexName: "index",
		NumShards: 3,
	}
}

func TestPersistWritesAllIndices(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	cfg := testConfig()

	b := New(backend, cfg, nil)
	b.Add(Document{ID: 1, Title: "Solar Power", Body: "panels convert sunlight", AnchorTexts: []string{"energy link"}})
	b.Add(Document{ID: 2, Title: "Wind Power", Body: "turbines convert wind"})
	if err := b.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	for _, dir := range []string{cfg.BodyDir, cfg.TitleDir, cfg.AnchorDir} {
		idx, err := index.LoadMetadata(ctx, backend, dir, cfg.IndexName)
		if err != nil {
			t.Fatalf("LoadMetadata %s: %v", dir, err)
		}
		if err := idx.MergeShardLocations(ctx, backend, dir); err != nil {
			t.Fatalf("MergeShardLocations %s: %v", dir, err)
		}
	}

	body, err := index.LoadMetadata(ctx, backend, cfg.BodyDir, cfg.IndexName)
	if err != nil {
		t.Fatalf("LoadMetadata: %v", err)
	}
	if err := body.MergeShardLocations(ctx, backend, cfg.BodyDir); err != nil {
		t.Fatalf("MergeShardLocations: %v", err)
	}
	if df := body.DocFreq["convert"]; df != 2 {
		t.Errorf("df(convert) = %d, want 2", df)
	}
	pl, err := body.ReadPostingList(ctx, backend, cfg.BodyDir, "convert")
	if err != nil {
		t.Fatalf("ReadPostingList: %v", err)
	}
	if len(pl) != 2 {
		t.Errorf("convert postings: %+v", pl)
	}
}

func TestPersistWritesDocumentMetadata(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()

	b := New(backend, testConfig(), nil)
	b.Add(Document{ID: 9, Title: "Niche Topic", Body: "rare unique words", PageViews: 7, PageRank: 0.9})
	b.Add(Document{ID: 10, Title: "Other", Body: "different things entirely"})
	if err := b.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	docs, err := docstore.Load(ctx, backend, "")
	if err != nil {
		t.Fatalf("docstore.Load: %v", err)
	}
	if docs.Title(9) != "Niche Topic" {
		t.Errorf("title: %q", docs.Title(9))
	}
	if docs.DocCount() != 2 {
		t.Errorf("DocCount = %d, want 2", docs.DocCount())
	}
	if docs.PageViews[9] != 7 || docs.PageRank[9] != 0.9 {
		t.Errorf("signals: views=%d rank=%v", docs.PageViews[9], docs.PageRank[9])
	}

	// Every term here appears in exactly one of two documents, so each
	// body term weighs tf*log10(2); the norm is the vector length.
	want := math.Sqrt(3 * math.Pow(math.Log10(2), 2))
	if got := docs.Norm(9); math.Abs(got-want) > 1e-9 {
		t.Errorf("norm(9) = %v, want %v", got, want)
	}
}

func TestPartitionIsDisjointAndComplete(t *testing.T) {
	terms := make([]index.TermPostings, 0, 50)
	for i := 0; i < 50; i++ {
		terms = append(terms, index.TermPostings{Term: strings.Repeat("t", i%7+1) + string(rune('a'+i%26))})
	}
	parts := partition(terms, 4)

	seen := map[string]int{}
	total := 0
	for shard, part := range parts {
		for _, tp := range part {
			if prev, dup := seen[tp.Term]; dup && prev != shard {
				t.Errorf("term %q landed in shards %d and %d", tp.Term, prev, shard)
			}
			seen[tp.Term] = shard
			total++
		}
	}
	if total != len(terms) {
		t.Errorf("partition dropped terms: %d of %d", total, len(terms))
	}
}

func TestLoadCorpusStreamsDocuments(t *testing.T) {
	b := New(storage.NewMemory(), testConfig(), nil)
	corpus := strings.Join([]string{
		`{"id":1,"title":"First","body":"alpha beta"}`,
		``,
		`{"id":2,"title":"Second","body":"gamma delta"}`,
	}, "\n")
	if err := b.readCorpus(strings.NewReader(corpus)); err != nil {
		t.Fatalf("readCorpus: %v", err)
	}
	if b.DocCount() != 2 {
		t.Errorf("DocCount = %d, want 2", b.DocCount())
	}
}

func TestReadCorpusRejectsMalformedLine(t *testing.T) {
	b := New(storage.NewMemory(), testConfig(), nil)
	if err := b.readCorpus(strings.NewReader("{bad json}")); err == nil {
		t.Fatal("expected error for malformed corpus line")
	}
}

func TestHandleMessageDecodesDocument(t *testing.T) {
	b := New(storage.NewMemory(), testConfig(), nil)
	err := b.HandleMessage(context.Background(), []byte("1"),
		[]byte(`{"id":1,"title":"Doc","body":"kafka delivered body"}`))
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if b.DocCount() != 1 {
		t.Errorf("DocCount = %d, want 1", b.DocCount())
	}
	if err := b.HandleMessage(context.Background(), nil, []byte("not json")); err == nil {
		t.Error("expected decode error")
	}
}
