package docstore

import (
	"context"
	"testing"

	"github.com/hadarkn/IR-Final-Project-2026/internal/storage"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()

	s := New()
	s.Titles[1] = "First Document"
	s.Titles[2] = "Second Document"
	s.Norms[1] = 2.5
	s.PageViews[1] = 1000
	s.PageRank[2] = 0.85
	if err := s.Save(ctx, backend, "meta"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(ctx, backend, "meta")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Title(1) != "First Document" {
		t.Errorf("title(1) = %q", loaded.Title(1))
	}
	if loaded.Norm(1) != 2.5 {
		t.Errorf("norm(1) = %v", loaded.Norm(1))
	}
	if loaded.PageViews[1] != 1000 {
		t.Errorf("page_views(1) = %d", loaded.PageViews[1])
	}
	if loaded.PageRank[2] != 0.85 {
		t.Errorf("page_rank(2) = %v", loaded.PageRank[2])
	}
}

func TestLoadToleratesMissingRecords(t *testing.T) {
	loaded, err := Load(context.Background(), storage.NewMemory(), "empty")
	if err != nil {
		t.Fatalf("Load with no records: %v", err)
	}
	if loaded.DocCount() != 0 {
		t.Errorf("DocCount = %d, want 0", loaded.DocCount())
	}
}

func TestLoadRejectsCorruptRecord(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	if err := storage.WriteAll(ctx, backend, "m/"+TitlesFile, []byte("garbage")); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if _, err := Load(ctx, backend, "m"); err == nil {
		t.Fatal("expected error for corrupt record")
	}
}

func TestDefaults(t *testing.T) {
	s := New()
	if s.Title(42) != UnknownTitle {
		t.Errorf("missing title should be %q, got %q", UnknownTitle, s.Title(42))
	}
	if s.Norm(42) != 1 {
		t.Errorf("missing norm should be 1, got %v", s.Norm(42))
	}
	s.Norms[7] = 0
	if s.Norm(7) != 1 {
		t.Errorf("zero norm should fall back to 1, got %v", s.Norm(7))
	}
}

func TestDocCountComesFromNorms(t *testing.T) {
	s := New()
	s.Titles[1] = "a"
	s.Titles[2] = "b"
	s.Norms[1] = 1
	if s.DocCount() != 1 {
		t.Errorf("DocCount = %d, want 1 (norm entries, not titles)", s.DocCount())
	}
}
