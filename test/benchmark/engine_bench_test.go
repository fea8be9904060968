// Package benchmark measures throughput of the engine's hot paths: text
// tokenization, index construction, posting encoding and block-store reads.
package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/hadarkn/IR-Final-Project-2026/internal/blockstore"
	"github.com/hadarkn/IR-Final-Project-2026/internal/index"
	"github.com/hadarkn/IR-Final-Project-2026/internal/postings"
	"github.com/hadarkn/IR-Final-Project-2026/internal/storage"
	"github.com/hadarkn/IR-Final-Project-2026/internal/tokenizer"
)

const sampleText = "inverted index construction splits the corpus into disjoint term " +
	"partitions and writes every posting list through its own segment writer"

// BenchmarkTokenize measures tokenization throughput over a short passage.
func BenchmarkTokenize(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = tokenizer.Tokenize(sampleText)
	}
}

// BenchmarkAddDocument measures per-document insert throughput into the
// in-memory accumulator.
func BenchmarkAddDocument(b *testing.B) {
	tokens := tokenizer.Tokenize(sampleText)
	idx := index.New()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.AddDocument(uint32(i), tokens)
	}
}

// BenchmarkEncodeList measures posting-list encoding throughput at several
// list lengths.
func BenchmarkEncodeList(b *testing.B) {
	for _, n := range []int{10, 1000, 100000} {
		entries := make([]postings.Entry, n)
		for i := range entries {
			entries[i] = postings.Entry{DocID: uint32(i), TF: uint16(i%100 + 1)}
		}
		b.Run(fmt.Sprintf("entries-%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = postings.EncodeList(entries)
			}
		})
	}
}

// BenchmarkPostingListRead measures the full read path: locations through a
// block-store reader to decoded entries.
func BenchmarkPostingListRead(b *testing.B) {
	ctx := context.Background()
	backend := storage.NewMemory()

	docs := make(map[uint32][]string, 1000)
	for i := uint32(0); i < 1000; i++ {
		docs[i] = append(tokenizer.Tokenize(sampleText), fmt.Sprintf("doc%dterm", i))
	}
	idx := index.NewFromDocs(docs)
	if _, err := index.WriteShard(ctx, backend, "bench", "shard-0", idx.Accumulated()); err != nil {
		b.Fatalf("WriteShard: %v", err)
	}
	loaded := index.New()
	if err := loaded.MergeShardLocations(ctx, backend, "bench"); err != nil {
		b.Fatalf("MergeShardLocations: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pl, err := loaded.ReadPostingList(ctx, backend, "bench", "corpus")
		if err != nil {
			b.Fatalf("ReadPostingList: %v", err)
		}
		if len(pl) != 1000 {
			b.Fatalf("got %d postings", len(pl))
		}
	}
}

// BenchmarkBlockstoreWrite measures raw segment write throughput including
// rollover handling.
func BenchmarkBlockstoreWrite(b *testing.B) {
	ctx := context.Background()
	payload := make([]byte, 64<<10)
	b.SetBytes(int64(len(payload)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		backend := storage.NewMemory()
		w, err := blockstore.NewWriter(ctx, backend, "bench", "w")
		if err != nil {
			b.Fatalf("NewWriter: %v", err)
		}
		b.StartTimer()
		if _, err := w.Write(ctx, payload); err != nil {
			b.Fatalf("Write: %v", err)
		}
		b.StopTimer()
		w.Close()
		b.StartTimer()
	}
}
