package ranker

import (
	"math"
	"testing"
)

func TestAccumulatorRanksByScore(t *testing.T) {
	acc := NewAccumulator()
	acc.Add(1, 0.5)
	acc.Add(2, 2.0)
	acc.Add(3, 1.0)

	ranked := acc.Ranked(0)
	want := []uint32{2, 3, 1}
	for i, doc := range ranked {
		if doc.DocID != want[i] {
			t.Errorf("rank %d: got doc %d, want %d", i, doc.DocID, want[i])
		}
	}
}

func TestAccumulatorTiesKeepFirstEncounterOrder(t *testing.T) {
	acc := NewAccumulator()
	acc.Add(30, 1)
	acc.Add(10, 1)
	acc.Add(20, 1)

	ranked := acc.Ranked(0)
	want := []uint32{30, 10, 20}
	for i, doc := range ranked {
		if doc.DocID != want[i] {
			t.Errorf("rank %d: got doc %d, want %d", i, doc.DocID, want[i])
		}
	}
}

func TestAccumulatorSumsContributions(t *testing.T) {
	acc := NewAccumulator()
	acc.Add(5, 1)
	acc.Add(5, 1)
	acc.Add(6, 1)

	ranked := acc.Ranked(0)
	if ranked[0].DocID != 5 || ranked[0].Score != 2 {
		t.Errorf("top result %+v, want doc 5 with score 2", ranked[0])
	}
}

func TestAccumulatorLimit(t *testing.T) {
	acc := NewAccumulator()
	for i := uint32(0); i < 10; i++ {
		acc.Add(i, float64(i))
	}
	if got := len(acc.Ranked(3)); got != 3 {
		t.Errorf("limit 3: got %d results", got)
	}
	if got := len(acc.Ranked(0)); got != 10 {
		t.Errorf("limit 0: got %d results, want all 10", got)
	}
}

func TestIDF(t *testing.T) {
	if got := IDF(1000, 10); math.Abs(got-2) > 1e-12 {
		t.Errorf("IDF(1000,10) = %v, want 2", got)
	}
	// A term present in every document has zero idf, not an error.
	if got := IDF(2, 2); got != 0 {
		t.Errorf("IDF(2,2) = %v, want 0", got)
	}
	if got := IDF(100, 0); got != 0 {
		t.Errorf("IDF(100,0) = %v, want 0", got)
	}
	if got := IDF(0, 5); got != 0 {
		t.Errorf("IDF(0,5) = %v, want 0", got)
	}
}

func TestTFIDFNormDefaultsToOne(t *testing.T) {
	if got := TFIDF(3, 2, 0); got != 6 {
		t.Errorf("zero norm should scale by 1: got %v", got)
	}
	if got := TFIDF(3, 2, 2); got != 3 {
		t.Errorf("TFIDF(3,2,2) = %v, want 3", got)
	}
}
