// Package ranker turns posting lists into ranked document lists. Three
// scoring schemes are supported: raw match counting (title and anchor
// modes), TF-IDF cosine scoring (body mode), and a weighted hybrid of both.
package ranker

import (
	"math"
	"sort"
)

// ScoredDoc is one ranked result.
type ScoredDoc struct {
	DocID uint32  `json:"doc_id"`
	Score float64 `json:"score"`
}

// Accumulator sums per-document score contributions while remembering the
// order in which documents were first scored, so that equal scores rank in
// first-encounter order.
type Accumulator struct {
	scores map[uint32]float64
	order  []uint32
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{scores: make(map[uint32]float64)}
}

// Add folds delta into docID's score.
func (a *Accumulator) Add(docID uint32, delta float64) {
	if _, seen := a.scores[docID]; !seen {
		a.order = append(a.order, docID)
	}
	a.scores[docID] += delta
}

// Len reports how many documents have been scored.
func (a *Accumulator) Len() int {
	return len(a.order)
}

// Ranked returns the scored documents in descending score order. The sort
// is stable over first-encounter order, so ties keep the order documents
// were first seen. A positive limit truncates the result.
func (a *Accumulator) Ranked(limit int) []ScoredDoc {
	ranked := make([]ScoredDoc, 0, len(a.order))
	for _, docID := range a.order {
		ranked = append(ranked, ScoredDoc{DocID: docID, Score: a.scores[docID]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// IDF is the inverse document frequency log10(N/df). A term found in no
// document contributes nothing.
func IDF(totalDocs, docFreq int) float64 {
	if docFreq == 0 || totalDocs == 0 {
		return 0
	}
	return math.Log10(float64(totalDocs) / float64(docFreq))
}

// TFIDF is one posting's contribution to the unnormalised cosine score:
// tf*idf scaled by the document norm. The query-side norm is omitted on
// purpose; only the ranking matters.
func TFIDF(tf uint16, idf, norm float64) float64 {
	if norm == 0 {
		norm = 1
	}
	return float64(tf) * idf / norm
}
