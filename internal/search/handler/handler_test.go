package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/hadarkn/IR-Final-Project-2026/internal/search"
)

// fakeSearcher records the last query per mode and returns canned results.
type fakeSearcher struct {
	results map[string][]search.Result
	lastIDs []uint32
}

func (f *fakeSearcher) Search(_ context.Context, q string) []search.Result {
	return f.results["hybrid"]
}
func (f *fakeSearcher) SearchBody(_ context.Context, q string) []search.Result {
	return f.results["body"]
}
func (f *fakeSearcher) SearchTitle(_ context.Context, q string) []search.Result {
	return f.results["title"]
}
func (f *fakeSearcher) SearchAnchor(_ context.Context, q string) []search.Result {
	return f.results["anchor"]
}
func (f *fakeSearcher) PageRank(ids []uint32) []float64 {
	f.lastIDs = ids
	out := make([]float64, len(ids))
	for i := range ids {
		out[i] = float64(ids[i]) / 10
	}
	return out
}
func (f *fakeSearcher) PageView(ids []uint32) []int64 {
	f.lastIDs = ids
	return make([]int64, len(ids))
}

func newTestMux(svc Searcher) *http.ServeMux {
	mux := http.NewServeMux()
	New(svc, nil, nil).Register(mux)
	return mux
}

func TestSearchEndpointsReturnPairs(t *testing.T) {
	svc := &fakeSearcher{results: map[string][]search.Result{
		"title": {{DocID: "7", Title: "Seventh"}},
	}}
	mux := newTestMux(svc)

	req := httptest.NewRequest(http.MethodGet, "/search_title?query=seventh", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var pairs [][2]string
	if err := json.Unmarshal(rec.Body.Bytes(), &pairs); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	want := [][2]string{{"7", "Seventh"}}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("got %v, want %v", pairs, want)
	}
}

func TestSearchEmptyResultsIsEmptyArray(t *testing.T) {
	mux := newTestMux(&fakeSearcher{results: map[string][]search.Result{}})

	req := httptest.NewRequest(http.MethodGet, "/search?query=nothing", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want empty JSON array", got)
	}
}

func TestPageRankAcceptsNumbersAndStrings(t *testing.T) {
	svc := &fakeSearcher{results: map[string][]search.Result{}}
	mux := newTestMux(svc)

	req := httptest.NewRequest(http.MethodPost, "/get_pagerank",
		strings.NewReader(`[10, "20", "junk"]`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	want := []uint32{10, 20, 0}
	if !reflect.DeepEqual(svc.lastIDs, want) {
		t.Errorf("decoded ids %v, want %v", svc.lastIDs, want)
	}
	var scores []float64
	if err := json.Unmarshal(rec.Body.Bytes(), &scores); err != nil {
		t.Fatalf("decoding scores: %v", err)
	}
	if len(scores) != 3 {
		t.Errorf("scores %v", scores)
	}
}

func TestPageRankEmptyBodyIsEmptyBatch(t *testing.T) {
	mux := newTestMux(&fakeSearcher{results: map[string][]search.Result{}})

	req := httptest.NewRequest(http.MethodPost, "/get_pagerank", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var scores []float64
	if err := json.Unmarshal(rec.Body.Bytes(), &scores); err != nil {
		t.Fatalf("decoding scores: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("scores %v, want empty", scores)
	}
}

func TestPageViewRejectsNonArrayBody(t *testing.T) {
	mux := newTestMux(&fakeSearcher{results: map[string][]search.Result{}})

	req := httptest.NewRequest(http.MethodPost, "/get_pageview",
		strings.NewReader(`{"not":"an array"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", rec.Code)
	}
}

func TestSearchRequiresGet(t *testing.T) {
	mux := newTestMux(&fakeSearcher{results: map[string][]search.Result{}})

	req := httptest.NewRequest(http.MethodPost, "/search?query=x", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status %d, want 405", rec.Code)
	}
}
