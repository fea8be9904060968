// Package handler exposes the search service over HTTP. The endpoint and
// payload shapes mirror the engine's public query contract: four ranking
// modes returning (doc_id, title) pairs and two batch metadata lookups.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hadarkn/IR-Final-Project-2026/internal/search"
	"github.com/hadarkn/IR-Final-Project-2026/internal/search/cache"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/logger"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/metrics"
)

// Searcher is the part of the search service the handler needs.
type Searcher interface {
	Search(ctx context.Context, query string) []search.Result
	SearchBody(ctx context.Context, query string) []search.Result
	SearchTitle(ctx context.Context, query string) []search.Result
	SearchAnchor(ctx context.Context, query string) []search.Result
	PageRank(docIDs []uint32) []float64
	PageView(docIDs []uint32) []int64
}

// Handler serves the query endpoints.
type Handler struct {
	svc     Searcher
	cache   *cache.QueryCache
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a Handler. cache and m may be nil.
func New(svc Searcher, queryCache *cache.QueryCache, m *metrics.Metrics) *Handler {
	return &Handler{
		svc:     svc,
		cache:   queryCache,
		metrics: m,
		logger:  slog.Default().With("component", "search-handler"),
	}
}

// Register installs all query routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /search", h.mode("hybrid", h.svc.Search))
	mux.HandleFunc("GET /search_body", h.mode("body", h.svc.SearchBody))
	mux.HandleFunc("GET /search_title", h.mode("title", h.svc.SearchTitle))
	mux.HandleFunc("GET /search_anchor", h.mode("anchor", h.svc.SearchAnchor))
	mux.HandleFunc("POST /get_pagerank", h.pageRank)
	mux.HandleFunc("POST /get_pageview", h.pageView)
	mux.HandleFunc("GET /cache/stats", h.cacheStats)
	mux.HandleFunc("POST /cache/invalidate", h.cacheInvalidate)
}

func (h *Handler) cacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		writeJSON(w, http.StatusOK, map[string]any{"enabled": false})
		return
	}
	hits, misses := h.cache.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"enabled": true,
		"hits":    hits,
		"misses":  misses,
	})
}

func (h *Handler) cacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		writeJSON(w, http.StatusOK, map[string]any{"deleted": 0})
		return
	}
	deleted, err := h.cache.Invalidate(r.Context())
	if err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "cache invalidation failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

func (h *Handler) mode(name string, fn func(ctx context.Context, query string) []search.Result) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		log := logger.FromContext(ctx)

		query := r.URL.Query().Get("query")

		var results []search.Result
		cacheStatus := "bypass"
		if h.cache != nil {
			var hit bool
			results, hit = h.cache.GetOrCompute(ctx, name, query, func() []search.Result {
				return fn(ctx, query)
			})
			cacheStatus = "miss"
			if hit {
				cacheStatus = "hit"
			}
		} else {
			results = fn(ctx, query)
		}

		if h.metrics != nil {
			h.metrics.SearchQueriesTotal.WithLabelValues(name).Inc()
			h.metrics.SearchLatency.WithLabelValues(name, cacheStatus).Observe(time.Since(start).Seconds())
			if cacheStatus == "hit" {
				h.metrics.CacheHitsTotal.Inc()
			} else if cacheStatus == "miss" {
				h.metrics.CacheMissesTotal.Inc()
			}
		}

		log.Info("search completed",
			"mode", name,
			"query", query,
			"results", len(results),
			"cache", cacheStatus,
			"latency_ms", time.Since(start).Milliseconds(),
		)
		writeJSON(w, http.StatusOK, toPairs(results))
	}
}

func (h *Handler) pageRank(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.readDocIDs(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.PageRank(ids))
}

func (h *Handler) pageView(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.readDocIDs(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.PageView(ids))
}

// readDocIDs decodes a JSON array of document ids, accepting both numbers
// and numeric strings. An empty body yields an empty batch.
func (h *Handler) readDocIDs(w http.ResponseWriter, r *http.Request) ([]uint32, bool) {
	var raw []any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return []uint32{}, true
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expected a JSON array of document ids"})
		return nil, false
	}
	ids := make([]uint32, 0, len(raw))
	for _, e := range raw {
		var s string
		switch v := e.(type) {
		case json.Number:
			s = v.String()
		case string:
			s = v
		}
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			// Unparseable ids resolve to 0 downstream; keep position.
			ids = append(ids, 0)
			continue
		}
		ids = append(ids, uint32(n))
	}
	return ids, true
}

// toPairs renders results the way the query contract specifies: an array of
// [doc_id, title] pairs.
func toPairs(results []search.Result) [][2]string {
	pairs := make([][2]string, 0, len(results))
	for _, r := range results {
		pairs = append(pairs, [2]string{r.DocID, r.Title})
	}
	return pairs
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response failed", "error", err)
	}
}
