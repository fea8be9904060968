package ingest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/hadarkn/IR-Final-Project-2026/pkg/errors"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/logger"
)

// Handler exposes the ingest endpoint over HTTP.
type Handler struct {
	publisher *Publisher
	logger    *slog.Logger
}

// NewHandler creates a Handler backed by the given Publisher.
func NewHandler(pub *Publisher) *Handler {
	return &Handler{
		publisher: pub,
		logger:    slog.Default().With("component", "ingest-handler"),
	}
}

// Register attaches the ingest routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /documents", h.Ingest)
}

// Ingest decodes, validates and publishes one document.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := Validate(&req); err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			h.writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "validation failed",
				"fields": validationErr.Fields,
			})
			return
		}
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.publisher.Ingest(ctx, &req)
	if err != nil {
		statusCode := apperrors.HTTPStatusCode(err)
		log.Error("ingest failed",
			"error", err,
			"status_code", statusCode,
		)
		h.writeError(w, statusCode, "ingest failed")
		return
	}
	log.Info("document ingested",
		"doc_id", resp.DocID,
		"status", resp.Status,
	)
	h.writeJSON(w, http.StatusAccepted, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
