// Package ingest accepts documents over HTTP, persists them in PostgreSQL
// and publishes them to Kafka for the indexer to consume.
package ingest

import "time"

// Request is the JSON body accepted by the ingest endpoint.
type Request struct {
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	AnchorTexts []string `json:"anchor_texts,omitempty"`
	PageViews   int64    `json:"page_views,omitempty"`
	PageRank    float64  `json:"page_rank,omitempty"`
}

// Response is returned to the caller after a document is accepted.
type Response struct {
	DocID  uint32 `json:"doc_id"`
	Status string `json:"status"`
}

// DocumentEvent is the Kafka payload carrying the full document to the
// indexer. Its field layout matches what the builder consumes.
type DocumentEvent struct {
	ID          uint32    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	AnchorTexts []string  `json:"anchor_texts,omitempty"`
	PageViews   int64     `json:"page_views,omitempty"`
	PageRank    float64   `json:"page_rank,omitempty"`
	IngestedAt  time.Time `json:"ingested_at"`
}
