package ingest

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/lib/pq"

	apperrors "github.com/hadarkn/IR-Final-Project-2026/pkg/errors"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/kafka"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/postgres"
)

// Publisher persists documents and hands them to the indexing pipeline.
// Duplicate bodies are detected by content hash and rejected.
type Publisher struct {
	db       *postgres.Client
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewPublisher creates a Publisher with the given database and Kafka producer.
func NewPublisher(db *postgres.Client, producer *kafka.Producer) *Publisher {
	return &Publisher{
		db:       db,
		producer: producer,
		logger:   slog.Default().With("component", "ingest-publisher"),
	}
}

// Ingest stores the document row, assigns it a numeric id and publishes the
// full document to Kafka. A re-submitted body returns the existing id with
// status DUPLICATE instead of inserting a second row.
func (p *Publisher) Ingest(ctx context.Context, req *Request) (*Response, error) {
	contentHash := fmt.Sprintf("%x", sha256.Sum256([]byte(req.Body)))

	if existing, err := p.findByContentHash(ctx, contentHash); err != nil {
		return nil, fmt.Errorf("checking content hash: %w", err)
	} else if existing != nil {
		p.logger.Info("duplicate document detected",
			"content_hash", contentHash[:12],
			"existing_id", existing.DocID,
		)
		return existing, nil
	}

	var docID uint32
	err := p.db.InTx(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO documents (title, content_hash, content_size, anchor_texts, page_views, page_rank)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			req.Title, contentHash, len(req.Body),
			pq.Array(req.AnchorTexts), req.PageViews, req.PageRank,
		).Scan(&id)
		if err != nil {
			return err
		}
		if id < 0 || id > int64(^uint32(0)) {
			return apperrors.Newf(apperrors.ErrInternal, 500, "document id %d outside 32-bit range", id)
		}
		docID = uint32(id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("inserting document: %w", err)
	}

	event := kafka.Event{
		Key: strconv.FormatUint(uint64(docID), 10),
		Value: DocumentEvent{
			ID:          docID,
			Title:       req.Title,
			Body:        req.Body,
			AnchorTexts: req.AnchorTexts,
			PageViews:   req.PageViews,
			PageRank:    req.PageRank,
			IngestedAt:  time.Now().UTC(),
		},
	}
	if err := p.producer.Publish(ctx, event); err != nil {
		// The row is committed; the document can be re-published by a
		// later corpus rebuild from the database.
		p.logger.Error("failed to publish document event",
			"doc_id", docID,
			"error", err,
		)
	}
	return &Response{DocID: docID, Status: "ACCEPTED"}, nil
}

func (p *Publisher) findByContentHash(ctx context.Context, hash string) (*Response, error) {
	var id int64
	err := p.db.DB.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE content_hash=$1`, hash).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying by content hash: %w", err)
	}
	return &Response{DocID: uint32(id), Status: "DUPLICATE"}, nil
}
