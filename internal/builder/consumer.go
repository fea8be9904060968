package builder

import (
	"context"
	"fmt"

	"github.com/hadarkn/IR-Final-Project-2026/pkg/kafka"
)

// HandleMessage is the Kafka callback feeding ingested documents into the
// builder. Decode failures are returned so the consumer loop skips the
// message without committing it.
func (b *Builder) HandleMessage(ctx context.Context, key, value []byte) error {
	doc, err := kafka.DecodeJSON[Document](value)
	if err != nil {
		return fmt.Errorf("decoding document event: %w", err)
	}
	b.Add(doc)
	return nil
}

// NotifyComplete publishes an index-complete event after Persist, so
// searchers know a fresh index generation landed in storage.
func (b *Builder) NotifyComplete(ctx context.Context, producer *kafka.Producer) error {
	return producer.Publish(ctx, kafka.Event{
		Key: "index-complete",
		Value: map[string]any{
			"docs":   b.DocCount(),
			"shards": b.cfg.NumShards,
		},
	})
}
