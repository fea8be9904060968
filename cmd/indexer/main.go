// The indexer builds the body, title and anchor indices. In batch mode it
// reads a JSON-lines corpus file and exits after persisting; in stream mode
// it consumes ingested documents from Kafka and persists on shutdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hadarkn/IR-Final-Project-2026/internal/builder"
	"github.com/hadarkn/IR-Final-Project-2026/internal/storage"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/config"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/kafka"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/logger"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	corpusPath := flag.String("corpus", "", "JSON-lines corpus file (overrides config; enables batch mode)")
	stream := flag.Bool("stream", false, "consume documents from Kafka instead of a corpus file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	backend, err := storage.FromConfig(cfg.Storage)
	if err != nil {
		slog.Error("failed to initialize storage backend", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	var metricsShutdown func(context.Context) error
	if cfg.Metrics.Enabled {
		metricsShutdown = metrics.StartServer(cfg.Metrics.Port)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := builder.New(backend, cfg.Index, m)

	if *stream {
		runStream(ctx, cfg, b)
	} else {
		path := *corpusPath
		if path == "" {
			path = cfg.Index.CorpusPath
		}
		if path == "" {
			slog.Error("no corpus file given; pass -corpus or set index.corpusPath")
			os.Exit(1)
		}
		slog.Info("batch indexing started", "corpus", path, "shards", cfg.Index.NumShards)
		if err := b.LoadCorpus(path); err != nil {
			slog.Error("corpus load failed", "error", err)
			os.Exit(1)
		}
	}

	persistCtx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	if err := b.Persist(persistCtx); err != nil {
		slog.Error("index persistence failed", "error", err)
		os.Exit(1)
	}

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.IndexComplete)
	defer producer.Close()
	if err := b.NotifyComplete(persistCtx, producer); err != nil {
		slog.Warn("failed to publish index-complete event", "error", err)
	}

	if metricsShutdown != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsShutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown error", "error", err)
		}
	}
	slog.Info("indexing complete", "docs", b.DocCount())
}

// runStream consumes documents until the process receives a shutdown
// signal; the accumulated index is persisted afterwards by main.
func runStream(ctx context.Context, cfg *config.Config, b *builder.Builder) {
	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.DocumentIngest, b.HandleMessage)
	slog.Info("stream indexing started",
		"topic", cfg.Kafka.Topics.DocumentIngest,
		"group", cfg.Kafka.ConsumerGroup,
	)
	if err := consumer.Start(ctx); err != nil {
		slog.Error("consumer stopped with error", "error", err)
	}
	slog.Info("stream consumption finished", "docs", b.DocCount())
}
