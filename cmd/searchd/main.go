package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hadarkn/IR-Final-Project-2026/internal/search"
	"github.com/hadarkn/IR-Final-Project-2026/internal/search/cache"
	"github.com/hadarkn/IR-Final-Project-2026/internal/search/handler"
	"github.com/hadarkn/IR-Final-Project-2026/internal/storage"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/config"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/health"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/logger"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/metrics"
	"github.com/hadarkn/IR-Final-Project-2026/pkg/middleware"
	pkgredis "github.com/hadarkn/IR-Final-Project-2026/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service",
		"port", cfg.Server.Port,
		"storage_backend", cfg.Storage.Backend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := storage.FromConfig(cfg.Storage)
	if err != nil {
		slog.Error("failed to initialize storage backend", "error", err)
		os.Exit(1)
	}

	svc, err := search.NewService(ctx, backend, cfg.Index, cfg.Search)
	if err != nil {
		slog.Error("failed to load indices", "error", err)
		os.Exit(1)
	}
	slog.Info("indices loaded", "total_docs", svc.TotalDocs())

	var queryCache *cache.QueryCache
	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, query caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis)
		slog.Info("query cache enabled",
			"addr", cfg.Redis.Addr,
			"ttl", cfg.Redis.CacheTTL,
		)
	}

	m := metrics.New()
	var metricsShutdown func(context.Context) error
	if cfg.Metrics.Enabled {
		metricsShutdown = metrics.StartServer(cfg.Metrics.Port)
	}

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		if svc.TotalDocs() > 0 {
			return health.ComponentHealth{
				Status:  health.StatusUp,
				Message: fmt.Sprintf("%d documents", svc.TotalDocs()),
			}
		}
		return health.ComponentHealth{Status: health.StatusDown, Message: "no documents loaded"}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := handler.New(svc, queryCache, m)
	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		if metricsShutdown != nil {
			if err := metricsShutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}
	}()

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("search service stopped")
}
