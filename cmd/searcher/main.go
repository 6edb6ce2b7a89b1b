// Command searcher indexes the configured corpus at startup and serves the
// search API over it.
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
	"time"

	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/analyzer"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/middleware"
	pkgredis "github.com/Adithya-Monish-Kumar-K/tinysearch/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service", "port", cfg.Server.Port, "corpus_source", cfg.Corpus.Source)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(nil)
	if cfg.Metrics.Enabled {
		shutdownMetrics := m.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	a, err := analyzer.FromConfig(cfg.Analyzer)
	if err != nil {
		slog.Error("invalid analyzer config", "error", err)
		os.Exit(1)
	}
	built, err := corpus.BuildIndex(ctx, cfg, a)
	if err != nil {
		slog.Error("failed to build index", "error", err)
		os.Exit(1)
	}
	idx := built.Index
	m.ObserveIndex(idx.Len(), built.Elapsed.Seconds())

	opts := []handler.Option{handler.WithMetrics(m)}

	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, search caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			opts = append(opts, handler.WithCache(cache.New(redisClient, cfg.Redis.CacheTTL)))
			slog.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	var publisher analytics.Publisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		publisher = producer
	}
	aggregator := analytics.NewAggregator()
	collector := analytics.NewCollector(publisher, aggregator, cfg.Kafka.BufferSize)
	collector.Start(ctx)
	defer collector.Close()
	collector.TrackIndex(analytics.IndexEvent{
		Type:        analytics.EventIndex,
		Documents:   idx.Len(),
		Fingerprint: idx.Fingerprint(),
		LatencyMs:   float64(built.Elapsed.Microseconds()) / 1000,
		Timestamp:   time.Now().UTC(),
	})
	opts = append(opts, handler.WithCollector(collector))

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d documents", idx.Len())}
	})
	if redisClient != nil {
		checker.Register("redis", health.PingCheck(redisClient.Ping, true))
	}

	mux := http.NewServeMux()
	handler.New(idx, cfg.Search, opts...).Register(mux)
	mux.HandleFunc("GET /api/v1/analytics/stats", analytics.NewHandler(aggregator).Stats)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.Metrics(m,
		"/api/v1/search", "/api/v1/index/stats", "/api/v1/cache/stats", "/api/v1/cache/invalidate",
		"/api/v1/analytics/stats", "/health/live", "/health/ready",
	)(chain)
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
	}()

	slog.Info("search service listening", "addr", server.Addr, "documents", idx.Len())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("search service stopped")
}
