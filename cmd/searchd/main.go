// Command searchd runs the HTTP search service: an in-memory indexing and
// ranking engine behind a JSON API, with Prometheus metrics, optional
// PostgreSQL corpus loading, Redis rate limiting, and Kafka query events.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/avelichko/searchcore/internal/analytics"
	"github.com/avelichko/searchcore/internal/engine"
	"github.com/avelichko/searchcore/internal/ingest"
	"github.com/avelichko/searchcore/internal/ratelimit"
	"github.com/avelichko/searchcore/internal/requests"
	"github.com/avelichko/searchcore/internal/server"
	"github.com/avelichko/searchcore/pkg/config"
	"github.com/avelichko/searchcore/pkg/health"
	"github.com/avelichko/searchcore/pkg/kafka"
	"github.com/avelichko/searchcore/pkg/logger"
	"github.com/avelichko/searchcore/pkg/metrics"
	"github.com/avelichko/searchcore/pkg/postgres"
	pkgredis "github.com/avelichko/searchcore/pkg/redis"
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
	slog.Info("starting search service", "port", cfg.Server.Port)

	srv, err := engine.New(cfg.Engine)
	if err != nil {
		slog.Error("failed to create engine", "error", err)
		os.Exit(1)
	}
	queue := requests.NewQueue(srv, cfg.Requests.Window)
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checker := health.NewChecker()
	checker.Register("engine", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d documents", srv.DocumentCount()),
		}
	})

	var db *postgres.Client
	if cfg.Postgres.Enabled {
		db, err = postgres.New(cfg.Postgres)
		if err != nil {
			slog.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		loaded, err := ingest.LoadCorpus(ctx, db, srv)
		if err != nil {
			slog.Error("corpus load failed", "error", err)
			os.Exit(1)
		}
		m.DocsIndexedTotal.Add(float64(loaded))
		m.LiveDocuments.Set(float64(srv.DocumentCount()))
		checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
			if err := db.Ping(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		redisClient, err := pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, rate limiting disabled", "error", err)
		} else {
			defer redisClient.Close()
			limiter = ratelimit.New(redisClient, cfg.RateLimit)
			slog.Info("rate limiting enabled",
				"per_window", cfg.RateLimit.PerWindow,
				"window", cfg.RateLimit.Window,
			)
			checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
				if err := redisClient.Ping(ctx); err != nil {
					return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
				}
				return health.ComponentHealth{Status: health.StatusUp}
			})
		}
	}

	var collector *analytics.Collector
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		collector = analytics.NewCollector(producer, 10000)
		collector.Start(ctx)
		defer collector.Close()
		slog.Info("query event publishing enabled", "topic", cfg.Kafka.EventsTopic)
	}

	h := server.New(srv, queue, collector, m)
	router := server.NewRouter(h, checker, m, limiter, server.RouterConfig{
		RequestTimeout: cfg.Server.WriteTimeout,
	})

	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("search service listening", "addr", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("GET /metrics", metrics.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: metricsMux,
		}
		g.Go(func() error {
			slog.Info("metrics server listening", "addr", metricsServer.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}
		return apiServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("search service stopped")
}
