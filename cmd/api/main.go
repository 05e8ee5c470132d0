package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"reagent-tracker/internal/core/config"
	"reagent-tracker/internal/core/database"
	"reagent-tracker/internal/core/logger"
	"reagent-tracker/internal/core/metrics"
	"reagent-tracker/internal/core/server"
	"reagent-tracker/internal/features/units/adapters"
	"reagent-tracker/internal/features/units/handler"
	"reagent-tracker/internal/features/units/ports"
	"reagent-tracker/internal/features/units/service"
)

// @title Reagent Tracker API
// @version 1.0
// @description Tracks reagent containers from intake through checkout to submission, with a per-unit audit trail.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("storage_backend", cfg.StorageBackend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv, err := server.New(cfg, reg)
	if err != nil {
		l.Fatal("Failed to create server", zap.Error(err))
	}

	repo, closeRepo, err := openRepository(ctx, cfg, srv)
	if err != nil {
		l.Fatal("Failed to open unit repository", zap.Error(err))
	}
	defer closeRepo()

	var archive ports.ExportArchive
	if cfg.Archive.Enabled() {
		a, err := adapters.NewMinioExportArchive(ctx, cfg.Archive)
		if err != nil {
			l.Fatal("Failed to connect export archive", zap.Error(err))
		}
		archive = a
		l.Info("Export archive enabled", zap.String("bucket", cfg.Archive.Bucket))
	}

	lifecycleMetrics, err := metrics.NewLifecycle(reg)
	if err != nil {
		l.Fatal("Failed to register lifecycle metrics", zap.Error(err))
	}

	lifecycle := service.NewLifecycleService(repo, service.WithRecorder(lifecycleMetrics))
	queries := service.NewQueryService(repo)
	exports := service.NewExportService(repo, adapters.NewXLSXExporter(), archive)

	unitHandler := handler.NewUnitHandler(lifecycle, queries, exports, cfg.Admins())
	unitHandler.RegisterRoutes(srv.App)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
	l.Info("Server stopped")
}

// openRepository builds the configured backend and registers its health check.
func openRepository(ctx context.Context, cfg *config.AppConfig, srv *server.Server) (ports.UnitRepository, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		client, err := database.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		srv.AddHealthCheck("redis", func(ctx context.Context) error { return client.Ping(ctx).Err() })
		return adapters.NewRedisUnitRepository(client), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := database.EnsureMigrated(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		srv.AddHealthCheck("postgres", db.PingContext)
		return adapters.NewPostgresUnitRepository(db), func() { _ = db.Close() }, nil
	}

	logger.Get().Warn("Using in-memory storage, units are lost on restart")
	return adapters.NewMemoryUnitRepository(), func() {}, nil
}
