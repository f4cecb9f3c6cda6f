package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/api"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/api/middleware"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/asset"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/cache"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/config"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/database"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/face"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/ratelimit"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/repository"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting glasses try-on API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("landmarks", cfg.LandmarkProvider),
		slog.String("face_gate", cfg.FaceGate),
		slog.String("vision", cfg.VisionProvider),
	)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := migrate(ctx, cfg.DatabaseURL, logger); err != nil {
			return err
		}
	}

	pool, err := database.NewPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	providers, err := face.NewProviders(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create providers: %w", err)
	}

	frames := repository.NewFrameRepository(pool)
	analysisCache := cache.NewPGCache(pool)
	loader := asset.NewLoader(cfg.AssetDir, asset.WithMaxBytes(cfg.MaxImageBytes))

	go analysisCache.RunCleanup(ctx, cfg.CacheCleanupInterval, logger)

	catalogService := service.NewCatalogService(frames, providers.Vision, analysisCache, loader, cfg.VisionCacheTTL, logger)
	if cfg.VisionQuota > 0 {
		catalogService.WithQuota(ratelimit.NewQuota(pool, cfg.VisionQuota, cfg.VisionQuotaWin))
	}
	tryOnService := service.NewTryOnService(providers.Landmarks, providers.Gate, frames, loader, logger)

	rateLimit := middleware.DefaultRateLimiterConfig()
	rateLimit.Max = cfg.RateLimitMax
	rateLimit.Window = cfg.RateLimitWindow
	rateLimit.PerEndpoint = map[string]middleware.EndpointRateLimit{
		api.VisionFramePath: {Requests: cfg.VisionRateLimit, Window: cfg.RateLimitWindow},
	}

	if cfg.AdminAPIKey == "" {
		logger.Warn("ADMIN_API_KEY is not set, catalog mutations are open")
	}

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		DB:            pool,
		Catalog:       catalogService,
		TryOn:         tryOnService,
		AdminKey:      cfg.AdminAPIKey,
		MaxImageBytes: cfg.MaxImageBytes,
		RateLimit:     rateLimit,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server...")
	done := make(chan error, 1)
	go func() { done <- router.Shutdown() }()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	case <-time.After(10 * time.Second):
		logger.Error("shutdown timed out")
	}

	logger.Info("server stopped")
	return nil
}

func migrate(ctx context.Context, dsn string, logger *slog.Logger) error {
	db, err := database.OpenSQL(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}

	migrator, err := database.NewMigrator(db, "glasses")
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}

	version, _, err := migrator.Version()
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	logger.Info("database migrated", slog.Uint64("version", uint64(version)))
	return nil
}
