package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/omran-mahr/Aspiro-AI/internal/advisor"
	"github.com/omran-mahr/Aspiro-AI/internal/api"
	"github.com/omran-mahr/Aspiro-AI/internal/api/handler"
	"github.com/omran-mahr/Aspiro-AI/internal/api/middleware"
	"github.com/omran-mahr/Aspiro-AI/internal/audit"
	"github.com/omran-mahr/Aspiro-AI/internal/cache"
	"github.com/omran-mahr/Aspiro-AI/internal/config"
	"github.com/omran-mahr/Aspiro-AI/internal/database"
	"github.com/omran-mahr/Aspiro-AI/internal/face"
	"github.com/omran-mahr/Aspiro-AI/internal/repository"
	"github.com/omran-mahr/Aspiro-AI/internal/resume"
	"github.com/omran-mahr/Aspiro-AI/internal/service"
	"github.com/omran-mahr/Aspiro-AI/internal/store"
	"github.com/omran-mahr/Aspiro-AI/internal/webhook"
	"github.com/omran-mahr/Aspiro-AI/internal/ws"
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
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting Aspiro API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("store", cfg.StoreBackend),
		slog.String("face_provider", cfg.FaceProvider),
		slog.String("face_detector", cfg.DetectorProvider()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database (embedding store and advice cache)
	var pool *pgxpool.Pool
	if cfg.HasDatabase() {
		if err := database.MigrateUp(cfg.DatabaseURL, logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		pool, err = database.NewPgxPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
	}

	embeddings, err := newStore(ctx, cfg, pool)
	if err != nil {
		return fmt.Errorf("failed to create embedding store: %w", err)
	}

	// Face providers
	detector, err := face.NewDetector(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create face detector: %w", err)
	}
	extractor, err := face.NewExtractor(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedding extractor: %w", err)
	}

	auditLogger := audit.NewSlogLogger(logger)
	hub := ws.NewHub()

	faceService := service.NewFaceService(detector, extractor, embeddings, logger).
		WithThreshold(cfg.MatchThreshold).
		WithAuditLogger(auditLogger).
		WithNotifier(hub)

	if cfg.WebhookURL != "" {
		dispatcher := webhook.NewDispatcher(webhook.NewSender(cfg.WebhookURL, cfg.WebhookSecret), logger)
		go dispatcher.Run(ctx)
		faceService.WithNotifier(dispatcher)
	}

	scorer := resume.NewScorer(resume.NewUploads(cfg.UploadDir), logger).
		WithAuditLogger(auditLogger)

	deps := &api.Dependencies{
		FaceService: faceService,
		Scorer:      scorer,
		RateLimit: middleware.RateLimiterConfig{
			Max:    cfg.RateLimitMax,
			Window: cfg.RateLimitWindow,
		},
	}
	if pool != nil {
		deps.DB = pool
	}

	advisorService, err := newAdvisor(ctx, cfg, pool, logger)
	if err != nil {
		return fmt.Errorf("failed to create advisor: %w", err)
	}
	if advisorService != nil {
		deps.Advisor = advisorService
	}

	// Setup router
	router := api.NewRouter(logger, deps, hub)
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
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	logger.Info("server stopped")

	return nil
}

func newStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		return repository.NewEmbeddingRepository(pool), nil

	case config.StoreMinIO:
		client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: cfg.MinIOUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("create minio client: %w", err)
		}

		exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
		if err != nil {
			return nil, fmt.Errorf("check bucket %s: %w", cfg.MinIOBucket, err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("create bucket %s: %w", cfg.MinIOBucket, err)
			}
		}
		return store.NewObjectStore(client, cfg.MinIOBucket, cfg.MinIOObject), nil

	case config.StoreMemory:
		return store.NewMemoryStore(), nil

	default:
		return store.NewFileStore(cfg.EmbeddingsFile), nil
	}
}

// newAdvisor returns nil when the selected LLM provider has no API key, which
// leaves the advisor routes unregistered.
func newAdvisor(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (handler.Advisor, error) {
	var generator advisor.Generator
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			logger.Warn("OPENAI_API_KEY not set, advisor disabled")
			return nil, nil
		}
		generator = advisor.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	default:
		if cfg.GeminiAPIKey == "" {
			logger.Warn("GEMINI_API_KEY not set, advisor disabled")
			return nil, nil
		}
		gemini, err := advisor.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		generator = gemini
	}

	svc := advisor.NewService(generator, logger)
	if pool != nil {
		pgCache := cache.NewPGCache(pool)
		svc = svc.WithCache(pgCache, cfg.AdviceCacheTTL)
		go pgCache.RunCleanup(ctx, time.Hour, logger)
	}
	return svc, nil
}
