package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mwhitfield/snagbook/internal"
	"github.com/mwhitfield/snagbook/internal/auth"
	"github.com/mwhitfield/snagbook/internal/handler"
	"github.com/mwhitfield/snagbook/internal/metrics"
	"github.com/mwhitfield/snagbook/internal/middleware"
	"github.com/mwhitfield/snagbook/internal/service"
	"github.com/mwhitfield/snagbook/internal/storage"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize storage backend
	store, err := newStorage(cfg, logger)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}

	// Load the report collection into the session
	session, err := service.NewSession(ctx, storage.NewCollectionStore(store, logger), store, logger)
	if err != nil {
		return fmt.Errorf("session initialization failed: %w", err)
	}

	// Operator credentials
	verifier, err := auth.NewVerifier(auth.Credentials{
		Username:     cfg.AuthUsername,
		PasswordHash: cfg.AuthPasswordHash,
	})
	if err != nil {
		return fmt.Errorf("auth initialization failed: %w", err)
	}

	// Initialize middleware
	authMw := middleware.NewAuthMiddleware(verifier, logger)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)

	// Initialize handlers
	reportHandler := handler.NewReportHandler(session, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	api := http.NewServeMux()
	reportHandler.RegisterRoutes(api)

	mux := http.NewServeMux()
	mux.Handle("/api/", authMw.Handler(api))

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	root := loggingMw.Handler(metrics.Middleware(mux))

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env, "storage", cfg.StorageProvider)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

// newStorage builds the configured storage backend.
func newStorage(cfg *internal.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.StorageProvider {
	case "s3":
		return storage.NewS3Storage(storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			BucketName:      cfg.S3BucketName,
			Region:          cfg.S3Region,
		}, logger)
	default:
		return storage.NewLocalStorage(storage.LocalConfig{
			BasePath: cfg.LocalStoragePath,
		}, logger)
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
