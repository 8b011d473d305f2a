package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ossvat/internal/config"
	"ossvat/internal/handler"
	"ossvat/internal/logger"
	"ossvat/internal/metrics"
	"ossvat/internal/middleware"
	"ossvat/internal/port"
	"ossvat/internal/repository/postgres"
	"ossvat/internal/router"
	"ossvat/internal/service"
	s3storage "ossvat/internal/storage/s3"
)

// @title OSS VAT Reporting API
// @version 1.0
// @description Ingests marketplace VAT transaction reports and aggregates them into EU One-Stop-Shop returns.
// @BasePath /api/v1

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log := logger.Default()
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	logger.SetDefault(log)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	decimal.MarshalJSONWithoutQuotes = true

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Initialize repositories
	txRepo := postgres.NewTransactionRepo(db, cfg.Ingest.InsertChunkSize)

	// Initialize storage
	var archive port.ReportArchive
	if cfg.S3.Bucket != "" {
		archive, err = s3storage.NewReportArchive(context.Background(), &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize report archive: %w", err)
		}
	} else {
		log.Info().Msg("OSSVAT_S3_BUCKET not set, raw reports will not be archived")
	}

	m := metrics.New()

	// Initialize services
	txSvc := service.NewTransactionService(txRepo, m)
	ingestSvc, err := service.NewIngestService(txRepo, archive, m, &cfg.Ingest)
	if err != nil {
		return fmt.Errorf("failed to initialize ingest service: %w", err)
	}

	// Initialize handlers
	txH := handler.NewTransactionHandler(txSvc)
	uploadH := handler.NewUploadHandler(ingestSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(router.Options{
		Logger:         log,
		Metrics:        m,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		UploadLimiter:  middleware.NewIPRateLimiter(cfg.RateLimit.UploadsPerSecond, cfg.RateLimit.UploadBurst),
	}, txH, uploadH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).Str("environment", cfg.Server.Environment).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
