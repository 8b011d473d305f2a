// Command ingest loads a marketplace VAT report from disk into the
// transactions store, using the same pipeline as the upload endpoint.
// Usage: go run ./cmd/ingest --user seller-42 --file report.csv [--frequency QUARTERLY]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"ossvat/internal/config"
	"ossvat/internal/logger"
	"ossvat/internal/metrics"
	"ossvat/internal/period"
	"ossvat/internal/port"
	"ossvat/internal/repository/postgres"
	"ossvat/internal/service"
	s3storage "ossvat/internal/storage/s3"
)

const (
	exitFailure    = 1
	exitBadRequest = 2
)

func main() {
	userID := pflag.StringP("user", "u", "", "user scope the transactions are stored under (required)")
	file := pflag.StringP("file", "f", "", "path to a .csv, .txt or .xlsx report (required)")
	frequency := pflag.String("frequency", "MONTHLY", "filing frequency echoed in the result: MONTHLY or QUARTERLY")
	archive := pflag.Bool("archive", false, "also archive the raw report to the configured S3 bucket")
	pflag.Parse()

	if *userID == "" || *file == "" {
		pflag.Usage()
		os.Exit(exitBadRequest)
	}

	if err := run(*userID, *file, *frequency, *archive); err != nil {
		fmt.Fprintln(os.Stderr, "ingest:", err)
		if service.IsClientError(err) {
			os.Exit(exitBadRequest)
		}
		os.Exit(exitFailure)
	}
}

func run(userID, file, frequency string, withArchive bool) error {
	freq, err := period.ParseFrequency(frequency)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	logger.SetDefault(log)

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("opening report: %w", err)
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("reading report size: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	var reportArchive port.ReportArchive
	if withArchive {
		reportArchive, err = s3storage.NewReportArchive(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("initializing report archive: %w", err)
		}
	}

	txRepo := postgres.NewTransactionRepo(db, cfg.Ingest.InsertChunkSize)
	ingestSvc, err := service.NewIngestService(txRepo, reportArchive, metrics.New(), &cfg.Ingest)
	if err != nil {
		return err
	}

	outcome, err := ingestSvc.IngestReport(ctx, service.IngestInput{
		UserID:    userID,
		FileName:  filepath.Base(file),
		Size:      info.Size(),
		Body:      f,
		Frequency: freq,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(outcome)
}
