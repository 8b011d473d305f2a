package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"ossvat/internal/config"
	"ossvat/internal/domain"
	"ossvat/internal/ingest"
	"ossvat/internal/logger"
	"ossvat/internal/metrics"
	"ossvat/internal/period"
	"ossvat/internal/port"
	"ossvat/internal/reportfile"
)

// IngestInput is the DTO for report upload requests.
type IngestInput struct {
	UserID    string
	FileName  string
	Size      int64
	Body      io.ReadSeeker
	Frequency period.Frequency
}

// IngestOutcome is the result of one report upload.
type IngestOutcome struct {
	ingest.Result
	Frequency  period.Frequency `json:"frequency"`
	ArchiveKey string           `json:"archiveKey,omitempty"`
}

// IngestService ingests uploaded tax reports.
type IngestService interface {
	IngestReport(ctx context.Context, input IngestInput) (*IngestOutcome, error)
}

type ingestService struct {
	controller *ingest.Controller
	archive    port.ReportArchive
	metrics    *metrics.Metrics
	maxBytes   int64
}

// NewIngestService creates a new IngestService. archive may be nil, in which
// case raw reports are not kept.
func NewIngestService(
	writer port.TransactionWriter,
	archive port.ReportArchive,
	m *metrics.Metrics,
	cfg *config.IngestConfig,
) (IngestService, error) {
	filter, err := ingest.NewFilter(cfg.AllowedTypes, cfg.TargetScheme)
	if err != nil {
		return nil, fmt.Errorf("creating row filter: %w", err)
	}
	return &ingestService{
		controller: ingest.NewController(writer, filter),
		archive:    archive,
		metrics:    m,
		maxBytes:   cfg.MaxFileSizeBytes(),
	}, nil
}

func (s *ingestService) IngestReport(ctx context.Context, input IngestInput) (*IngestOutcome, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, domain.ErrMissingUserID
	}
	format, err := reportfile.FormatFor(input.FileName)
	if err != nil {
		return nil, err
	}
	if s.maxBytes > 0 && input.Size > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	freq := input.Frequency
	if freq == "" {
		freq = period.Monthly
	}

	log := logger.FromContext(ctx).With().
		Str("user_id", input.UserID).
		Str("file", input.FileName).
		Str("format", string(format)).
		Logger()

	started := time.Now()
	outcome := &IngestOutcome{Frequency: freq}

	if s.archive != nil {
		key := archiveKey(input.UserID, format, started)
		if _, err := s.archive.Put(ctx, key, input.Body, domain.ReportContentTypes[format]); err != nil {
			log.Error().Err(err).Str("key", key).Msg("archiving report failed")
			s.metrics.ObserveIngest(string(format), 0, 0, nil, time.Since(started), err)
			return nil, fmt.Errorf("ingestService.IngestReport: %w: %w", domain.ErrUploadFailed, err)
		}
		outcome.ArchiveKey = key
		if _, err := input.Body.Seek(0, io.SeekStart); err != nil {
			s.discardArchive(ctx, key)
			return nil, fmt.Errorf("ingestService.IngestReport: rewinding report: %w", err)
		}
	}

	result, err := s.ingest(logger.WithContext(ctx, log), format, input)
	if err != nil {
		log.Error().Err(err).Msg("report ingestion failed")
		if outcome.ArchiveKey != "" {
			s.discardArchive(ctx, outcome.ArchiveKey)
		}
		s.metrics.ObserveIngest(string(format), 0, 0, nil, time.Since(started), err)
		return nil, err
	}

	s.metrics.ObserveIngest(string(format), result.Accepted, result.Inserted, skipCounts(result), time.Since(started), nil)
	outcome.Result = *result
	return outcome, nil
}

func (s *ingestService) ingest(ctx context.Context, format domain.ReportFormat, input IngestInput) (*ingest.Result, error) {
	src, err := reportfile.OpenFormat(format, input.Body)
	if err != nil {
		return nil, fmt.Errorf("ingestService.IngestReport: %w: %w", domain.ErrReportUnreadable, err)
	}
	defer src.Close()

	result, err := s.controller.Ingest(ctx, input.UserID, src)
	if err != nil {
		return nil, fmt.Errorf("ingestService.IngestReport: %w", err)
	}
	return result, nil
}

// discardArchive removes an archived report whose ingestion did not complete.
func (s *ingestService) discardArchive(ctx context.Context, key string) {
	// The request context may already be cancelled; cleanup must still run.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := s.archive.Remove(ctx, key); err != nil {
		l := logger.FromContext(ctx)
		l.Warn().Err(err).Str("key", key).Msg("removing archived report failed")
	}
}

// archiveKey builds reports/{user}/{yyyy}/{mm}/{uuid}.{ext}.
func archiveKey(userID string, format domain.ReportFormat, at time.Time) string {
	at = at.UTC()
	return path.Join(
		"reports",
		sanitizeKeySegment(userID),
		fmt.Sprintf("%04d", at.Year()),
		fmt.Sprintf("%02d", int(at.Month())),
		uuid.NewString()+"."+string(format),
	)
}

func sanitizeKeySegment(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(s))
}

func skipCounts(r *ingest.Result) map[string]int {
	out := make(map[string]int, len(r.SkippedByReason))
	for reason, n := range r.SkippedByReason {
		out[string(reason)] = n
	}
	return out
}

// IsClientError reports whether err was caused by the request rather than by
// the pipeline.
func IsClientError(err error) bool {
	for _, target := range []error{
		domain.ErrMissingUserID,
		domain.ErrUnsupportedFileType,
		domain.ErrFileTooLarge,
		domain.ErrInvalidPeriod,
		domain.ErrInvalidFrequency,
		domain.ErrInvalidCountry,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
