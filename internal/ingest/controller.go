package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"ossvat/internal/domain"
	"ossvat/internal/logger"
	"ossvat/internal/port"
)

// RowSource yields report rows one at a time. Next returns io.EOF after the
// last row; any other error aborts the ingestion.
type RowSource interface {
	Next() (Record, error)
}

// Result summarizes one ingestion run.
type Result struct {
	Rows            int                `json:"rows"`
	Accepted        int                `json:"accepted"`
	Inserted        int64              `json:"inserted"`
	Skipped         int                `json:"skipped"`
	SkippedByReason map[SkipReason]int `json:"skippedByReason,omitempty"`
}

// Controller runs the row pipeline: normalize, filter, fingerprint, buffer,
// then a single bulk write once the source is exhausted.
type Controller struct {
	writer port.TransactionWriter
	filter Filter
}

// NewController creates a Controller writing accepted rows through writer.
func NewController(writer port.TransactionWriter, filter Filter) *Controller {
	return &Controller{writer: writer, filter: filter}
}

// Ingest pulls every row from src and stores the accepted ones for userID.
// Nothing is written when the source fails or ctx is cancelled before the
// end of the stream.
func (c *Controller) Ingest(ctx context.Context, userID string, src RowSource) (*Result, error) {
	if userID == "" {
		return nil, domain.ErrMissingUserID
	}
	log := logger.FromContext(ctx)

	result := &Result{SkippedByReason: make(map[SkipReason]int)}
	var batch []domain.Transaction

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("ingest.Ingest: aborted after %d rows: %w", result.Rows, err)
		}

		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest.Ingest: row %d: %w: %w", result.Rows+1, domain.ErrReportUnreadable, err)
		}
		result.Rows++

		txn, reason := c.accept(rec, userID)
		if reason != SkipNone {
			result.Skipped++
			result.SkippedByReason[reason]++
			log.Debug().
				Str("event_id", rec.Get(ColEventID)).
				Str("reason", string(reason)).
				Str("raw_date", rec.RawDate()).
				Msg("row skipped")
			continue
		}
		batch = append(batch, txn)
	}

	result.Accepted = len(batch)
	if len(batch) == 0 {
		log.Info().Int("rows", result.Rows).Msg("no rows accepted, nothing to persist")
		return result, nil
	}

	inserted, err := c.writer.InsertIgnoringDuplicates(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("ingest.Ingest: persisting %d rows: %w: %w", len(batch), domain.ErrPersistenceFailed, err)
	}
	result.Inserted = inserted

	log.Info().
		Int("rows", result.Rows).
		Int("accepted", result.Accepted).
		Int64("inserted", result.Inserted).
		Int("skipped", result.Skipped).
		Msg("report ingested")
	return result, nil
}

func (c *Controller) accept(rec Record, userID string) (domain.Transaction, SkipReason) {
	txType := domain.TransactionType(NormalizeToken(rec.Get(ColTransactionType)))
	scheme := NormalizeToken(rec.Get(ColTaxReportingScheme))
	date, dateErr := ParseReportDate(rec.RawDate())

	if reason := c.filter.Check(txType, scheme, dateErr == nil); reason != SkipNone {
		return domain.Transaction{}, reason
	}
	return BuildTransaction(rec, userID, txType, date), SkipNone
}
