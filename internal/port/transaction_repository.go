package port

import (
	"context"
	"time"

	"ossvat/internal/domain"
)

// TransactionWriter persists accepted report rows.
type TransactionWriter interface {
	// InsertIgnoringDuplicates stores txns atomically, skipping rows whose
	// fingerprint already exists, and returns how many rows were new.
	InsertIgnoringDuplicates(ctx context.Context, txns []domain.Transaction) (int64, error)
}

// TransactionRepository provides persistence and range queries for transactions.
type TransactionRepository interface {
	TransactionWriter
	ListInRange(ctx context.Context, userID string, from, to time.Time, types []domain.TransactionType) ([]domain.Transaction, error)
	ListDetails(ctx context.Context, filter domain.DetailFilter) ([]domain.TransactionDetail, error)
	DistinctDates(ctx context.Context, userID string) ([]time.Time, error)
}
