package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"ossvat/internal/domain"
	"ossvat/internal/port"
)

// DefaultInsertChunkSize keeps a bulk insert well below the Postgres limit of
// 65535 bind parameters per statement.
const DefaultInsertChunkSize = 500

// maxBindParams is the Postgres limit of bind parameters per statement.
const maxBindParams = 65535

// MaxInsertChunkSize is the largest chunk that fits in one INSERT.
func MaxInsertChunkSize() int {
	return maxBindParams / len(transactionColumns)
}

// transactionColumns are the inserted columns in bind order. created_at is
// set by the database.
var transactionColumns = []string{
	"fingerprint", "user_id", "transaction_type", "transaction_date",
	"item_description", "item_quantity", "transaction_currency_code",
	"departure_country", "arrival_country", "taxable_jurisdiction",
	"total_price_of_items_vat_excl", "total_ship_charge_vat_excl", "total_gift_wrap_vat_excl", "total_value_vat_excl",
	"total_price_of_items_vat", "total_ship_charge_vat", "total_gift_wrap_vat", "total_value_vat",
	"total_price_of_items_vat_incl", "total_ship_charge_vat_incl", "total_gift_wrap_vat_incl", "total_value_vat_incl",
}

func transactionArgs(t *domain.Transaction) []interface{} {
	a := &t.Amounts
	return []interface{}{
		t.Fingerprint, t.UserID, t.TransactionType, t.TransactionDate,
		t.ItemDescription, t.ItemQuantity, t.TransactionCurrencyCode,
		t.DepartureCountry, t.ArrivalCountry, t.TaxableJurisdiction,
		a.TotalPriceOfItemsVatExcl, a.TotalShipChargeVatExcl, a.TotalGiftWrapVatExcl, a.TotalValueVatExcl,
		a.TotalPriceOfItemsVat, a.TotalShipChargeVat, a.TotalGiftWrapVat, a.TotalValueVat,
		a.TotalPriceOfItemsVatIncl, a.TotalShipChargeVatIncl, a.TotalGiftWrapVatIncl, a.TotalValueVatIncl,
	}
}

type transactionRepo struct {
	db        *sqlx.DB
	chunkSize int
}

// NewTransactionRepo creates a new PostgreSQL-backed TransactionRepository.
// Bulk inserts are split into statements of at most chunkSize rows.
func NewTransactionRepo(db *sqlx.DB, chunkSize int) port.TransactionRepository {
	if chunkSize <= 0 {
		chunkSize = DefaultInsertChunkSize
	}
	if limit := MaxInsertChunkSize(); chunkSize > limit {
		chunkSize = limit
	}
	return &transactionRepo{db: db, chunkSize: chunkSize}
}

func (r *transactionRepo) InsertIgnoringDuplicates(ctx context.Context, txns []domain.Transaction) (int64, error) {
	if len(txns) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("transactionRepo.InsertIgnoringDuplicates begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var inserted int64
	for start := 0; start < len(txns); start += r.chunkSize {
		end := min(start+r.chunkSize, len(txns))
		query, args := buildInsert(txns[start:end])
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("transactionRepo.InsertIgnoringDuplicates rows %d-%d: %w", start, end, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("transactionRepo.InsertIgnoringDuplicates rows affected: %w", err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("transactionRepo.InsertIgnoringDuplicates commit: %w", err)
	}
	return inserted, nil
}

// buildInsert renders one multi-row INSERT that silently drops rows whose
// fingerprint already exists, including repeats inside the same statement.
func buildInsert(txns []domain.Transaction) (string, []interface{}) {
	cols := len(transactionColumns)
	args := make([]interface{}, 0, len(txns)*cols)

	var b strings.Builder
	b.WriteString("INSERT INTO transactions (")
	b.WriteString(strings.Join(transactionColumns, ", "))
	b.WriteString(") VALUES ")
	for i := range txns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", i*cols+c+1)
		}
		b.WriteByte(')')
		args = append(args, transactionArgs(&txns[i])...)
	}
	b.WriteString(" ON CONFLICT (fingerprint) DO NOTHING")
	return b.String(), args
}

func (r *transactionRepo) ListInRange(ctx context.Context, userID string, from, to time.Time, types []domain.TransactionType) ([]domain.Transaction, error) {
	query, args, err := buildRangeQuery(userID, from, to, types)
	if err != nil {
		return nil, fmt.Errorf("transactionRepo.ListInRange build: %w", err)
	}

	var txns []domain.Transaction
	if err := r.db.SelectContext(ctx, &txns, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("transactionRepo.ListInRange: %w", err)
	}
	return txns, nil
}

func (r *transactionRepo) ListDetails(ctx context.Context, filter domain.DetailFilter) ([]domain.TransactionDetail, error) {
	query, args, err := buildDetailQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("transactionRepo.ListDetails build: %w", err)
	}

	var details []domain.TransactionDetail
	if err := r.db.SelectContext(ctx, &details, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("transactionRepo.ListDetails: %w", err)
	}
	return details, nil
}

// buildRangeQuery orders rows by date then fingerprint so per-country row
// samples and summation order are stable across calls.
func buildRangeQuery(userID string, from, to time.Time, types []domain.TransactionType) (string, []interface{}, error) {
	return sqlx.In(
		`SELECT * FROM transactions
		 WHERE user_id = ? AND transaction_date >= ? AND transaction_date < ? AND transaction_type IN (?)
		 ORDER BY transaction_date, fingerprint`,
		userID, from, to, typeStrings(types))
}

// buildDetailQuery matches a jurisdiction by any of its textual variants in
// either the taxable jurisdiction or the arrival country.
func buildDetailQuery(f domain.DetailFilter) (string, []interface{}, error) {
	return sqlx.In(
		`SELECT fingerprint, transaction_type, transaction_date, item_description, item_quantity,
		        total_value_vat_excl, total_value_vat, total_value_vat_incl, transaction_currency_code
		 FROM transactions
		 WHERE user_id = ?
		   AND (taxable_jurisdiction IN (?) OR arrival_country IN (?))
		   AND transaction_type IN (?)
		   AND transaction_date >= ? AND transaction_date < ?
		 ORDER BY transaction_date DESC, fingerprint`,
		f.UserID, f.CountryVariants, f.CountryVariants, typeStrings(f.Types), f.From, f.To)
}

func (r *transactionRepo) DistinctDates(ctx context.Context, userID string) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.SelectContext(ctx, &dates,
		`SELECT DISTINCT transaction_date FROM transactions
		 WHERE user_id = $1
		 ORDER BY transaction_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("transactionRepo.DistinctDates: %w", err)
	}
	return dates, nil
}

func typeStrings(types []domain.TransactionType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
