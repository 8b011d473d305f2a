package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ossvat/internal/config"
	"ossvat/internal/domain"
)

func TestBuildInsert_PlaceholdersAndArgs(t *testing.T) {
	txns := []domain.Transaction{
		{Fingerprint: "a", UserID: "u", TransactionType: domain.TransactionTypeSale},
		{Fingerprint: "b", UserID: "u", TransactionType: domain.TransactionTypeRefund,
			Amounts: domain.Amounts{TotalValueVatIncl: decimal.NewFromInt(7)}},
	}

	query, args := buildInsert(txns)

	cols := len(transactionColumns)
	require.Len(t, args, 2*cols)
	assert.True(t, strings.HasPrefix(query, "INSERT INTO transactions (fingerprint, user_id,"))
	assert.True(t, strings.HasSuffix(query, "ON CONFLICT (fingerprint) DO NOTHING"))
	assert.Contains(t, query, "($1, $2,")
	assert.Contains(t, query, "($23, $24,")
	assert.Contains(t, query, "$44)")
	assert.NotContains(t, query, "$45")

	assert.Equal(t, "b", args[cols])
	assert.Equal(t, domain.TransactionTypeRefund, args[cols+2])
	assert.Equal(t, decimal.NewFromInt(7), args[2*cols-1])
}

func TestTransactionArgs_MatchColumns(t *testing.T) {
	assert.Len(t, transactionArgs(&domain.Transaction{}), len(transactionColumns))
}

func TestBuildDetailQuery_ExpandsVariants(t *testing.T) {
	from := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	query, args, err := buildDetailQuery(domain.DetailFilter{
		UserID:          "u",
		From:            from,
		To:              to,
		Types:           []domain.TransactionType{domain.TransactionTypeSale, domain.TransactionTypeRefund},
		CountryVariants: []string{"ES", "es", "Spain"},
	})
	require.NoError(t, err)

	assert.Contains(t, query, "taxable_jurisdiction IN (?, ?, ?)")
	assert.Contains(t, query, "arrival_country IN (?, ?, ?)")
	assert.Contains(t, query, "transaction_type IN (?, ?)")
	assert.Equal(t, []interface{}{"u", "ES", "es", "Spain", "ES", "es", "Spain", "SALE", "REFUND", from, to}, args)
}

func TestNewTransactionRepo_DefaultChunkSize(t *testing.T) {
	r := NewTransactionRepo(nil, 0).(*transactionRepo)
	assert.Equal(t, DefaultInsertChunkSize, r.chunkSize)
}

func TestNewTransactionRepo_ClampsChunkSizeToBindLimit(t *testing.T) {
	r := NewTransactionRepo(nil, 5000).(*transactionRepo)
	assert.Equal(t, MaxInsertChunkSize(), r.chunkSize)
	assert.LessOrEqual(t, r.chunkSize*len(transactionColumns), maxBindParams)
	assert.Equal(t, config.MaxInsertChunkSize, r.chunkSize)

	txns := make([]domain.Transaction, r.chunkSize)
	_, args := buildInsert(txns)
	assert.LessOrEqual(t, len(args), maxBindParams)
}

func TestBuildRangeQuery_DeterministicOrder(t *testing.T) {
	from := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	query, args, err := buildRangeQuery("u", from, to, []domain.TransactionType{domain.TransactionTypeSale, domain.TransactionTypeRefund})
	require.NoError(t, err)

	assert.Contains(t, query, "transaction_type IN (?, ?)")
	assert.True(t, strings.HasSuffix(query, "ORDER BY transaction_date, fingerprint"))
	assert.Equal(t, []interface{}{"u", from, to, "SALE", "REFUND"}, args)
}
