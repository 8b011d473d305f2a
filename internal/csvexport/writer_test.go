package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ossvat/internal/aggregate"
	"ossvat/internal/domain"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 16)
	assert.Equal(t, "Country Code", row[0])
	assert.Equal(t, "Total VAT", row[11])
	assert.Equal(t, "Total Incl. VAT", row[15])
}

func TestWriteSummaries(t *testing.T) {
	summaries := []aggregate.Summary{
		{
			CountryCode:      "ES",
			CurrencyCode:     "EUR",
			TransactionCount: 3,
			Amounts: domain.Amounts{
				TotalValueVatExcl: decimal.RequireFromString("82.64"),
				TotalValueVat:     decimal.RequireFromString("17.355"),
				TotalValueVatIncl: decimal.RequireFromString("-100"),
			},
		},
		{CountryCode: aggregate.UnknownJurisdiction, CurrencyCode: "EUR", TransactionCount: 1},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteSummaries(summaries))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "ES", rows[0][0])
	assert.Equal(t, "Spain", rows[0][1])
	assert.Equal(t, "3", rows[0][3])
	assert.Equal(t, "0.00", rows[0][4])
	assert.Equal(t, "82.64", rows[0][7])
	assert.Equal(t, "17.36", rows[0][11])
	assert.Equal(t, "-100.00", rows[0][15])

	assert.Equal(t, "UNKNOWN", rows[1][0])
	assert.Equal(t, "", rows[1][1])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"user-1", "user-1"},
		{"acme shop / eu", "acme_shop_eu"},
		{"__a__b__", "a_b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in))
	}
	assert.Len(t, SanitizeFilename(string(bytes.Repeat([]byte("a"), 150))), 100)
}

func TestBuildFilename(t *testing.T) {
	assert.Equal(t, "oss_summary_acme_shop_2025_Q1.csv", BuildFilename("acme shop", 2025, "Q1"))
}
