// Package aggregate computes per-jurisdiction VAT totals for a set of
// transactions.
package aggregate

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"ossvat/internal/domain"
)

// UnknownJurisdiction groups rows with a blank taxable jurisdiction.
const UnknownJurisdiction = "UNKNOWN"

// Summary holds the signed totals of one taxable jurisdiction.
type Summary struct {
	CountryCode      string `json:"countryCode"`
	CurrencyCode     string `json:"currencyCode"`
	TransactionCount int    `json:"transactionCount"`
	domain.Amounts
}

// Aggregate groups txns by taxable jurisdiction and sums every monetary field,
// counting refunds negatively. Sums are exact; each total is rounded to two
// decimal places (half away from zero) only once all rows are added. The
// currency of a group is that of its first row.
func Aggregate(txns []domain.Transaction) map[string]*Summary {
	out := make(map[string]*Summary)
	for i := range txns {
		t := &txns[i]
		code := strings.TrimSpace(t.TaxableJurisdiction)
		if code == "" {
			code = UnknownJurisdiction
		}

		s, ok := out[code]
		if !ok {
			currency := strings.TrimSpace(t.TransactionCurrencyCode)
			if currency == "" {
				currency = domain.DefaultCurrencyCode
			}
			s = &Summary{CountryCode: code, CurrencyCode: currency}
			out[code] = s
		}
		s.Amounts = s.Amounts.AddScaled(t.Amounts, decimal.NewFromInt(t.TransactionType.Sign()))
		s.TransactionCount++
	}

	for _, s := range out {
		s.Amounts = s.Amounts.Round(2)
	}
	return out
}

// Sorted returns the summaries ordered by country code.
func Sorted(m map[string]*Summary) []Summary {
	out := make([]Summary, 0, len(m))
	for _, s := range m {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CountryCode < out[j].CountryCode
	})
	return out
}
