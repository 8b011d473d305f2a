package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"ossvat/internal/aggregate"
	"ossvat/internal/country"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (16 columns).
var columns = []string{
	"Country Code",
	"Country Name",
	"Currency",
	"Transaction Count",
	"Items Excl. VAT",
	"Shipping Excl. VAT",
	"Gift Wrap Excl. VAT",
	"Total Excl. VAT",
	"Items VAT",
	"Shipping VAT",
	"Gift Wrap VAT",
	"Total VAT",
	"Items Incl. VAT",
	"Shipping Incl. VAT",
	"Gift Wrap Incl. VAT",
	"Total Incl. VAT",
}

// Writer wraps csv.Writer for exporting jurisdiction summaries as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the 16-column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteSummaries writes one row per summary, in the given order.
func (w *Writer) WriteSummaries(summaries []aggregate.Summary) error {
	for i := range summaries {
		if err := w.csv.Write(summaryToRow(&summaries[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func summaryToRow(s *aggregate.Summary) []string {
	a := &s.Amounts
	name := ""
	if s.CountryCode != aggregate.UnknownJurisdiction {
		name = country.Name(s.CountryCode)
	}
	return []string{
		s.CountryCode,
		name,
		s.CurrencyCode,
		strconv.Itoa(s.TransactionCount),
		formatMoney(a.TotalPriceOfItemsVatExcl),
		formatMoney(a.TotalShipChargeVatExcl),
		formatMoney(a.TotalGiftWrapVatExcl),
		formatMoney(a.TotalValueVatExcl),
		formatMoney(a.TotalPriceOfItemsVat),
		formatMoney(a.TotalShipChargeVat),
		formatMoney(a.TotalGiftWrapVat),
		formatMoney(a.TotalValueVat),
		formatMoney(a.TotalPriceOfItemsVatIncl),
		formatMoney(a.TotalShipChargeVatIncl),
		formatMoney(a.TotalGiftWrapVatIncl),
		formatMoney(a.TotalValueVatIncl),
	}
}

func formatMoney(v decimal.Decimal) string {
	return v.StringFixed(2)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for a period summary export.
// Format: oss_summary_{userID}_{year}_{token}.csv
func BuildFilename(userID string, year int, token string) string {
	return fmt.Sprintf("oss_summary_%s_%d_%s.csv", SanitizeFilename(userID), year, SanitizeFilename(token))
}
