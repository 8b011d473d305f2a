package ingest

import (
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"ossvat/internal/domain"
)

// Record is one raw report row keyed by normalized column name.
// Values are kept exactly as read from the source.
type Record map[string]string

// NormalizeHeader strips byte-order marks and surrounding whitespace from a
// column name and upper-cases it, so lookups are case-insensitive.
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(h)
	h = strings.TrimPrefix(h, "\uFEFF")
	return strings.ToUpper(strings.TrimSpace(h))
}

// NewRecord zips a normalized header with one row of values. Missing trailing
// cells are absent from the record and extra cells are ignored.
func NewRecord(header, values []string) Record {
	rec := make(Record, len(header))
	for i, col := range header {
		if col == "" || i >= len(values) {
			continue
		}
		if _, dup := rec[col]; dup {
			continue
		}
		rec[col] = values[i]
	}
	return rec
}

// Get returns the raw value of a column, or "" when the column is absent.
func (r Record) Get(col string) string {
	return r[col]
}

// First returns the first non-empty value among the column aliases, in order.
func (r Record) First(cols ...string) string {
	for _, c := range cols {
		if v := r[c]; v != "" {
			return v
		}
	}
	return ""
}

// Column names of the marketplace VAT transaction report.
const (
	ColEventID            = "TRANSACTION_EVENT_ID"
	ColASIN               = "ASIN"
	ColTransactionType    = "TRANSACTION_TYPE"
	ColTaxReportingScheme = "TAX_REPORTING_SCHEME"
	ColCompleteDate       = "TRANSACTION_COMPLETE_DATE"
	ColCalculationDate    = "TAX_CALCULATION_DATE"
	ColItemDescription    = "ITEM_DESCRIPTION"
	ColCurrencyCode       = "TRANSACTION_CURRENCY_CODE"
	ColJurisdiction       = "TAXABLE_JURISDICTION"
	ColTotalValueVatAmt   = "TOTAL_ACTIVITY_VALUE_VAT_AMT"
)

var (
	dateColumns      = []string{ColCompleteDate, ColCalculationDate}
	quantityColumns  = []string{"QTY", "QUANTITY"}
	departureColumns = []string{"SALE_DEPART_COUNTRY", "DEPARTURE_COUNTRY"}
	arrivalColumns   = []string{"SALE_ARRIVAL_COUNTRY", "ARRIVAL_COUNTRY"}
)

// amountColumns lists the monetary columns in alias precedence order:
// the TOTAL_ prefixed variant first, the bare variant as fallback.
var amountColumns = []struct {
	aliases []string
	target  func(a *domain.Amounts) *decimal.Decimal
}{
	{[]string{"TOTAL_PRICE_OF_ITEMS_AMT_VAT_EXCL", "PRICE_OF_ITEMS_AMT_VAT_EXCL"}, func(a *domain.Amounts) *decimal.Decimal { return &a.TotalPriceOfItemsVatExcl }},
	{[]string{"TOTAL_SHIP_CHARGE_AMT_VAT_EXCL", "SHIP_CHARGE_AMT_VAT_EXCL"}, func(a *domain.Amounts) *decimal.Decimal { return &a.TotalShipChargeVatExcl }},
	{[]string{"TOTAL_GIFT_WRAP_AMT_VAT_EXCL", "GIFT_WRAP_AMT_VAT_EXCL"}, func(a *domain.Amounts) *decimal.Decimal { return &a.TotalGiftWrapVatExcl }},
	{[]string{"TOTAL_ACTIVITY_VALUE_AMT_VAT_EXCL", "ACTIVITY_VALUE_AMT_VAT_EXCL"}, func(a *domain.Amounts) *decimal.Decimal { return &a.TotalValueVatExcl }},
	{[]string{"TOTAL_PRICE_OF_ITEMS_VAT_AMT", "PRICE_OF_ITEMS_VAT_AMT"}, func(a *domain.Amounts) *decimal.Decimal { return &a.TotalPriceOfItemsVat }},
	{[]string{"TOTAL_SHIP_CHARGE_VAT_AMT", "SHIP_CHARGE_VAT_AMT"}, func(a *domain.Amounts) *decimal.Decimal { return &a.TotalShipChargeVat }},
	{[]string{"TOTAL_GIFT_WRAP_VAT_AMT", "GIFT_WRAP_VAT_AMT"}, func(a *domain.Amounts) *decimal.Decimal { return &a.TotalGiftWrapVat }},
	{[]string{ColTotalValueVatAmt, "ACTIVITY_VALUE_VAT_AMT"}, func(a *domain.Amounts) *decimal.Decimal { return &a.TotalValueVat }},
	{[]string{"TOTAL_PRICE_OF_ITEMS_AMT_VAT_INCL", "PRICE_OF_ITEMS_AMT_VAT_INCL"}, func(a *domain.Amounts) *decimal.Decimal { return &a.TotalPriceOfItemsVatIncl }},
	{[]string{"TOTAL_SHIP_CHARGE_AMT_VAT_INCL", "SHIP_CHARGE_AMT_VAT_INCL"}, func(a *domain.Amounts) *decimal.Decimal { return &a.TotalShipChargeVatIncl }},
	{[]string{"TOTAL_GIFT_WRAP_AMT_VAT_INCL", "GIFT_WRAP_AMT_VAT_INCL"}, func(a *domain.Amounts) *decimal.Decimal { return &a.TotalGiftWrapVatIncl }},
	{[]string{"TOTAL_ACTIVITY_VALUE_AMT_VAT_INCL", "ACTIVITY_VALUE_AMT_VAT_INCL"}, func(a *domain.Amounts) *decimal.Decimal { return &a.TotalValueVatIncl }},
}

// RawDate returns the date cell used for the transaction date.
func (r Record) RawDate() string {
	return r.First(dateColumns...)
}

// BuildTransaction maps a raw record to a Transaction for userID. The date
// must already be normalized; every other field fails closed to its zero
// value (or EUR for the currency) when absent or unparsable.
func BuildTransaction(rec Record, userID string, txType domain.TransactionType, date time.Time) domain.Transaction {
	txn := domain.Transaction{
		Fingerprint:             Fingerprint(rec),
		UserID:                  userID,
		TransactionType:         txType,
		TransactionDate:         date,
		ItemDescription:         strings.TrimSpace(rec.Get(ColItemDescription)),
		ItemQuantity:            QuantityOrZero(rec.First(quantityColumns...)),
		TransactionCurrencyCode: currencyCode(rec.Get(ColCurrencyCode)),
		DepartureCountry:        strings.TrimSpace(rec.First(departureColumns...)),
		ArrivalCountry:          strings.TrimSpace(rec.First(arrivalColumns...)),
		TaxableJurisdiction:     strings.TrimSpace(rec.Get(ColJurisdiction)),
	}
	for _, col := range amountColumns {
		*col.target(&txn.Amounts) = AmountOrZero(rec.First(col.aliases...))
	}
	return txn
}

// maxCurrencyCodeLen matches transactions.transaction_currency_code.
const maxCurrencyCodeLen = 8

// currencyCode upper-cases known ISO-4217 codes and defaults to EUR when blank.
// A cell that opens with a known code ("EUR (converted)") resolves to it.
// Other unknown codes are kept verbatim when they fit the column, otherwise
// they fall back to EUR.
func currencyCode(raw string) string {
	code := strings.TrimSpace(raw)
	if code == "" {
		return domain.DefaultCurrencyCode
	}
	if c := money.GetCurrency(strings.ToUpper(code)); c != nil {
		return c.Code
	}
	if fields := strings.FieldsFunc(code, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z')
	}); len(fields) > 0 {
		if c := money.GetCurrency(strings.ToUpper(fields[0])); c != nil {
			return c.Code
		}
	}
	if len(code) > maxCurrencyCodeLen {
		return domain.DefaultCurrencyCode
	}
	return code
}
