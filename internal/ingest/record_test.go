package ingest_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ossvat/internal/domain"
	"ossvat/internal/ingest"
)

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "TRANSACTION_TYPE", ingest.NormalizeHeader("\uFEFFtransaction_type"))
	assert.Equal(t, "ASIN", ingest.NormalizeHeader("  asin "))
}

func TestNewRecord_ShortRowsAndDuplicates(t *testing.T) {
	rec := ingest.NewRecord([]string{"A", "B", "A", "C"}, []string{"1", "2", "3"})

	assert.Equal(t, "1", rec.Get("A"))
	assert.Equal(t, "2", rec.Get("B"))
	_, ok := rec["C"]
	assert.False(t, ok)
	assert.Equal(t, "", rec.Get("C"))
}

func TestRecord_FirstUsesAliasOrder(t *testing.T) {
	rec := ingest.Record{"QTY": "", "QUANTITY": "4"}
	assert.Equal(t, "4", rec.First("QTY", "QUANTITY"))

	rec = ingest.Record{"TRANSACTION_COMPLETE_DATE": "01-02-2025", "TAX_CALCULATION_DATE": "05-02-2025"}
	assert.Equal(t, "01-02-2025", rec.RawDate())

	rec = ingest.Record{"TAX_CALCULATION_DATE": "05-02-2025"}
	assert.Equal(t, "05-02-2025", rec.RawDate())
}

func TestBuildTransaction(t *testing.T) {
	rec := ingest.Record{
		"TRANSACTION_EVENT_ID":              "E1",
		"ASIN":                              "B0001",
		"TRANSACTION_TYPE":                  "SALE",
		"TRANSACTION_COMPLETE_DATE":         "19-03-2025",
		"ITEM_DESCRIPTION":                  "  Mug  ",
		"QTY":                               "2",
		"TRANSACTION_CURRENCY_CODE":         "eur",
		"SALE_DEPART_COUNTRY":               "DE",
		"SALE_ARRIVAL_COUNTRY":              "ES",
		"TAXABLE_JURISDICTION":              "ES",
		"TOTAL_ACTIVITY_VALUE_AMT_VAT_EXCL": "10,00",
		"TOTAL_ACTIVITY_VALUE_VAT_AMT":      "2.10",
		"ACTIVITY_VALUE_AMT_VAT_INCL":       "12.10",
		"PRICE_OF_ITEMS_AMT_VAT_EXCL":       "garbage",
	}
	d := date(2025, time.March, 19)

	txn := ingest.BuildTransaction(rec, "user-1", domain.TransactionTypeSale, d)

	assert.Equal(t, ingest.Fingerprint(rec), txn.Fingerprint)
	assert.Equal(t, "user-1", txn.UserID)
	assert.Equal(t, domain.TransactionTypeSale, txn.TransactionType)
	assert.True(t, d.Equal(txn.TransactionDate))
	assert.Equal(t, "Mug", txn.ItemDescription)
	assert.Equal(t, 2, txn.ItemQuantity)
	assert.Equal(t, "EUR", txn.TransactionCurrencyCode)
	assert.Equal(t, "DE", txn.DepartureCountry)
	assert.Equal(t, "ES", txn.ArrivalCountry)
	assert.Equal(t, "ES", txn.TaxableJurisdiction)
	assert.Equal(t, "10", txn.TotalValueVatExcl.String())
	assert.Equal(t, "2.1", txn.TotalValueVat.String())
	assert.Equal(t, "12.1", txn.TotalValueVatIncl.String())
	assert.True(t, txn.TotalPriceOfItemsVatExcl.IsZero())
	assert.True(t, txn.TotalShipChargeVat.IsZero())
}

func TestBuildTransaction_CurrencyDefaults(t *testing.T) {
	d := date(2025, time.March, 19)

	txn := ingest.BuildTransaction(ingest.Record{}, "u", domain.TransactionTypeSale, d)
	assert.Equal(t, domain.DefaultCurrencyCode, txn.TransactionCurrencyCode)

	txn = ingest.BuildTransaction(ingest.Record{"TRANSACTION_CURRENCY_CODE": " gbp "}, "u", domain.TransactionTypeSale, d)
	assert.Equal(t, "GBP", txn.TransactionCurrencyCode)

	txn = ingest.BuildTransaction(ingest.Record{"TRANSACTION_CURRENCY_CODE": "XYZ1"}, "u", domain.TransactionTypeSale, d)
	assert.Equal(t, "XYZ1", txn.TransactionCurrencyCode)
}

func TestBuildTransaction_OversizedCells(t *testing.T) {
	rec := ingest.Record{
		"TRANSACTION_CURRENCY_CODE":         "EUR (Euro, converted)",
		"TOTAL_ACTIVITY_VALUE_VAT_AMT":      "99999999999999",
		"TOTAL_ACTIVITY_VALUE_AMT_VAT_EXCL": "10.00",
		"QTY":                               "99999999999",
	}
	txn := ingest.BuildTransaction(rec, "u", domain.TransactionTypeSale, date(2025, time.March, 19))

	assert.Equal(t, "EUR", txn.TransactionCurrencyCode)
	assert.True(t, txn.TotalValueVat.IsZero())
	assert.Equal(t, "10", txn.TotalValueVatExcl.String())
	assert.Equal(t, math.MaxInt32, txn.ItemQuantity)

	txn = ingest.BuildTransaction(ingest.Record{"TRANSACTION_CURRENCY_CODE": "NOT-A-CURRENCY"}, "u", domain.TransactionTypeSale, date(2025, time.March, 19))
	assert.Equal(t, domain.DefaultCurrencyCode, txn.TransactionCurrencyCode)
}
