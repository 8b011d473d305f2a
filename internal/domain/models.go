package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Amounts holds the twelve monetary columns of a tax report row: item price,
// shipping charge, gift wrap and total activity value, each VAT-exclusive,
// VAT amount and VAT-inclusive.
type Amounts struct {
	TotalPriceOfItemsVatExcl decimal.Decimal `db:"total_price_of_items_vat_excl" json:"totalPriceOfItemsVatExcl"`
	TotalShipChargeVatExcl   decimal.Decimal `db:"total_ship_charge_vat_excl" json:"totalShipChargeVatExcl"`
	TotalGiftWrapVatExcl     decimal.Decimal `db:"total_gift_wrap_vat_excl" json:"totalGiftWrapVatExcl"`
	TotalValueVatExcl        decimal.Decimal `db:"total_value_vat_excl" json:"totalValueVatExcl"`

	TotalPriceOfItemsVat decimal.Decimal `db:"total_price_of_items_vat" json:"totalPriceOfItemsVat"`
	TotalShipChargeVat   decimal.Decimal `db:"total_ship_charge_vat" json:"totalShipChargeVat"`
	TotalGiftWrapVat     decimal.Decimal `db:"total_gift_wrap_vat" json:"totalGiftWrapVat"`
	TotalValueVat        decimal.Decimal `db:"total_value_vat" json:"totalValueVat"`

	TotalPriceOfItemsVatIncl decimal.Decimal `db:"total_price_of_items_vat_incl" json:"totalPriceOfItemsVatIncl"`
	TotalShipChargeVatIncl   decimal.Decimal `db:"total_ship_charge_vat_incl" json:"totalShipChargeVatIncl"`
	TotalGiftWrapVatIncl     decimal.Decimal `db:"total_gift_wrap_vat_incl" json:"totalGiftWrapVatIncl"`
	TotalValueVatIncl        decimal.Decimal `db:"total_value_vat_incl" json:"totalValueVatIncl"`
}

func (a *Amounts) fields() []*decimal.Decimal {
	return []*decimal.Decimal{
		&a.TotalPriceOfItemsVatExcl, &a.TotalShipChargeVatExcl, &a.TotalGiftWrapVatExcl, &a.TotalValueVatExcl,
		&a.TotalPriceOfItemsVat, &a.TotalShipChargeVat, &a.TotalGiftWrapVat, &a.TotalValueVat,
		&a.TotalPriceOfItemsVatIncl, &a.TotalShipChargeVatIncl, &a.TotalGiftWrapVatIncl, &a.TotalValueVatIncl,
	}
}

// AddScaled returns a + b*factor, field by field.
func (a Amounts) AddScaled(b Amounts, factor decimal.Decimal) Amounts {
	out := a
	dst, src := out.fields(), b.fields()
	for i := range dst {
		*dst[i] = dst[i].Add(src[i].Mul(factor))
	}
	return out
}

// Round rounds every field to the given number of decimal places,
// half away from zero.
func (a Amounts) Round(places int32) Amounts {
	out := a
	for _, f := range out.fields() {
		*f = f.Round(places)
	}
	return out
}

// Transaction is one accepted tax report row. Rows are immutable once stored.
type Transaction struct {
	Fingerprint             string          `db:"fingerprint" json:"fingerprint"`
	UserID                  string          `db:"user_id" json:"userId"`
	TransactionType         TransactionType `db:"transaction_type" json:"transactionType"`
	TransactionDate         time.Time       `db:"transaction_date" json:"transactionDate"`
	ItemDescription         string          `db:"item_description" json:"itemDescription"`
	ItemQuantity            int             `db:"item_quantity" json:"itemQuantity"`
	TransactionCurrencyCode string          `db:"transaction_currency_code" json:"transactionCurrencyCode"`
	DepartureCountry        string          `db:"departure_country" json:"departureCountry"`
	ArrivalCountry          string          `db:"arrival_country" json:"arrivalCountry"`
	TaxableJurisdiction     string          `db:"taxable_jurisdiction" json:"taxableJurisdiction"`
	Amounts
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// TransactionDetail is the projection returned when listing a single
// jurisdiction's transactions instead of aggregating them.
type TransactionDetail struct {
	Fingerprint             string          `db:"fingerprint" json:"fingerprint"`
	TransactionType         TransactionType `db:"transaction_type" json:"transactionType"`
	TransactionDate         time.Time       `db:"transaction_date" json:"transactionDate"`
	ItemDescription         string          `db:"item_description" json:"itemDescription"`
	ItemQuantity            int             `db:"item_quantity" json:"itemQuantity"`
	TotalValueVatExcl       decimal.Decimal `db:"total_value_vat_excl" json:"totalValueVatExcl"`
	TotalValueVat           decimal.Decimal `db:"total_value_vat" json:"totalValueVat"`
	TotalValueVatIncl       decimal.Decimal `db:"total_value_vat_incl" json:"totalValueVatIncl"`
	TransactionCurrencyCode string          `db:"transaction_currency_code" json:"transactionCurrencyCode"`
}

// DetailFilter scopes a detail listing.
type DetailFilter struct {
	UserID          string
	From            time.Time // inclusive
	To              time.Time // exclusive
	Types           []TransactionType
	CountryVariants []string
}
