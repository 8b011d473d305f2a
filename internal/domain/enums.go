package domain

// TransactionType classifies a report row.
type TransactionType string

const (
	TransactionTypeSale   TransactionType = "SALE"
	TransactionTypeRefund TransactionType = "REFUND"
)

// ValidTransactionTypes lists every transaction type that may be persisted.
var ValidTransactionTypes = map[TransactionType]bool{
	TransactionTypeSale:   true,
	TransactionTypeRefund: true,
}

// Sign returns -1 for refunds and +1 for everything else.
func (t TransactionType) Sign() int64 {
	if t == TransactionTypeRefund {
		return -1
	}
	return 1
}

// DefaultCurrencyCode is used when a row carries no currency.
const DefaultCurrencyCode = "EUR"

// ReportFormat is the container format of an uploaded tax report.
type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatXLSX ReportFormat = "xlsx"
)

// AllowedReportExtensions maps file extensions (without dot) to ReportFormat.
var AllowedReportExtensions = map[string]ReportFormat{
	"csv":  ReportFormatCSV,
	"txt":  ReportFormatCSV,
	"xlsx": ReportFormatXLSX,
}

// ReportContentTypes maps ReportFormat to the MIME type used when archiving.
var ReportContentTypes = map[ReportFormat]string{
	ReportFormatCSV:  "text/csv",
	ReportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}
