package handler

import (
	"time"

	"ossvat/internal/aggregate"
	"ossvat/internal/domain"
	"ossvat/internal/ingest"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// Response is the generic success envelope.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data"`
}

// ErrorResponseBody is the error envelope.
type ErrorResponseBody struct {
	Success bool     `json:"success" example:"false"`
	Error   APIError `json:"error"`
}

// --- Response Types ---

// PeriodItem is one fiscal period with data.
type PeriodItem struct {
	Year   int    `json:"year" example:"2025"`
	Period string `json:"period" example:"Q1"`
	Label  string `json:"label" example:"Q1 2025"`
	Type   string `json:"type" example:"QUARTERLY"`
}

// AvailablePeriodsResponse lists the periods a user has transactions in.
type AvailablePeriodsResponse struct {
	UserID           string       `json:"userId" example:"seller-42"`
	FrequencyApplied string       `json:"frequencyApplied" example:"MONTHLY"`
	Count            int          `json:"count" example:"3"`
	Periods          []PeriodItem `json:"periods"`
}

// DateRange is a half-open [start, end) UTC interval.
type DateRange struct {
	Start time.Time `json:"start" example:"2025-04-01T00:00:00Z"`
	End   time.Time `json:"end" example:"2025-07-01T00:00:00Z"`
}

// SummaryResponse holds the jurisdiction totals of one period.
type SummaryResponse struct {
	Year      int                 `json:"year" example:"2025"`
	Period    string              `json:"period" example:"Q2"`
	Label     string              `json:"label" example:"Q2 2025"`
	Range     DateRange           `json:"range"`
	Summaries []aggregate.Summary `json:"summaries"`
}

// CountryTransactionsResponse lists one jurisdiction's transactions.
type CountryTransactionsResponse struct {
	Country      string                     `json:"country" example:"ES"`
	CountryName  string                     `json:"countryName" example:"Spain"`
	Year         int                        `json:"year" example:"2025"`
	Period       string                     `json:"period" example:"03"`
	Count        int                        `json:"count" example:"12"`
	Transactions []domain.TransactionDetail `json:"transactions"`
}

// UploadResponse reports the outcome of a report upload.
type UploadResponse struct {
	Rows            int                       `json:"rows" example:"1200"`
	Accepted        int                       `json:"accepted" example:"1100"`
	Inserted        int64                     `json:"inserted" example:"1100"`
	Skipped         int                       `json:"skipped" example:"100"`
	SkippedByReason map[ingest.SkipReason]int `json:"skippedByReason"`
	Frequency       string                    `json:"frequency" example:"MONTHLY"`
	ArchiveKey      string                    `json:"archiveKey,omitempty" example:"reports/seller-42/2025/04/6f1c.csv"`
}
