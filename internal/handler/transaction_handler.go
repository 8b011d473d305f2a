package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ossvat/internal/csvexport"
	"ossvat/internal/domain"
	"ossvat/internal/period"
	"ossvat/internal/service"
)

// TransactionHandler handles period discovery and aggregation endpoints.
type TransactionHandler struct {
	txService service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{txService: txService}
}

// AvailablePeriods handles GET /api/v1/transactions/available-periods
// @Summary List periods with data
// @Description Returns the distinct months or quarters in which the user has transactions, newest first
// @Tags transactions
// @Produce json
// @Param userId query string true "User scope"
// @Param taxFrequency query string false "MONTHLY (default) or QUARTERLY"
// @Success 200 {object} Response{data=AvailablePeriodsResponse}
// @Failure 400 {object} ErrorResponseBody "Missing userId or invalid frequency"
// @Failure 500 {object} ErrorResponseBody
// @Router /transactions/available-periods [get]
func (h *TransactionHandler) AvailablePeriods(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		HandleError(c, domain.ErrMissingUserID)
		return
	}
	freq, err := period.ParseFrequency(c.Query("taxFrequency"))
	if err != nil {
		HandleError(c, err)
		return
	}

	periods, err := h.txService.AvailablePeriods(c.Request.Context(), userID, freq)
	if err != nil {
		HandleError(c, err)
		return
	}

	items := make([]PeriodItem, 0, len(periods))
	for _, p := range periods {
		items = append(items, PeriodItem{
			Year:   p.Year,
			Period: p.Token(),
			Label:  p.Label(),
			Type:   string(p.Frequency),
		})
	}
	RespondOK(c, AvailablePeriodsResponse{
		UserID:           userID,
		FrequencyApplied: string(freq),
		Count:            len(items),
		Periods:          items,
	})
}

// Summary handles GET /api/v1/transactions/summary
// @Summary Aggregate a period by jurisdiction
// @Description Sums the monetary fields of all SALE and REFUND transactions of the period per taxable jurisdiction, refunds negative
// @Tags transactions
// @Produce json
// @Param userId query string true "User scope"
// @Param year query int true "Fiscal year"
// @Param period query string true "Month 1-12 or quarter Q1-Q4"
// @Success 200 {object} Response{data=SummaryResponse}
// @Failure 400 {object} ErrorResponseBody "Missing parameter or invalid period"
// @Failure 500 {object} ErrorResponseBody
// @Router /transactions/summary [get]
func (h *TransactionHandler) Summary(c *gin.Context) {
	userID, p, ok := parsePeriodQuery(c)
	if !ok {
		return
	}

	report, err := h.txService.Summaries(c.Request.Context(), userID, p)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, SummaryResponse{
		Year:      p.Year,
		Period:    p.Token(),
		Label:     p.Label(),
		Range:     DateRange{Start: report.Start, End: report.End},
		Summaries: report.Summaries,
	})
}

// ByCountry handles GET /api/v1/transactions/by-country
// @Summary List a jurisdiction's transactions
// @Description Lists SALE and REFUND transactions of the period whose taxable jurisdiction or arrival country matches the country code or its name
// @Tags transactions
// @Produce json
// @Param userId query string true "User scope"
// @Param year query int true "Fiscal year"
// @Param period query string true "Month 1-12 or quarter Q1-Q4"
// @Param country query string true "ISO country code, e.g. ES"
// @Success 200 {object} Response{data=CountryTransactionsResponse}
// @Failure 400 {object} ErrorResponseBody "Missing parameter or invalid period"
// @Failure 500 {object} ErrorResponseBody
// @Router /transactions/by-country [get]
func (h *TransactionHandler) ByCountry(c *gin.Context) {
	code := strings.TrimSpace(c.Query("country"))
	if code == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "country is required")
		return
	}
	userID, p, ok := parsePeriodQuery(c)
	if !ok {
		return
	}

	details, err := h.txService.DetailsByCountry(c.Request.Context(), userID, p, code)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, CountryTransactionsResponse{
		Country:      details.Country,
		CountryName:  details.CountryName,
		Year:         p.Year,
		Period:       p.Token(),
		Count:        len(details.Transactions),
		Transactions: details.Transactions,
	})
}

// ExportSummary handles GET /api/v1/transactions/summary/export
// @Summary Export period totals as CSV
// @Description Same aggregation as /transactions/summary rendered as a UTF-8 CSV with BOM
// @Tags transactions
// @Produce text/csv
// @Param userId query string true "User scope"
// @Param year query int true "Fiscal year"
// @Param period query string true "Month 1-12 or quarter Q1-Q4"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} ErrorResponseBody "Missing parameter or invalid period"
// @Failure 500 {object} ErrorResponseBody
// @Router /transactions/summary/export [get]
func (h *TransactionHandler) ExportSummary(c *gin.Context) {
	userID, p, ok := parsePeriodQuery(c)
	if !ok {
		return
	}

	report, err := h.txService.Summaries(c.Request.Context(), userID, p)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		HandleError(c, err)
		return
	}
	if err := w.WriteSummaries(report.Summaries); err != nil {
		HandleError(c, err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename(userID, p.Year, p.Token())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// parsePeriodQuery reads userId, year and period from the query string.
// Returns false if a parameter is missing or invalid (error response already written).
func parsePeriodQuery(c *gin.Context) (string, period.Period, bool) {
	userID := strings.TrimSpace(c.Query("userId"))
	yearStr := strings.TrimSpace(c.Query("year"))
	token := strings.TrimSpace(c.Query("period"))
	if userID == "" || yearStr == "" || token == "" || token == "undefined" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "userId, year and period are required")
		return "", period.Period{}, false
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		HandleError(c, fmt.Errorf("%w: year %q", domain.ErrInvalidPeriod, yearStr))
		return "", period.Period{}, false
	}
	p, err := period.Parse(year, token)
	if err != nil {
		HandleError(c, err)
		return "", period.Period{}, false
	}
	return userID, p, true
}
