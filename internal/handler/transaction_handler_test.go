package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ossvat/internal/aggregate"
	"ossvat/internal/domain"
	"ossvat/internal/handler"
	"ossvat/internal/period"
	"ossvat/internal/service"
	"ossvat/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGetContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, target, http.NoBody)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestTransactionHandler_AvailablePeriods_Success(t *testing.T) {
	mockSvc := new(mocks.MockTransactionService)
	h := handler.NewTransactionHandler(mockSvc)

	periods := []period.Period{
		{Year: 2025, Frequency: period.Quarterly, Index: 2},
		{Year: 2025, Frequency: period.Quarterly, Index: 1},
	}
	mockSvc.On("AvailablePeriods", mock.Anything, "seller-1", period.Quarterly).Return(periods, nil)

	c, w := newGetContext("/api/v1/transactions/available-periods?userId=seller-1&taxFrequency=quarterly")
	h.AvailablePeriods(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data handler.AvailablePeriodsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "QUARTERLY", body.Data.FrequencyApplied)
	assert.Equal(t, 2, body.Data.Count)
	assert.Equal(t, "Q2", body.Data.Periods[0].Period)
	assert.Equal(t, "Q1 2025", body.Data.Periods[1].Label)
	mockSvc.AssertExpectations(t)
}

func TestTransactionHandler_AvailablePeriods_MissingUser(t *testing.T) {
	mockSvc := new(mocks.MockTransactionService)
	h := handler.NewTransactionHandler(mockSvc)

	c, w := newGetContext("/api/v1/transactions/available-periods")
	h.AvailablePeriods(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
	mockSvc.AssertNotCalled(t, "AvailablePeriods", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionHandler_AvailablePeriods_InvalidFrequency(t *testing.T) {
	mockSvc := new(mocks.MockTransactionService)
	h := handler.NewTransactionHandler(mockSvc)

	c, w := newGetContext("/api/v1/transactions/available-periods?userId=seller-1&taxFrequency=WEEKLY")
	h.AvailablePeriods(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FREQUENCY", decodeResponse(t, w).Error.Code)
}

func TestTransactionHandler_Summary_Success(t *testing.T) {
	mockSvc := new(mocks.MockTransactionService)
	h := handler.NewTransactionHandler(mockSvc)

	p := period.Period{Year: 2025, Frequency: period.Monthly, Index: 3}
	start, end := p.Range()
	report := &service.SummaryReport{
		Period: p,
		Start:  start,
		End:    end,
		Summaries: []aggregate.Summary{
			{CountryCode: "ES", CurrencyCode: "EUR", TransactionCount: 2},
		},
	}
	mockSvc.On("Summaries", mock.Anything, "seller-1", p).Return(report, nil)

	c, w := newGetContext("/api/v1/transactions/summary?userId=seller-1&year=2025&period=3")
	h.Summary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data handler.SummaryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "03", body.Data.Period)
	assert.Equal(t, "March 2025", body.Data.Label)
	assert.True(t, body.Data.Range.Start.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, body.Data.Range.End.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
	require.Len(t, body.Data.Summaries, 1)
	assert.Equal(t, "ES", body.Data.Summaries[0].CountryCode)
	mockSvc.AssertExpectations(t)
}

func TestTransactionHandler_Summary_BadParameters(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
		code   string
	}{
		{"missing period", "?userId=u&year=2025", http.StatusBadRequest, "INVALID_REQUEST"},
		{"undefined period", "?userId=u&year=2025&period=undefined", http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing user", "?year=2025&period=1", http.StatusBadRequest, "INVALID_REQUEST"},
		{"non-numeric year", "?userId=u&year=twenty&period=1", http.StatusBadRequest, "INVALID_PERIOD"},
		{"month out of range", "?userId=u&year=2025&period=13", http.StatusBadRequest, "INVALID_PERIOD"},
		{"quarter out of range", "?userId=u&year=2025&period=Q5", http.StatusBadRequest, "INVALID_PERIOD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(mocks.MockTransactionService)
			h := handler.NewTransactionHandler(mockSvc)

			c, w := newGetContext("/api/v1/transactions/summary" + tt.query)
			h.Summary(c)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeResponse(t, w).Error.Code)
			mockSvc.AssertNotCalled(t, "Summaries", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestTransactionHandler_Summary_ServiceError(t *testing.T) {
	mockSvc := new(mocks.MockTransactionService)
	h := handler.NewTransactionHandler(mockSvc)

	mockSvc.On("Summaries", mock.Anything, "seller-1", mock.Anything).Return(nil, errors.New("db down"))

	c, w := newGetContext("/api/v1/transactions/summary?userId=seller-1&year=2025&period=Q1")
	h.Summary(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeResponse(t, w).Error.Code)
}

func TestTransactionHandler_ByCountry_Success(t *testing.T) {
	mockSvc := new(mocks.MockTransactionService)
	h := handler.NewTransactionHandler(mockSvc)

	p := period.Period{Year: 2025, Frequency: period.Quarterly, Index: 1}
	details := &service.CountryDetails{
		Country:     "ES",
		CountryName: "Spain",
		Period:      p,
		Transactions: []domain.TransactionDetail{
			{Fingerprint: "abc", TransactionType: domain.TransactionTypeSale, TotalValueVatIncl: decimal.RequireFromString("12.10")},
		},
	}
	mockSvc.On("DetailsByCountry", mock.Anything, "seller-1", p, "es").Return(details, nil)

	c, w := newGetContext("/api/v1/transactions/by-country?userId=seller-1&year=2025&period=Q1&country=es")
	h.ByCountry(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data handler.CountryTransactionsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ES", body.Data.Country)
	assert.Equal(t, "Spain", body.Data.CountryName)
	assert.Equal(t, 1, body.Data.Count)
	mockSvc.AssertExpectations(t)
}

func TestTransactionHandler_ByCountry_MissingCountry(t *testing.T) {
	mockSvc := new(mocks.MockTransactionService)
	h := handler.NewTransactionHandler(mockSvc)

	c, w := newGetContext("/api/v1/transactions/by-country?userId=seller-1&year=2025&period=Q1")
	h.ByCountry(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeResponse(t, w).Error.Code)
}

func TestTransactionHandler_ByCountry_InvalidCountry(t *testing.T) {
	mockSvc := new(mocks.MockTransactionService)
	h := handler.NewTransactionHandler(mockSvc)

	mockSvc.On("DetailsByCountry", mock.Anything, "seller-1", mock.Anything, "XX1").Return(nil, domain.ErrInvalidCountry)

	c, w := newGetContext("/api/v1/transactions/by-country?userId=seller-1&year=2025&period=Q1&country=XX1")
	h.ByCountry(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionHandler_ExportSummary(t *testing.T) {
	mockSvc := new(mocks.MockTransactionService)
	h := handler.NewTransactionHandler(mockSvc)

	p := period.Period{Year: 2025, Frequency: period.Quarterly, Index: 2}
	report := &service.SummaryReport{
		Period: p,
		Summaries: []aggregate.Summary{
			{
				CountryCode:      "ES",
				CurrencyCode:     "EUR",
				TransactionCount: 1,
				Amounts:          domain.Amounts{TotalValueVatIncl: decimal.RequireFromString("121")},
			},
		},
	}
	mockSvc.On("Summaries", mock.Anything, "seller-1", p).Return(report, nil)

	c, w := newGetContext("/api/v1/transactions/summary/export?userId=seller-1&year=2025&period=Q2")
	h.ExportSummary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="oss_summary_seller-1_2025_Q2.csv"`, w.Header().Get("Content-Disposition"))

	body := w.Body.Bytes()
	assert.True(t, bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}), "export must start with a UTF-8 BOM")
	assert.Contains(t, string(body), "Country Code")
	assert.Contains(t, string(body), "ES,Spain,EUR,1,")
	assert.Contains(t, string(body), "121.00")
	mockSvc.AssertExpectations(t)
}

func TestTransactionHandler_ExportSummary_InvalidPeriod(t *testing.T) {
	mockSvc := new(mocks.MockTransactionService)
	h := handler.NewTransactionHandler(mockSvc)

	c, w := newGetContext("/api/v1/transactions/summary/export?userId=seller-1&year=2025&period=0")
	h.ExportSummary(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PERIOD", decodeResponse(t, w).Error.Code)
}
