package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ossvat/internal/domain"
	"ossvat/internal/handler"
	"ossvat/internal/ingest"
	"ossvat/internal/period"
	"ossvat/internal/service"
	"ossvat/mocks"
)

func newUploadContext(t *testing.T, fileField, fileName string, fields map[string]string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte("TRANSACTION_TYPE\nSALE\n"))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/transactions/upload", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	return c, w
}

func TestUploadHandler_Upload_Success(t *testing.T) {
	mockSvc := new(mocks.MockIngestService)
	h := handler.NewUploadHandler(mockSvc)

	outcome := &service.IngestOutcome{
		Result: ingest.Result{
			Rows:            3,
			Accepted:        2,
			Inserted:        2,
			Skipped:         1,
			SkippedByReason: map[ingest.SkipReason]int{ingest.SkipSchemeMismatch: 1},
		},
		Frequency: period.Quarterly,
	}
	mockSvc.On("IngestReport", mock.Anything, mock.MatchedBy(func(in service.IngestInput) bool {
		return in.UserID == "seller-1" && in.FileName == "report.csv" && in.Frequency == period.Quarterly && in.Size > 0
	})).Return(outcome, nil)

	c, w := newUploadContext(t, "file", "report.csv", map[string]string{"userId": "seller-1", "taxFrequency": "QUARTERLY"})
	h.Upload(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool                   `json:"success"`
		Data    handler.UploadResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 3, body.Data.Rows)
	assert.Equal(t, int64(2), body.Data.Inserted)
	assert.Equal(t, 1, body.Data.SkippedByReason[ingest.SkipSchemeMismatch])
	assert.Equal(t, "QUARTERLY", body.Data.Frequency)
	mockSvc.AssertExpectations(t)
}

func TestUploadHandler_Upload_LegacyFieldAndQueryUser(t *testing.T) {
	mockSvc := new(mocks.MockIngestService)
	h := handler.NewUploadHandler(mockSvc)

	mockSvc.On("IngestReport", mock.Anything, mock.MatchedBy(func(in service.IngestInput) bool {
		return in.UserID == "seller-2" && in.FileName == "legacy.txt"
	})).Return(&service.IngestOutcome{Frequency: period.Monthly}, nil)

	c, w := newUploadContext(t, "csvFile", "legacy.txt", nil)
	c.Request.URL.RawQuery = "userId=seller-2"
	h.Upload(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestUploadHandler_Upload_NoFile(t *testing.T) {
	mockSvc := new(mocks.MockIngestService)
	h := handler.NewUploadHandler(mockSvc)

	c, w := newUploadContext(t, "", "", map[string]string{"userId": "seller-1"})
	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", decodeResponse(t, w).Error.Code)
	mockSvc.AssertNotCalled(t, "IngestReport", mock.Anything, mock.Anything)
}

func TestUploadHandler_Upload_MissingUser(t *testing.T) {
	mockSvc := new(mocks.MockIngestService)
	h := handler.NewUploadHandler(mockSvc)

	c, w := newUploadContext(t, "file", "report.csv", nil)
	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeResponse(t, w).Error.Code)
}

func TestUploadHandler_Upload_InvalidFrequency(t *testing.T) {
	mockSvc := new(mocks.MockIngestService)
	h := handler.NewUploadHandler(mockSvc)

	c, w := newUploadContext(t, "file", "report.csv", map[string]string{"userId": "seller-1", "taxFrequency": "YEARLY"})
	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FREQUENCY", decodeResponse(t, w).Error.Code)
}

func TestUploadHandler_Upload_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unsupported type", domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{"too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"archive failed", domain.ErrUploadFailed, http.StatusInternalServerError, "UPLOAD_FAILED"},
		{"unreadable", domain.ErrReportUnreadable, http.StatusInternalServerError, "REPORT_UNREADABLE"},
		{"persistence failed", fmt.Errorf("ingestService.IngestReport: %w: %w", domain.ErrPersistenceFailed, errors.New("pq: numeric field overflow")), http.StatusInternalServerError, "PERSISTENCE_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(mocks.MockIngestService)
			h := handler.NewUploadHandler(mockSvc)
			mockSvc.On("IngestReport", mock.Anything, mock.Anything).Return(nil, tt.err)

			c, w := newUploadContext(t, "file", "report.csv", map[string]string{"userId": "seller-1"})
			h.Upload(c)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeResponse(t, w).Error.Code)
		})
	}
}
