package handler

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ossvat/internal/domain"
	"ossvat/internal/period"
	"ossvat/internal/service"
)

// uploadFields are the multipart fields accepted for the report file, in order.
var uploadFields = []string{"file", "csvFile"}

// UploadHandler handles tax report uploads.
type UploadHandler struct {
	ingestService service.IngestService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(ingestService service.IngestService) *UploadHandler {
	return &UploadHandler{ingestService: ingestService}
}

// Upload handles POST /api/v1/transactions/upload
// @Summary Upload a VAT transaction report
// @Description Ingests a CSV or XLSX marketplace VAT report. Only SALE and REFUND rows of the OSS scheme are stored; rows already stored are ignored
// @Tags transactions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Report file (csv, txt or xlsx); the field may also be named csvFile"
// @Param userId formData string true "User scope"
// @Param taxFrequency formData string false "MONTHLY (default) or QUARTERLY, echoed back"
// @Success 200 {object} Response{data=UploadResponse}
// @Failure 400 {object} ErrorResponseBody "Missing file or userId, unsupported type, invalid frequency"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "Report unreadable or storage failure"
// @Router /transactions/upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := formFile(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	userID := strings.TrimSpace(c.PostForm("userId"))
	if userID == "" {
		userID = strings.TrimSpace(c.Query("userId"))
	}
	if userID == "" {
		HandleError(c, domain.ErrMissingUserID)
		return
	}
	freq, err := period.ParseFrequency(c.PostForm("taxFrequency"))
	if err != nil {
		HandleError(c, err)
		return
	}

	outcome, err := h.ingestService.IngestReport(c.Request.Context(), service.IngestInput{
		UserID:    userID,
		FileName:  header.Filename,
		Size:      header.Size,
		Body:      file,
		Frequency: freq,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, UploadResponse{
		Rows:            outcome.Rows,
		Accepted:        outcome.Accepted,
		Inserted:        outcome.Inserted,
		Skipped:         outcome.Skipped,
		SkippedByReason: outcome.SkippedByReason,
		Frequency:       string(outcome.Frequency),
		ArchiveKey:      outcome.ArchiveKey,
	})
}

func formFile(c *gin.Context) (multipart.File, *multipart.FileHeader, error) {
	var lastErr error
	for _, field := range uploadFields {
		file, header, err := c.Request.FormFile(field)
		if err == nil {
			return file, header, nil
		}
		lastErr = err
	}
	return nil, nil, lastErr
}
