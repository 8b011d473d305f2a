package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ossvat/internal/domain"
	"ossvat/internal/logger"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrMissingUserID):
		return http.StatusBadRequest, "INVALID_REQUEST", "userId is required"
	case errors.Is(err, domain.ErrInvalidPeriod):
		return http.StatusBadRequest, "INVALID_PERIOD", "invalid period; use 1-12 for months or Q1-Q4 for quarters"
	case errors.Is(err, domain.ErrInvalidFrequency):
		return http.StatusBadRequest, "INVALID_FREQUENCY", "invalid taxFrequency; allowed: MONTHLY, QUARTERLY"
	case errors.Is(err, domain.ErrInvalidCountry):
		return http.StatusBadRequest, "INVALID_REQUEST", "invalid country code"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: csv, txt, xlsx"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "report archive to storage failed"
	case errors.Is(err, domain.ErrReportUnreadable):
		return http.StatusInternalServerError, "REPORT_UNREADABLE", "tax report could not be read"
	case errors.Is(err, domain.ErrPersistenceFailed):
		return http.StatusInternalServerError, "PERSISTENCE_FAILED", "storing transactions failed"
	case errors.Is(err, domain.ErrQueryFailed):
		return http.StatusInternalServerError, "QUERY_FAILED", "loading transactions failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		l := logger.FromContext(c.Request.Context())
		l.Error().Err(err).Str("code", code).Msg("request failed")
	}
	RespondError(c, status, code, msg)
}
