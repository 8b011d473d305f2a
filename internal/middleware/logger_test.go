package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ossvat/internal/logger"
	"ossvat/internal/metrics"
	"ossvat/internal/middleware"
)

func TestRequestID_GeneratedAndPropagated(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.ContextKeyRequestID))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", "req-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestLogger_LogsAndCountsRequests(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter(&buf)
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg, reg)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(base, m))
	r.GET("/items/:id", func(c *gin.Context) {
		l := logger.FromContext(c.Request.Context())
		l.Info().Msg("inside handler")
		c.Status(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/items/7", http.NoBody)
	req.Header.Set("X-Request-ID", "req-abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	out := buf.String()
	assert.Contains(t, out, `"message":"inside handler"`)
	assert.Contains(t, out, `"request_id":"req-abc"`)
	assert.Contains(t, out, `"status":418`)

	count, err := testutil.GatherAndCount(reg, "ossvat_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecovery_ReturnsEnvelope(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(middleware.Recovery(logger.NewWithWriter(&buf)))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/panic", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.Contains(t, buf.String(), "panic recovered")
}
