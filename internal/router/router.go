package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "ossvat/docs" // registers the OpenAPI document
	"ossvat/internal/handler"
	"ossvat/internal/metrics"
	"ossvat/internal/middleware"
)

// Options carries the dependencies of the HTTP surface.
type Options struct {
	Logger         zerolog.Logger
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	UploadLimiter  *middleware.IPRateLimiter
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	opts Options,
	txH *handler.TransactionHandler,
	uploadH *handler.UploadHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(opts.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(opts.Logger, opts.Metrics))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Operational endpoints
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Transaction routes
	txns := v1.Group("/transactions")
	if opts.UploadLimiter != nil {
		txns.POST("/upload", middleware.RateLimit(opts.UploadLimiter), uploadH.Upload)
	} else {
		txns.POST("/upload", uploadH.Upload)
	}
	txns.GET("/available-periods", txH.AvailablePeriods)
	txns.GET("/summary", txH.Summary)
	txns.GET("/summary/export", txH.ExportSummary)
	txns.GET("/by-country", txH.ByCountry)

	return r
}
