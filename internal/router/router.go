package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"vitalis/internal/config"
	"vitalis/internal/handler"
	"vitalis/internal/middleware"
	"vitalis/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	fileH *handler.FileHandler,
	docH *handler.DocumentHandler,
	metricH *handler.MetricHandler,
	summaryH *handler.SummaryHandler,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	protected.GET("/auth/me", authH.Me)

	// File routes
	files := protected.Group("/files")
	files.POST("/upload", fileH.Upload)
	files.GET("", fileH.List)
	files.GET("/:id", fileH.GetByID)
	files.DELETE("/:id", fileH.Delete)

	// Document routes
	docs := protected.Group("/documents")
	docs.POST("", docH.Create)
	docs.GET("", docH.List)
	docs.GET("/:id", docH.GetByID)
	docs.POST("/:id/retry", docH.Retry)
	docs.DELETE("/:id", docH.Delete)

	// Metric routes
	metrics := protected.Group("/metrics")
	metrics.GET("", metricH.List)
	metrics.GET("/latest", metricH.Latest)
	metrics.POST("/sync", metricH.Sync)

	// Summary routes
	summaries := protected.Group("/summaries")
	summaries.POST("/generate", summaryH.Generate)
	summaries.GET("", summaryH.List)
	summaries.GET("/:date", summaryH.GetByDate)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/metrics.xlsx", reportH.ExportXLSX)

	return r
}
