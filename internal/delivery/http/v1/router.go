package v1

import (
	"log/slog"

	"sweepo-backend/config"
	"sweepo-backend/internal/delivery/http/middleware"
	"sweepo-backend/internal/domain"
	"sweepo-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	QuoteUC  domain.QuoteUsecase
	HealthUC domain.HealthUsecase
	Config   *config.Config
	Logger   *slog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.CORSAllowedOrigins)) // CORS must be first!
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler(deps.Logger))

	// Operational endpoints
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	quote := r.Group("/api/quote")
	NewQuoteHandler(quote, deps.QuoteUC)
	NewHealthHandler(r, quote, deps.HealthUC)

	return r
}
