package v1

import (
	"net/http"

	"sweepo-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC domain.HealthUsecase
}

// NewHealthHandler registers the liveness probe and the service banner
func NewHealthHandler(root gin.IRoutes, quote *gin.RouterGroup, healthUC domain.HealthUsecase) {
	handler := &HealthHandler{
		healthUC: healthUC,
	}

	root.GET("/", handler.Info)
	quote.GET("/health", handler.Health)
}

// Health godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  domain.HealthStatus
// @Router       /api/quote/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthUC.Check(c.Request.Context()))
}

// Info godoc
// @Summary      Service banner
// @Tags         health
// @Produce      json
// @Success      200  {object}  domain.ServiceInfo
// @Router       / [get]
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthUC.Info(c.Request.Context()))
}
