package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sahil-lab/realEstate/internal/api/middleware"
	"github.com/sahil-lab/realEstate/internal/services"
)

// RestAnalyticsHandler serves the admin dashboard numbers.
type RestAnalyticsHandler struct {
	analyticsService services.IAnalyticsService
	logger           *zap.Logger
}

func NewRestAnalyticsHandler(analyticsService services.IAnalyticsService, log *zap.Logger) *RestAnalyticsHandler {
	return &RestAnalyticsHandler{analyticsService: analyticsService, logger: log}
}

// GetAnalytics handles GET /api/admin/analytics
func (h *RestAnalyticsHandler) GetAnalytics(c *gin.Context) {
	snapshot, err := h.analyticsService.Snapshot(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err, errorMessages{internal: "Failed to fetch analytics"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
