package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sahil-lab/realEstate/internal/logger"
	"github.com/sahil-lab/realEstate/internal/services"
)

// errorMessages holds the client-facing text for each error class. Empty
// fields fall back to generic text.
type errorMessages struct {
	notFound  string
	forbidden string
	conflict  string
	internal  string
}

const (
	msgAdminRequired      = "Unauthorized: Admin access required"
	msgSuperAdminRequired = "Unauthorized: Super admin access required"
)

// respondError maps service errors onto HTTP statuses. Unexpected errors are
// logged and hidden behind msgs.internal.
func respondError(c *gin.Context, base *zap.Logger, err error, msgs errorMessages) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": orDefault(msgs.notFound, "Not found")})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": orDefault(msgs.forbidden, msgAdminRequired)})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": orDefault(msgs.conflict, "Request conflicts with current state")})
	case errors.Is(err, services.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	default:
		logger.FromContext(c, base).Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": orDefault(msgs.internal, "Internal server error")})
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
