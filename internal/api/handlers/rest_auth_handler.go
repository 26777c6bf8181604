package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sahil-lab/realEstate/internal/auth"
	"github.com/sahil-lab/realEstate/internal/logger"
	"github.com/sahil-lab/realEstate/internal/metrics"
	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/services"
)

// IdentityKeyHeader carries the identity gateway's shared key on login.
const IdentityKeyHeader = "X-Identity-Key"

// RestAuthHandler exchanges a verified identity for an API token.
type RestAuthHandler struct {
	accountService services.IAccountService
	jwtSecret      string
	jwtTTL         time.Duration
	gatewayKey     string
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// NewRestAuthHandler creates a new RestAuthHandler. Login is refused while
// gatewayKey is empty.
func NewRestAuthHandler(accountService services.IAccountService, jwtSecret string, jwtTTL time.Duration, gatewayKey string, m *metrics.Metrics, log *zap.Logger) *RestAuthHandler {
	return &RestAuthHandler{
		accountService: accountService,
		jwtSecret:      jwtSecret,
		jwtTTL:         jwtTTL,
		gatewayKey:     gatewayKey,
		metrics:        m,
		logger:         log,
	}
}

// Login handles POST /api/auth/login
func (h *RestAuthHandler) Login(c *gin.Context) {
	if h.gatewayKey == "" {
		h.metrics.RecordAuthAttempt("disabled")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Login is not configured"})
		return
	}
	presented := c.GetHeader(IdentityKeyHeader)
	if subtle.ConstantTimeCompare([]byte(presented), []byte(h.gatewayKey)) != 1 {
		h.metrics.RecordAuthAttempt("rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var identity models.Identity
	if err := c.ShouldBindJSON(&identity); err != nil {
		h.metrics.RecordAuthAttempt("invalid")
		badRequest(c, "Invalid request body")
		return
	}

	account, err := h.accountService.RecordLogin(c.Request.Context(), identity)
	if err != nil {
		h.metrics.RecordAuthAttempt("error")
		respondError(c, h.logger, err, errorMessages{internal: "Failed to log in"})
		return
	}

	token, err := auth.GenerateJWT(account.UID, h.jwtSecret, h.jwtTTL)
	if err != nil {
		h.metrics.RecordAuthAttempt("error")
		respondError(c, h.logger, err, errorMessages{internal: "Failed to log in"})
		return
	}

	h.metrics.RecordAuthAttempt("success")
	logger.FromContext(c, h.logger).Info("User logged in", zap.String("uid", account.UID))
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresIn": int64(h.jwtTTL / time.Second),
		"user":      account,
	})
}
