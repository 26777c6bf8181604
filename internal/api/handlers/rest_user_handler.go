package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sahil-lab/realEstate/internal/api/middleware"
	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/services"
)

// RestUserHandler handles REST requests related to accounts.
type RestUserHandler struct {
	accountService services.IAccountService
	logger         *zap.Logger
}

// NewRestUserHandler creates a new RestUserHandler.
func NewRestUserHandler(accountService services.IAccountService, log *zap.Logger) *RestUserHandler {
	return &RestUserHandler{accountService: accountService, logger: log}
}

// GetUser handles GET /api/users/:userId
func (h *RestUserHandler) GetUser(c *gin.Context) {
	account, err := h.accountService.GetAccount(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, h.logger, err, errorMessages{notFound: "User not found", internal: "Failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": account})
}

// UpdateUser handles PUT /api/users/:userId. Only profile fields are taken
// from the body; role and timestamps are ignored.
func (h *RestUserHandler) UpdateUser(c *gin.Context) {
	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	account, err := h.accountService.UpdateProfile(c.Request.Context(), c.Param("userId"), update)
	if err != nil {
		respondError(c, h.logger, err, errorMessages{internal: "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": account})
}

// CompleteOnboarding handles PUT /api/users/:userId/onboarding
func (h *RestUserHandler) CompleteOnboarding(c *gin.Context) {
	uid := c.Param("userId")
	if middleware.UserID(c) != uid {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized: Cannot onboard another user"})
		return
	}

	var data models.OnboardingData
	if err := c.ShouldBindJSON(&data); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	account, err := h.accountService.CompleteOnboarding(c.Request.Context(), uid, data)
	if err != nil {
		respondError(c, h.logger, err, errorMessages{internal: "Failed to complete onboarding"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": account})
}

// ListUsers handles GET /api/admin/users
func (h *RestUserHandler) ListUsers(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err, errorMessages{internal: "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": accounts})
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetUserRole handles PUT /api/admin/users/:userId/role
func (h *RestUserHandler) SetUserRole(c *gin.Context) {
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "role is required")
		return
	}

	account, err := h.accountService.SetRole(c.Request.Context(), middleware.UserID(c), c.Param("userId"), models.Role(req.Role))
	if err != nil {
		respondError(c, h.logger, err, errorMessages{
			notFound:  "User not found",
			forbidden: msgSuperAdminRequired,
			internal:  "Failed to update user role",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": account})
}
