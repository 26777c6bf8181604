package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sahil-lab/realEstate/internal/services"
)

// RestFavoriteHandler handles REST requests for favorites.
type RestFavoriteHandler struct {
	favoriteService services.IFavoriteService
	logger          *zap.Logger
}

// NewRestFavoriteHandler creates a new RestFavoriteHandler.
func NewRestFavoriteHandler(favoriteService services.IFavoriteService, log *zap.Logger) *RestFavoriteHandler {
	return &RestFavoriteHandler{favoriteService: favoriteService, logger: log}
}

type favoriteRequest struct {
	UserID     string `json:"userId"`
	PropertyID string `json:"propertyId"`
}

// ListFavorites handles GET /api/favorites/:userId
func (h *RestFavoriteHandler) ListFavorites(c *gin.Context) {
	favorites, err := h.favoriteService.ListFavorites(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, h.logger, err, errorMessages{internal: "Failed to fetch favorites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

// AddFavorite handles POST /api/favorites
func (h *RestFavoriteHandler) AddFavorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	favorite, err := h.favoriteService.AddFavorite(c.Request.Context(), req.UserID, req.PropertyID)
	if err != nil {
		respondError(c, h.logger, err, errorMessages{
			conflict: "Property already in favorites",
			internal: "Failed to add favorite",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "favoriteId": favorite.ID})
}

// RemoveFavorite handles DELETE /api/favorites
func (h *RestFavoriteHandler) RemoveFavorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if err := h.favoriteService.RemoveFavorite(c.Request.Context(), req.UserID, req.PropertyID); err != nil {
		respondError(c, h.logger, err, errorMessages{internal: "Failed to remove favorite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
