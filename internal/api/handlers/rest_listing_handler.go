package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sahil-lab/realEstate/internal/api/middleware"
	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/services"
)

// RestListingHandler handles REST requests for listings.
type RestListingHandler struct {
	listingService services.IListingService
	logger         *zap.Logger
}

// NewRestListingHandler creates a new RestListingHandler.
func NewRestListingHandler(listingService services.IListingService, log *zap.Logger) *RestListingHandler {
	return &RestListingHandler{listingService: listingService, logger: log}
}

func queryFloat(c *gin.Context, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &v, nil
}

func queryInt(c *gin.Context, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &v, nil
}

// parseListingFilter reads the optional search filters from the query string.
func parseListingFilter(c *gin.Context) (models.ListingFilter, error) {
	var (
		f   models.ListingFilter
		err error
	)
	if t := strings.TrimSpace(c.Query("type")); t != "" {
		lt := models.ListingType(t)
		if !lt.IsValid() {
			return f, fmt.Errorf("invalid type %q", t)
		}
		f.Type = &lt
	}
	f.Location = strings.TrimSpace(c.DefaultQuery("location", c.Query("city")))

	if f.MinPrice, err = queryFloat(c, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryFloat(c, "maxPrice"); err != nil {
		return f, err
	}
	if f.MinArea, err = queryFloat(c, "minArea"); err != nil {
		return f, err
	}
	if f.MaxArea, err = queryFloat(c, "maxArea"); err != nil {
		return f, err
	}
	if f.Bedrooms, err = queryInt(c, "bedrooms"); err != nil {
		return f, err
	}
	if f.Bathrooms, err = queryInt(c, "bathrooms"); err != nil {
		return f, err
	}
	return f, nil
}

// ListProperties handles GET /api/properties
func (h *RestListingHandler) ListProperties(c *gin.Context) {
	filter, err := parseListingFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	listings, err := h.listingService.ListActive(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, errorMessages{internal: "Failed to fetch properties"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": listings})
}

// GetProperty handles GET /api/properties/:propertyId
func (h *RestListingHandler) GetProperty(c *gin.Context) {
	listing, err := h.listingService.GetListing(c.Request.Context(), c.Param("propertyId"))
	if err != nil {
		respondError(c, h.logger, err, errorMessages{notFound: "Property not found", internal: "Failed to fetch property"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": listing})
}

// CreateProperty handles POST /api/admin/properties
func (h *RestListingHandler) CreateProperty(c *gin.Context) {
	var input models.ListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	listing, err := h.listingService.CreateListing(c.Request.Context(), middleware.UserID(c), input)
	if err != nil {
		respondError(c, h.logger, err, errorMessages{internal: "Failed to create property"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "propertyId": listing.ID})
}

// UpdateProperty handles PUT /api/admin/properties/:propertyId
func (h *RestListingHandler) UpdateProperty(c *gin.Context) {
	var update models.ListingUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	listing, err := h.listingService.UpdateListing(c.Request.Context(), middleware.UserID(c), c.Param("propertyId"), update)
	if err != nil {
		respondError(c, h.logger, err, errorMessages{
			notFound: "Property not found",
			conflict: "Property has been deleted",
			internal: "Failed to update property",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "property": listing})
}

// DeleteProperty handles DELETE /api/admin/properties/:propertyId
func (h *RestListingHandler) DeleteProperty(c *gin.Context) {
	err := h.listingService.DeleteListing(c.Request.Context(), middleware.UserID(c), c.Param("propertyId"))
	if err != nil {
		respondError(c, h.logger, err, errorMessages{notFound: "Property not found", internal: "Failed to delete property"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type imageUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// RequestImageUpload handles POST /api/admin/properties/:propertyId/images
func (h *RestListingHandler) RequestImageUpload(c *gin.Context) {
	var req imageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "filename and contentType are required")
		return
	}

	upload, err := h.listingService.RequestImageUpload(c.Request.Context(), middleware.UserID(c), c.Param("propertyId"), req.Filename, req.ContentType)
	if err != nil {
		respondError(c, h.logger, err, errorMessages{
			notFound: "Property not found",
			conflict: "Property has been deleted",
			internal: "Failed to prepare image upload",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "uploadUrl": upload.UploadURL, "key": upload.Key})
}

type confirmImageRequest struct {
	Key string `json:"key" binding:"required"`
}

// ConfirmImageUpload handles POST /api/admin/properties/:propertyId/images/confirm
func (h *RestListingHandler) ConfirmImageUpload(c *gin.Context) {
	var req confirmImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "key is required")
		return
	}

	err := h.listingService.ConfirmImageUpload(c.Request.Context(), middleware.UserID(c), c.Param("propertyId"), req.Key)
	if err != nil {
		respondError(c, h.logger, err, errorMessages{
			notFound: "Property not found",
			conflict: "Property has been deleted",
			internal: "Failed to confirm image upload",
		})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"success": true})
}
