package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sahil-lab/realEstate/internal/api/middleware"
	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/services"
)

// RestInquiryHandler handles REST requests for inquiries.
type RestInquiryHandler struct {
	inquiryService services.IInquiryService
	logger         *zap.Logger
}

// NewRestInquiryHandler creates a new RestInquiryHandler.
func NewRestInquiryHandler(inquiryService services.IInquiryService, log *zap.Logger) *RestInquiryHandler {
	return &RestInquiryHandler{inquiryService: inquiryService, logger: log}
}

// CreateInquiry handles POST /api/inquiries. Anonymous callers are allowed.
func (h *RestInquiryHandler) CreateInquiry(c *gin.Context) {
	var input models.InquiryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	inquiry, err := h.inquiryService.CreateInquiry(c.Request.Context(), middleware.UserID(c), input)
	if err != nil {
		respondError(c, h.logger, err, errorMessages{internal: "Failed to create inquiry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "inquiryId": inquiry.ID})
}

// ListUserInquiries handles GET /api/inquiries/user/:userId
func (h *RestInquiryHandler) ListUserInquiries(c *gin.Context) {
	inquiries, err := h.inquiryService.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, h.logger, err, errorMessages{internal: "Failed to fetch inquiries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inquiries": inquiries})
}

// ListAllInquiries handles GET /api/admin/inquiries
func (h *RestInquiryHandler) ListAllInquiries(c *gin.Context) {
	inquiries, err := h.inquiryService.ListAll(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err, errorMessages{internal: "Failed to fetch inquiries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inquiries": inquiries})
}

type updateInquiryRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateInquiryStatus handles PUT /api/admin/inquiries/:inquiryId
func (h *RestInquiryHandler) UpdateInquiryStatus(c *gin.Context) {
	var req updateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}

	inquiry, err := h.inquiryService.UpdateStatus(c.Request.Context(), middleware.UserID(c), c.Param("inquiryId"), models.InquiryStatus(req.Status))
	if err != nil {
		respondError(c, h.logger, err, errorMessages{notFound: "Inquiry not found", internal: "Failed to update inquiry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "inquiry": inquiry})
}
