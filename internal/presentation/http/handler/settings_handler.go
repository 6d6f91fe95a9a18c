package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/billpoint/billpoint-api/internal/application/service"
	"github.com/billpoint/billpoint-api/internal/presentation/http/dto/request"
	"github.com/billpoint/billpoint-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles merchant settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get returns the merchant's settings, creating defaults on first access
func (h *SettingsHandler) Get(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	settings, err := h.settingsService.Get(c.Request.Context(), *merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved", settings)
}

// Update merge-writes settings fields
func (h *SettingsHandler) Update(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req request.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), *merchantID, &service.UpdateSettingsInput{
		UPIID:           req.UPIID,
		MerchantName:    req.MerchantName,
		TransactionName: req.TransactionName,
		TaxEnabled:      req.TaxEnabled,
		TaxName:         req.TaxName,
		TaxPercent:      req.TaxPercent,
		ThermalPrint:    req.ThermalPrint,
		BusinessName:    req.BusinessName,
		Address:         req.Address,
		Phone:           req.Phone,
		Email:           req.Email,
		GSTNumber:       req.GSTNumber,
		FSSAI:           req.FSSAI,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated", settings)
}
