package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/billpoint/billpoint-api/internal/application/service"
	"github.com/billpoint/billpoint-api/internal/presentation/http/dto/request"
	"github.com/billpoint/billpoint-api/internal/presentation/http/dto/response"
)

// AccountHandler handles the account deletion flow
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// ConfirmDeletion reauthenticates with the password and emails an OTP
func (h *AccountHandler) ConfirmDeletion(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req request.ConfirmDeletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.accountService.ConfirmDeletion(c.Request.Context(), *merchantID, req.Password); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Verification code sent to your email", nil)
}

// Delete verifies the OTP and removes the account and all its data
func (h *AccountHandler) Delete(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req request.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.accountService.Delete(c.Request.Context(), *merchantID, req.Code); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Account deleted", nil)
}
