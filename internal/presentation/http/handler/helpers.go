package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetMerchantID extracts the merchant ID from the Gin context
func GetMerchantID(c *gin.Context) *uuid.UUID {
	val, exists := c.Get("merchant_id")
	if !exists {
		return nil
	}
	merchantID, ok := val.(uuid.UUID)
	if !ok {
		return nil
	}
	return &merchantID
}
