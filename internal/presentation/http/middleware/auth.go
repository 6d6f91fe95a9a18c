package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/billpoint/billpoint-api/internal/presentation/http/dto/response"
	"github.com/billpoint/billpoint-api/pkg/utils"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("merchant_id", claims.MerchantID)
		c.Set("merchant_email", claims.Email)

		c.Next()
	}
}

// GetMerchantID extracts the merchant ID set by AuthMiddleware
func GetMerchantID(c *gin.Context) uuid.UUID {
	val, exists := c.Get("merchant_id")
	if !exists {
		return uuid.Nil
	}
	merchantID, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return merchantID
}
