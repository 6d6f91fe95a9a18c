package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/billpoint/billpoint-api/internal/application/service"
	"github.com/billpoint/billpoint-api/internal/domain/entity"
	"github.com/billpoint/billpoint-api/internal/presentation/http/dto/request"
	"github.com/billpoint/billpoint-api/internal/presentation/http/dto/response"
	"github.com/billpoint/billpoint-api/pkg/oauth"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService  *service.AuthService
	otpService   *service.OTPService
	oauthService *oauth.GoogleOAuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, otpService *service.OTPService, oauthService *oauth.GoogleOAuthService) *AuthHandler {
	return &AuthHandler{authService: authService, otpService: otpService, oauthService: oauthService}
}

// SendOTP emails a verification code for registration or password reset
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req request.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.otpService.Issue(c.Request.Context(), req.Purpose, email); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Verification code sent", gin.H{"email": email})
}

// VerifyOTP checks a submitted code. For the registration purpose a
// verified marker is recorded so the register call can require it.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req request.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.otpService.Verify(c.Request.Context(), req.Purpose, email, req.Code); err != nil {
		response.Error(c, err)
		return
	}

	if req.Purpose == service.OTPPurposeRegister {
		if err := h.otpService.MarkVerified(c.Request.Context(), req.Purpose, email); err != nil {
			response.Error(c, err)
			return
		}
	}

	response.OK(c, "Verification successful", gin.H{"email": email, "verified": true})
}

// Register handles merchant registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Register(c.Request.Context(), &service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Registration successful", loginPayload(output))
}

// Login handles merchant login by email or phone
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", loginPayload(output))
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Token refreshed", loginPayload(output))
}

// ResetPassword completes the forgot-password flow
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req request.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	err := h.authService.ResetPassword(c.Request.Context(), &service.ResetPasswordInput{
		Email:           req.Email,
		Code:            req.Code,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password reset successful", nil)
}

// GoogleLogin signs in with a Google authorization code
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req request.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.GoogleLogin(c.Request.Context(), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", loginPayload(output))
}

// GoogleAuth redirects the browser to the Google consent screen
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	if !h.oauthService.IsConfigured() {
		response.BadRequest(c, "Google login is not configured")
		return
	}
	c.Redirect(http.StatusFound, h.oauthService.GetAuthURL(uuid.NewString()))
}

// GoogleCallback completes the redirect flow: exchanges the code, signs
// the merchant in and sends the browser back to the frontend with the
// token pair in the query string.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, h.oauthService.GetFrontendErrorURL())
		return
	}

	output, err := h.authService.GoogleLogin(c.Request.Context(), code)
	if err != nil {
		c.Redirect(http.StatusFound, h.oauthService.GetFrontendErrorURL())
		return
	}

	q := url.Values{}
	q.Set("access_token", output.AccessToken)
	q.Set("refresh_token", output.RefreshToken)
	c.Redirect(http.StatusFound, h.oauthService.GetFrontendSuccessURL()+"?"+q.Encode())
}

// Logout acknowledges a logout. Tokens are stateless, the client is
// expected to discard them.
func (h *AuthHandler) Logout(c *gin.Context) {
	response.OK(c, "Logged out successfully", nil)
}

// GetProfile returns the authenticated merchant's profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	merchant, err := h.authService.GetCurrentMerchant(c.Request.Context(), *merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile retrieved", merchantPayload(merchant))
}

// ChangePassword changes the password after reauthentication
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req request.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), &service.ChangePasswordInput{
		MerchantID:      *merchantID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password changed", nil)
}

// SetPassword sets an initial password on a federated account
func (h *AuthHandler) SetPassword(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req request.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.SetPassword(c.Request.Context(), *merchantID, req.Password, req.ConfirmPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password set", nil)
}

// ForceResetPassword overwrites the signed-in merchant's password after
// verifying the emailed OTP
func (h *AuthHandler) ForceResetPassword(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req request.ForceResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.ForceResetPassword(c.Request.Context(), *merchantID, req.Code, req.NewPassword, req.ConfirmPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password reset", nil)
}

func loginPayload(output *service.LoginOutput) gin.H {
	return gin.H{
		"merchant":      merchantPayload(output.Merchant),
		"access_token":  output.AccessToken,
		"refresh_token": output.RefreshToken,
		"token_type":    "Bearer",
	}
}

func merchantPayload(m *entity.Merchant) gin.H {
	return gin.H{
		"id":           m.ID,
		"name":         m.Name,
		"email":        m.Email,
		"phone":        m.Phone,
		"has_password": m.HasPasswordCredential(),
	}
}
