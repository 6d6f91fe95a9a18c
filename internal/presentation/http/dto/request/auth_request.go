package request

// SendOTPRequest asks for a verification code to be emailed
type SendOTPRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose" binding:"required,oneof=register reset"`
}

// VerifyOTPRequest submits a verification code
type VerifyOTPRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose" binding:"required,oneof=register reset"`
	Code    string `json:"code" binding:"required,len=6"`
}

// RegisterRequest represents a registration request. The email must have
// completed OTP verification first.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents a login request. Identifier is an email or a
// 10-digit phone number.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ResetPasswordRequest completes the forgot-password flow with an OTP
type ResetPasswordRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Code            string `json:"code" binding:"required,len=6"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// SetPasswordRequest sets an initial password on a federated account
type SetPasswordRequest struct {
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// ForceResetPasswordRequest overwrites the signed-in merchant's
// password, gated by the OTP emailed to the account address
type ForceResetPasswordRequest struct {
	Code            string `json:"code" binding:"required,len=6"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// GoogleLoginRequest exchanges a Google authorization code for tokens
type GoogleLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

// ConfirmDeletionRequest starts account deletion with a password check
type ConfirmDeletionRequest struct {
	Password string `json:"password" binding:"required"`
}

// DeleteAccountRequest completes account deletion with the emailed OTP
type DeleteAccountRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}
