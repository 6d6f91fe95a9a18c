package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
	"github.com/billpoint/billpoint-api/internal/domain/repository"
	"github.com/billpoint/billpoint-api/pkg/apperror"
	"github.com/billpoint/billpoint-api/pkg/oauth"
	"github.com/billpoint/billpoint-api/pkg/utils"
)

const minPasswordLength = 6

// AuthService handles registration, login and credential management
type AuthService struct {
	merchantRepo repository.MerchantRepository
	phoneRepo    repository.PhoneIndexRepository
	jwtManager   *utils.JWTManager
	otpService   *OTPService
	oauthService *oauth.GoogleOAuthService
}

// NewAuthService creates a new auth service
func NewAuthService(
	merchantRepo repository.MerchantRepository,
	phoneRepo repository.PhoneIndexRepository,
	jwtManager *utils.JWTManager,
	otpService *OTPService,
	oauthService *oauth.GoogleOAuthService,
) *AuthService {
	return &AuthService{
		merchantRepo: merchantRepo,
		phoneRepo:    phoneRepo,
		jwtManager:   jwtManager,
		otpService:   otpService,
		oauthService: oauthService,
	}
}

// LoginInput represents the login input. Identifier is an email address
// or a 10-digit phone number.
type LoginInput struct {
	Identifier string
	Password   string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Merchant     *entity.Merchant
	AccessToken  string
	RefreshToken string
}

// Login authenticates a merchant and returns tokens. A phone identifier
// is resolved to an email through the phone index first.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Identifier))

	if !strings.Contains(email, "@") {
		phone := utils.NormalizePhone(email)
		if !utils.IsValidPhone(phone) {
			return nil, apperror.ErrInvalidCredentials
		}
		index, err := s.phoneRepo.GetByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		if index == nil {
			return nil, apperror.ErrInvalidCredentials
		}
		email = index.Email
	}

	merchant, err := s.merchantRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !merchant.HasPasswordCredential() || !utils.CheckPasswordHash(input.Password, merchant.PasswordHash) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(merchant)
}

// RegisterInput represents the registration input
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Register creates a merchant account. The email must have passed OTP
// verification first; the verified marker is consumed here so a second
// registration attempt needs a fresh code.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	verified, err := s.otpService.ConsumeVerified(ctx, OTPPurposeRegister, email)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, apperror.NewBadRequestError("Email not verified, please complete OTP verification first")
	}

	if len(input.Password) < minPasswordLength {
		return nil, apperror.ErrWeakPassword
	}

	existing, err := s.merchantRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	phone := utils.NormalizePhone(input.Phone)
	if phone != "" && !utils.IsValidPhone(phone) {
		return nil, apperror.ErrInvalidPhone
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	merchant := &entity.Merchant{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
	}
	if err := s.merchantRepo.Create(ctx, merchant); err != nil {
		return nil, err
	}

	if phone != "" {
		if err := s.phoneRepo.Upsert(ctx, &entity.PhoneIndex{Phone: phone, Email: email}); err != nil {
			log.Printf("auth: failed to index phone for %s: %v", email, err)
		}
	}

	return s.issueTokens(merchant)
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	merchantID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, apperror.ErrInvalidToken
	}

	return s.issueTokens(merchant)
}

// GetCurrentMerchant returns the authenticated merchant's profile
func (s *AuthService) GetCurrentMerchant(ctx context.Context, merchantID uuid.UUID) (*entity.Merchant, error) {
	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, apperror.NewNotFoundError("Merchant")
	}
	return merchant, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	MerchantID      uuid.UUID
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// ChangePassword changes a merchant's password after reauthentication
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	merchant, err := s.merchantRepo.GetByID(ctx, input.MerchantID)
	if err != nil {
		return err
	}
	if merchant == nil {
		return apperror.NewNotFoundError("Merchant")
	}

	if !merchant.HasPasswordCredential() {
		return apperror.ErrNoPasswordCredential
	}
	if !utils.CheckPasswordHash(input.CurrentPassword, merchant.PasswordHash) {
		return apperror.ErrReauthentication
	}
	if input.NewPassword != input.ConfirmPassword {
		return apperror.ErrPasswordMismatch
	}
	if len(input.NewPassword) < minPasswordLength {
		return apperror.ErrWeakPassword
	}

	hash, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	merchant.PasswordHash = hash
	return s.merchantRepo.Update(ctx, merchant)
}

// SetPassword sets an initial password on a federated account that has
// none. Accounts that already have a password must use ChangePassword.
func (s *AuthService) SetPassword(ctx context.Context, merchantID uuid.UUID, password, confirm string) error {
	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return err
	}
	if merchant == nil {
		return apperror.NewNotFoundError("Merchant")
	}

	if merchant.HasPasswordCredential() {
		return apperror.NewBadRequestError("Password already set, use change password instead")
	}
	if password != confirm {
		return apperror.ErrPasswordMismatch
	}
	if len(password) < minPasswordLength {
		return apperror.ErrWeakPassword
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	merchant.PasswordHash = hash
	return s.merchantRepo.Update(ctx, merchant)
}

// ForceResetPassword overwrites the password of the authenticated
// merchant without the current one, used when the merchant is signed in
// but forgot their password. The OTP emailed to the account address is
// the gate; a session alone is not enough to replace the credential.
func (s *AuthService) ForceResetPassword(ctx context.Context, merchantID uuid.UUID, code, password, confirm string) error {
	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return err
	}
	if merchant == nil {
		return apperror.NewNotFoundError("Merchant")
	}

	if err := s.otpService.Verify(ctx, OTPPurposeReset, merchant.Email, code); err != nil {
		return err
	}

	if password != confirm {
		return apperror.ErrPasswordMismatch
	}
	if len(password) < minPasswordLength {
		return apperror.ErrWeakPassword
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	merchant.PasswordHash = hash
	return s.merchantRepo.Update(ctx, merchant)
}

// ResetPasswordInput represents the unauthenticated reset input
type ResetPasswordInput struct {
	Email           string
	Code            string
	NewPassword     string
	ConfirmPassword string
}

// ResetPassword completes the forgot-password flow: the emailed OTP
// proves control of the inbox, then the password is replaced.
func (s *AuthService) ResetPassword(ctx context.Context, input *ResetPasswordInput) error {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	merchant, err := s.merchantRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if merchant == nil {
		// Same error as a wrong code so the endpoint does not leak
		// which emails have accounts.
		return apperror.ErrOTPInvalid
	}

	if err := s.otpService.Verify(ctx, OTPPurposeReset, email, input.Code); err != nil {
		return err
	}

	if input.NewPassword != input.ConfirmPassword {
		return apperror.ErrPasswordMismatch
	}
	if len(input.NewPassword) < minPasswordLength {
		return apperror.ErrWeakPassword
	}

	hash, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	merchant.PasswordHash = hash
	return s.merchantRepo.Update(ctx, merchant)
}

// GoogleLogin signs a merchant in with a Google authorization code,
// creating the account on first login. Accounts created here carry no
// password credential.
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (*LoginOutput, error) {
	if !s.oauthService.IsConfigured() {
		return nil, apperror.NewBadRequestError("Google login is not available")
	}

	token, err := s.oauthService.ExchangeCode(ctx, code)
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid Google authorization code")
	}

	info, err := s.oauthService.GetUserInfo(ctx, token)
	if err != nil {
		return nil, apperror.NewUpstreamError("Failed to fetch Google account details")
	}

	email := strings.ToLower(info.Email)

	merchant, err := s.merchantRepo.GetByGoogleID(ctx, info.ID)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		// Link to an existing account with the same email, otherwise
		// create a fresh one.
		merchant, err = s.merchantRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if merchant != nil {
			googleID := info.ID
			merchant.GoogleID = &googleID
			if err := s.merchantRepo.Update(ctx, merchant); err != nil {
				return nil, err
			}
		} else {
			googleID := info.ID
			merchant = &entity.Merchant{
				Name:     info.Name,
				Email:    email,
				GoogleID: &googleID,
			}
			if err := s.merchantRepo.Create(ctx, merchant); err != nil {
				return nil, err
			}
		}
	}

	return s.issueTokens(merchant)
}

func (s *AuthService) issueTokens(merchant *entity.Merchant) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(merchant.ID, merchant.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(merchant.ID)
	if err != nil {
		return nil, err
	}
	return &LoginOutput{
		Merchant:     merchant,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
