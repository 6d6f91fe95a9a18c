package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
	"github.com/billpoint/billpoint-api/internal/mocks"
	"github.com/billpoint/billpoint-api/pkg/apperror"
	"github.com/billpoint/billpoint-api/pkg/oauth"
	"github.com/billpoint/billpoint-api/pkg/utils"
)

type authFixture struct {
	svc          *AuthService
	otpSvc       *OTPService
	merchantRepo *mocks.MockMerchantRepository
	phoneRepo    *mocks.MockPhoneIndexRepository
	merchants    map[string]*entity.Merchant
	phones       map[string]string
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	_, client := newTestRedis(t)

	fx := &authFixture{
		merchants: map[string]*entity.Merchant{},
		phones:    map[string]string{},
	}
	fx.merchantRepo = &mocks.MockMerchantRepository{
		CreateFunc: func(ctx context.Context, m *entity.Merchant) error {
			if m.ID == uuid.Nil {
				m.ID = uuid.New()
			}
			fx.merchants[m.Email] = m
			return nil
		},
		GetByEmailFunc: func(ctx context.Context, email string) (*entity.Merchant, error) {
			return fx.merchants[email], nil
		},
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Merchant, error) {
			for _, m := range fx.merchants {
				if m.ID == id {
					return m, nil
				}
			}
			return nil, nil
		},
	}
	fx.phoneRepo = &mocks.MockPhoneIndexRepository{
		UpsertFunc: func(ctx context.Context, index *entity.PhoneIndex) error {
			fx.phones[index.Phone] = index.Email
			return nil
		},
		GetByPhoneFunc: func(ctx context.Context, phone string) (*entity.PhoneIndex, error) {
			email, ok := fx.phones[phone]
			if !ok {
				return nil, nil
			}
			return &entity.PhoneIndex{Phone: phone, Email: email}, nil
		},
	}

	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	fx.otpSvc = NewOTPService(client, &mocks.MockMailer{}, OTPConfig{TTL: 2 * time.Minute})
	fx.svc = NewAuthService(fx.merchantRepo, fx.phoneRepo, jwtManager, fx.otpSvc, oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{}))
	return fx
}

func (fx *authFixture) register(t *testing.T, ctx context.Context) *LoginOutput {
	t.Helper()
	require.NoError(t, fx.otpSvc.MarkVerified(ctx, OTPPurposeRegister, "owner@example.com"))
	out, err := fx.svc.Register(ctx, &RegisterInput{
		Name:     "Chai Point",
		Email:    "Owner@Example.com",
		Phone:    "98765 43210",
		Password: "secret123",
	})
	require.NoError(t, err)
	return out
}

func TestAuthService_RegisterRequiresVerifiedEmail(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)

	_, err := fx.svc.Register(ctx, &RegisterInput{
		Name: "Chai Point", Email: "owner@example.com", Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
	assert.Empty(t, fx.merchants)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)

	out := fx.register(t, ctx)

	m := fx.merchants["owner@example.com"]
	require.NotNil(t, m, "email is lowercased before storage")
	assert.Equal(t, "9876543210", m.Phone, "phone is normalized to bare digits")
	assert.NotEqual(t, "secret123", m.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("secret123", m.PasswordHash))
	assert.Equal(t, "owner@example.com", fx.phones["9876543210"])
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)

	// The verified marker is single-use.
	_, err := fx.svc.Register(ctx, &RegisterInput{
		Name: "Again", Email: "owner@example.com", Password: "secret123",
	})
	require.Error(t, err)
}

func TestAuthService_LoginByEmailAndPhone(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)
	fx.register(t, ctx)

	out, err := fx.svc.Login(ctx, &LoginInput{Identifier: "owner@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Chai Point", out.Merchant.Name)

	out, err = fx.svc.Login(ctx, &LoginInput{Identifier: "9876543210", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", out.Merchant.Email)

	_, err = fx.svc.Login(ctx, &LoginInput{Identifier: "owner@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = fx.svc.Login(ctx, &LoginInput{Identifier: "1112223334", Password: "secret123"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials, "unknown phone must not leak whether it exists")
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)
	out := fx.register(t, ctx)

	refreshed, err := fx.svc.RefreshToken(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = fx.svc.RefreshToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	_, err = fx.svc.RefreshToken(ctx, out.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken, "an access token must not pass as a refresh token")
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)
	out := fx.register(t, ctx)
	id := out.Merchant.ID

	err := fx.svc.ChangePassword(ctx, &ChangePasswordInput{
		MerchantID: id, CurrentPassword: "wrong", NewPassword: "newpass123", ConfirmPassword: "newpass123",
	})
	assert.ErrorIs(t, err, apperror.ErrReauthentication)

	err = fx.svc.ChangePassword(ctx, &ChangePasswordInput{
		MerchantID: id, CurrentPassword: "secret123", NewPassword: "newpass123", ConfirmPassword: "different",
	})
	assert.ErrorIs(t, err, apperror.ErrPasswordMismatch)

	err = fx.svc.ChangePassword(ctx, &ChangePasswordInput{
		MerchantID: id, CurrentPassword: "secret123", NewPassword: "short", ConfirmPassword: "short",
	})
	assert.ErrorIs(t, err, apperror.ErrWeakPassword)

	err = fx.svc.ChangePassword(ctx, &ChangePasswordInput{
		MerchantID: id, CurrentPassword: "secret123", NewPassword: "newpass123", ConfirmPassword: "newpass123",
	})
	require.NoError(t, err)

	_, err = fx.svc.Login(ctx, &LoginInput{Identifier: "owner@example.com", Password: "newpass123"})
	require.NoError(t, err)
}

func TestAuthService_SetPasswordOnlyWithoutCredential(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)

	googleID := "google-123"
	federated := &entity.Merchant{ID: uuid.New(), Name: "Shop", Email: "fed@example.com", GoogleID: &googleID}
	fx.merchants[federated.Email] = federated

	require.NoError(t, fx.svc.SetPassword(ctx, federated.ID, "secret123", "secret123"))
	assert.True(t, federated.HasPasswordCredential())

	err := fx.svc.SetPassword(ctx, federated.ID, "another12", "another12")
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestAuthService_ForceResetPasswordRequiresOTP(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)
	out := fx.register(t, ctx)
	merchantID := out.Merchant.ID

	// No challenge has been issued, so a session alone gets nowhere.
	err := fx.svc.ForceResetPassword(ctx, merchantID, "123456", "brandnew1", "brandnew1")
	assert.ErrorIs(t, err, apperror.ErrOTPExpired)

	mailer := &mocks.MockMailer{}
	fx.otpSvc.mailer = mailer
	require.NoError(t, fx.otpSvc.Issue(ctx, OTPPurposeReset, "owner@example.com"))
	code := mailer.SentCodes[0]

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	err = fx.svc.ForceResetPassword(ctx, merchantID, wrong, "brandnew1", "brandnew1")
	assert.ErrorIs(t, err, apperror.ErrOTPInvalid)

	_, err = fx.svc.Login(ctx, &LoginInput{Identifier: "owner@example.com", Password: "secret123"})
	require.NoError(t, err, "a rejected reset leaves the old password in place")

	require.NoError(t, fx.svc.ForceResetPassword(ctx, merchantID, code, "brandnew1", "brandnew1"))
	_, err = fx.svc.Login(ctx, &LoginInput{Identifier: "owner@example.com", Password: "brandnew1"})
	require.NoError(t, err)
}

func TestAuthService_ResetPasswordWithOTP(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture(t)
	fx.register(t, ctx)

	mailer := &mocks.MockMailer{}
	fx.otpSvc.mailer = mailer
	require.NoError(t, fx.otpSvc.Issue(ctx, OTPPurposeReset, "owner@example.com"))
	code := mailer.SentCodes[0]

	err := fx.svc.ResetPassword(ctx, &ResetPasswordInput{
		Email: "owner@example.com", Code: code, NewPassword: "brandnew1", ConfirmPassword: "brandnew1",
	})
	require.NoError(t, err)

	_, err = fx.svc.Login(ctx, &LoginInput{Identifier: "owner@example.com", Password: "brandnew1"})
	require.NoError(t, err)

	// Unknown account and wrong code look identical to the caller.
	err = fx.svc.ResetPassword(ctx, &ResetPasswordInput{
		Email: "ghost@example.com", Code: "123456", NewPassword: "brandnew1", ConfirmPassword: "brandnew1",
	})
	assert.ErrorIs(t, err, apperror.ErrOTPInvalid)
}
