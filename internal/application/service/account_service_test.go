package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
	"github.com/billpoint/billpoint-api/internal/mocks"
	"github.com/billpoint/billpoint-api/pkg/apperror"
	"github.com/billpoint/billpoint-api/pkg/utils"
)

type deletionFixture struct {
	svc      *AccountService
	merchant *entity.Merchant
	mailer   *mocks.MockMailer
	calls    *[]string
	redis    *redis.Client

	merchantRepo *mocks.MockMerchantRepository
	productRepo  *mocks.MockProductRepository
	billRepo     *mocks.MockBillRepository
	settingsRepo *mocks.MockSettingsRepository
}

func newDeletionFixture(t *testing.T, productBatches, billBatches []int64) *deletionFixture {
	t.Helper()
	_, client := newTestRedis(t)

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	merchant := &entity.Merchant{
		ID:           uuid.New(),
		Name:         "Chai Point",
		Email:        "owner@example.com",
		Phone:        "9876543210",
		PasswordHash: hash,
	}

	calls := &[]string{}
	record := func(name string) {
		*calls = append(*calls, name)
	}

	merchantRepo := &mocks.MockMerchantRepository{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Merchant, error) {
			return merchant, nil
		},
		DeleteFunc: func(ctx context.Context, id uuid.UUID) error {
			record("merchant")
			return nil
		},
	}
	phoneRepo := &mocks.MockPhoneIndexRepository{
		DeleteFunc: func(ctx context.Context, phone string) error {
			record("phone_index:" + phone)
			return nil
		},
	}

	productRepo := &mocks.MockProductRepository{}
	pi := 0
	productRepo.DeleteBatchByMerchantFunc = func(ctx context.Context, merchantID uuid.UUID, limit int) (int64, error) {
		record("products")
		n := productBatches[pi]
		pi++
		return n, nil
	}

	billRepo := &mocks.MockBillRepository{}
	bi := 0
	billRepo.DeleteBatchByMerchantFunc = func(ctx context.Context, merchantID uuid.UUID, limit int) (int64, error) {
		record("bills")
		n := billBatches[bi]
		bi++
		return n, nil
	}

	settingsRepo := &mocks.MockSettingsRepository{
		DeleteFunc: func(ctx context.Context, merchantID uuid.UUID) error {
			record("settings")
			return nil
		},
	}

	mailer := &mocks.MockMailer{}
	otpSvc := NewOTPService(client, mailer, OTPConfig{TTL: 2 * time.Minute})
	cartSvc := NewCartService(client, productRepo, NewSettingsService(settingsRepo, merchantRepo, phoneRepo))

	svc := NewAccountService(merchantRepo, phoneRepo, productRepo, billRepo, settingsRepo, otpSvc, cartSvc, mailer, client)

	return &deletionFixture{
		svc:          svc,
		merchant:     merchant,
		mailer:       mailer,
		calls:        calls,
		redis:        client,
		merchantRepo: merchantRepo,
		productRepo:  productRepo,
		billRepo:     billRepo,
		settingsRepo: settingsRepo,
	}
}

func TestAccountService_ConfirmDeletionRequiresPassword(t *testing.T) {
	ctx := context.Background()
	fx := newDeletionFixture(t, []int64{0}, []int64{0})

	err := fx.svc.ConfirmDeletion(ctx, fx.merchant.ID, "wrong-password")
	assert.ErrorIs(t, err, apperror.ErrReauthentication)
	assert.Empty(t, fx.mailer.SentCodes)
}

func TestAccountService_ConfirmDeletionNeedsCredential(t *testing.T) {
	ctx := context.Background()
	fx := newDeletionFixture(t, []int64{0}, []int64{0})
	fx.merchant.PasswordHash = ""

	err := fx.svc.ConfirmDeletion(ctx, fx.merchant.ID, "anything")
	assert.ErrorIs(t, err, apperror.ErrNoPasswordCredential)
}

func TestAccountService_DeleteCascadeOrder(t *testing.T) {
	ctx := context.Background()
	fx := newDeletionFixture(t, []int64{50, 50, 0}, []int64{50, 0})

	require.NoError(t, fx.svc.ConfirmDeletion(ctx, fx.merchant.ID, "secret123"))
	require.Len(t, fx.mailer.SentCodes, 1)
	assert.Equal(t, OTPPurposeDelete, fx.mailer.SentPurposes[0])

	require.NoError(t, fx.svc.Delete(ctx, fx.merchant.ID, fx.mailer.SentCodes[0]))

	// Phone index first, then batched products and bills, then settings,
	// and the identity row last.
	assert.Equal(t, []string{
		"phone_index:9876543210",
		"products", "products", "products",
		"bills", "bills",
		"settings",
		"merchant",
	}, *fx.calls)

	assert.Equal(t, []string{"owner@example.com"}, fx.mailer.SentDeletions)
}

func TestAccountService_DeleteClearsReindexedPhone(t *testing.T) {
	ctx := context.Background()
	fx := newDeletionFixture(t, []int64{0}, []int64{0})

	// The merchant registered with one phone and later changed it in
	// settings, which re-pointed the login index at the new number.
	index := map[string]string{"1112223334": fx.merchant.Email}
	fx.settingsRepo.GetByMerchantIDFunc = func(ctx context.Context, merchantID uuid.UUID) (*entity.Settings, error) {
		return &entity.Settings{MerchantID: merchantID, Phone: "1112223334"}, nil
	}
	phoneDeletes := []string{}
	phoneRepo := &mocks.MockPhoneIndexRepository{
		DeleteFunc: func(ctx context.Context, phone string) error {
			phoneDeletes = append(phoneDeletes, phone)
			delete(index, phone)
			return nil
		},
	}
	fx.svc.phoneRepo = phoneRepo

	require.NoError(t, fx.svc.ConfirmDeletion(ctx, fx.merchant.ID, "secret123"))
	require.NoError(t, fx.svc.Delete(ctx, fx.merchant.ID, fx.mailer.SentCodes[0]))

	assert.Equal(t, []string{"9876543210", "1112223334"}, phoneDeletes)
	_, stillIndexed := index["1112223334"]
	assert.False(t, stillIndexed, "the account's current phone must resolve to nothing")
}

func TestAccountService_StageMarkersExpire(t *testing.T) {
	ctx := context.Background()
	fx := newDeletionFixture(t, []int64{0}, []int64{0})

	// Fail the cascade mid-way so markers are left behind.
	fx.billRepo.DeleteBatchByMerchantFunc = func(ctx context.Context, merchantID uuid.UUID, limit int) (int64, error) {
		return 0, assert.AnError
	}

	require.NoError(t, fx.svc.ConfirmDeletion(ctx, fx.merchant.ID, "secret123"))
	require.Error(t, fx.svc.Delete(ctx, fx.merchant.ID, fx.mailer.SentCodes[0]))

	ttl, err := fx.redis.TTL(ctx, "delete:stage:"+fx.merchant.ID.String()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0), "abandoned markers must not live forever")
	assert.LessOrEqual(t, ttl, deletionStateTTL)
}

func TestAccountService_DeleteRejectsWrongCode(t *testing.T) {
	ctx := context.Background()
	fx := newDeletionFixture(t, []int64{0}, []int64{0})

	require.NoError(t, fx.svc.ConfirmDeletion(ctx, fx.merchant.ID, "secret123"))
	code := fx.mailer.SentCodes[0]
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	err := fx.svc.Delete(ctx, fx.merchant.ID, wrong)
	assert.ErrorIs(t, err, apperror.ErrOTPInvalid)
	assert.Empty(t, *fx.calls, "a failed OTP check must not touch any data")
}

func TestAccountService_DeleteResumesAfterFailure(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	merchant := &entity.Merchant{ID: uuid.New(), Email: "owner@example.com", PasswordHash: hash}

	calls := []string{}
	merchantRepo := &mocks.MockMerchantRepository{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Merchant, error) { return merchant, nil },
		DeleteFunc: func(ctx context.Context, id uuid.UUID) error {
			calls = append(calls, "merchant")
			return nil
		},
	}
	phoneRepo := &mocks.MockPhoneIndexRepository{}
	productRepo := &mocks.MockProductRepository{
		DeleteBatchByMerchantFunc: func(ctx context.Context, merchantID uuid.UUID, limit int) (int64, error) {
			calls = append(calls, "products")
			return 0, nil
		},
	}
	billRepo := &mocks.MockBillRepository{
		DeleteBatchByMerchantFunc: func(ctx context.Context, merchantID uuid.UUID, limit int) (int64, error) {
			calls = append(calls, "bills")
			return 0, nil
		},
	}
	settingsRepo := &mocks.MockSettingsRepository{}
	mailer := &mocks.MockMailer{}
	otpSvc := NewOTPService(client, mailer, OTPConfig{TTL: 2 * time.Minute})
	cartSvc := NewCartService(client, productRepo, NewSettingsService(settingsRepo, merchantRepo, phoneRepo))
	svc := NewAccountService(merchantRepo, phoneRepo, productRepo, billRepo, settingsRepo, otpSvc, cartSvc, mailer, client)

	// A previous attempt already cleared the phone index and products.
	require.NoError(t, client.SAdd(ctx, "delete:stage:"+merchant.ID.String(), "phone_index", "products").Err())

	require.NoError(t, svc.ConfirmDeletion(ctx, merchant.ID, "secret123"))
	require.NoError(t, svc.Delete(ctx, merchant.ID, mailer.SentCodes[0]))

	assert.Equal(t, []string{"bills", "merchant"}, calls, "completed stages are skipped on retry")

	exists, err := client.Exists(ctx, "delete:stage:"+merchant.ID.String()).Result()
	require.NoError(t, err)
	assert.Zero(t, exists, "stage markers are cleared once the account is gone")
}
