package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
	"github.com/billpoint/billpoint-api/internal/domain/repository"
	"github.com/billpoint/billpoint-api/pkg/apperror"
	"github.com/billpoint/billpoint-api/pkg/utils"
)

// deletionBatchSize bounds each bulk delete so the cascade never holds a
// long transaction over a large catalog or history.
const deletionBatchSize = 50

// deletionStateTTL caps how long stage markers of an unfinished cascade
// survive in Redis.
const deletionStateTTL = 24 * time.Hour

// Cascade stages, recorded in Redis as they complete so a retried
// deletion resumes instead of starting over. The identity row goes last:
// until it is gone the merchant can still log in and retry.
const (
	stagePhoneIndex = "phone_index"
	stageProducts   = "products"
	stageBills      = "bills"
	stageSettings   = "settings"
)

// AccountService drives the two-step account deletion flow: password
// reauthentication plus emailed OTP, then a staged cascade over all of
// the merchant's data.
type AccountService struct {
	merchantRepo repository.MerchantRepository
	phoneRepo    repository.PhoneIndexRepository
	productRepo  repository.ProductRepository
	billRepo     repository.BillRepository
	settingsRepo repository.SettingsRepository
	otpService   *OTPService
	cartService  *CartService
	mailer       Mailer
	redis        *redis.Client
}

// NewAccountService creates a new account service
func NewAccountService(
	merchantRepo repository.MerchantRepository,
	phoneRepo repository.PhoneIndexRepository,
	productRepo repository.ProductRepository,
	billRepo repository.BillRepository,
	settingsRepo repository.SettingsRepository,
	otpService *OTPService,
	cartService *CartService,
	mailer Mailer,
	redisClient *redis.Client,
) *AccountService {
	return &AccountService{
		merchantRepo: merchantRepo,
		phoneRepo:    phoneRepo,
		productRepo:  productRepo,
		billRepo:     billRepo,
		settingsRepo: settingsRepo,
		otpService:   otpService,
		cartService:  cartService,
		mailer:       mailer,
		redis:        redisClient,
	}
}

func deletionStageKey(merchantID uuid.UUID) string {
	return fmt.Sprintf("delete:stage:%s", merchantID)
}

// ConfirmDeletion is step one: reauthenticate with the password, then
// email an OTP. Federated accounts without a password must set one
// first; the deletion flow insists on both factors.
func (s *AccountService) ConfirmDeletion(ctx context.Context, merchantID uuid.UUID, password string) error {
	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return err
	}
	if merchant == nil {
		return apperror.NewNotFoundError("Merchant")
	}

	if !merchant.HasPasswordCredential() {
		return apperror.ErrNoPasswordCredential
	}
	if !utils.CheckPasswordHash(password, merchant.PasswordHash) {
		return apperror.ErrReauthentication
	}

	return s.otpService.Issue(ctx, OTPPurposeDelete, merchant.Email)
}

// Delete is step two: verify the OTP, then cascade. Other data goes
// first, the identity row last, and each completed stage is marked in
// Redis so a mid-cascade failure resumes where it stopped.
func (s *AccountService) Delete(ctx context.Context, merchantID uuid.UUID, code string) error {
	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return err
	}
	if merchant == nil {
		return apperror.NewNotFoundError("Merchant")
	}

	if err := s.otpService.Verify(ctx, OTPPurposeDelete, merchant.Email, code); err != nil {
		return err
	}

	done, err := s.completedStages(ctx, merchantID)
	if err != nil {
		return err
	}

	if !done[stagePhoneIndex] {
		phones, err := s.indexedPhones(ctx, merchant)
		if err != nil {
			return err
		}
		for _, phone := range phones {
			if err := s.phoneRepo.Delete(ctx, phone); err != nil {
				return err
			}
		}
		if err := s.markStage(ctx, merchantID, stagePhoneIndex); err != nil {
			return err
		}
	}

	if !done[stageProducts] {
		if err := s.drainBatches(ctx, func() (int64, error) {
			return s.productRepo.DeleteBatchByMerchant(ctx, merchantID, deletionBatchSize)
		}); err != nil {
			return err
		}
		if err := s.markStage(ctx, merchantID, stageProducts); err != nil {
			return err
		}
	}

	if !done[stageBills] {
		if err := s.drainBatches(ctx, func() (int64, error) {
			return s.billRepo.DeleteBatchByMerchant(ctx, merchantID, deletionBatchSize)
		}); err != nil {
			return err
		}
		if err := s.markStage(ctx, merchantID, stageBills); err != nil {
			return err
		}
	}

	if !done[stageSettings] {
		if err := s.settingsRepo.Delete(ctx, merchantID); err != nil {
			return err
		}
		if err := s.markStage(ctx, merchantID, stageSettings); err != nil {
			return err
		}
	}

	if err := s.merchantRepo.Delete(ctx, merchantID); err != nil {
		return err
	}

	// Working state and bookkeeping for an account that no longer exists.
	if err := s.cartService.Reset(ctx, merchantID); err != nil {
		log.Printf("account: failed to clear cart for deleted merchant %s: %v", merchantID, err)
	}
	if err := s.redis.Del(ctx, deletionStageKey(merchantID)).Err(); err != nil {
		log.Printf("account: failed to clear deletion markers for %s: %v", merchantID, err)
	}

	if err := s.mailer.SendDeletionConfirmation(merchant.Email); err != nil {
		log.Printf("account: failed to send deletion confirmation to %s: %v", merchant.Email, err)
	}

	return nil
}

// indexedPhones collects the phone numbers that may resolve to this
// account: the one given at registration and the one currently in
// settings, which the settings flow re-points the index to on change.
// This stage runs before the settings row is deleted.
func (s *AccountService) indexedPhones(ctx context.Context, merchant *entity.Merchant) ([]string, error) {
	var phones []string
	if p := utils.NormalizePhone(merchant.Phone); utils.IsValidPhone(p) {
		phones = append(phones, p)
	}

	settings, err := s.settingsRepo.GetByMerchantID(ctx, merchant.ID)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		if p := utils.NormalizePhone(settings.Phone); utils.IsValidPhone(p) && (len(phones) == 0 || phones[0] != p) {
			phones = append(phones, p)
		}
	}
	return phones, nil
}

// drainBatches runs a batched delete until it reports zero rows,
// checking the context between batches.
func (s *AccountService) drainBatches(ctx context.Context, deleteBatch func() (int64, error)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := deleteBatch()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
}

func (s *AccountService) completedStages(ctx context.Context, merchantID uuid.UUID) (map[string]bool, error) {
	stages, err := s.redis.SMembers(ctx, deletionStageKey(merchantID)).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	done := make(map[string]bool, len(stages))
	for _, stage := range stages {
		done[stage] = true
	}
	return done, nil
}

func (s *AccountService) markStage(ctx context.Context, merchantID uuid.UUID, stage string) error {
	key := deletionStageKey(merchantID)
	if err := s.redis.SAdd(ctx, key, stage).Err(); err != nil {
		return err
	}
	// An abandoned cascade should not leave markers around forever;
	// every stage is idempotent, so rerunning after expiry is safe.
	return s.redis.Expire(ctx, key, deletionStateTTL).Err()
}
