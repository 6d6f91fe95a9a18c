package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
	"github.com/billpoint/billpoint-api/internal/domain/repository"
	"github.com/billpoint/billpoint-api/pkg/apperror"
	"github.com/billpoint/billpoint-api/pkg/utils"
)

// SettingsService manages the per-merchant business profile and tax config
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	merchantRepo repository.MerchantRepository
	phoneRepo    repository.PhoneIndexRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(
	settingsRepo repository.SettingsRepository,
	merchantRepo repository.MerchantRepository,
	phoneRepo repository.PhoneIndexRepository,
) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		merchantRepo: merchantRepo,
		phoneRepo:    phoneRepo,
	}
}

// Get returns the merchant's settings, creating a defaults row on first
// access so callers never see a missing-settings state.
func (s *SettingsService) Get(ctx context.Context, merchantID uuid.UUID) (*entity.Settings, error) {
	settings, err := s.settingsRepo.GetByMerchantID(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	settings = &entity.Settings{
		MerchantID:   merchantID,
		TaxName:      "GST",
		ThermalPrint: true,
	}

	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if merchant != nil {
		settings.MerchantName = merchant.Name
		settings.BusinessName = merchant.Name
		settings.Email = merchant.Email
	}

	if err := s.settingsRepo.Create(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateSettingsInput carries the merge-write fields. Nil pointers leave
// the stored value untouched, so a client can update one section without
// resending the rest.
type UpdateSettingsInput struct {
	UPIID           *string
	MerchantName    *string
	TransactionName *string

	TaxEnabled *bool
	TaxName    *string
	TaxPercent *decimal.Decimal

	ThermalPrint *bool

	BusinessName *string
	Address      *string
	Phone        *string
	Email        *string
	GSTNumber    *string
	FSSAI        *string
}

// Update merge-writes settings fields. A changed valid phone is also
// pushed to the phone login index, best-effort.
func (s *SettingsService) Update(ctx context.Context, merchantID uuid.UUID, input *UpdateSettingsInput) (*entity.Settings, error) {
	settings, err := s.Get(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	if input.UPIID != nil {
		settings.UPIID = *input.UPIID
	}
	if input.MerchantName != nil {
		settings.MerchantName = *input.MerchantName
	}
	if input.TransactionName != nil {
		settings.TransactionName = *input.TransactionName
	}
	if input.TaxEnabled != nil {
		settings.TaxEnabled = *input.TaxEnabled
	}
	if input.TaxName != nil {
		settings.TaxName = *input.TaxName
	}
	if input.TaxPercent != nil {
		if input.TaxPercent.IsNegative() {
			return nil, apperror.NewBadRequestError("Tax percent cannot be negative")
		}
		settings.TaxPercent = *input.TaxPercent
	}
	if input.ThermalPrint != nil {
		settings.ThermalPrint = *input.ThermalPrint
	}
	if input.BusinessName != nil {
		settings.BusinessName = *input.BusinessName
	}
	if input.Address != nil {
		settings.Address = *input.Address
	}
	if input.Phone != nil {
		phone := utils.NormalizePhone(*input.Phone)
		if phone != "" && !utils.IsValidPhone(phone) {
			return nil, apperror.ErrInvalidPhone
		}
		settings.Phone = phone
	}
	if input.Email != nil {
		settings.Email = *input.Email
	}
	if input.GSTNumber != nil {
		settings.GSTNumber = *input.GSTNumber
	}
	if input.FSSAI != nil {
		settings.FSSAI = *input.FSSAI
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}

	if input.Phone != nil && utils.IsValidPhone(settings.Phone) {
		s.reindexPhone(ctx, merchantID, settings.Phone)
	}

	return settings, nil
}

// reindexPhone keeps the phone login index pointing at the merchant's
// email. Failures only cost phone login, so they are logged and dropped.
func (s *SettingsService) reindexPhone(ctx context.Context, merchantID uuid.UUID, phone string) {
	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil || merchant == nil {
		log.Printf("settings: failed to load merchant %s for phone reindex: %v", merchantID, err)
		return
	}
	if err := s.phoneRepo.Upsert(ctx, &entity.PhoneIndex{Phone: phone, Email: merchant.Email}); err != nil {
		log.Printf("settings: failed to reindex phone for %s: %v", merchant.Email, err)
	}
}
