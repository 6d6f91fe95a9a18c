// Package mocks provides hand-rolled test doubles for the repository
// interfaces. Each method delegates to an optional Func field; unset
// fields fall back to a benign default (success or not-found).
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
	"github.com/billpoint/billpoint-api/pkg/pagination"
)

// MockMerchantRepository implements repository.MerchantRepository
type MockMerchantRepository struct {
	CreateFunc        func(ctx context.Context, merchant *entity.Merchant) error
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*entity.Merchant, error)
	GetByEmailFunc    func(ctx context.Context, email string) (*entity.Merchant, error)
	GetByGoogleIDFunc func(ctx context.Context, googleID string) (*entity.Merchant, error)
	UpdateFunc        func(ctx context.Context, merchant *entity.Merchant) error
	DeleteFunc        func(ctx context.Context, id uuid.UUID) error
}

func (m *MockMerchantRepository) Create(ctx context.Context, merchant *entity.Merchant) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, merchant)
	}
	return nil
}

func (m *MockMerchantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Merchant, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockMerchantRepository) GetByEmail(ctx context.Context, email string) (*entity.Merchant, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockMerchantRepository) GetByGoogleID(ctx context.Context, googleID string) (*entity.Merchant, error) {
	if m.GetByGoogleIDFunc != nil {
		return m.GetByGoogleIDFunc(ctx, googleID)
	}
	return nil, nil
}

func (m *MockMerchantRepository) Update(ctx context.Context, merchant *entity.Merchant) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, merchant)
	}
	return nil
}

func (m *MockMerchantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockPhoneIndexRepository implements repository.PhoneIndexRepository
type MockPhoneIndexRepository struct {
	UpsertFunc     func(ctx context.Context, index *entity.PhoneIndex) error
	GetByPhoneFunc func(ctx context.Context, phone string) (*entity.PhoneIndex, error)
	DeleteFunc     func(ctx context.Context, phone string) error
}

func (m *MockPhoneIndexRepository) Upsert(ctx context.Context, index *entity.PhoneIndex) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, index)
	}
	return nil
}

func (m *MockPhoneIndexRepository) GetByPhone(ctx context.Context, phone string) (*entity.PhoneIndex, error) {
	if m.GetByPhoneFunc != nil {
		return m.GetByPhoneFunc(ctx, phone)
	}
	return nil, nil
}

func (m *MockPhoneIndexRepository) Delete(ctx context.Context, phone string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, phone)
	}
	return nil
}

// MockProductRepository implements repository.ProductRepository
type MockProductRepository struct {
	CreateFunc                func(ctx context.Context, product *entity.Product) error
	GetByIDFunc               func(ctx context.Context, merchantID, id uuid.UUID) (*entity.Product, error)
	UpdateFunc                func(ctx context.Context, product *entity.Product) error
	DeleteFunc                func(ctx context.Context, merchantID, id uuid.UUID) error
	ListFunc                  func(ctx context.Context, merchantID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Product, int64, error)
	DeleteBatchByMerchantFunc func(ctx context.Context, merchantID uuid.UUID, limit int) (int64, error)
}

func (m *MockProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, product)
	}
	return nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, merchantID, id uuid.UUID) (*entity.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, merchantID, id)
	}
	return nil, nil
}

func (m *MockProductRepository) Update(ctx context.Context, product *entity.Product) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, product)
	}
	return nil
}

func (m *MockProductRepository) Delete(ctx context.Context, merchantID, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, merchantID, id)
	}
	return nil
}

func (m *MockProductRepository) List(ctx context.Context, merchantID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Product, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, merchantID, params, search)
	}
	return nil, 0, nil
}

func (m *MockProductRepository) DeleteBatchByMerchant(ctx context.Context, merchantID uuid.UUID, limit int) (int64, error) {
	if m.DeleteBatchByMerchantFunc != nil {
		return m.DeleteBatchByMerchantFunc(ctx, merchantID, limit)
	}
	return 0, nil
}

// MockBillRepository implements repository.BillRepository
type MockBillRepository struct {
	CreateFunc                func(ctx context.Context, bill *entity.Bill) error
	GetByIDFunc               func(ctx context.Context, merchantID, id uuid.UUID) (*entity.Bill, error)
	ListFunc                  func(ctx context.Context, merchantID uuid.UUID, from, to *time.Time) ([]entity.Bill, error)
	DeleteBatchByMerchantFunc func(ctx context.Context, merchantID uuid.UUID, limit int) (int64, error)
}

func (m *MockBillRepository) Create(ctx context.Context, bill *entity.Bill) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, bill)
	}
	return nil
}

func (m *MockBillRepository) GetByID(ctx context.Context, merchantID, id uuid.UUID) (*entity.Bill, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, merchantID, id)
	}
	return nil, nil
}

func (m *MockBillRepository) List(ctx context.Context, merchantID uuid.UUID, from, to *time.Time) ([]entity.Bill, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, merchantID, from, to)
	}
	return nil, nil
}

func (m *MockBillRepository) DeleteBatchByMerchant(ctx context.Context, merchantID uuid.UUID, limit int) (int64, error) {
	if m.DeleteBatchByMerchantFunc != nil {
		return m.DeleteBatchByMerchantFunc(ctx, merchantID, limit)
	}
	return 0, nil
}

// MockSettingsRepository implements repository.SettingsRepository
type MockSettingsRepository struct {
	CreateFunc          func(ctx context.Context, settings *entity.Settings) error
	GetByMerchantIDFunc func(ctx context.Context, merchantID uuid.UUID) (*entity.Settings, error)
	UpdateFunc          func(ctx context.Context, settings *entity.Settings) error
	DeleteFunc          func(ctx context.Context, merchantID uuid.UUID) error
}

func (m *MockSettingsRepository) Create(ctx context.Context, settings *entity.Settings) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, settings)
	}
	return nil
}

func (m *MockSettingsRepository) GetByMerchantID(ctx context.Context, merchantID uuid.UUID) (*entity.Settings, error) {
	if m.GetByMerchantIDFunc != nil {
		return m.GetByMerchantIDFunc(ctx, merchantID)
	}
	return nil, nil
}

func (m *MockSettingsRepository) Update(ctx context.Context, settings *entity.Settings) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, settings)
	}
	return nil
}

func (m *MockSettingsRepository) Delete(ctx context.Context, merchantID uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, merchantID)
	}
	return nil
}

// MockMailer implements service.Mailer
type MockMailer struct {
	SendOTPEmailFunc             func(toEmail, code string, validity time.Duration, purpose string) error
	SendDeletionConfirmationFunc func(toEmail string) error

	SentCodes     []string
	SentPurposes  []string
	SentDeletions []string
}

func (m *MockMailer) SendOTPEmail(toEmail, code string, validity time.Duration, purpose string) error {
	m.SentCodes = append(m.SentCodes, code)
	m.SentPurposes = append(m.SentPurposes, purpose)
	if m.SendOTPEmailFunc != nil {
		return m.SendOTPEmailFunc(toEmail, code, validity, purpose)
	}
	return nil
}

func (m *MockMailer) SendDeletionConfirmation(toEmail string) error {
	m.SentDeletions = append(m.SentDeletions, toEmail)
	if m.SendDeletionConfirmationFunc != nil {
		return m.SendDeletionConfirmationFunc(toEmail)
	}
	return nil
}
