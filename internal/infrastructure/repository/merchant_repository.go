package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
	domainRepo "github.com/billpoint/billpoint-api/internal/domain/repository"
)

type merchantRepository struct {
	db *gorm.DB
}

// NewMerchantRepository creates a new merchant repository
func NewMerchantRepository(db *gorm.DB) domainRepo.MerchantRepository {
	return &merchantRepository{db: db}
}

func (r *merchantRepository) Create(ctx context.Context, merchant *entity.Merchant) error {
	return r.db.WithContext(ctx).Create(merchant).Error
}

func (r *merchantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Merchant, error) {
	var merchant entity.Merchant
	err := r.db.WithContext(ctx).First(&merchant, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepository) GetByEmail(ctx context.Context, email string) (*entity.Merchant, error) {
	var merchant entity.Merchant
	err := r.db.WithContext(ctx).First(&merchant, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepository) GetByGoogleID(ctx context.Context, googleID string) (*entity.Merchant, error) {
	var merchant entity.Merchant
	err := r.db.WithContext(ctx).First(&merchant, "google_id = ?", googleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepository) Update(ctx context.Context, merchant *entity.Merchant) error {
	return r.db.WithContext(ctx).Save(merchant).Error
}

func (r *merchantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Merchant{}, "id = ?", id).Error
}

type phoneIndexRepository struct {
	db *gorm.DB
}

// NewPhoneIndexRepository creates a new phone index repository
func NewPhoneIndexRepository(db *gorm.DB) domainRepo.PhoneIndexRepository {
	return &phoneIndexRepository{db: db}
}

func (r *phoneIndexRepository) Upsert(ctx context.Context, index *entity.PhoneIndex) error {
	return r.db.WithContext(ctx).Save(index).Error
}

func (r *phoneIndexRepository) GetByPhone(ctx context.Context, phone string) (*entity.PhoneIndex, error) {
	var index entity.PhoneIndex
	err := r.db.WithContext(ctx).First(&index, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &index, nil
}

func (r *phoneIndexRepository) Delete(ctx context.Context, phone string) error {
	return r.db.WithContext(ctx).Delete(&entity.PhoneIndex{}, "phone = ?", phone).Error
}
