package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
	domainRepo "github.com/billpoint/billpoint-api/internal/domain/repository"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

// Create persists the bill and its item snapshots in one transaction. The
// database assigns the Date column; the struct is refreshed so the caller
// sees the stored timestamp.
func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bill).Error; err != nil {
			return err
		}
		return tx.First(bill, "id = ?", bill.ID).Error
	})
}

func (r *billRepository) GetByID(ctx context.Context, merchantID, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&bill, "id = ? AND merchant_id = ?", id, merchantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) List(ctx context.Context, merchantID uuid.UUID, from, to *time.Time) ([]entity.Bill, error) {
	var bills []entity.Bill

	query := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Where("merchant_id = ?", merchantID)

	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	if to != nil {
		query = query.Where("date <= ?", *to)
	}

	err := query.Preload("Items").
		Order("date DESC").
		Find(&bills).Error

	return bills, err
}

// DeleteBatchByMerchant removes up to limit bills with their items, counting
// deleted bills. The cascade loops on this until it returns 0.
func (r *billRepository) DeleteBatchByMerchant(ctx context.Context, merchantID uuid.UUID, limit int) (int64, error) {
	var deleted int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&entity.Bill{}).
			Where("merchant_id = ?", merchantID).
			Limit(limit).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Delete(&entity.BillItem{}, "bill_id IN ?", ids).Error; err != nil {
			return err
		}

		result := tx.Delete(&entity.Bill{}, "id IN ?", ids)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})

	return deleted, err
}
