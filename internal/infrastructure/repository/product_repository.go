package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
	domainRepo "github.com/billpoint/billpoint-api/internal/domain/repository"
	"github.com/billpoint/billpoint-api/pkg/pagination"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, merchantID, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		First(&product, "id = ? AND merchant_id = ?", id, merchantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, merchantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&entity.Product{}, "id = ? AND merchant_id = ?", id, merchantID).Error
}

func (r *productRepository) List(ctx context.Context, merchantID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("merchant_id = ?", merchantID)

	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&products).Error

	return products, total, err
}

// DeleteBatchByMerchant hard-deletes up to limit products. Soft-delete is
// bypassed on purpose: account deletion must leave nothing behind.
func (r *productRepository) DeleteBatchByMerchant(ctx context.Context, merchantID uuid.UUID, limit int) (int64, error) {
	result := r.db.WithContext(ctx).Exec(
		`DELETE FROM products WHERE id IN (
			SELECT id FROM products WHERE merchant_id = ? LIMIT ?
		)`, merchantID, limit)
	return result.RowsAffected, result.Error
}
