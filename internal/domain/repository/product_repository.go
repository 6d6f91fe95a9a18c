package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
	"github.com/billpoint/billpoint-api/pkg/pagination"
)

// ProductRepository defines the interface for product data operations.
// Get methods return (nil, nil) when no record exists.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, merchantID, id uuid.UUID) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, merchantID, id uuid.UUID) error
	List(ctx context.Context, merchantID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Product, int64, error)
	// DeleteBatchByMerchant hard-deletes up to limit products for the
	// merchant and reports how many rows went away. The account-deletion
	// cascade calls it repeatedly until it returns 0.
	DeleteBatchByMerchant(ctx context.Context, merchantID uuid.UUID, limit int) (int64, error)
}
