package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
	"github.com/billpoint/billpoint-api/internal/domain/repository"
	"github.com/billpoint/billpoint-api/pkg/apperror"
	"github.com/billpoint/billpoint-api/pkg/pagination"
)

// ProductService manages the merchant's product catalog
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	MerchantID uuid.UUID
	Name       string
	Price      decimal.Decimal
}

// CreateProduct adds a product to the merchant's catalog
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewBadRequestError("Product name is required")
	}
	if input.Price.IsNegative() {
		return nil, apperror.NewBadRequestError("Product price cannot be negative")
	}

	product := &entity.Product{
		MerchantID: input.MerchantID,
		Name:       name,
		Price:      input.Price,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct returns a single product scoped to the merchant
func (s *ProductService) GetProduct(ctx context.Context, merchantID, productID uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, merchantID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProductsInput represents the list products input
type ListProductsInput struct {
	MerchantID uuid.UUID
	Params     *pagination.PaginationParams
	Search     string
}

// ListProducts returns a paginated, optionally name-filtered catalog page
func (s *ProductService) ListProducts(ctx context.Context, input *ListProductsInput) (*pagination.PaginatedResult[entity.Product], error) {
	params := input.Params
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	products, total, err := s.productRepo.List(ctx, input.MerchantID, params, strings.TrimSpace(input.Search))
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(products, p), nil
}

// UpdateProductInput represents the update product input. Nil fields are
// left unchanged.
type UpdateProductInput struct {
	MerchantID uuid.UUID
	ProductID  uuid.UUID
	Name       *string
	Price      *decimal.Decimal
}

// UpdateProduct edits a catalog entry. Bills already written keep their
// snapshotted name and price.
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, input.MerchantID, input.ProductID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewBadRequestError("Product name is required")
		}
		product.Name = name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, apperror.NewBadRequestError("Product price cannot be negative")
		}
		product.Price = *input.Price
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product from the catalog
func (s *ProductService) DeleteProduct(ctx context.Context, merchantID, productID uuid.UUID) error {
	if _, err := s.GetProduct(ctx, merchantID, productID); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, merchantID, productID)
}
