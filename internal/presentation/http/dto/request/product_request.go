package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents a create product request
type CreateProductRequest struct {
	Name  string          `json:"name" binding:"required,min=1,max=255"`
	Price decimal.Decimal `json:"price" binding:"required"`
}

// UpdateProductRequest represents an update product request. Absent
// fields are left unchanged.
type UpdateProductRequest struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
}
