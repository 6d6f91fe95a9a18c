package request

import "github.com/shopspring/decimal"

// BillItemRequest is one posted line of a directly finalized bill.
// ProductID is optional; the line may reference a product that has since
// been removed from the catalog.
type BillItemRequest struct {
	ProductID string          `json:"product_id" binding:"omitempty,uuid"`
	Name      string          `json:"name" binding:"required"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
}

// CreateBillRequest finalizes a bill from posted items instead of the
// server-held cart. TotalAmount is the total the client displayed; when
// present the server rejects a stale value. Any posted subtotal or tax
// figures are ignored and recomputed.
type CreateBillRequest struct {
	Items       []BillItemRequest `json:"items" binding:"required,min=1,dive"`
	TotalAmount *decimal.Decimal  `json:"total_amount"`
}
