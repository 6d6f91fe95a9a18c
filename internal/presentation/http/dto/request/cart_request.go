package request

import "github.com/shopspring/decimal"

// AddToCartRequest adds a catalog product to the cart
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
}

// ChangeQuantityRequest bumps a cart line's quantity up or down
type ChangeQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// CheckoutRequest finalizes the cart. GrandTotal is the total the client
// displayed; when present the server rejects a stale value.
type CheckoutRequest struct {
	GrandTotal *decimal.Decimal `json:"grand_total"`
}
