package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/billpoint/billpoint-api/internal/application/service"
	"github.com/billpoint/billpoint-api/internal/presentation/http/dto/request"
	"github.com/billpoint/billpoint-api/internal/presentation/http/dto/response"
)

// CartHandler handles the in-progress bill (cart) HTTP requests
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get returns the current cart with totals
func (h *CartHandler) Get(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	view, err := h.cartService.Get(c.Request.Context(), *merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart retrieved", view)
}

// AddProduct adds a product to the cart
func (h *CartHandler) AddProduct(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req request.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	view, err := h.cartService.AddProduct(c.Request.Context(), *merchantID, productID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product added", view)
}

// ChangeQuantity adjusts a cart line's quantity
func (h *CartHandler) ChangeQuantity(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}
	var req request.ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.cartService.ChangeQuantity(c.Request.Context(), *merchantID, productID, req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quantity updated", view)
}

// RemoveLine drops a line from the cart
func (h *CartHandler) RemoveLine(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	view, err := h.cartService.RemoveLine(c.Request.Context(), *merchantID, productID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line removed", view)
}

// Reset empties the cart
func (h *CartHandler) Reset(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.cartService.Reset(c.Request.Context(), *merchantID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart cleared", nil)
}

// QR returns a UPI payment QR PNG for the cart's grand total
func (h *CartHandler) QR(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	qr, err := h.cartService.QR(c.Request.Context(), *merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("X-UPI-Link", qr.Link)
	c.Header("X-UPI-Amount", qr.Amount)
	c.Data(200, "image/png", qr.PNG)
}
