package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/billpoint/billpoint-api/internal/application/service"
	"github.com/billpoint/billpoint-api/internal/domain/entity"
	"github.com/billpoint/billpoint-api/internal/presentation/http/dto/request"
	"github.com/billpoint/billpoint-api/internal/presentation/http/dto/response"
)

// BillHandler handles checkout and transaction history HTTP requests
type BillHandler struct {
	billService *service.BillService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// Checkout finalizes the cart into a persisted bill
func (h *BillHandler) Checkout(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	// Body is optional; an empty body means no client total to verify.
	var req request.CheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	bill, err := h.billService.Checkout(c.Request.Context(), &service.CheckoutInput{
		MerchantID: *merchantID,
		GrandTotal: req.GrandTotal,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill created", bill)
}

// Create finalizes a bill from posted items, bypassing the cart
func (h *BillHandler) Create(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req request.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.FinalizeInput{
		MerchantID:  *merchantID,
		TotalAmount: req.TotalAmount,
	}
	for _, item := range req.Items {
		line := service.PostedLine{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
		if item.ProductID != "" {
			id, err := uuid.Parse(item.ProductID)
			if err != nil {
				response.BadRequest(c, "Invalid product ID")
				return
			}
			line.ProductID = id
		}
		input.Lines = append(input.Lines, line)
	}

	bill, err := h.billService.Finalize(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill created", bill)
}

// List returns the merchant's bills, optionally filtered to a day or a
// date range
func (h *BillHandler) List(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var bills []entity.Bill
	var err error
	if date := c.Query("date"); date != "" {
		bills, err = h.billService.List(c.Request.Context(), *merchantID, date)
	} else {
		bills, err = h.billService.ListRange(c.Request.Context(), *merchantID,
			c.Query("startDate"), c.Query("endDate"))
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bills retrieved", bills)
}

// Get returns a single bill with its items
func (h *BillHandler) Get(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billService.Get(c.Request.Context(), *merchantID, billID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved", bill)
}

// Export downloads the bill history as an Excel workbook
func (h *BillHandler) Export(c *gin.Context) {
	merchantID := GetMerchantID(c)
	if merchantID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	data, filename, err := h.billService.Export(c.Request.Context(), *merchantID, c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
