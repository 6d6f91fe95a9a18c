package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
	"github.com/billpoint/billpoint-api/internal/domain/repository"
	"github.com/billpoint/billpoint-api/pkg/apperror"
	"github.com/billpoint/billpoint-api/pkg/billing"
	"github.com/billpoint/billpoint-api/pkg/export"
)

// BillService finalizes carts into immutable bills and serves the
// transaction history.
type BillService struct {
	billRepo        repository.BillRepository
	cartService     *CartService
	settingsService *SettingsService
}

// NewBillService creates a new bill service
func NewBillService(billRepo repository.BillRepository, cartService *CartService, settingsService *SettingsService) *BillService {
	return &BillService{
		billRepo:        billRepo,
		cartService:     cartService,
		settingsService: settingsService,
	}
}

// CheckoutInput represents the checkout request. GrandTotal, when
// present, is the total the client displayed; checkout fails if it does
// not match the server's own computation.
type CheckoutInput struct {
	MerchantID uuid.UUID
	GrandTotal *decimal.Decimal
}

// Checkout finalizes the merchant's cart into a persisted bill. The
// cart must be non-empty; totals are always recomputed server-side, the
// status is Paid and the timestamp is assigned by the database. The
// cart is cleared only after the bill is durably written.
func (s *BillService) Checkout(ctx context.Context, input *CheckoutInput) (*entity.Bill, error) {
	cart, err := s.cartService.Current(ctx, input.MerchantID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperror.ErrEmptyBill
	}

	settings, err := s.settingsService.Get(ctx, input.MerchantID)
	if err != nil {
		return nil, err
	}

	totals := cart.ComputeTotals(billing.TaxConfig{
		Enabled: settings.TaxEnabled,
		Percent: settings.TaxPercent,
	}).Round()

	if input.GrandTotal != nil && !input.GrandTotal.Equal(totals.GrandTotal) {
		return nil, apperror.NewBadRequestError("Displayed total is out of date, please review the bill and retry")
	}

	bill := &entity.Bill{
		MerchantID:  input.MerchantID,
		Subtotal:    totals.Subtotal,
		TaxAmount:   totals.TaxAmount,
		TotalAmount: totals.GrandTotal,
		Status:      entity.BillStatusPaid,
	}
	for _, line := range cart.Lines {
		bill.Items = append(bill.Items, entity.BillItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Total:     line.Total(),
		})
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}

	if err := s.cartService.Reset(ctx, input.MerchantID); err != nil {
		// The bill is already durable; a stale cart is the lesser harm.
		log.Printf("bill: failed to clear cart for %s after checkout: %v", input.MerchantID, err)
	}

	return bill, nil
}

// PostedLine is one line of a bill submitted directly, without going
// through the server-held cart. Name and price come from the client
// because the line may reference a product that no longer exists.
type PostedLine struct {
	ProductID uuid.UUID
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// FinalizeInput represents a directly posted bill. TotalAmount, when
// present, must match the server's own computation.
type FinalizeInput struct {
	MerchantID  uuid.UUID
	Lines       []PostedLine
	TotalAmount *decimal.Decimal
}

// Finalize persists a bill from posted line items. Totals are never
// taken from the client; they are recomputed against the merchant's
// current tax settings, same as checkout.
func (s *BillService) Finalize(ctx context.Context, input *FinalizeInput) (*entity.Bill, error) {
	if len(input.Lines) == 0 {
		return nil, apperror.ErrEmptyBill
	}

	var working billing.Bill
	for _, line := range input.Lines {
		if line.Name == "" {
			return nil, apperror.NewBadRequestError("Item name is required")
		}
		if line.Price.IsNegative() {
			return nil, apperror.NewBadRequestError("Item price cannot be negative")
		}
		if line.Quantity < 1 {
			return nil, apperror.NewBadRequestError("Item quantity must be at least 1")
		}
		working.Lines = append(working.Lines, billing.LineItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}

	settings, err := s.settingsService.Get(ctx, input.MerchantID)
	if err != nil {
		return nil, err
	}

	totals := working.ComputeTotals(billing.TaxConfig{
		Enabled: settings.TaxEnabled,
		Percent: settings.TaxPercent,
	}).Round()

	if input.TotalAmount != nil && !input.TotalAmount.Equal(totals.GrandTotal) {
		return nil, apperror.NewBadRequestError("Displayed total is out of date, please review the bill and retry")
	}

	bill := &entity.Bill{
		MerchantID:  input.MerchantID,
		Subtotal:    totals.Subtotal,
		TaxAmount:   totals.TaxAmount,
		TotalAmount: totals.GrandTotal,
		Status:      entity.BillStatusPaid,
	}
	for _, line := range working.Lines {
		bill.Items = append(bill.Items, entity.BillItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Total:     line.Total(),
		})
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// DayWindow converts a YYYY-MM-DD date into the inclusive bounds of
// that local day, first instant to last millisecond.
func DayWindow(date string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.NewBadRequestError("Invalid date, expected YYYY-MM-DD")
	}
	from := day
	to := day.Add(24*time.Hour - time.Millisecond)
	return from, to, nil
}

// List returns the merchant's bills, newest first. A non-empty date
// restricts the result to that local day.
func (s *BillService) List(ctx context.Context, merchantID uuid.UUID, date string) ([]entity.Bill, error) {
	var from, to *time.Time
	if date != "" {
		f, t, err := DayWindow(date, time.Local)
		if err != nil {
			return nil, err
		}
		from, to = &f, &t
	}
	return s.billRepo.List(ctx, merchantID, from, to)
}

// ListRange returns bills between two dates, newest first, covering the
// start day's first instant through the end day's last millisecond. A
// missing side of the range defaults to the other.
func (s *BillService) ListRange(ctx context.Context, merchantID uuid.UUID, startDate, endDate string) ([]entity.Bill, error) {
	if startDate == "" && endDate == "" {
		return s.billRepo.List(ctx, merchantID, nil, nil)
	}
	if startDate == "" {
		startDate = endDate
	}
	if endDate == "" {
		endDate = startDate
	}
	from, _, err := DayWindow(startDate, time.Local)
	if err != nil {
		return nil, err
	}
	_, to, err := DayWindow(endDate, time.Local)
	if err != nil {
		return nil, err
	}
	return s.billRepo.List(ctx, merchantID, &from, &to)
}

// Get returns a single bill with its items
func (s *BillService) Get(ctx context.Context, merchantID, billID uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, merchantID, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// Export renders the merchant's bill history (optionally one day) as an
// Excel workbook.
func (s *BillService) Export(ctx context.Context, merchantID uuid.UUID, date string) ([]byte, string, error) {
	bills, err := s.List(ctx, merchantID, date)
	if err != nil {
		return nil, "", err
	}

	data, err := export.BillsWorkbook(bills)
	if err != nil {
		return nil, "", err
	}

	filename := "transactions.xlsx"
	if date != "" {
		filename = "transactions-" + date + ".xlsx"
	}
	return data, filename, nil
}
