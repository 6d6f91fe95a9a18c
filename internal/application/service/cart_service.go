package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/billpoint/billpoint-api/internal/domain/repository"
	"github.com/billpoint/billpoint-api/pkg/apperror"
	"github.com/billpoint/billpoint-api/pkg/billing"
	"github.com/billpoint/billpoint-api/pkg/upi"
)

// cartTTL keeps an untouched cart around long enough to survive app
// restarts and reloads, without accumulating abandoned carts forever.
const cartTTL = 7 * 24 * time.Hour

// CartService holds each merchant's in-progress bill in Redis. The cart
// is working state, not history: it survives reloads but is wiped by
// checkout and reset.
type CartService struct {
	redis           *redis.Client
	productRepo     repository.ProductRepository
	settingsService *SettingsService
}

// NewCartService creates a new cart service
func NewCartService(redisClient *redis.Client, productRepo repository.ProductRepository, settingsService *SettingsService) *CartService {
	return &CartService{
		redis:           redisClient,
		productRepo:     productRepo,
		settingsService: settingsService,
	}
}

func cartKey(merchantID uuid.UUID) string {
	return fmt.Sprintf("cart:%s", merchantID)
}

// CartView is the cart plus its current totals under the merchant's tax
// config. Totals are recomputed on every read, never stored.
type CartView struct {
	Lines  []billing.LineItem `json:"lines"`
	Totals billing.Totals     `json:"totals"`
}

func (s *CartService) load(ctx context.Context, merchantID uuid.UUID) (*billing.Bill, error) {
	data, err := s.redis.Get(ctx, cartKey(merchantID)).Bytes()
	if err == redis.Nil {
		return &billing.Bill{}, nil
	}
	if err != nil {
		return nil, err
	}

	var bill billing.Bill
	if err := json.Unmarshal(data, &bill); err != nil {
		// A corrupt cart is unrecoverable working state; start over.
		return &billing.Bill{}, nil
	}
	return &bill, nil
}

func (s *CartService) save(ctx context.Context, merchantID uuid.UUID, bill *billing.Bill) error {
	data, err := json.Marshal(bill)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, cartKey(merchantID), data, cartTTL).Err()
}

func (s *CartService) view(ctx context.Context, merchantID uuid.UUID, bill *billing.Bill) (*CartView, error) {
	settings, err := s.settingsService.Get(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	totals := bill.ComputeTotals(billing.TaxConfig{
		Enabled: settings.TaxEnabled,
		Percent: settings.TaxPercent,
	})
	lines := bill.Lines
	if lines == nil {
		lines = []billing.LineItem{}
	}
	return &CartView{Lines: lines, Totals: totals.Round()}, nil
}

// Get returns the current cart with totals
func (s *CartService) Get(ctx context.Context, merchantID uuid.UUID) (*CartView, error) {
	bill, err := s.load(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, merchantID, bill)
}

// AddProduct adds a catalog product to the cart, snapshotting its name
// and price. Adding a product already in the cart bumps its quantity.
func (s *CartService) AddProduct(ctx context.Context, merchantID, productID uuid.UUID) (*CartView, error) {
	product, err := s.productRepo.GetByID(ctx, merchantID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	bill, err := s.load(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	bill.AddProduct(product.ID, product.Name, product.Price)
	if err := s.save(ctx, merchantID, bill); err != nil {
		return nil, err
	}
	return s.view(ctx, merchantID, bill)
}

// ChangeQuantity adjusts a line's quantity by delta, flooring at 1.
// Unknown product IDs are ignored.
func (s *CartService) ChangeQuantity(ctx context.Context, merchantID, productID uuid.UUID, delta int) (*CartView, error) {
	bill, err := s.load(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	bill.ChangeQuantity(productID, delta)
	if err := s.save(ctx, merchantID, bill); err != nil {
		return nil, err
	}
	return s.view(ctx, merchantID, bill)
}

// RemoveLine drops a line from the cart entirely
func (s *CartService) RemoveLine(ctx context.Context, merchantID, productID uuid.UUID) (*CartView, error) {
	bill, err := s.load(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	bill.RemoveLine(productID)
	if err := s.save(ctx, merchantID, bill); err != nil {
		return nil, err
	}
	return s.view(ctx, merchantID, bill)
}

// Reset empties the cart
func (s *CartService) Reset(ctx context.Context, merchantID uuid.UUID) error {
	return s.redis.Del(ctx, cartKey(merchantID)).Err()
}

// Current returns the raw cart state. Checkout uses this to snapshot
// the lines it is about to persist.
func (s *CartService) Current(ctx context.Context, merchantID uuid.UUID) (*billing.Bill, error) {
	return s.load(ctx, merchantID)
}

// PaymentQR is a UPI payment QR for the cart's grand total
type PaymentQR struct {
	Link   string `json:"link"`
	PNG    []byte `json:"-"`
	Amount string `json:"amount"`
}

// QR builds a UPI payment QR for the current cart total. Requires a UPI
// ID in settings and a non-empty cart.
func (s *CartService) QR(ctx context.Context, merchantID uuid.UUID) (*PaymentQR, error) {
	bill, err := s.load(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if bill.IsEmpty() {
		return nil, apperror.ErrEmptyBill
	}

	settings, err := s.settingsService.Get(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	totals := bill.ComputeTotals(billing.TaxConfig{
		Enabled: settings.TaxEnabled,
		Percent: settings.TaxPercent,
	}).Round()

	link, err := upi.Link(settings.UPIID, settings.MerchantName, settings.TransactionName, totals.GrandTotal)
	if err != nil {
		return nil, err
	}
	png, err := upi.QRPNG(link, 256)
	if err != nil {
		return nil, err
	}

	return &PaymentQR{
		Link:   link,
		PNG:    png,
		Amount: totals.GrandTotal.StringFixed(2),
	}, nil
}
