package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
	"github.com/billpoint/billpoint-api/internal/mocks"
	"github.com/billpoint/billpoint-api/pkg/apperror"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// testCatalog wires a product repo mock over a fixed product map.
func testCatalog(products map[uuid.UUID]*entity.Product) *mocks.MockProductRepository {
	return &mocks.MockProductRepository{
		GetByIDFunc: func(ctx context.Context, merchantID, id uuid.UUID) (*entity.Product, error) {
			return products[id], nil
		},
	}
}

func testSettingsService(settings *entity.Settings) *SettingsService {
	repo := &mocks.MockSettingsRepository{
		GetByMerchantIDFunc: func(ctx context.Context, merchantID uuid.UUID) (*entity.Settings, error) {
			return settings, nil
		},
	}
	return NewSettingsService(repo, &mocks.MockMerchantRepository{}, &mocks.MockPhoneIndexRepository{})
}

func TestCartService_AddAndTotals(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)

	merchantID := uuid.New()
	tea := &entity.Product{ID: uuid.New(), MerchantID: merchantID, Name: "Tea", Price: dec("100")}
	samosa := &entity.Product{ID: uuid.New(), MerchantID: merchantID, Name: "Samosa", Price: dec("50")}

	svc := NewCartService(client, testCatalog(map[uuid.UUID]*entity.Product{tea.ID: tea, samosa.ID: samosa}),
		testSettingsService(&entity.Settings{MerchantID: merchantID, TaxEnabled: true, TaxPercent: dec("10")}))

	_, err := svc.AddProduct(ctx, merchantID, tea.ID)
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, merchantID, tea.ID)
	require.NoError(t, err)
	view, err := svc.AddProduct(ctx, merchantID, samosa.ID)
	require.NoError(t, err)

	require.Len(t, view.Lines, 2, "re-adding a product increments its line")
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.True(t, view.Totals.Subtotal.Equal(dec("250")), "subtotal %s", view.Totals.Subtotal)
	assert.True(t, view.Totals.TaxAmount.Equal(dec("25")), "tax %s", view.Totals.TaxAmount)
	assert.True(t, view.Totals.GrandTotal.Equal(dec("275")), "grand %s", view.Totals.GrandTotal)
}

func TestCartService_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	merchantID := uuid.New()

	svc := NewCartService(client, testCatalog(nil), testSettingsService(&entity.Settings{MerchantID: merchantID}))

	_, err := svc.AddProduct(ctx, merchantID, uuid.New())
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 404, appErr.Code)
}

func TestCartService_SurvivesServiceRestart(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)

	merchantID := uuid.New()
	tea := &entity.Product{ID: uuid.New(), MerchantID: merchantID, Name: "Tea", Price: dec("10")}
	catalog := testCatalog(map[uuid.UUID]*entity.Product{tea.ID: tea})
	settings := testSettingsService(&entity.Settings{MerchantID: merchantID})

	svc := NewCartService(client, catalog, settings)
	_, err := svc.AddProduct(ctx, merchantID, tea.ID)
	require.NoError(t, err)

	// A fresh service instance over the same Redis sees the same cart.
	svc2 := NewCartService(client, catalog, settings)
	view, err := svc2.Get(ctx, merchantID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "Tea", view.Lines[0].Name)
}

func TestCartService_QuantityAndRemove(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)

	merchantID := uuid.New()
	tea := &entity.Product{ID: uuid.New(), MerchantID: merchantID, Name: "Tea", Price: dec("10")}
	svc := NewCartService(client, testCatalog(map[uuid.UUID]*entity.Product{tea.ID: tea}),
		testSettingsService(&entity.Settings{MerchantID: merchantID}))

	_, err := svc.AddProduct(ctx, merchantID, tea.ID)
	require.NoError(t, err)

	view, err := svc.ChangeQuantity(ctx, merchantID, tea.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Lines[0].Quantity, "quantity floors at 1")

	view, err = svc.ChangeQuantity(ctx, merchantID, uuid.New(), +3)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1, "unknown line id is a no-op")

	view, err = svc.RemoveLine(ctx, merchantID, tea.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestCartService_Reset(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)

	merchantID := uuid.New()
	tea := &entity.Product{ID: uuid.New(), MerchantID: merchantID, Name: "Tea", Price: dec("10")}
	svc := NewCartService(client, testCatalog(map[uuid.UUID]*entity.Product{tea.ID: tea}),
		testSettingsService(&entity.Settings{MerchantID: merchantID}))

	_, err := svc.AddProduct(ctx, merchantID, tea.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx, merchantID))

	view, err := svc.Get(ctx, merchantID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.True(t, view.Totals.GrandTotal.IsZero())
}

func TestCartService_QR(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)

	merchantID := uuid.New()
	tea := &entity.Product{ID: uuid.New(), MerchantID: merchantID, Name: "Tea", Price: dec("100")}
	catalog := testCatalog(map[uuid.UUID]*entity.Product{tea.ID: tea})

	t.Run("empty cart", func(t *testing.T) {
		svc := NewCartService(client, catalog, testSettingsService(&entity.Settings{MerchantID: merchantID, UPIID: "shop@upi"}))
		_, err := svc.QR(ctx, uuid.New())
		assert.ErrorIs(t, err, apperror.ErrEmptyBill)
	})

	t.Run("missing upi id", func(t *testing.T) {
		svc := NewCartService(client, catalog, testSettingsService(&entity.Settings{MerchantID: merchantID}))
		_, err := svc.AddProduct(ctx, merchantID, tea.ID)
		require.NoError(t, err)
		_, err = svc.QR(ctx, merchantID)
		assert.ErrorIs(t, err, apperror.ErrMissingUPIID)
		require.NoError(t, svc.Reset(ctx, merchantID))
	})

	t.Run("renders png", func(t *testing.T) {
		svc := NewCartService(client, catalog, testSettingsService(&entity.Settings{
			MerchantID: merchantID, UPIID: "shop@upi", MerchantName: "Chai Point", TransactionName: "Bill Payment",
		}))
		_, err := svc.AddProduct(ctx, merchantID, tea.ID)
		require.NoError(t, err)

		qr, err := svc.QR(ctx, merchantID)
		require.NoError(t, err)
		assert.Equal(t, "upi://pay?pa=shop@upi&pn=Chai+Point&tn=Bill+Payment&am=100.00", qr.Link)
		assert.Equal(t, "100.00", qr.Amount)
		require.True(t, len(qr.PNG) > 8)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, qr.PNG[:4])
	})
}
