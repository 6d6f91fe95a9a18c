package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
)

func TestBillsWorkbook(t *testing.T) {
	billID := uuid.New()
	bills := []entity.Bill{
		{
			ID:          billID,
			Subtotal:    decimal.NewFromInt(250),
			TaxAmount:   decimal.NewFromInt(25),
			TotalAmount: decimal.NewFromInt(275),
			Status:      entity.BillStatusPaid,
			Date:        time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
			Items: []entity.BillItem{
				{Name: "Tea", Price: decimal.NewFromInt(100), Quantity: 2},
				{Name: "Samosa", Price: decimal.NewFromInt(50), Quantity: 1},
			},
		},
	}

	data, err := BillsWorkbook(bills)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "2026-03-15 10:30:00", rows[1][0])
	assert.Equal(t, billID.String(), rows[1][1])
	assert.Equal(t, "Tea x2 @ 100.00; Samosa x1 @ 50.00", rows[1][2])
	assert.Equal(t, "250.00", rows[1][3])
	assert.Equal(t, "275.00", rows[1][5])
	assert.Equal(t, "Paid", rows[1][6])
}

func TestBillsWorkbook_Empty(t *testing.T) {
	data, err := BillsWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
