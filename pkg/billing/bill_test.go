package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBill_AddProduct(t *testing.T) {
	tea := uuid.New()
	samosa := uuid.New()

	var b Bill
	b.AddProduct(tea, "Tea", price("10"))
	b.AddProduct(samosa, "Samosa", price("15"))
	b.AddProduct(tea, "Tea", price("10"))

	require.Len(t, b.Lines, 2, "duplicate add must increment, not duplicate the row")
	assert.Equal(t, 2, b.Lines[0].Quantity)
	assert.Equal(t, 1, b.Lines[1].Quantity)
	assert.Equal(t, "Tea", b.Lines[0].Name)
}

func TestBill_ChangeQuantity(t *testing.T) {
	id := uuid.New()

	var b Bill
	b.AddProduct(id, "Coffee", price("20"))

	b.ChangeQuantity(id, +3)
	assert.Equal(t, 4, b.Lines[0].Quantity)

	b.ChangeQuantity(id, -10)
	assert.Equal(t, 1, b.Lines[0].Quantity, "quantity floors at 1")

	b.ChangeQuantity(id, -1)
	assert.Equal(t, 1, b.Lines[0].Quantity, "decrement at quantity 1 is a no-op, not a removal")
	assert.Len(t, b.Lines, 1)

	b.ChangeQuantity(uuid.New(), +5)
	assert.Len(t, b.Lines, 1, "unknown product id is a no-op")
}

func TestBill_RemoveLine(t *testing.T) {
	a, c := uuid.New(), uuid.New()

	var b Bill
	b.AddProduct(a, "A", price("1"))
	b.AddProduct(c, "C", price("2"))

	b.RemoveLine(a)
	require.Len(t, b.Lines, 1)
	assert.Equal(t, c, b.Lines[0].ProductID)

	b.RemoveLine(uuid.New())
	assert.Len(t, b.Lines, 1, "removing an absent id is a no-op")

	b.RemoveLine(c)
	assert.True(t, b.IsEmpty())
}

// Any sequence of mutations must keep product IDs unique and quantities >= 1.
func TestBill_Invariants(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	var b Bill
	for i := 0; i < 30; i++ {
		id := ids[i%len(ids)]
		switch i % 5 {
		case 0, 1:
			b.AddProduct(id, "P", price("9.50"))
		case 2:
			b.ChangeQuantity(id, -2)
		case 3:
			b.ChangeQuantity(id, +1)
		case 4:
			b.RemoveLine(id)
		}

		seen := map[uuid.UUID]bool{}
		for _, line := range b.Lines {
			assert.GreaterOrEqual(t, line.Quantity, 1)
			assert.False(t, seen[line.ProductID], "duplicate line for %s", line.ProductID)
			seen[line.ProductID] = true
		}
	}
}

func TestBill_ComputeTotals(t *testing.T) {
	var b Bill
	b.AddProduct(uuid.New(), "A", price("100"))
	b.ChangeQuantity(b.Lines[0].ProductID, +1) // qty 2
	b.AddProduct(uuid.New(), "B", price("50"))

	totals := b.ComputeTotals(TaxConfig{Enabled: true, Percent: price("10")})
	assert.True(t, totals.Subtotal.Equal(price("250")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.TaxAmount.Equal(price("25")), "tax = %s", totals.TaxAmount)
	assert.True(t, totals.GrandTotal.Equal(price("275")), "grand = %s", totals.GrandTotal)

	// Pure: same inputs, same outputs.
	again := b.ComputeTotals(TaxConfig{Enabled: true, Percent: price("10")})
	assert.True(t, totals.Subtotal.Equal(again.Subtotal))
	assert.True(t, totals.GrandTotal.Equal(again.GrandTotal))
}

func TestBill_ComputeTotals_TaxDisabled(t *testing.T) {
	var b Bill
	b.AddProduct(uuid.New(), "A", price("99.99"))

	totals := b.ComputeTotals(TaxConfig{Enabled: false, Percent: price("18")})
	assert.True(t, totals.TaxAmount.IsZero(), "tax must be zero when disabled regardless of percent")
	assert.True(t, totals.GrandTotal.Equal(totals.Subtotal))
}

func TestBill_ComputeTotals_GrandIsSubtotalPlusTax(t *testing.T) {
	var b Bill
	b.AddProduct(uuid.New(), "A", price("33.33"))
	b.ChangeQuantity(b.Lines[0].ProductID, +2)
	b.AddProduct(uuid.New(), "B", price("0.07"))

	totals := b.ComputeTotals(TaxConfig{Enabled: true, Percent: price("7.5")})
	assert.True(t, totals.GrandTotal.Equal(totals.Subtotal.Add(totals.TaxAmount)))
}

func TestTotals_Round(t *testing.T) {
	var b Bill
	b.AddProduct(uuid.New(), "A", price("10.005"))

	exact := b.ComputeTotals(TaxConfig{Enabled: true, Percent: price("3")})
	rounded := exact.Round()

	assert.Equal(t, "10.01", rounded.Subtotal.StringFixed(2))
	// The exact value keeps full precision until Round is called.
	assert.True(t, exact.Subtotal.Equal(price("10.005")))
}

func TestBill_Reset(t *testing.T) {
	var b Bill
	b.AddProduct(uuid.New(), "A", price("5"))
	b.Reset()
	assert.True(t, b.IsEmpty())
	assert.True(t, b.ComputeTotals(TaxConfig{}).Subtotal.IsZero())
}
