package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is a single product line on an in-progress bill. Price is a
// snapshot taken when the product was added, so later catalog edits do not
// change bills already being assembled.
type LineItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Total returns price × quantity for this line.
func (l LineItem) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Bill is an in-progress bill: an ordered set of line items with at most one
// line per product and every quantity at least 1.
type Bill struct {
	Lines []LineItem `json:"lines"`
}

// AddProduct appends a new line with quantity 1, or increments the quantity
// when a line for the product already exists. It never errors; adding the
// same product repeatedly is how quantities grow.
func (b *Bill) AddProduct(productID uuid.UUID, name string, price decimal.Decimal) {
	for i := range b.Lines {
		if b.Lines[i].ProductID == productID {
			b.Lines[i].Quantity++
			return
		}
	}
	b.Lines = append(b.Lines, LineItem{
		ProductID: productID,
		Name:      name,
		Price:     price,
		Quantity:  1,
	})
}

// ChangeQuantity adjusts a line's quantity by delta, flooring at 1.
// Decrementing a quantity-1 line is a no-op, not a removal. Unknown product
// IDs are ignored.
func (b *Bill) ChangeQuantity(productID uuid.UUID, delta int) {
	for i := range b.Lines {
		if b.Lines[i].ProductID == productID {
			q := b.Lines[i].Quantity + delta
			if q < 1 {
				q = 1
			}
			b.Lines[i].Quantity = q
			return
		}
	}
}

// RemoveLine deletes the line for a product unconditionally. Removing an
// absent product is a no-op.
func (b *Bill) RemoveLine(productID uuid.UUID) {
	for i := range b.Lines {
		if b.Lines[i].ProductID == productID {
			b.Lines = append(b.Lines[:i], b.Lines[i+1:]...)
			return
		}
	}
}

// Reset clears all lines.
func (b *Bill) Reset() {
	b.Lines = nil
}

// IsEmpty reports whether the bill has no lines.
func (b *Bill) IsEmpty() bool {
	return len(b.Lines) == 0
}

// TaxConfig is the tax portion of the merchant's settings.
type TaxConfig struct {
	Enabled bool
	Percent decimal.Decimal
}

// Totals holds the derived amounts of a bill. Values are exact; rounding to
// two decimal places happens only at persistence/presentation boundaries via
// Round, never inside repeated recomputation.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Round returns the totals rounded to two decimal places.
func (t Totals) Round() Totals {
	return Totals{
		Subtotal:   t.Subtotal.Round(2),
		TaxAmount:  t.TaxAmount.Round(2),
		GrandTotal: t.GrandTotal.Round(2),
	}
}

var hundred = decimal.NewFromInt(100)

// ComputeTotals derives subtotal, tax and grand total from the current lines
// and the given tax config. It is a pure function of its inputs: when tax is
// disabled the tax amount is zero regardless of the configured percentage,
// and the grand total is always subtotal + tax.
func (b *Bill) ComputeTotals(tax TaxConfig) Totals {
	subtotal := decimal.Zero
	for _, line := range b.Lines {
		subtotal = subtotal.Add(line.Total())
	}

	taxAmount := decimal.Zero
	if tax.Enabled {
		taxAmount = subtotal.Mul(tax.Percent).Div(hundred)
	}

	return Totals{
		Subtotal:   subtotal,
		TaxAmount:  taxAmount,
		GrandTotal: subtotal.Add(taxAmount),
	}
}
