package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillStatusPaid is the only status assigned by the finalize flow.
const BillStatusPaid = "Paid"

// Bill is a finalized transaction: an immutable snapshot of line items and
// totals. Bills are append-only history; there is no update or delete path
// outside of full account deletion. Date is assigned by the database at
// write time, never by the client.
type Bill struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	MerchantID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"merchant_id"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"tax_amount"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	Status      string          `gorm:"size:50;not null;default:'Paid'" json:"status"`
	Date        time.Time       `gorm:"autoCreateTime;index" json:"date"`

	Items []BillItem `gorm:"foreignKey:BillID" json:"items"`
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// BillItem is a line-item snapshot on a finalized bill. Name and price are
// copied from the product at add-time and stay valid after the product is
// edited or removed from the catalog.
type BillItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BillID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"bill_id"`
	ProductID uuid.UUID       `gorm:"type:uuid" json:"product_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Total     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`
}

// BeforeCreate generates a UUID before creating a new bill item
func (bi *BillItem) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}
