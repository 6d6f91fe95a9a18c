package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Settings is the per-merchant business profile, UPI payment fields, tax
// config and print preference. One row per merchant, created with defaults
// on first access and updated by merge-write (absent request fields leave
// stored values untouched).
//
// Invariants: Phone, when non-empty, is exactly 10 digits; UPIID must be set
// before QR generation is allowed.
type Settings struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"-"`
	MerchantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"merchant_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// UPI payment fields
	UPIID           string `gorm:"size:255;default:''" json:"upi_id"`
	MerchantName    string `gorm:"size:255;default:''" json:"merchant_name"`
	TransactionName string `gorm:"size:255;default:''" json:"transaction_name"`

	// Tax config
	TaxEnabled bool            `gorm:"default:false" json:"tax_enabled"`
	TaxName    string          `gorm:"size:50;default:'GST'" json:"tax_name"`
	TaxPercent decimal.Decimal `gorm:"type:decimal(7,4);default:0" json:"tax_percent"`

	// Print preference
	ThermalPrint bool `gorm:"default:true" json:"thermal_print"`

	// Business profile
	BusinessName string `gorm:"size:255;default:''" json:"business_name"`
	Address      string `gorm:"size:500;default:''" json:"address"`
	Phone        string `gorm:"size:10;default:''" json:"phone"`
	Email        string `gorm:"size:255;default:''" json:"email"`
	GSTNumber    string `gorm:"size:50;default:''" json:"gst_number"`
	FSSAI        string `gorm:"size:50;default:''" json:"fssai"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *Settings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Settings model
func (Settings) TableName() string {
	return "settings"
}
