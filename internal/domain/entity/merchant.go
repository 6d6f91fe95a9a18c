package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Merchant is both the tenant and the identity record: one merchant, one
// account. PasswordHash may be empty for accounts created through Google
// login; such accounts have no password credential until one is set.
type Merchant struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"size:10" json:"phone"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	GoogleID     *string   `gorm:"size:255;index" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new merchant
func (m *Merchant) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Merchant model
func (Merchant) TableName() string {
	return "merchants"
}

// HasPasswordCredential reports whether the merchant can reauthenticate with
// a password. Deletion and password change require this.
func (m *Merchant) HasPasswordCredential() bool {
	return m.PasswordHash != ""
}
