package entity

import "time"

// PhoneIndex maps a normalized 10-digit phone number to an account email so
// phone-based login can resolve to an email/password credential. Created at
// registration, re-pointed best-effort when Settings.Phone changes, deleted
// during account deletion.
type PhoneIndex struct {
	Phone     string    `gorm:"size:10;primaryKey" json:"phone"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the PhoneIndex model
func (PhoneIndex) TableName() string {
	return "phone_to_email"
}
