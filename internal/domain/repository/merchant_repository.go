package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
)

// MerchantRepository defines the interface for merchant (account) data
// operations. Get methods return (nil, nil) when no record exists.
type MerchantRepository interface {
	Create(ctx context.Context, merchant *entity.Merchant) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Merchant, error)
	GetByEmail(ctx context.Context, email string) (*entity.Merchant, error)
	GetByGoogleID(ctx context.Context, googleID string) (*entity.Merchant, error)
	Update(ctx context.Context, merchant *entity.Merchant) error
	// Delete removes the identity record. In the account-deletion cascade
	// this runs last so a mid-cascade failure leaves a retryable login.
	Delete(ctx context.Context, id uuid.UUID) error
}

// PhoneIndexRepository defines the interface for the phone-to-email index.
type PhoneIndexRepository interface {
	Upsert(ctx context.Context, index *entity.PhoneIndex) error
	GetByPhone(ctx context.Context, phone string) (*entity.PhoneIndex, error)
	Delete(ctx context.Context, phone string) error
}
