package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
)

// SettingsRepository defines the interface for per-merchant settings.
// GetByMerchantID returns (nil, nil) when no settings row exists yet.
type SettingsRepository interface {
	Create(ctx context.Context, settings *entity.Settings) error
	GetByMerchantID(ctx context.Context, merchantID uuid.UUID) (*entity.Settings, error)
	Update(ctx context.Context, settings *entity.Settings) error
	Delete(ctx context.Context, merchantID uuid.UUID) error
}

// IdempotencyRepository defines the interface for idempotency key storage.
type IdempotencyRepository interface {
	Create(ctx context.Context, key *entity.IdempotencyKey) error
	GetByKey(ctx context.Context, key string, merchantID uuid.UUID) (*entity.IdempotencyKey, error)
	DeleteExpired(ctx context.Context) error
}
