package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/billpoint/billpoint-api/internal/domain/entity"
)

// BillRepository defines the interface for transaction history. Bills are
// append-only: there is deliberately no Update, and the only Delete is the
// batched one used by account deletion.
type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	GetByID(ctx context.Context, merchantID, id uuid.UUID) (*entity.Bill, error)
	// List returns the merchant's bills ordered by date descending. When
	// from/to are non-nil the window is inclusive at both ends.
	List(ctx context.Context, merchantID uuid.UUID, from, to *time.Time) ([]entity.Bill, error)
	// DeleteBatchByMerchant hard-deletes up to limit bills (with their
	// items) and reports how many bills went away.
	DeleteBatchByMerchant(ctx context.Context, merchantID uuid.UUID, limit int) (int64, error)
}
