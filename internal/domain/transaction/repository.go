package transaction

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	Save(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, id uint64) (*Transaction, error)
	// GetOpenByEquipmentID returns the open row for a unit, or
	// ErrNotFound-compatible (gorm.ErrRecordNotFound) when none exists. The
	// engine's invariant guarantees at most one.
	GetOpenByEquipmentID(ctx context.Context, equipmentID uint64) (*Transaction, error)
	// HasOpenByEquipmentID is the cheap existence probe used by registry
	// gates (status lock, soft delete).
	HasOpenByEquipmentID(ctx context.Context, equipmentID uint64) (bool, error)
	// CountOpenByUserID counts open loans held by a borrower.
	CountOpenByUserID(ctx context.Context, userID uint64) (int64, error)
	// ListOpenByEquipmentIDs returns open rows for a set of units keyed by
	// equipment id (read-side convenience for list views).
	ListOpenByEquipmentIDs(ctx context.Context, equipmentIDs []uint64) (map[uint64]Transaction, error)
	// ListOverdue returns open checkouts whose expected return is strictly
	// before now.
	ListOverdue(ctx context.Context, now time.Time) ([]Transaction, error)
	ListByBatchID(ctx context.Context, batchID string) ([]Transaction, error)
}
