package transactionmock

import (
	"context"
	"time"

	domain "gearroom-backend/internal/domain/transaction"
)

// Repo is a function-backed mock that satisfies transaction.Repository.
type Repo struct {
	CreateFn                 func(ctx context.Context, t *domain.Transaction) error
	SaveFn                   func(ctx context.Context, t *domain.Transaction) error
	GetByIDFn                func(ctx context.Context, id uint64) (*domain.Transaction, error)
	GetOpenByEquipmentIDFn   func(ctx context.Context, equipmentID uint64) (*domain.Transaction, error)
	HasOpenByEquipmentIDFn   func(ctx context.Context, equipmentID uint64) (bool, error)
	CountOpenByUserIDFn      func(ctx context.Context, userID uint64) (int64, error)
	ListOpenByEquipmentIDsFn func(ctx context.Context, equipmentIDs []uint64) (map[uint64]domain.Transaction, error)
	ListOverdueFn            func(ctx context.Context, now time.Time) ([]domain.Transaction, error)
	ListByBatchIDFn          func(ctx context.Context, batchID string) ([]domain.Transaction, error)
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) Create(ctx context.Context, t *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, t *domain.Transaction) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Transaction, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetOpenByEquipmentID(ctx context.Context, equipmentID uint64) (*domain.Transaction, error) {
	if m.GetOpenByEquipmentIDFn != nil {
		return m.GetOpenByEquipmentIDFn(ctx, equipmentID)
	}
	return nil, context.Canceled
}

func (m *Repo) HasOpenByEquipmentID(ctx context.Context, equipmentID uint64) (bool, error) {
	if m.HasOpenByEquipmentIDFn != nil {
		return m.HasOpenByEquipmentIDFn(ctx, equipmentID)
	}
	return false, nil
}

func (m *Repo) CountOpenByUserID(ctx context.Context, userID uint64) (int64, error) {
	if m.CountOpenByUserIDFn != nil {
		return m.CountOpenByUserIDFn(ctx, userID)
	}
	return 0, nil
}

func (m *Repo) ListOpenByEquipmentIDs(ctx context.Context, equipmentIDs []uint64) (map[uint64]domain.Transaction, error) {
	if m.ListOpenByEquipmentIDsFn != nil {
		return m.ListOpenByEquipmentIDsFn(ctx, equipmentIDs)
	}
	return map[uint64]domain.Transaction{}, nil
}

func (m *Repo) ListOverdue(ctx context.Context, now time.Time) ([]domain.Transaction, error) {
	if m.ListOverdueFn != nil {
		return m.ListOverdueFn(ctx, now)
	}
	return nil, nil
}

func (m *Repo) ListByBatchID(ctx context.Context, batchID string) ([]domain.Transaction, error) {
	if m.ListByBatchIDFn != nil {
		return m.ListByBatchIDFn(ctx, batchID)
	}
	return nil, nil
}
