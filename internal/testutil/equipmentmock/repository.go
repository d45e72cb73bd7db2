package equipmentmock

import (
	"context"

	domain "gearroom-backend/internal/domain/equipment"
)

// Repo is a function-backed mock that satisfies equipment.Repository.
// Only fill in the function fields a test needs.
type Repo struct {
	CreateFn           func(ctx context.Context, e *domain.Equipment) error
	SaveFn             func(ctx context.Context, e *domain.Equipment) error
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.Equipment, error)
	GetByIDForUpdateFn func(ctx context.Context, id uint64) (*domain.Equipment, error)
	GetByBarcodeFn     func(ctx context.Context, code string) (*domain.Equipment, error)
	ExistsSerialFn     func(ctx context.Context, serial string) (bool, error)
	NextSequenceFn     func(ctx context.Context, prefix string) (int, error)
	ListFn             func(ctx context.Context, f domain.ListFilter) ([]domain.Equipment, int64, error)
	SoftDeleteFn       func(ctx context.Context, id uint64, deletedBy uint64) error
	GetCategoryFn      func(ctx context.Context, id uint64) (*domain.Category, error)
	CreateCategoryFn   func(ctx context.Context, c *domain.Category) error
	ListCategoriesFn   func(ctx context.Context) ([]domain.Category, error)
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) Create(ctx context.Context, e *domain.Equipment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, e *domain.Equipment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, e)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Equipment, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Equipment, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByBarcode(ctx context.Context, code string) (*domain.Equipment, error) {
	if m.GetByBarcodeFn != nil {
		return m.GetByBarcodeFn(ctx, code)
	}
	return nil, context.Canceled
}

func (m *Repo) ExistsSerial(ctx context.Context, serial string) (bool, error) {
	if m.ExistsSerialFn != nil {
		return m.ExistsSerialFn(ctx, serial)
	}
	return false, nil
}

func (m *Repo) NextSequence(ctx context.Context, prefix string) (int, error) {
	if m.NextSequenceFn != nil {
		return m.NextSequenceFn(ctx, prefix)
	}
	return 1, nil
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Equipment, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, nil
}

func (m *Repo) SoftDelete(ctx context.Context, id uint64, deletedBy uint64) error {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(ctx, id, deletedBy)
	}
	return nil
}

func (m *Repo) GetCategory(ctx context.Context, id uint64) (*domain.Category, error) {
	if m.GetCategoryFn != nil {
		return m.GetCategoryFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) CreateCategory(ctx context.Context, c *domain.Category) error {
	if m.CreateCategoryFn != nil {
		return m.CreateCategoryFn(ctx, c)
	}
	return nil
}

func (m *Repo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if m.ListCategoriesFn != nil {
		return m.ListCategoriesFn(ctx)
	}
	return nil, nil
}
