package uowmock

import (
	"context"
	"errors"

	"gearroom-backend/internal/domain/equipment"
	"gearroom-backend/internal/domain/uow"
)

var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork. Fill in the
// function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn          func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinEquipmentTxFn func(ctx context.Context, equipmentID uint64, fn func(r uow.Repos, e *equipment.Equipment) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough wires both transaction shapes straight through to the given
// repos with no transactional behavior. lookup resolves the locked equipment
// row for WithinEquipmentTx.
func Passthrough(repos uow.Repos, lookup func(ctx context.Context, id uint64) (*equipment.Equipment, error)) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(repos)
		},
		WithinEquipmentTxFn: func(ctx context.Context, equipmentID uint64, fn func(r uow.Repos, e *equipment.Equipment) error) error {
			e, err := lookup(ctx, equipmentID)
			if err != nil {
				return err
			}
			return fn(repos, e)
		},
	}
}

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinEquipmentTx(ctx context.Context, equipmentID uint64, fn func(r uow.Repos, e *equipment.Equipment) error) error {
	if m.WithinEquipmentTxFn != nil {
		return m.WithinEquipmentTxFn(ctx, equipmentID, fn)
	}
	return errUnimplemented
}
