package uow

import (
	"context"

	"gearroom-backend/internal/domain/equipment"
	"gearroom-backend/internal/domain/transaction"
	"gearroom-backend/internal/domain/user"
)

// Repos is the full repository set rebound to one storage transaction.
type Repos struct {
	Equipment    equipment.Repository
	Users        user.Repository
	Transactions transaction.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn inside one atomic storage transaction; any error
	// rolls the whole batch back.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinEquipmentTx locks the equipment row up-front, then passes it in.
	WithinEquipmentTx(ctx context.Context, equipmentID uint64, fn func(r Repos, e *equipment.Equipment) error) error
}
