package mysql

import (
	"context"

	"gorm.io/gorm"

	equipmentDomain "gearroom-backend/internal/domain/equipment"
	"gearroom-backend/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

var _ uow.UnitOfWork = (*GormUoW)(nil)

func bind(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Equipment:    &EquipmentRepository{db: tx},
		Users:        &UserRepository{db: tx},
		Transactions: &TransactionRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(bind(tx))
	})
}

func (u *GormUoW) WithinEquipmentTx(ctx context.Context, equipmentID uint64, fn func(r uow.Repos, e *equipmentDomain.Equipment) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := bind(tx)
		// lock the equipment row up-front to prevent races
		e, err := r.Equipment.GetByIDForUpdate(ctx, equipmentID)
		if err != nil {
			return err
		}
		return fn(r, e)
	})
}
