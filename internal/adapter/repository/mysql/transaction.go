package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	txDomain "gearroom-backend/internal/domain/transaction"
)

type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *txDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) Save(ctx context.Context, t *txDomain.Transaction) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uint64) (*txDomain.Transaction, error) {
	var out txDomain.Transaction
	res := r.db.WithContext(ctx).First(&out, "id = ?", id)
	return &out, res.Error
}

func (r *TransactionRepository) GetOpenByEquipmentID(ctx context.Context, equipmentID uint64) (*txDomain.Transaction, error) {
	var out txDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("equipment_id = ? AND actual_return_date IS NULL", equipmentID).
		Order("checkout_date DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *TransactionRepository) HasOpenByEquipmentID(ctx context.Context, equipmentID uint64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&txDomain.Transaction{}).
		Where("equipment_id = ? AND actual_return_date IS NULL", equipmentID).
		Count(&n).Error
	return n > 0, err
}

func (r *TransactionRepository) CountOpenByUserID(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&txDomain.Transaction{}).
		Where("user_id = ? AND actual_return_date IS NULL", userID).
		Count(&n).Error
	return n, err
}

func (r *TransactionRepository) ListOpenByEquipmentIDs(ctx context.Context, equipmentIDs []uint64) (map[uint64]txDomain.Transaction, error) {
	if len(equipmentIDs) == 0 {
		return map[uint64]txDomain.Transaction{}, nil
	}
	var rows []txDomain.Transaction
	err := r.db.WithContext(ctx).
		Where("equipment_id IN ? AND actual_return_date IS NULL", equipmentIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint64]txDomain.Transaction, len(rows))
	for _, row := range rows {
		out[row.EquipmentID] = row
	}
	return out, nil
}

func (r *TransactionRepository) ListOverdue(ctx context.Context, now time.Time) ([]txDomain.Transaction, error) {
	var rows []txDomain.Transaction
	err := r.db.WithContext(ctx).
		Where("type = ? AND actual_return_date IS NULL AND expected_return_date < ?", txDomain.TypeCheckout, now).
		Order("expected_return_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *TransactionRepository) ListByBatchID(ctx context.Context, batchID string) ([]txDomain.Transaction, error) {
	var rows []txDomain.Transaction
	err := r.db.WithContext(ctx).
		Where("batch_id = ? OR checkin_batch_id = ?", batchID, batchID).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

var _ txDomain.Repository = (*TransactionRepository)(nil)
