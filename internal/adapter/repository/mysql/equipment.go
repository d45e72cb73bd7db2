package mysql

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	equipmentDomain "gearroom-backend/internal/domain/equipment"
)

const maxPageSize = 100

type EquipmentRepository struct{ db *gorm.DB }

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository { return &EquipmentRepository{db: db} }

func (r *EquipmentRepository) Create(ctx context.Context, e *equipmentDomain.Equipment) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EquipmentRepository) Save(ctx context.Context, e *equipmentDomain.Equipment) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id uint64) (*equipmentDomain.Equipment, error) {
	var out equipmentDomain.Equipment
	res := r.db.WithContext(ctx).Preload("Category").First(&out, "id = ?", id)
	return &out, res.Error
}

func (r *EquipmentRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*equipmentDomain.Equipment, error) {
	var out equipmentDomain.Equipment
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&out, "id = ?", id)
	return &out, res.Error
}

func (r *EquipmentRepository) GetByBarcode(ctx context.Context, code string) (*equipmentDomain.Equipment, error) {
	var out equipmentDomain.Equipment
	res := r.db.WithContext(ctx).Preload("Category").Where("barcode = ?", code).First(&out)
	return &out, res.Error
}

func (r *EquipmentRepository) ExistsSerial(ctx context.Context, serial string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&equipmentDomain.Equipment{}).
		Where("serial_number = ?", serial).
		Count(&n).Error
	return n > 0, err
}

// NextSequence scans all barcodes in the TYPE-YY bucket, soft-deleted rows
// included, and returns max(NNNNN)+1. Deleted units keep their numbers: the
// unique index on barcode still holds their rows, so reissuing a freed
// sequence would collide on insert.
func (r *EquipmentRepository) NextSequence(ctx context.Context, prefix string) (int, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&equipmentDomain.Equipment{}).
		Where("barcode LIKE ?", prefix+"-%").
		Pluck("barcode", &codes).Error
	if err != nil {
		return 0, err
	}
	max := 0
	for _, c := range codes {
		rest := strings.TrimPrefix(c, prefix+"-")
		var n int
		if _, err := fmt.Sscanf(rest, "%d", &n); err == nil && n > max {
			max = n
		}
	}
	return max + 1, nil
}

func (r *EquipmentRepository) List(ctx context.Context, f equipmentDomain.ListFilter) ([]equipmentDomain.Equipment, int64, error) {
	q := r.db.WithContext(ctx).Model(&equipmentDomain.Equipment{})
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("name LIKE ? OR barcode LIKE ? OR serial_number LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 || limit > maxPageSize {
		limit = 20
	}

	var items []equipmentDomain.Equipment
	err := q.Preload("Category").
		Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	return items, total, err
}

func (r *EquipmentRepository) SoftDelete(ctx context.Context, id uint64, deletedBy uint64) error {
	tx := r.db.WithContext(ctx).Model(&equipmentDomain.Equipment{}).
		Where("id = ?", id).
		Update("deleted_by", deletedBy)
	if tx.Error != nil {
		return tx.Error
	}
	return r.db.WithContext(ctx).Delete(&equipmentDomain.Equipment{}, "id = ?", id).Error
}

func (r *EquipmentRepository) GetCategory(ctx context.Context, id uint64) (*equipmentDomain.Category, error) {
	var out equipmentDomain.Category
	res := r.db.WithContext(ctx).First(&out, "id = ?", id)
	return &out, res.Error
}

func (r *EquipmentRepository) CreateCategory(ctx context.Context, c *equipmentDomain.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *EquipmentRepository) ListCategories(ctx context.Context) ([]equipmentDomain.Category, error) {
	var out []equipmentDomain.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}
