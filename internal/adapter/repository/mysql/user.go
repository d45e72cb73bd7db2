package mysql

import (
	"context"

	"gorm.io/gorm"

	userDomain "gearroom-backend/internal/domain/user"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).First(&out, "id = ?", id)
	return &out, res.Error
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("email = ?", email).First(&out)
	return &out, res.Error
}

func (r *UserRepository) List(ctx context.Context) ([]userDomain.User, error) {
	var out []userDomain.User
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *UserRepository) SoftDelete(ctx context.Context, id uint64, deletedBy uint64) error {
	tx := r.db.WithContext(ctx).Model(&userDomain.User{}).
		Where("id = ?", id).
		Update("deleted_by", deletedBy)
	if tx.Error != nil {
		return tx.Error
	}
	return r.db.WithContext(ctx).Delete(&userDomain.User{}, "id = ?", id).Error
}
