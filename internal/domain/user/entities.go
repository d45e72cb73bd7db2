package user

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// Elevated roles may check in equipment on behalf of any borrower and
// manage user accounts.
func (r Role) Elevated() bool { return r == RoleAdmin || r == RoleManager }

var (
	ErrNotFound       = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already belongs to an active user")
	ErrHasOpenLoans   = errors.New("user still holds open loans")
	ErrAdminOnly      = errors.New("action requires the admin role")
	ErrInvalidRole    = errors.New("unknown role value")
	ErrNameRequired   = errors.New("user name is required")
	ErrInactiveActor  = errors.New("acting user is not active")
)

type User struct {
	ID        uint64         `gorm:"primaryKey;column:id" json:"id"`
	Name      string         `gorm:"size:120" json:"name"`
	Email     string         `gorm:"size:190;uniqueIndex:ux_users_email_active" json:"email"`
	Role      Role           `gorm:"type:enum('admin','manager','user');default:'user'" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy *uint64        `json:"-"`
}

func (User) TableName() string { return "users" }
