package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"gearroom-backend/internal/domain/audit"
	"gearroom-backend/internal/domain/uow"
	"gearroom-backend/internal/domain/user"
)

type CreateInput struct {
	Name    string
	Email   string
	Role    user.Role
	ActorID uint64
}

type UserDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      user.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Usecase struct {
	uow   uow.UnitOfWork
	repos uow.Repos
	audit audit.Emitter
	now   func() time.Time
}

func NewUsecase(u uow.UnitOfWork, repos uow.Repos, emitter audit.Emitter) *Usecase {
	return &Usecase{uow: u, repos: repos, audit: emitter, now: func() time.Time { return time.Now().UTC() }}
}

func toDTO(u *user.User) UserDTO {
	return UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

// Create registers a borrower account. Admin-only.
func (uc *Usecase) Create(ctx context.Context, in CreateInput) (*UserDTO, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, user.ErrNameRequired
	}
	role := in.Role
	if role == "" {
		role = user.RoleUser
	}
	if !user.ValidRole(role) {
		return nil, user.ErrInvalidRole
	}

	var created user.User
	err := uc.uow.WithinTx(ctx, func(r uow.Repos) error {
		actor, err := r.Users.GetByID(ctx, in.ActorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return user.ErrInactiveActor
			}
			return err
		}
		if actor.Role != user.RoleAdmin {
			return user.ErrAdminOnly
		}

		if _, err := r.Users.GetByEmail(ctx, in.Email); err == nil {
			return user.ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		created = user.User{Name: strings.TrimSpace(in.Name), Email: in.Email, Role: role}
		return r.Users.Create(ctx, &created)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Emit(ctx, audit.Record{
		At: uc.now(), ActorID: in.ActorID,
		Action: "user.created", Entity: "user", EntityID: created.ID,
		Detail: map[string]any{"role": created.Role},
	})
	dto := toDTO(&created)
	return &dto, nil
}

// SoftDelete deactivates a user. Admin-only, and rejected while the user
// still holds open loans.
func (uc *Usecase) SoftDelete(ctx context.Context, userID, actorID uint64) error {
	err := uc.uow.WithinTx(ctx, func(r uow.Repos) error {
		actor, err := r.Users.GetByID(ctx, actorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return user.ErrInactiveActor
			}
			return err
		}
		if actor.Role != user.RoleAdmin {
			return user.ErrAdminOnly
		}

		if _, err := r.Users.GetByID(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return user.ErrNotFound
			}
			return err
		}
		open, err := r.Transactions.CountOpenByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if open > 0 {
			return user.ErrHasOpenLoans
		}
		return r.Users.SoftDelete(ctx, userID, actorID)
	})
	if err != nil {
		return err
	}

	uc.audit.Emit(ctx, audit.Record{
		At: uc.now(), ActorID: actorID,
		Action: "user.deleted", Entity: "user", EntityID: userID,
	})
	return nil
}

func (uc *Usecase) Get(ctx context.Context, id uint64) (*UserDTO, error) {
	u, err := uc.repos.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	dto := toDTO(u)
	return &dto, nil
}

func (uc *Usecase) List(ctx context.Context) ([]UserDTO, error) {
	users, err := uc.repos.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, toDTO(&users[i]))
	}
	return out, nil
}
