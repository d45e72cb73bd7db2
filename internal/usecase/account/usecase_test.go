package account

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"gearroom-backend/internal/domain/audit"
	"gearroom-backend/internal/domain/uow"
	"gearroom-backend/internal/domain/user"
	"gearroom-backend/internal/testutil/transactionmock"
	"gearroom-backend/internal/testutil/uowmock"
	"gearroom-backend/internal/testutil/usermock"
)

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, audit.Record) {}

func makeUsecase(users *usermock.Repo, txs *transactionmock.Repo) *Usecase {
	if txs == nil {
		txs = &transactionmock.Repo{}
	}
	repos := uow.Repos{Users: users, Transactions: txs}
	u := &uowmock.UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(repos)
		},
	}
	return NewUsecase(u, repos, nopEmitter{})
}

func admin() *user.User { return &user.User{ID: 1, Name: "Root", Role: user.RoleAdmin} }

func TestAccountCreate_Happy(t *testing.T) {
	var created *user.User
	users := &usermock.Repo{
		GetByIDFn: func(context.Context, uint64) (*user.User, error) { return admin(), nil },
		GetByEmailFn: func(context.Context, string) (*user.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CreateFn: func(_ context.Context, u *user.User) error {
			u.ID = 42
			created = u
			return nil
		},
	}
	uc := makeUsecase(users, nil)

	dto, err := uc.Create(context.Background(), CreateInput{
		Name: "  Dina  ", Email: "dina@example.com", ActorID: 1,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.ID != 42 || dto.Name != "Dina" {
		t.Fatalf("dto = %+v", dto)
	}
	if created.Role != user.RoleUser {
		t.Fatalf("default role = %s, want user", created.Role)
	}
}

func TestAccountCreate_Rejections(t *testing.T) {
	manager := &user.User{ID: 2, Role: user.RoleManager}

	tests := []struct {
		name    string
		users   *usermock.Repo
		in      CreateInput
		wantErr error
	}{
		{
			name:    "blank name",
			users:   &usermock.Repo{},
			in:      CreateInput{Name: "   ", Email: "x@example.com", ActorID: 1},
			wantErr: user.ErrNameRequired,
		},
		{
			name:    "bad role",
			users:   &usermock.Repo{},
			in:      CreateInput{Name: "Dina", Email: "x@example.com", Role: "root", ActorID: 1},
			wantErr: user.ErrInvalidRole,
		},
		{
			name: "manager is not enough",
			users: &usermock.Repo{
				GetByIDFn: func(context.Context, uint64) (*user.User, error) { return manager, nil },
			},
			in:      CreateInput{Name: "Dina", Email: "x@example.com", ActorID: 2},
			wantErr: user.ErrAdminOnly,
		},
		{
			name: "missing actor",
			users: &usermock.Repo{
				GetByIDFn: func(context.Context, uint64) (*user.User, error) {
					return nil, gorm.ErrRecordNotFound
				},
			},
			in:      CreateInput{Name: "Dina", Email: "x@example.com", ActorID: 99},
			wantErr: user.ErrInactiveActor,
		},
		{
			name: "email taken",
			users: &usermock.Repo{
				GetByIDFn: func(context.Context, uint64) (*user.User, error) { return admin(), nil },
				GetByEmailFn: func(context.Context, string) (*user.User, error) {
					return &user.User{ID: 5}, nil
				},
			},
			in:      CreateInput{Name: "Dina", Email: "dina@example.com", ActorID: 1},
			wantErr: user.ErrEmailTaken,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uc := makeUsecase(tc.users, nil)
			if _, err := uc.Create(context.Background(), tc.in); !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestAccountSoftDelete(t *testing.T) {
	deleted := false
	users := &usermock.Repo{
		GetByIDFn: func(_ context.Context, id uint64) (*user.User, error) {
			if id == 1 {
				return admin(), nil
			}
			if id == 42 {
				return &user.User{ID: 42, Role: user.RoleUser}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		SoftDeleteFn: func(context.Context, uint64, uint64) error {
			deleted = true
			return nil
		},
	}

	// blocked while loans are open
	busy := &transactionmock.Repo{
		CountOpenByUserIDFn: func(context.Context, uint64) (int64, error) { return 2, nil },
	}
	uc := makeUsecase(users, busy)
	if err := uc.SoftDelete(context.Background(), 42, 1); !errors.Is(err, user.ErrHasOpenLoans) {
		t.Fatalf("err = %v, want ErrHasOpenLoans", err)
	}
	if deleted {
		t.Fatalf("delete ran despite open loans")
	}

	// fine once everything is returned
	uc = makeUsecase(users, nil)
	if err := uc.SoftDelete(context.Background(), 42, 1); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if !deleted {
		t.Fatalf("delete did not run")
	}

	if err := uc.SoftDelete(context.Background(), 9999, 1); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
