package uowmock

import (
	"context"
	"errors"
	"testing"

	"gearroom-backend/internal/domain/equipment"
	"gearroom-backend/internal/domain/uow"
	"gearroom-backend/internal/testutil/equipmentmock"
	"gearroom-backend/internal/testutil/transactionmock"
	"gearroom-backend/internal/testutil/usermock"
)

func TestUoW_WithinTx_ForwardsRepos(t *testing.T) {
	ctx := context.Background()
	repos := uow.Repos{
		Equipment:    &equipmentmock.Repo{},
		Users:        &usermock.Repo{},
		Transactions: &transactionmock.Repo{},
	}

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("ctx mismatch")
			}
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.Equipment != repos.Equipment || r.Transactions != repos.Transactions {
			t.Fatalf("repos not forwarded")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}
	if !innerCalled {
		t.Fatalf("inner fn not called")
	}
}

func TestUoW_Unimplemented(t *testing.T) {
	m := New()
	if err := m.WithinTx(context.Background(), func(uow.Repos) error { return nil }); err == nil {
		t.Fatalf("want error from unimplemented WithinTx")
	}
	if err := m.WithinEquipmentTx(context.Background(), 1, func(uow.Repos, *equipment.Equipment) error { return nil }); err == nil {
		t.Fatalf("want error from unimplemented WithinEquipmentTx")
	}
}

func TestPassthrough(t *testing.T) {
	repos := uow.Repos{Equipment: &equipmentmock.Repo{}}
	sentinel := errors.New("no such unit")

	m := Passthrough(repos, func(_ context.Context, id uint64) (*equipment.Equipment, error) {
		if id == 10 {
			return &equipment.Equipment{ID: 10, Name: "Sony FX6"}, nil
		}
		return nil, sentinel
	})

	err := m.WithinEquipmentTx(context.Background(), 10, func(r uow.Repos, e *equipment.Equipment) error {
		if e.ID != 10 || r.Equipment != repos.Equipment {
			t.Fatalf("wrong row or repos: %+v", e)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinEquipmentTx: %v", err)
	}

	err = m.WithinEquipmentTx(context.Background(), 99, func(uow.Repos, *equipment.Equipment) error {
		t.Fatalf("fn must not run for missing rows")
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}
}
