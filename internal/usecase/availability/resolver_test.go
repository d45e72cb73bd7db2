package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"gearroom-backend/internal/domain/equipment"
	"gearroom-backend/internal/domain/transaction"
	"gearroom-backend/internal/domain/user"
	"gearroom-backend/internal/testutil/equipmentmock"
	"gearroom-backend/internal/testutil/transactionmock"
	"gearroom-backend/internal/testutil/usermock"
)

var testNow = time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)

func TestOverlay(t *testing.T) {
	eid := uint64(10)
	returned := testNow

	openCheckout := &transaction.Transaction{Type: transaction.TypeCheckout, OpenEquipmentID: &eid}
	openMaint := &transaction.Transaction{Type: transaction.TypeMaintenance, OpenEquipmentID: &eid}
	closedCheckout := &transaction.Transaction{Type: transaction.TypeCheckout, ActualReturnDate: &returned}

	tests := []struct {
		name   string
		stored equipment.Status
		open   *transaction.Transaction
		want   equipment.EffectiveStatus
	}{
		{"no open row passes stored through", equipment.StatusAvailable, nil, "available"},
		{"open checkout wins over stored", equipment.StatusAvailable, openCheckout, equipment.EffectiveCheckedOut},
		{"open checkout wins over needs_maintenance", equipment.StatusNeedsMaintenance, openCheckout, equipment.EffectiveCheckedOut},
		{"open maintenance reads as maintenance", equipment.StatusAvailable, openMaint, equipment.EffectiveMaintenance},
		{"closed row is invisible", equipment.StatusAvailable, closedCheckout, "available"},
		{"stored unavailable passes through", equipment.StatusUnavailable, nil, "unavailable"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlay(tc.stored, tc.open); got != tc.want {
				t.Fatalf("Overlay = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestResolve_OpenLoan(t *testing.T) {
	eid := uint64(10)
	due := testNow.Add(-12 * time.Hour) // overdue by half a day

	equip := &equipmentmock.Repo{
		GetByIDFn: func(_ context.Context, id uint64) (*equipment.Equipment, error) {
			return &equipment.Equipment{ID: id, Name: "Sony FX6", Status: equipment.StatusAvailable}, nil
		},
	}
	txs := &transactionmock.Repo{
		GetOpenByEquipmentIDFn: func(context.Context, uint64) (*transaction.Transaction, error) {
			return &transaction.Transaction{
				Type: transaction.TypeCheckout, EquipmentID: eid, OpenEquipmentID: &eid,
				UserID: 7, CheckoutDate: testNow.Add(-48 * time.Hour), ExpectedReturnDate: &due,
			}, nil
		},
	}
	users := &usermock.Repo{
		GetByIDFn: func(context.Context, uint64) (*user.User, error) {
			return &user.User{ID: 7, Name: "Dina"}, nil
		},
	}

	r := NewResolver(equip, txs, users)
	r.now = func() time.Time { return testNow }

	got, err := r.Resolve(context.Background(), eid)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Status != equipment.EffectiveCheckedOut {
		t.Fatalf("status = %s, want checked_out", got.Status)
	}
	if got.Borrower == nil || got.Borrower.ID != 7 || got.Borrower.Name != "Dina" {
		t.Fatalf("borrower = %+v", got.Borrower)
	}
	if got.DaysOut == nil || *got.DaysOut != 2 {
		t.Fatalf("days out = %v, want 2", got.DaysOut)
	}
	if !got.Overdue {
		t.Fatalf("want overdue")
	}
}

func TestResolve_Idle(t *testing.T) {
	equip := &equipmentmock.Repo{
		GetByIDFn: func(_ context.Context, id uint64) (*equipment.Equipment, error) {
			return &equipment.Equipment{ID: id, Status: equipment.StatusNeedsMaintenance}, nil
		},
	}
	txs := &transactionmock.Repo{
		GetOpenByEquipmentIDFn: func(context.Context, uint64) (*transaction.Transaction, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	r := NewResolver(equip, txs, &usermock.Repo{})
	got, err := r.Resolve(context.Background(), 10)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Status != equipment.EffectiveStatus(equipment.StatusNeedsMaintenance) {
		t.Fatalf("status = %s, want needs_maintenance", got.Status)
	}
	if got.Borrower != nil || got.DaysOut != nil || got.Overdue {
		t.Fatalf("idle unit must carry no loan fields: %+v", got)
	}
}

func TestResolve_NotFound(t *testing.T) {
	equip := &equipmentmock.Repo{
		GetByIDFn: func(context.Context, uint64) (*equipment.Equipment, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	r := NewResolver(equip, &transactionmock.Repo{}, &usermock.Repo{})
	if _, err := r.Resolve(context.Background(), 9999); !errors.Is(err, equipment.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
