package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "gearroom-backend/internal/domain/transaction"
	"gearroom-backend/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type transactionSQLite struct {
	ID              uint64  `gorm:"primaryKey;column:id"`
	Type            string  `gorm:"type:text;column:type"` // ← no enum
	EquipmentID     uint64  `gorm:"column:equipment_id"`
	OpenEquipmentID *uint64 `gorm:"column:open_equipment_id;uniqueIndex:ux_transactions_open_equipment"`
	UserID          uint64  `gorm:"column:user_id"`

	BatchID        string  `gorm:"column:batch_id"`
	CheckinBatchID *string `gorm:"column:checkin_batch_id"`

	CheckoutDate       time.Time  `gorm:"column:checkout_date"`
	ExpectedReturnDate *time.Time `gorm:"column:expected_return_date"`
	ActualReturnDate   *time.Time `gorm:"column:actual_return_date"`

	ConditionAtCheckout string  `gorm:"type:text;column:condition_at_checkout"`
	ConditionAtReturn   *string `gorm:"type:text;column:condition_at_return"`
	ReturnLocation      *string `gorm:"type:text;column:return_location"`

	Purpose     string  `gorm:"type:text;column:purpose"`
	Notes       string  `gorm:"type:text;column:notes"`
	CreatedBy   uint64  `gorm:"column:created_by"`
	CheckedInBy *uint64 `gorm:"column:checked_in_by"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}

func (transactionSQLite) TableName() string { return "transactions" }

// openTransactionTestDB enables TranslateError so constraint violations
// surface as gorm.ErrDuplicatedKey, same as production.
func openTransactionTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&transactionSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeOpenCheckout(equipmentID, userID uint64, due time.Time) *domain.Transaction {
	return &domain.Transaction{
		Type:                domain.TypeCheckout,
		EquipmentID:         equipmentID,
		OpenEquipmentID:     &equipmentID,
		UserID:              userID,
		BatchID:             id.NewID32(),
		CheckoutDate:        time.Now().UTC(),
		ExpectedReturnDate:  &due,
		ConditionAtCheckout: "functional",
		Purpose:             domain.PurposeEvents,
		CreatedBy:           userID,
	}
}

func TestTransactionOpenRowQueries(t *testing.T) {
	db := openTransactionTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()
	due := time.Now().UTC().Add(48 * time.Hour)

	open := makeOpenCheckout(10, 1, due)
	if err := repo.Create(ctx, open); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetOpenByEquipmentID(ctx, 10)
	if err != nil {
		t.Fatalf("GetOpenByEquipmentID: %v", err)
	}
	if got.ID != open.ID || !got.Open() {
		t.Fatalf("open row mismatch: %+v", got)
	}

	has, err := repo.HasOpenByEquipmentID(ctx, 10)
	if err != nil || !has {
		t.Fatalf("HasOpenByEquipmentID = %v, %v; want true", has, err)
	}

	n, err := repo.CountOpenByUserID(ctx, 1)
	if err != nil || n != 1 {
		t.Fatalf("CountOpenByUserID = %d, %v; want 1", n, err)
	}

	// close it: equipment 10 no longer reads as open
	returned := time.Now().UTC()
	got.ActualReturnDate = &returned
	got.OpenEquipmentID = nil
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := repo.GetOpenByEquipmentID(ctx, 10); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetOpenByEquipmentID after close err = %v, want ErrRecordNotFound", err)
	}
	has, err = repo.HasOpenByEquipmentID(ctx, 10)
	if err != nil || has {
		t.Fatalf("HasOpenByEquipmentID after close = %v, %v; want false", has, err)
	}
	n, err = repo.CountOpenByUserID(ctx, 1)
	if err != nil || n != 0 {
		t.Fatalf("CountOpenByUserID after close = %d, %v; want 0", n, err)
	}
}

// The unique index on open_equipment_id is the storage backstop for the
// one-open-transaction-per-unit invariant: whatever the callers saw before
// inserting, the second open row must be rejected.
func TestTransactionSecondOpenRowRejected(t *testing.T) {
	db := openTransactionTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()
	due := time.Now().UTC().Add(48 * time.Hour)

	if err := repo.Create(ctx, makeOpenCheckout(10, 1, due)); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	err := repo.Create(ctx, makeOpenCheckout(10, 2, due))
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("second open Create err = %v, want ErrDuplicatedKey", err)
	}

	// closed rows don't hold the slot: NULLs never collide
	first, err := repo.GetOpenByEquipmentID(ctx, 10)
	if err != nil {
		t.Fatalf("GetOpenByEquipmentID: %v", err)
	}
	returned := time.Now().UTC()
	first.ActualReturnDate = &returned
	first.OpenEquipmentID = nil
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Create(ctx, makeOpenCheckout(10, 2, due)); err != nil {
		t.Fatalf("Create after close: %v", err)
	}
}

func TestTransactionListOpenByEquipmentIDs(t *testing.T) {
	db := openTransactionTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()
	due := time.Now().UTC().Add(48 * time.Hour)

	for _, eid := range []uint64{10, 11} {
		if err := repo.Create(ctx, makeOpenCheckout(eid, 1, due)); err != nil {
			t.Fatalf("Create(%d): %v", eid, err)
		}
	}

	open, err := repo.ListOpenByEquipmentIDs(ctx, []uint64{10, 11, 12})
	if err != nil {
		t.Fatalf("ListOpenByEquipmentIDs: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("len(open) = %d, want 2", len(open))
	}
	if _, ok := open[12]; ok {
		t.Fatalf("equipment 12 should not appear")
	}
	if open[10].EquipmentID != 10 {
		t.Fatalf("map keyed wrong: %+v", open[10])
	}

	empty, err := repo.ListOpenByEquipmentIDs(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty input: %v, %v", empty, err)
	}
}

func TestTransactionListOverdue(t *testing.T) {
	db := openTransactionTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	late := makeOpenCheckout(10, 1, past)
	onTime := makeOpenCheckout(11, 1, future)
	if err := repo.Create(ctx, late); err != nil {
		t.Fatalf("Create late: %v", err)
	}
	if err := repo.Create(ctx, onTime); err != nil {
		t.Fatalf("Create onTime: %v", err)
	}

	// a returned-late row is not overdue anymore
	closed := makeOpenCheckout(12, 2, past)
	returned := now
	closed.ActualReturnDate = &returned
	closed.OpenEquipmentID = nil
	if err := repo.Create(ctx, closed); err != nil {
		t.Fatalf("Create closed: %v", err)
	}

	rows, err := repo.ListOverdue(ctx, now)
	if err != nil {
		t.Fatalf("ListOverdue: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != late.ID {
		t.Fatalf("ListOverdue = %+v, want only the late open row", rows)
	}
}

func TestTransactionListByBatchID(t *testing.T) {
	db := openTransactionTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()
	due := time.Now().UTC().Add(48 * time.Hour)

	a := makeOpenCheckout(10, 1, due)
	b := makeOpenCheckout(11, 1, due)
	batch := a.BatchID
	b.BatchID = batch
	other := makeOpenCheckout(12, 2, due)
	for _, row := range []*domain.Transaction{a, b, other} {
		if err := repo.Create(ctx, row); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	rows, err := repo.ListByBatchID(ctx, batch)
	if err != nil {
		t.Fatalf("ListByBatchID: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}

	// checkin batch ids resolve too
	checkinBatch := id.NewID32()
	returned := time.Now().UTC()
	a.ActualReturnDate = &returned
	a.OpenEquipmentID = nil
	a.CheckinBatchID = &checkinBatch
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}
	rows, err = repo.ListByBatchID(ctx, checkinBatch)
	if err != nil {
		t.Fatalf("ListByBatchID(checkin): %v", err)
	}
	if len(rows) != 1 || rows[0].ID != a.ID {
		t.Fatalf("ListByBatchID(checkin) = %+v", rows)
	}
}
