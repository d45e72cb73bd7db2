package transaction

import (
	"time"

	"gorm.io/gorm"

	"gearroom-backend/internal/domain/equipment"
)

type Type string

const (
	TypeCheckout    Type = "checkout"
	TypeCheckin     Type = "checkin"
	TypeMaintenance Type = "maintenance"
)

// Purpose is the closed set of approved reasons a loan may be opened under.
type Purpose string

const (
	PurposeEvents    Purpose = "events"
	PurposeMarketing Purpose = "marketing"
	PurposePersonal  Purpose = "personal"
)

func ValidPurpose(p Purpose) bool {
	switch p {
	case PurposeEvents, PurposeMarketing, PurposePersonal:
		return true
	}
	return false
}

// Transaction is one loan-related event. A row is open while
// ActualReturnDate is null. OpenEquipmentID mirrors EquipmentID for open
// rows only and is nulled at close; its unique index is the storage-level
// guarantee that a unit carries at most one open transaction across all
// types, no matter how many callers race.
type Transaction struct {
	ID              uint64  `gorm:"primaryKey;column:id" json:"id"`
	Type            Type    `gorm:"type:enum('checkout','checkin','maintenance');default:'checkout'" json:"type"`
	EquipmentID     uint64  `gorm:"index:idx_transactions_equipment" json:"equipment_id"`
	OpenEquipmentID *uint64 `gorm:"uniqueIndex:ux_transactions_open_equipment" json:"-"`
	UserID          uint64  `gorm:"index:idx_transactions_user" json:"user_id"`

	BatchID        string  `gorm:"size:32;index:idx_transactions_batch" json:"batch_id"`
	CheckinBatchID *string `gorm:"size:32;index:idx_transactions_checkin_batch" json:"checkin_batch_id,omitempty"`

	CheckoutDate       time.Time  `json:"checkout_date"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	ActualReturnDate   *time.Time `gorm:"index" json:"actual_return_date,omitempty"`

	ConditionAtCheckout equipment.Condition  `gorm:"type:enum('brand_new','functional','normal','worn','out_of_commission','broken')" json:"condition_at_checkout"`
	ConditionAtReturn   *equipment.Condition `gorm:"type:enum('brand_new','functional','normal','worn','out_of_commission','broken')" json:"condition_at_return,omitempty"`
	ReturnLocation      *equipment.Location  `gorm:"type:enum('studio','vault','with_user')" json:"return_location,omitempty"`

	Purpose     Purpose `gorm:"type:enum('events','marketing','personal')" json:"purpose,omitempty"`
	Notes       string  `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy   uint64  `json:"created_by"`
	CheckedInBy *uint64 `json:"checked_in_by,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Transaction) TableName() string { return "transactions" }

// Open reports whether the row still represents a live loan or maintenance
// hold.
func (t *Transaction) Open() bool { return t.ActualReturnDate == nil }

// Overdue reports whether an open checkout has passed its expected return.
func (t *Transaction) Overdue(now time.Time) bool {
	return t.Open() && t.Type == TypeCheckout &&
		t.ExpectedReturnDate != nil && t.ExpectedReturnDate.Before(now)
}

// DaysOut is the continuous number of days since checkout. Display code
// floors it; the engine never does.
func (t *Transaction) DaysOut(now time.Time) float64 {
	return now.Sub(t.CheckoutDate).Hours() / 24
}

// DaysOverdue is the continuous number of days past the expected return,
// zero when not overdue.
func (t *Transaction) DaysOverdue(now time.Time) float64 {
	if !t.Overdue(now) {
		return 0
	}
	return now.Sub(*t.ExpectedReturnDate).Hours() / 24
}
