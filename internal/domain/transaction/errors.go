package transaction

import (
	"errors"
	"fmt"

	"gearroom-backend/internal/domain/equipment"
)

var (
	ErrNotFound           = errors.New("transaction not found")
	ErrNoEquipment        = errors.New("at least one equipment id is required")
	ErrDuplicateEquipment = errors.New("equipment id listed more than once in batch")
	ErrInvalidPurpose     = errors.New("purpose must be one of events, marketing, personal")
	ErrReturnDateInPast   = errors.New("expected return date must be in the future")
	ErrBorrowerInactive   = errors.New("borrower is not an active user")
)

// InvalidStateForCheckoutError names the unit whose effective status blocked
// the whole batch.
type InvalidStateForCheckoutError struct {
	EquipmentID uint64
	Name        string
	Status      equipment.EffectiveStatus
}

func (e *InvalidStateForCheckoutError) Error() string {
	return fmt.Sprintf("equipment %q (id %d) cannot be checked out while %s", e.Name, e.EquipmentID, e.Status)
}

// NoOpenLoanError rejects a checkin for a unit with no open checkout.
type NoOpenLoanError struct {
	EquipmentID uint64
	Name        string
}

func (e *NoOpenLoanError) Error() string {
	return fmt.Sprintf("equipment %q (id %d) has no open loan to check in", e.Name, e.EquipmentID)
}

// CheckinNotAuthorizedError names the unit and its current borrower when a
// non-owning, non-elevated actor attempts a checkin.
type CheckinNotAuthorizedError struct {
	EquipmentID  uint64
	Name         string
	BorrowerID   uint64
	BorrowerName string
}

func (e *CheckinNotAuthorizedError) Error() string {
	return fmt.Sprintf("equipment %q (id %d) is checked out to %s (id %d); only the borrower or an elevated role may check it in",
		e.Name, e.EquipmentID, e.BorrowerName, e.BorrowerID)
}
