package equipment

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("equipment not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrNameRequired        = errors.New("equipment name is required")
	ErrSerialCountMismatch = errors.New("serial number list must have exactly one entry per unit")
	ErrInvalidCondition    = errors.New("unknown condition value")
	ErrInvalidStatus       = errors.New("unknown status value")
	ErrInvalidLocation     = errors.New("unknown location value")
)

// DuplicateSerialError rejects a create whose serial collides with an
// active unit.
type DuplicateSerialError struct {
	Serial string
}

func (e *DuplicateSerialError) Error() string {
	return fmt.Sprintf("serial number %q already belongs to an active unit", e.Serial)
}

// BarcodeTakenError rejects a create whose caller-supplied barcode collides
// with an existing unit.
type BarcodeTakenError struct {
	Barcode string
}

func (e *BarcodeTakenError) Error() string {
	return fmt.Sprintf("barcode %q already belongs to another unit", e.Barcode)
}

// StatusLockedByActiveLoanError rejects a persisted-status edit while the
// unit has an open checkout.
type StatusLockedByActiveLoanError struct {
	EquipmentID uint64
	Name        string
}

func (e *StatusLockedByActiveLoanError) Error() string {
	return fmt.Sprintf("status of %q (id %d) is locked by an active loan", e.Name, e.EquipmentID)
}

// CheckedOutError rejects a soft delete while any transaction is open.
type CheckedOutError struct {
	EquipmentID uint64
	Name        string
}

func (e *CheckedOutError) Error() string {
	return fmt.Sprintf("equipment %q (id %d) has an open transaction", e.Name, e.EquipmentID)
}
