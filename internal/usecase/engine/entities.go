package engine

import (
	"time"

	"gearroom-backend/internal/domain/equipment"
	"gearroom-backend/internal/domain/transaction"
)

type CheckoutInput struct {
	EquipmentIDs       []uint64
	BorrowerID         uint64
	ExpectedReturnDate time.Time
	Purpose            transaction.Purpose
	Notes              string
	ActorID            uint64
}

type CheckinInput struct {
	EquipmentIDs      []uint64
	ActorID           uint64
	ReturnLocation    equipment.Location
	ConditionOnReturn *equipment.Condition
	Notes             string
}

type BatchItem struct {
	EquipmentID   uint64 `json:"id"`
	Name          string `json:"name"`
	TransactionID uint64 `json:"transaction_id"`
}

// BatchResult describes one committed all-or-nothing batch. Every row it
// names shares BatchID; a failed batch never produces one.
type BatchResult struct {
	BatchID          string      `json:"batch_id"`
	TransactionCount int         `json:"transaction_count"`
	Items            []BatchItem `json:"items"`
	UserName         string      `json:"user_name"`
}

type OverdueLoan struct {
	TransactionID      uint64    `json:"transaction_id"`
	BatchID            string    `json:"batch_id"`
	EquipmentID        uint64    `json:"equipment_id"`
	EquipmentName      string    `json:"equipment_name"`
	Barcode            string    `json:"barcode"`
	BorrowerID         uint64    `json:"borrower_id"`
	BorrowerName       string    `json:"borrower_name"`
	CheckoutDate       time.Time `json:"checkout_date"`
	ExpectedReturnDate time.Time `json:"expected_return_date"`
	DaysOverdue        float64   `json:"days_overdue"`
}
