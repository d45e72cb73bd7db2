package registry

import (
	"time"

	"gearroom-backend/internal/domain/equipment"
	"gearroom-backend/internal/usecase/availability"
)

type CreateInput struct {
	Name            string
	Model           string
	Manufacturer    string
	CategoryID      *uint64
	Condition       equipment.Condition
	Status          equipment.Status
	Location        equipment.Location
	AcquisitionDate *time.Time
	// Barcode overrides generation; only honored for single-unit creates.
	Barcode       string
	Quantity      int
	SerialNumbers []string
	ActorID       uint64
}

// UpdatePatch carries only the fields the caller wants to change; nil means
// leave untouched. There is no path to unset a category or acquisition date
// through a patch.
type UpdatePatch struct {
	Name            *string
	Model           *string
	Manufacturer    *string
	SerialNumber    *string
	CategoryID      *uint64
	AcquisitionDate *time.Time
	Condition       *equipment.Condition
	Status          *equipment.Status
	Location        *equipment.Location
}

type FieldChange struct {
	Before any `json:"before"`
	After  any `json:"after"`
}

type EquipmentDTO struct {
	ID              uint64              `json:"id"`
	Barcode         string              `json:"barcode"`
	SerialNumber    string              `json:"serial_number,omitempty"`
	CategoryID      *uint64             `json:"category_id,omitempty"`
	CategoryName    string              `json:"category_name,omitempty"`
	Name            string              `json:"name"`
	Model           string              `json:"model,omitempty"`
	Manufacturer    string              `json:"manufacturer,omitempty"`
	Condition       equipment.Condition `json:"condition"`
	Status          equipment.Status    `json:"status"`
	Location        equipment.Location  `json:"location"`
	AcquisitionDate *time.Time          `json:"acquisition_date,omitempty"`
	NeedsRelabel    bool                `json:"needs_relabel"`
	CreatedAt       time.Time           `json:"created_at"`
}

type UpdateResult struct {
	Equipment        EquipmentDTO           `json:"equipment"`
	Diff             map[string]FieldChange `json:"diff"`
	RelabelTriggered bool                   `json:"relabel_triggered"`
}

// ListItem is one row of the paginated equipment view: the record plus its
// live availability overlay.
type ListItem struct {
	EquipmentDTO
	EffectiveStatus equipment.EffectiveStatus `json:"effective_status"`
	Borrower        *availability.Borrower    `json:"borrower,omitempty"`
	DaysOut         *float64                  `json:"days_out,omitempty"`
	Overdue         bool                      `json:"overdue"`
}

type ListInput struct {
	// Status filters on the effective status (overlay applied), so
	// "checked_out" and "maintenance" are valid alongside persisted values.
	Status     string
	CategoryID *uint64
	Search     string
	Page       int
	Limit      int
}

type ListResult struct {
	Items []ListItem `json:"items"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

func toDTO(e *equipment.Equipment) EquipmentDTO {
	dto := EquipmentDTO{
		ID:              e.ID,
		Barcode:         e.Barcode,
		CategoryID:      e.CategoryID,
		CategoryName:    e.CategoryName(),
		Name:            e.Name,
		Model:           e.Model,
		Manufacturer:    e.Manufacturer,
		Condition:       e.Condition,
		Status:          e.Status,
		Location:        e.Location,
		AcquisitionDate: e.AcquisitionDate,
		NeedsRelabel:    e.NeedsRelabel,
		CreatedAt:       e.CreatedAt,
	}
	if e.SerialNumber != nil {
		dto.SerialNumber = *e.SerialNumber
	}
	return dto
}
