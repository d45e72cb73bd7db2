package equipment

import (
	"time"

	"gorm.io/gorm"
)

// Condition is the physical state of a unit as assessed by a human.
type Condition string

const (
	ConditionBrandNew        Condition = "brand_new"
	ConditionFunctional      Condition = "functional"
	ConditionNormal          Condition = "normal"
	ConditionWorn            Condition = "worn"
	ConditionOutOfCommission Condition = "out_of_commission"
	ConditionBroken          Condition = "broken"
)

// Status is the persisted status stored directly on the record. The status a
// caller actually sees may differ: an open loan or maintenance row overlays
// it at read time (see EffectiveStatus).
type Status string

const (
	StatusAvailable         Status = "available"
	StatusInUse             Status = "in_use"
	StatusUnavailable       Status = "unavailable"
	StatusOutForMaintenance Status = "out_for_maintenance"
	StatusNeedsMaintenance  Status = "needs_maintenance"
	StatusReserved          Status = "reserved"
	StatusDecommissioned    Status = "decommissioned"
)

// EffectiveStatus is the read-time projection over (persisted status, open
// transaction). It is never written back to the record.
type EffectiveStatus string

const (
	EffectiveCheckedOut  EffectiveStatus = "checked_out"
	EffectiveMaintenance EffectiveStatus = "maintenance"
)

// Location tracks where a unit physically sits.
type Location string

const (
	LocationStudio   Location = "studio"
	LocationVault    Location = "vault"
	LocationWithUser Location = "with_user"
)

func ValidCondition(c Condition) bool {
	switch c {
	case ConditionBrandNew, ConditionFunctional, ConditionNormal,
		ConditionWorn, ConditionOutOfCommission, ConditionBroken:
		return true
	}
	return false
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusAvailable, StatusInUse, StatusUnavailable, StatusOutForMaintenance,
		StatusNeedsMaintenance, StatusReserved, StatusDecommissioned:
		return true
	}
	return false
}

func ValidLocation(l Location) bool {
	switch l {
	case LocationStudio, LocationVault, LocationWithUser:
		return true
	}
	return false
}

// AdvisedStatus is the condition→status convenience map surfaced to edit
// forms. It is advisory only: the server never applies it on its own, it
// merely accepts whatever status write results from it.
func AdvisedStatus(c Condition) Status {
	switch c {
	case ConditionOutOfCommission, ConditionBroken:
		return StatusUnavailable
	case ConditionWorn:
		return StatusNeedsMaintenance
	default:
		return StatusAvailable
	}
}

type Category struct {
	ID        uint64         `gorm:"primaryKey;column:id" json:"id"`
	Name      string         `gorm:"size:100;uniqueIndex:ux_categories_name_active" json:"name"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Category) TableName() string { return "categories" }

type Equipment struct {
	ID              uint64         `gorm:"primaryKey;column:id" json:"id"`
	Barcode         string         `gorm:"size:40;uniqueIndex:ux_equipment_barcode_active" json:"barcode"`
	SerialNumber    *string        `gorm:"size:120;index" json:"serial_number,omitempty"`
	CategoryID      *uint64        `gorm:"index" json:"category_id,omitempty"`
	Category        *Category      `json:"category,omitempty"`
	Name            string         `gorm:"size:200" json:"name"`
	Model           string         `gorm:"size:200" json:"model,omitempty"`
	Manufacturer    string         `gorm:"size:200" json:"manufacturer,omitempty"`
	Condition       Condition      `gorm:"type:enum('brand_new','functional','normal','worn','out_of_commission','broken');default:'functional'" json:"condition"`
	Status          Status         `gorm:"type:enum('available','in_use','unavailable','out_for_maintenance','needs_maintenance','reserved','decommissioned');default:'available'" json:"status"`
	Location        Location       `gorm:"type:enum('studio','vault','with_user');default:'studio'" json:"location"`
	AcquisitionDate *time.Time     `gorm:"type:date" json:"acquisition_date,omitempty"`
	NeedsRelabel    bool           `gorm:"default:false" json:"needs_relabel"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy       *uint64        `json:"-"`
}

func (Equipment) TableName() string { return "equipment" }

// CategoryName is safe on records loaded without the association.
func (e *Equipment) CategoryName() string {
	if e.Category == nil {
		return ""
	}
	return e.Category.Name
}
