package availability

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"gearroom-backend/internal/domain/equipment"
	"gearroom-backend/internal/domain/transaction"
	"gearroom-backend/internal/domain/user"
)

// Availability is the read-time view of a single unit: its effective status
// plus, when a loan is open, who holds it and for how long.
type Availability struct {
	EquipmentID uint64                    `json:"equipment_id"`
	Status      equipment.EffectiveStatus `json:"status"`
	Borrower    *Borrower                 `json:"borrower,omitempty"`
	DaysOut     *float64                  `json:"days_out,omitempty"`
	Overdue     bool                      `json:"overdue"`
}

type Borrower struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Overlay applies the derived-status rule: an open checkout reads as
// checked_out, an open maintenance hold as maintenance, anything else falls
// through to the persisted status. Pure; list views use it to avoid per-row
// queries.
func Overlay(stored equipment.Status, open *transaction.Transaction) equipment.EffectiveStatus {
	if open != nil && open.Open() {
		switch open.Type {
		case transaction.TypeCheckout:
			return equipment.EffectiveCheckedOut
		case transaction.TypeMaintenance:
			return equipment.EffectiveMaintenance
		}
	}
	return equipment.EffectiveStatus(stored)
}

// Resolver computes effective status live from storage. Read-only: it never
// writes, and nothing caches in front of it.
type Resolver struct {
	equipment    equipment.Repository
	transactions transaction.Repository
	users        user.Repository
	now          func() time.Time
}

func NewResolver(e equipment.Repository, t transaction.Repository, u user.Repository) *Resolver {
	return &Resolver{equipment: e, transactions: t, users: u, now: func() time.Time { return time.Now().UTC() }}
}

func (r *Resolver) Resolve(ctx context.Context, equipmentID uint64) (*Availability, error) {
	e, err := r.equipment.GetByID(ctx, equipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, equipment.ErrNotFound
		}
		return nil, err
	}
	return r.ResolveFor(ctx, e)
}

// ResolveFor overlays an already-loaded record, sparing callers that hold
// the row a second fetch.
func (r *Resolver) ResolveFor(ctx context.Context, e *equipment.Equipment) (*Availability, error) {
	open, err := r.transactions.GetOpenByEquipmentID(ctx, e.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		open = nil
	}

	out := &Availability{
		EquipmentID: e.ID,
		Status:      Overlay(e.Status, open),
	}
	if open != nil && open.Type == transaction.TypeCheckout {
		now := r.now()
		days := open.DaysOut(now)
		out.DaysOut = &days
		out.Overdue = open.Overdue(now)
		b := &Borrower{ID: open.UserID}
		if u, err := r.users.GetByID(ctx, open.UserID); err == nil {
			b.Name = u.Name
		}
		out.Borrower = b
	}
	return out, nil
}
