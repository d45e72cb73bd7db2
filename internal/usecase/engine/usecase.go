package engine

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"gearroom-backend/internal/domain/audit"
	"gearroom-backend/internal/domain/equipment"
	"gearroom-backend/internal/domain/transaction"
	"gearroom-backend/internal/domain/uow"
	"gearroom-backend/internal/domain/user"
	"gearroom-backend/internal/usecase/availability"
	"gearroom-backend/pkg/id"
)

// Usecase is the checkout/checkin engine. Every batch runs inside one
// storage transaction: preconditions are re-validated after locking the
// equipment rows, and the open-transaction unique index backs the
// at-most-one-open-loan invariant against races the locks don't cover.
type Usecase struct {
	uow   uow.UnitOfWork
	repos uow.Repos
	audit audit.Emitter
	now   func() time.Time
}

func NewUsecase(u uow.UnitOfWork, repos uow.Repos, emitter audit.Emitter) *Usecase {
	return &Usecase{uow: u, repos: repos, audit: emitter, now: func() time.Time { return time.Now().UTC() }}
}

func validateIDs(ids []uint64) error {
	if len(ids) == 0 {
		return transaction.ErrNoEquipment
	}
	seen := make(map[uint64]struct{}, len(ids))
	for _, eid := range ids {
		if _, dup := seen[eid]; dup {
			return transaction.ErrDuplicateEquipment
		}
		seen[eid] = struct{}{}
	}
	return nil
}

func (uc *Usecase) Checkout(ctx context.Context, in CheckoutInput) (*BatchResult, error) {
	if err := validateIDs(in.EquipmentIDs); err != nil {
		return nil, err
	}
	if !transaction.ValidPurpose(in.Purpose) {
		return nil, transaction.ErrInvalidPurpose
	}
	now := uc.now()
	if !in.ExpectedReturnDate.After(now) {
		return nil, transaction.ErrReturnDateInPast
	}

	batchID := id.NewID32()
	result := &BatchResult{BatchID: batchID}

	err := uc.uow.WithinTx(ctx, func(r uow.Repos) error {
		borrower, err := r.Users.GetByID(ctx, in.BorrowerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return transaction.ErrBorrowerInactive
			}
			return err
		}
		result.UserName = borrower.Name

		for _, eid := range in.EquipmentIDs {
			e, err := r.Equipment.GetByIDForUpdate(ctx, eid)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return equipment.ErrNotFound
				}
				return err
			}

			// re-check inside the transaction: a stale pre-read must not win
			open, err := r.Transactions.GetOpenByEquipmentID(ctx, eid)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				open = nil
			}
			eff := availability.Overlay(e.Status, open)
			if eff != equipment.EffectiveStatus(equipment.StatusAvailable) &&
				eff != equipment.EffectiveStatus(equipment.StatusNeedsMaintenance) {
				return &transaction.InvalidStateForCheckoutError{EquipmentID: e.ID, Name: e.Name, Status: eff}
			}

			row := transaction.Transaction{
				Type:                transaction.TypeCheckout,
				EquipmentID:         e.ID,
				OpenEquipmentID:     &e.ID,
				UserID:              borrower.ID,
				BatchID:             batchID,
				CheckoutDate:        now,
				ExpectedReturnDate:  &in.ExpectedReturnDate,
				ConditionAtCheckout: e.Condition,
				Purpose:             in.Purpose,
				Notes:               in.Notes,
				CreatedBy:           in.ActorID,
			}
			if err := r.Transactions.Create(ctx, &row); err != nil {
				// unique-index backstop: a concurrent winner already holds
				// the open slot, so surface a state conflict, not a storage
				// error
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return &transaction.InvalidStateForCheckoutError{
						EquipmentID: e.ID, Name: e.Name, Status: equipment.EffectiveCheckedOut,
					}
				}
				return err
			}

			e.Location = equipment.LocationWithUser
			if err := r.Equipment.Save(ctx, e); err != nil {
				return err
			}

			result.Items = append(result.Items, BatchItem{EquipmentID: e.ID, Name: e.Name, TransactionID: row.ID})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.TransactionCount = len(result.Items)
	for _, it := range result.Items {
		uc.audit.Emit(ctx, audit.Record{
			At: now, ActorID: in.ActorID,
			Action: "transaction.checkout", Entity: "equipment", EntityID: it.EquipmentID,
			BatchID: batchID,
			Detail:  map[string]any{"transaction_id": it.TransactionID, "borrower_id": in.BorrowerID, "purpose": in.Purpose},
		})
	}
	return result, nil
}

func (uc *Usecase) Checkin(ctx context.Context, in CheckinInput) (*BatchResult, error) {
	if err := validateIDs(in.EquipmentIDs); err != nil {
		return nil, err
	}
	if in.ReturnLocation != equipment.LocationStudio && in.ReturnLocation != equipment.LocationVault {
		return nil, equipment.ErrInvalidLocation
	}
	if in.ConditionOnReturn != nil && !equipment.ValidCondition(*in.ConditionOnReturn) {
		return nil, equipment.ErrInvalidCondition
	}

	now := uc.now()
	batchID := id.NewID32()
	result := &BatchResult{BatchID: batchID}

	err := uc.uow.WithinTx(ctx, func(r uow.Repos) error {
		actor, err := r.Users.GetByID(ctx, in.ActorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return user.ErrNotFound
			}
			return err
		}
		result.UserName = actor.Name

		for _, eid := range in.EquipmentIDs {
			e, err := r.Equipment.GetByIDForUpdate(ctx, eid)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return equipment.ErrNotFound
				}
				return err
			}

			open, err := r.Transactions.GetOpenByEquipmentID(ctx, eid)
			if err != nil || open.Type != transaction.TypeCheckout {
				if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				return &transaction.NoOpenLoanError{EquipmentID: e.ID, Name: e.Name}
			}

			if open.UserID != actor.ID && !actor.Role.Elevated() {
				borrowerName := ""
				if b, err := r.Users.GetByID(ctx, open.UserID); err == nil {
					borrowerName = b.Name
				}
				return &transaction.CheckinNotAuthorizedError{
					EquipmentID: e.ID, Name: e.Name,
					BorrowerID: open.UserID, BorrowerName: borrowerName,
				}
			}

			returned := now
			open.ActualReturnDate = &returned
			open.OpenEquipmentID = nil
			open.CheckinBatchID = &batchID
			open.CheckedInBy = &actor.ID
			loc := in.ReturnLocation
			open.ReturnLocation = &loc
			if in.Notes != "" {
				// append, never overwrite: checkout-time notes stay intact
				if open.Notes != "" {
					open.Notes += "\n" + in.Notes
				} else {
					open.Notes = in.Notes
				}
			}
			if in.ConditionOnReturn != nil {
				open.ConditionAtReturn = in.ConditionOnReturn
				e.Condition = *in.ConditionOnReturn
			}
			if err := r.Transactions.Save(ctx, open); err != nil {
				return err
			}

			e.Location = in.ReturnLocation
			if err := r.Equipment.Save(ctx, e); err != nil {
				return err
			}

			result.Items = append(result.Items, BatchItem{EquipmentID: e.ID, Name: e.Name, TransactionID: open.ID})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.TransactionCount = len(result.Items)
	for _, it := range result.Items {
		uc.audit.Emit(ctx, audit.Record{
			At: now, ActorID: in.ActorID,
			Action: "transaction.checkin", Entity: "equipment", EntityID: it.EquipmentID,
			BatchID: batchID,
			Detail:  map[string]any{"transaction_id": it.TransactionID, "return_location": in.ReturnLocation},
		})
	}
	return result, nil
}

// Overdue lists open checkouts past their expected return, with continuous
// (fractional) days overdue. Computed on read; nothing is pushed.
func (uc *Usecase) Overdue(ctx context.Context) ([]OverdueLoan, error) {
	now := uc.now()
	rows, err := uc.repos.Transactions.ListOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	out := make([]OverdueLoan, 0, len(rows))
	for i := range rows {
		row := rows[i]
		o := OverdueLoan{
			TransactionID:      row.ID,
			BatchID:            row.BatchID,
			EquipmentID:        row.EquipmentID,
			BorrowerID:         row.UserID,
			CheckoutDate:       row.CheckoutDate,
			ExpectedReturnDate: *row.ExpectedReturnDate,
			DaysOverdue:        row.DaysOverdue(now),
		}
		if e, err := uc.repos.Equipment.GetByID(ctx, row.EquipmentID); err == nil {
			o.EquipmentName = e.Name
			o.Barcode = e.Barcode
		}
		if u, err := uc.repos.Users.GetByID(ctx, row.UserID); err == nil {
			o.BorrowerName = u.Name
		}
		out = append(out, o)
	}
	return out, nil
}

// OpenMaintenance opens a maintenance hold on a unit. Structurally the same
// open/close shape as a loan and bound by the same one-open-row invariant;
// not exposed over HTTP.
func (uc *Usecase) OpenMaintenance(ctx context.Context, equipmentID, actorID uint64, notes string) (*transaction.Transaction, error) {
	now := uc.now()
	var row *transaction.Transaction
	err := uc.uow.WithinEquipmentTx(ctx, equipmentID, func(r uow.Repos, e *equipment.Equipment) error {
		open, err := r.Transactions.GetOpenByEquipmentID(ctx, equipmentID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			eff := availability.Overlay(e.Status, open)
			return &transaction.InvalidStateForCheckoutError{EquipmentID: e.ID, Name: e.Name, Status: eff}
		}

		t := transaction.Transaction{
			Type:                transaction.TypeMaintenance,
			EquipmentID:         e.ID,
			OpenEquipmentID:     &e.ID,
			UserID:              actorID,
			BatchID:             id.NewID32(),
			CheckoutDate:        now,
			ConditionAtCheckout: e.Condition,
			Notes:               notes,
			CreatedBy:           actorID,
		}
		if err := r.Transactions.Create(ctx, &t); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &transaction.InvalidStateForCheckoutError{
					EquipmentID: e.ID, Name: e.Name, Status: equipment.EffectiveCheckedOut,
				}
			}
			return err
		}
		row = &t
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, equipment.ErrNotFound
		}
		return nil, err
	}
	uc.audit.Emit(ctx, audit.Record{
		At: now, ActorID: actorID,
		Action: "transaction.maintenance_opened", Entity: "equipment", EntityID: equipmentID,
		BatchID: row.BatchID,
	})
	return row, nil
}

// CloseMaintenance closes an open maintenance hold.
func (uc *Usecase) CloseMaintenance(ctx context.Context, equipmentID, actorID uint64, notes string) (*transaction.Transaction, error) {
	now := uc.now()
	var row *transaction.Transaction
	err := uc.uow.WithinEquipmentTx(ctx, equipmentID, func(r uow.Repos, e *equipment.Equipment) error {
		open, err := r.Transactions.GetOpenByEquipmentID(ctx, equipmentID)
		if err != nil || open.Type != transaction.TypeMaintenance {
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return &transaction.NoOpenLoanError{EquipmentID: e.ID, Name: e.Name}
		}
		returned := now
		open.ActualReturnDate = &returned
		open.OpenEquipmentID = nil
		open.CheckedInBy = &actorID
		if notes != "" {
			if open.Notes != "" {
				open.Notes += "\n" + notes
			} else {
				open.Notes = notes
			}
		}
		if err := r.Transactions.Save(ctx, open); err != nil {
			return err
		}
		row = open
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, equipment.ErrNotFound
		}
		return nil, err
	}
	uc.audit.Emit(ctx, audit.Record{
		At: now, ActorID: actorID,
		Action: "transaction.maintenance_closed", Entity: "equipment", EntityID: equipmentID,
		BatchID: row.BatchID,
	})
	return row, nil
}
