package registry

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"gearroom-backend/internal/domain/audit"
	"gearroom-backend/internal/domain/equipment"
	"gearroom-backend/internal/domain/transaction"
	"gearroom-backend/internal/domain/uow"
	"gearroom-backend/internal/usecase/availability"
	"gearroom-backend/pkg/barcode"
)

// Usecase owns equipment records: creation with barcode generation, patch
// updates with barcode drift detection, and soft deletion. All loan state
// lives with the engine; the registry only consults it as a gate.
type Usecase struct {
	uow      uow.UnitOfWork
	repos    uow.Repos
	audit    audit.Emitter
	resolver *availability.Resolver
	now      func() time.Time
}

func NewUsecase(u uow.UnitOfWork, repos uow.Repos, emitter audit.Emitter) *Usecase {
	return &Usecase{
		uow:      u,
		repos:    repos,
		audit:    emitter,
		resolver: availability.NewResolver(repos.Equipment, repos.Transactions, repos.Users),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (uc *Usecase) Create(ctx context.Context, in CreateInput) ([]EquipmentDTO, error) {
	if in.Name == "" {
		return nil, equipment.ErrNameRequired
	}
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}
	if len(in.SerialNumbers) > 0 && len(in.SerialNumbers) != qty {
		return nil, equipment.ErrSerialCountMismatch
	}
	seen := map[string]struct{}{}
	for _, s := range in.SerialNumbers {
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			return nil, &equipment.DuplicateSerialError{Serial: s}
		}
		seen[s] = struct{}{}
	}

	status := in.Status
	if status == "" {
		status = equipment.StatusAvailable
	}
	if !equipment.ValidStatus(status) {
		return nil, equipment.ErrInvalidStatus
	}
	condition := in.Condition
	if condition == "" {
		condition = equipment.ConditionFunctional
	}
	if !equipment.ValidCondition(condition) {
		return nil, equipment.ErrInvalidCondition
	}
	location := in.Location
	if location == "" {
		location = equipment.LocationStudio
	}
	if !equipment.ValidLocation(location) {
		return nil, equipment.ErrInvalidLocation
	}

	var created []equipment.Equipment
	err := uc.uow.WithinTx(ctx, func(r uow.Repos) error {
		categoryName := ""
		if in.CategoryID != nil {
			cat, err := r.Equipment.GetCategory(ctx, *in.CategoryID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return equipment.ErrCategoryNotFound
				}
				return err
			}
			categoryName = cat.Name
		}

		for _, s := range in.SerialNumbers {
			if s == "" {
				continue
			}
			taken, err := r.Equipment.ExistsSerial(ctx, s)
			if err != nil {
				return err
			}
			if taken {
				return &equipment.DuplicateSerialError{Serial: s}
			}
		}

		if in.Barcode != "" && qty == 1 {
			if _, err := r.Equipment.GetByBarcode(ctx, in.Barcode); err == nil {
				return &equipment.BarcodeTakenError{Barcode: in.Barcode}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		prefix := barcode.Prefix(categoryName, in.AcquisitionDate)
		baseSeq, err := r.Equipment.NextSequence(ctx, prefix)
		if err != nil {
			return err
		}

		for i := 0; i < qty; i++ {
			serial := ""
			if len(in.SerialNumbers) > i {
				serial = in.SerialNumbers[i]
			}
			code := in.Barcode
			if code == "" || qty > 1 {
				code = barcode.Generate(categoryName, in.AcquisitionDate, baseSeq+i, serial)
			}
			e := equipment.Equipment{
				Barcode:         code,
				CategoryID:      in.CategoryID,
				Name:            in.Name,
				Model:           in.Model,
				Manufacturer:    in.Manufacturer,
				Condition:       condition,
				Status:          status,
				Location:        location,
				AcquisitionDate: in.AcquisitionDate,
			}
			if serial != "" {
				e.SerialNumber = &serial
			}
			if err := r.Equipment.Create(ctx, &e); err != nil {
				return err
			}
			created = append(created, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]EquipmentDTO, 0, len(created))
	for i := range created {
		uc.audit.Emit(ctx, audit.Record{
			At: uc.now(), ActorID: in.ActorID,
			Action: "equipment.created", Entity: "equipment", EntityID: created[i].ID,
			Detail: map[string]any{"barcode": created[i].Barcode, "name": created[i].Name},
		})
		out = append(out, toDTO(&created[i]))
	}
	return out, nil
}

// Update applies a field-wise patch inside one locked transaction. Persisted
// status is rejected while a loan is open; category or acquisition-date
// changes re-derive the barcode and, on drift, overwrite it and raise the
// sticky needs_relabel flag.
func (uc *Usecase) Update(ctx context.Context, id uint64, patch UpdatePatch, actorID uint64) (*UpdateResult, error) {
	if patch.Condition != nil && !equipment.ValidCondition(*patch.Condition) {
		return nil, equipment.ErrInvalidCondition
	}
	if patch.Status != nil && !equipment.ValidStatus(*patch.Status) {
		return nil, equipment.ErrInvalidStatus
	}
	if patch.Location != nil && !equipment.ValidLocation(*patch.Location) {
		return nil, equipment.ErrInvalidLocation
	}

	var result *UpdateResult
	err := uc.uow.WithinEquipmentTx(ctx, id, func(r uow.Repos, e *equipment.Equipment) error {
		diff := map[string]FieldChange{}

		if patch.Status != nil && *patch.Status != e.Status {
			open, err := r.Transactions.HasOpenByEquipmentID(ctx, e.ID)
			if err != nil {
				return err
			}
			if open {
				return &equipment.StatusLockedByActiveLoanError{EquipmentID: e.ID, Name: e.Name}
			}
			diff["status"] = FieldChange{Before: e.Status, After: *patch.Status}
			e.Status = *patch.Status
		}

		if patch.Name != nil && *patch.Name != e.Name {
			if *patch.Name == "" {
				return equipment.ErrNameRequired
			}
			diff["name"] = FieldChange{Before: e.Name, After: *patch.Name}
			e.Name = *patch.Name
		}
		if patch.Model != nil && *patch.Model != e.Model {
			diff["model"] = FieldChange{Before: e.Model, After: *patch.Model}
			e.Model = *patch.Model
		}
		if patch.Manufacturer != nil && *patch.Manufacturer != e.Manufacturer {
			diff["manufacturer"] = FieldChange{Before: e.Manufacturer, After: *patch.Manufacturer}
			e.Manufacturer = *patch.Manufacturer
		}
		if patch.SerialNumber != nil {
			before := ""
			if e.SerialNumber != nil {
				before = *e.SerialNumber
			}
			if *patch.SerialNumber != before {
				diff["serial_number"] = FieldChange{Before: before, After: *patch.SerialNumber}
				e.SerialNumber = patch.SerialNumber
			}
		}
		if patch.Condition != nil && *patch.Condition != e.Condition {
			diff["condition"] = FieldChange{Before: e.Condition, After: *patch.Condition}
			e.Condition = *patch.Condition
		}

		identityChanged := false
		if patch.CategoryID != nil && (e.CategoryID == nil || *patch.CategoryID != *e.CategoryID) {
			if _, err := r.Equipment.GetCategory(ctx, *patch.CategoryID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return equipment.ErrCategoryNotFound
				}
				return err
			}
			var before any
			if e.CategoryID != nil {
				before = *e.CategoryID
			}
			diff["category_id"] = FieldChange{Before: before, After: *patch.CategoryID}
			e.CategoryID = patch.CategoryID
			identityChanged = true
		}
		if patch.AcquisitionDate != nil && (e.AcquisitionDate == nil || !patch.AcquisitionDate.Equal(*e.AcquisitionDate)) {
			var before any
			if e.AcquisitionDate != nil {
				before = *e.AcquisitionDate
			}
			diff["acquisition_date"] = FieldChange{Before: before, After: *patch.AcquisitionDate}
			e.AcquisitionDate = patch.AcquisitionDate
			identityChanged = true
		}
		if patch.Location != nil && *patch.Location != e.Location {
			diff["location"] = FieldChange{Before: e.Location, After: *patch.Location}
			e.Location = *patch.Location
		}

		relabel := false
		if identityChanged {
			categoryName := ""
			if e.CategoryID != nil {
				cat, err := r.Equipment.GetCategory(ctx, *e.CategoryID)
				if err != nil {
					return err
				}
				categoryName = cat.Name
			}
			serial := ""
			if e.SerialNumber != nil {
				serial = *e.SerialNumber
			}
			expected := barcode.Rederive(categoryName, e.AcquisitionDate, serial, e.Barcode)
			if expected != e.Barcode {
				diff["barcode"] = FieldChange{Before: e.Barcode, After: expected}
				e.Barcode = expected
				// sticky: set here, cleared only via ClearRelabel
				e.NeedsRelabel = true
				relabel = true
			}
		}

		if len(diff) == 0 {
			result = &UpdateResult{Equipment: toDTO(e), Diff: diff}
			return nil
		}
		if err := r.Equipment.Save(ctx, e); err != nil {
			return err
		}
		result = &UpdateResult{Equipment: toDTO(e), Diff: diff, RelabelTriggered: relabel}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, equipment.ErrNotFound
		}
		return nil, err
	}

	if len(result.Diff) > 0 {
		detail := make(map[string]any, len(result.Diff))
		for k, v := range result.Diff {
			detail[k] = v
		}
		uc.audit.Emit(ctx, audit.Record{
			At: uc.now(), ActorID: actorID,
			Action: "equipment.updated", Entity: "equipment", EntityID: id,
			Detail: detail,
		})
	}
	return result, nil
}

// ClearRelabel is the only write path that resets the needs_relabel flag.
func (uc *Usecase) ClearRelabel(ctx context.Context, id uint64, actorID uint64) (*EquipmentDTO, error) {
	var dto EquipmentDTO
	err := uc.uow.WithinEquipmentTx(ctx, id, func(r uow.Repos, e *equipment.Equipment) error {
		if e.NeedsRelabel {
			e.NeedsRelabel = false
			if err := r.Equipment.Save(ctx, e); err != nil {
				return err
			}
		}
		dto = toDTO(e)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, equipment.ErrNotFound
		}
		return nil, err
	}
	uc.audit.Emit(ctx, audit.Record{
		At: uc.now(), ActorID: actorID,
		Action: "equipment.relabel_cleared", Entity: "equipment", EntityID: id,
	})
	return &dto, nil
}

func (uc *Usecase) SoftDelete(ctx context.Context, id uint64, actorID uint64) error {
	err := uc.uow.WithinEquipmentTx(ctx, id, func(r uow.Repos, e *equipment.Equipment) error {
		open, err := r.Transactions.HasOpenByEquipmentID(ctx, e.ID)
		if err != nil {
			return err
		}
		if open {
			return &equipment.CheckedOutError{EquipmentID: e.ID, Name: e.Name}
		}
		return r.Equipment.SoftDelete(ctx, e.ID, actorID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return equipment.ErrNotFound
		}
		return err
	}
	uc.audit.Emit(ctx, audit.Record{
		At: uc.now(), ActorID: actorID,
		Action: "equipment.deleted", Entity: "equipment", EntityID: id,
	})
	return nil
}

// Get returns one unit with its live availability, resolved through the
// same read path the availability resolver serves on its own.
func (uc *Usecase) Get(ctx context.Context, id uint64) (*ListItem, error) {
	e, err := uc.repos.Equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, equipment.ErrNotFound
		}
		return nil, err
	}
	av, err := uc.resolver.ResolveFor(ctx, e)
	if err != nil {
		return nil, err
	}
	return &ListItem{
		EquipmentDTO:    toDTO(e),
		EffectiveStatus: av.Status,
		Borrower:        av.Borrower,
		DaysOut:         av.DaysOut,
		Overdue:         av.Overdue,
	}, nil
}

func (uc *Usecase) List(ctx context.Context, in ListInput) (*ListResult, error) {
	filter := equipment.ListFilter{
		CategoryID: in.CategoryID,
		Search:     in.Search,
		Page:       in.Page,
		Limit:      in.Limit,
	}
	items, total, err := uc.repos.Equipment.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
	}
	open, err := uc.repos.Transactions.ListOpenByEquipmentIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}
	out := &ListResult{Items: []ListItem{}, Total: total, Page: page, Limit: limit}
	for i := range items {
		item := uc.decorate(ctx, &items[i], open)
		if in.Status != "" && string(item.EffectiveStatus) != in.Status {
			continue
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (uc *Usecase) decorate(ctx context.Context, e *equipment.Equipment, open map[uint64]transaction.Transaction) ListItem {
	item := ListItem{EquipmentDTO: toDTO(e)}
	row, ok := open[e.ID]
	var openTx *transaction.Transaction
	if ok {
		openTx = &row
	}
	item.EffectiveStatus = availability.Overlay(e.Status, openTx)
	if openTx != nil && openTx.Type == transaction.TypeCheckout {
		now := uc.now()
		days := openTx.DaysOut(now)
		item.DaysOut = &days
		item.Overdue = openTx.Overdue(now)
		b := &availability.Borrower{ID: openTx.UserID}
		if u, err := uc.repos.Users.GetByID(ctx, openTx.UserID); err == nil {
			b.Name = u.Name
		}
		item.Borrower = b
	}
	return item
}

// AdvisedStatus re-exports the condition→status advisory map for edit-form
// callers.
func AdvisedStatus(c equipment.Condition) equipment.Status { return equipment.AdvisedStatus(c) }
