package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"gearroom-backend/internal/domain/equipment"
	"gearroom-backend/internal/domain/transaction"
	"gearroom-backend/internal/domain/user"
)

// IDList accepts either a single integer or an array of integers, matching
// the `equipment_id: int | int[]` request shape.
type IDList []uint64

func (l *IDList) UnmarshalJSON(b []byte) error {
	var one uint64
	if err := json.Unmarshal(b, &one); err == nil {
		*l = IDList{one}
		return nil
	}
	var many []uint64
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*l = IDList(many)
	return nil
}

func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// actorID resolves the acting user: Ax-Actor-Id header first, falling back
// to the given body value when the header is absent.
func actorID(c echo.Context, fallback uint64) uint64 {
	if raw := strings.TrimSpace(c.Request().Header.Get("Ax-Actor-Id")); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return id
		}
	}
	return fallback
}

// writeDomainError maps the domain error taxonomy onto HTTP codes:
// validation → 422, state conflicts → 409, not-found → 404, authorization →
// 403, anything else → 500 generic after rollback.
func writeDomainError(c echo.Context, err error) error {
	var (
		invalidState  *transaction.InvalidStateForCheckoutError
		notAuthorized *transaction.CheckinNotAuthorizedError
		noOpenLoan    *transaction.NoOpenLoanError
		statusLocked  *equipment.StatusLockedByActiveLoanError
		checkedOut    *equipment.CheckedOutError
		dupSerial     *equipment.DuplicateSerialError
		barcodeTaken  *equipment.BarcodeTakenError
	)
	switch {
	case errors.As(err, &invalidState):
		return c.JSON(http.StatusConflict, map[string]any{
			"error": err.Error(), "equipment_id": invalidState.EquipmentID,
		})
	case errors.As(err, &notAuthorized):
		return c.JSON(http.StatusConflict, map[string]any{
			"error": err.Error(), "equipment_id": notAuthorized.EquipmentID, "borrower_id": notAuthorized.BorrowerID,
		})
	case errors.As(err, &noOpenLoan):
		return c.JSON(http.StatusConflict, map[string]any{
			"error": err.Error(), "equipment_id": noOpenLoan.EquipmentID,
		})
	case errors.As(err, &statusLocked):
		return c.JSON(http.StatusConflict, map[string]any{
			"error": err.Error(), "equipment_id": statusLocked.EquipmentID,
		})
	case errors.As(err, &checkedOut):
		return c.JSON(http.StatusConflict, map[string]any{
			"error": err.Error(), "equipment_id": checkedOut.EquipmentID,
		})
	case errors.As(err, &dupSerial):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.As(err, &barcodeTaken):
		return c.JSON(http.StatusConflict, map[string]any{
			"error": err.Error(), "barcode": barcodeTaken.Barcode,
		})
	// unique-index races that slipped past pre-checks land here
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "conflicts with an existing record"})
	case errors.Is(err, user.ErrEmailTaken), errors.Is(err, user.ErrHasOpenLoans):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, user.ErrAdminOnly):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, equipment.ErrNotFound),
		errors.Is(err, equipment.ErrCategoryNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, user.ErrInactiveActor),
		errors.Is(err, transaction.ErrNotFound),
		errors.Is(err, transaction.ErrBorrowerInactive):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, equipment.ErrNameRequired),
		errors.Is(err, equipment.ErrSerialCountMismatch),
		errors.Is(err, equipment.ErrInvalidCondition),
		errors.Is(err, equipment.ErrInvalidStatus),
		errors.Is(err, equipment.ErrInvalidLocation),
		errors.Is(err, user.ErrNameRequired),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, transaction.ErrNoEquipment),
		errors.Is(err, transaction.ErrDuplicateEquipment),
		errors.Is(err, transaction.ErrInvalidPurpose),
		errors.Is(err, transaction.ErrReturnDateInPast):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
