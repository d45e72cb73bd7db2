package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"gearroom-backend/internal/domain/equipment"
	"gearroom-backend/internal/domain/transaction"
	"gearroom-backend/internal/usecase/engine"
)

type TransactionHandler struct{ uc *engine.Usecase }

func NewTransactionHandler(uc *engine.Usecase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

type checkoutReq struct {
	EquipmentID        IDList `json:"equipment_id"         validate:"required,min=1"`
	UserID             uint64 `json:"user_id"              validate:"required"`
	ExpectedReturnDate string `json:"expected_return_date" validate:"required,datetime=2006-01-02"`
	Purpose            string `json:"purpose"              validate:"required,oneof=events marketing personal"`
	Notes              string `json:"notes"`
}

func (h *TransactionHandler) Checkout(c echo.Context) error {
	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	// due dates are date-granular: the loan runs to end of that day UTC
	day, _ := time.Parse("2006-01-02", req.ExpectedReturnDate)
	due := day.Add(24*time.Hour - time.Second)

	out, err := h.uc.Checkout(c.Request().Context(), engine.CheckoutInput{
		EquipmentIDs:       req.EquipmentID,
		BorrowerID:         req.UserID,
		ExpectedReturnDate: due,
		Purpose:            transaction.Purpose(req.Purpose),
		Notes:              req.Notes,
		ActorID:            actorID(c, req.UserID),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"batch_id":              out.BatchID,
		"transaction_count":     out.TransactionCount,
		"equipment_checked_out": out.Items,
		"user_name":             out.UserName,
	})
}

type checkinReq struct {
	EquipmentID       IDList `json:"equipment_id"        validate:"required,min=1"`
	CheckedInBy       uint64 `json:"checked_in_by"       validate:"required"`
	ReturnLocation    string `json:"return_location"     validate:"required,oneof=studio vault"`
	ConditionOnReturn string `json:"condition_on_return" validate:"omitempty,oneof=brand_new functional normal worn out_of_commission broken"`
	Notes             string `json:"notes"`
}

func (h *TransactionHandler) Checkin(c echo.Context) error {
	var req checkinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	in := engine.CheckinInput{
		EquipmentIDs:   req.EquipmentID,
		ActorID:        actorID(c, req.CheckedInBy),
		ReturnLocation: equipment.Location(req.ReturnLocation),
		Notes:          req.Notes,
	}
	if req.ConditionOnReturn != "" {
		cond := equipment.Condition(req.ConditionOnReturn)
		in.ConditionOnReturn = &cond
	}

	out, err := h.uc.Checkin(c.Request().Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"batch_id":             out.BatchID,
		"transaction_count":    out.TransactionCount,
		"equipment_checked_in": out.Items,
		"user_name":            out.UserName,
	})
}

func (h *TransactionHandler) Overdue(c echo.Context) error {
	out, err := h.uc.Overdue(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"overdue": out, "count": len(out)})
}
