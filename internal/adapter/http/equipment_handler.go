package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"gearroom-backend/internal/domain/equipment"
	"gearroom-backend/internal/usecase/registry"
)

type EquipmentHandler struct{ uc *registry.Usecase }

func NewEquipmentHandler(uc *registry.Usecase) *EquipmentHandler { return &EquipmentHandler{uc: uc} }

type createEquipmentReq struct {
	Name            string   `json:"name"                        validate:"required"`
	Model           string   `json:"model"`
	Manufacturer    string   `json:"manufacturer"`
	CategoryID      *uint64  `json:"category_id"`
	Condition       string   `json:"condition"                   validate:"omitempty,oneof=brand_new functional normal worn out_of_commission broken"`
	Status          string   `json:"status"                      validate:"omitempty,oneof=available in_use unavailable out_for_maintenance needs_maintenance reserved decommissioned"`
	Location        string   `json:"location"                    validate:"omitempty,oneof=studio vault with_user"`
	AcquisitionDate string   `json:"acquisition_date"            validate:"omitempty,datetime=2006-01-02"`
	Barcode         string   `json:"barcode"`
	Quantity        int      `json:"quantity"`
	SerialNumbers   []string `json:"serial_numbers"`
	ActorID         uint64   `json:"actor_id"`
}

func (h *EquipmentHandler) Create(c echo.Context) error {
	var req createEquipmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	in := registry.CreateInput{
		Name:          req.Name,
		Model:         req.Model,
		Manufacturer:  req.Manufacturer,
		CategoryID:    req.CategoryID,
		Condition:     equipment.Condition(req.Condition),
		Status:        equipment.Status(req.Status),
		Location:      equipment.Location(req.Location),
		Barcode:       req.Barcode,
		Quantity:      req.Quantity,
		SerialNumbers: req.SerialNumbers,
		ActorID:       actorID(c, req.ActorID),
	}
	if req.AcquisitionDate != "" {
		d, _ := time.Parse("2006-01-02", req.AcquisitionDate)
		in.AcquisitionDate = &d
	}

	out, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"equipment": out, "count": len(out)})
}

func (h *EquipmentHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid equipment id"})
	}
	item, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *EquipmentHandler) List(c echo.Context) error {
	in := registry.ListInput{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
	}
	if raw := c.QueryParam("category"); raw != "" {
		cid, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid category id"})
		}
		in.CategoryID = &cid
	}
	if raw := c.QueryParam("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			in.Page = p
		}
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if l, err := strconv.Atoi(raw); err == nil {
			in.Limit = l
		}
	}

	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type updateEquipmentReq struct {
	Name            *string `json:"name"`
	Model           *string `json:"model"`
	Manufacturer    *string `json:"manufacturer"`
	SerialNumber    *string `json:"serial_number"`
	CategoryID      *uint64 `json:"category_id"`
	AcquisitionDate *string `json:"acquisition_date" validate:"omitempty,datetime=2006-01-02"`
	Condition       *string `json:"condition"        validate:"omitempty,oneof=brand_new functional normal worn out_of_commission broken"`
	Status          *string `json:"status"           validate:"omitempty,oneof=available in_use unavailable out_for_maintenance needs_maintenance reserved decommissioned"`
	Location        *string `json:"location"         validate:"omitempty,oneof=studio vault with_user"`
	ActorID         uint64  `json:"actor_id"`
}

func (h *EquipmentHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid equipment id"})
	}
	var req updateEquipmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	patch := registry.UpdatePatch{
		Name:         req.Name,
		Model:        req.Model,
		Manufacturer: req.Manufacturer,
		SerialNumber: req.SerialNumber,
		CategoryID:   req.CategoryID,
	}
	if req.AcquisitionDate != nil {
		d, _ := time.Parse("2006-01-02", *req.AcquisitionDate)
		patch.AcquisitionDate = &d
	}
	if req.Condition != nil {
		v := equipment.Condition(*req.Condition)
		patch.Condition = &v
	}
	if req.Status != nil {
		v := equipment.Status(*req.Status)
		patch.Status = &v
	}
	if req.Location != nil {
		v := equipment.Location(*req.Location)
		patch.Location = &v
	}

	out, err := h.uc.Update(c.Request().Context(), id, patch, actorID(c, req.ActorID))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *EquipmentHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid equipment id"})
	}
	if err := h.uc.SoftDelete(c.Request().Context(), id, actorID(c, 0)); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *EquipmentHandler) ClearRelabel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid equipment id"})
	}
	out, err := h.uc.ClearRelabel(c.Request().Context(), id, actorID(c, 0))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
