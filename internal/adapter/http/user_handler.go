package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gearroom-backend/internal/domain/user"
	"gearroom-backend/internal/usecase/account"
)

type UserHandler struct{ uc *account.Usecase }

func NewUserHandler(uc *account.Usecase) *UserHandler { return &UserHandler{uc: uc} }

type createUserReq struct {
	Name    string `json:"name"  validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Role    string `json:"role"  validate:"omitempty,oneof=admin manager user"`
	ActorID uint64 `json:"actor_id"`
}

func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Create(c.Request().Context(), account.CreateInput{
		Name:    req.Name,
		Email:   req.Email,
		Role:    user.Role(req.Role),
		ActorID: actorID(c, req.ActorID),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *UserHandler) List(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"users": out, "count": len(out)})
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
	}
	if err := h.uc.SoftDelete(c.Request().Context(), id, actorID(c, 0)); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
