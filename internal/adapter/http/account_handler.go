package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"loancore/internal/domain/actor"
	"loancore/internal/usecase/account"
)

type AccountHandler struct{ uc *account.Usecase }

func NewAccountHandler(uc *account.Usecase) *AccountHandler { return &AccountHandler{uc: uc} }

type depositReq struct {
	Amount string `json:"amount" validate:"required,decstr"`
}

// Deposit credits the caller's own account.
func (h *AccountHandler) Deposit(c echo.Context) error {
	act, err := requireActor(c, actor.RoleUser)
	if err != nil {
		return err
	}
	var req depositReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	amount, _ := decimal.NewFromString(req.Amount)
	dto, err := h.uc.Deposit(c.Request().Context(), act.ID, amount)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AccountHandler) Balance(c echo.Context) error {
	act, err := requireActor(c, actor.RoleUser)
	if err != nil {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), act.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
