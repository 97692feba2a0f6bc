package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"loancore/internal/domain/actor"
	"loancore/internal/usecase/loan"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type finalizeReq struct {
	InterestRate string `json:"interest_rate" validate:"required,decstr"`
	TenureMonths int    `json:"tenure_months" validate:"required,gte=1,lte=360"`
}

// Finalize disburses an ADMIN_APPROVED application into an active loan and
// generates its repayment schedule.
func (h *LoanHandler) Finalize(c echo.Context) error {
	act, err := requireActor(c, actor.RoleAdmin)
	if err != nil {
		return err
	}
	var req finalizeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	rate, _ := decimal.NewFromString(req.InterestRate)
	dto, err := h.uc.Finalize(c.Request().Context(), loan.FinalizeInput{
		ApplicationID: c.Param("app_id"),
		InterestRate:  rate,
		TenureMonths:  req.TenureMonths,
	}, act)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Schedule(c echo.Context) error {
	out, err := h.uc.Schedule(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
