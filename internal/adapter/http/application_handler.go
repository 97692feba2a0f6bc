package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"loancore/internal/domain/actor"
	"loancore/internal/usecase/application"
)

type ApplicationHandler struct{ uc *application.Usecase }

func NewApplicationHandler(uc *application.Usecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

type createApplicationReq struct {
	LoanType                string `json:"loan_type" validate:"required,loantype"`
	LoanAmount              string `json:"loan_amount" validate:"required,decstr"`
	TenureMonths            int    `json:"tenure_months" validate:"required,gte=1,lte=360"`
	Reason                  string `json:"reason"`
	MonthlyIncome           string `json:"monthly_income" validate:"required,decstr"`
	Occupation              string `json:"occupation" validate:"required"`
	PriorLoanCount          int    `json:"prior_loan_count" validate:"gte=0"`
	PendingInstallmentCount int    `json:"pending_installment_count" validate:"gte=0"`
	IncomeSlipURL           string `json:"income_slip_url" validate:"omitempty,url"`
}

type decisionReq struct {
	Decision string `json:"decision" validate:"required,oneof=APPROVE REJECT"`
	Reason   string `json:"reason"`
}

type escalateReq struct {
	Remarks string `json:"remarks"`
}

// Create files a new application for the calling user. The Idempotency-Key
// header doubles as the durable dedupe key, so a retried request returns the
// stored application instead of a second one.
func (h *ApplicationHandler) Create(c echo.Context) error {
	act, err := requireActor(c, actor.RoleUser)
	if err != nil {
		return err
	}

	var req createApplicationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	amount, _ := decimal.NewFromString(req.LoanAmount)
	income, _ := decimal.NewFromString(req.MonthlyIncome)

	dto, err := h.uc.Create(c.Request().Context(), application.CreateInput{
		UserID:                  act.ID,
		LoanType:                req.LoanType,
		LoanAmount:              amount,
		TenureMonths:            req.TenureMonths,
		Reason:                  req.Reason,
		MonthlyIncome:           income,
		Occupation:              strings.ToLower(strings.TrimSpace(req.Occupation)),
		PriorLoanCount:          req.PriorLoanCount,
		PendingInstallmentCount: req.PendingInstallmentCount,
		IncomeSlipURL:           req.IncomeSlipURL,
		IdempotencyKey:          strings.TrimSpace(c.Request().Header.Get("Idempotency-Key")),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	if dto.Reused {
		return c.JSON(http.StatusOK, dto)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ApplicationHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("app_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) GetDecision(c echo.Context) error {
	dto, err := h.uc.GetDecision(c.Request().Context(), c.Param("app_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Confirm ratifies a system auto-decision.
func (h *ApplicationHandler) Confirm(c echo.Context) error {
	act, err := requireActor(c, actor.RoleLoanManager, actor.RoleBankManager)
	if err != nil {
		return err
	}
	dto, err := h.uc.Confirm(c.Request().Context(), c.Param("app_id"), act)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Decide is the manager call on MANUAL_REVIEW applications.
func (h *ApplicationHandler) Decide(c echo.Context) error {
	act, err := requireActor(c, actor.RoleLoanManager, actor.RoleBankManager)
	if err != nil {
		return err
	}
	var req decisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Decide(c.Request().Context(), c.Param("app_id"), act,
		application.Decision(req.Decision), req.Reason)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) Escalate(c echo.Context) error {
	act, err := requireActor(c, actor.RoleLoanManager, actor.RoleBankManager)
	if err != nil {
		return err
	}
	var req escalateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := h.uc.Escalate(c.Request().Context(), c.Param("app_id"), act, req.Remarks); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ESCALATED"})
}

func (h *ApplicationHandler) ListEscalated(c echo.Context) error {
	if _, err := requireActor(c, actor.RoleAdmin); err != nil {
		return err
	}
	out, err := h.uc.ListEscalated(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ApplicationHandler) AdminDecide(c echo.Context) error {
	act, err := requireActor(c, actor.RoleAdmin)
	if err != nil {
		return err
	}
	var req decisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.AdminDecide(c.Request().Context(), c.Param("app_id"), act,
		application.Decision(req.Decision), req.Reason)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
