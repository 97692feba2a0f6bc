package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	appDomain "loancore/internal/domain/application"
	"loancore/internal/testutil/appmock"
	"loancore/internal/testutil/loanmock"
	"loancore/internal/testutil/uowmock"
	loanUC "loancore/internal/usecase/loan"
	"loancore/pkg/clock"
)

func newLoanEnv() (*LoanHandler, *appmock.Repo, *loanmock.Repo) {
	u, apps, loans, _, _, _ := uowmock.New()
	uc := loanUC.NewUsecase(loans, u, clock.Fixed{T: handlerNow})
	return NewLoanHandler(uc), apps, loans
}

func TestLoanHandler_Finalize(t *testing.T) {
	h, apps, _ := newLoanEnv()
	appID := strings.Repeat("a", 32)
	apps.GetByAppIDFn = func(ctx context.Context, id string) (*appDomain.Application, error) {
		return &appDomain.Application{
			AppID:          id,
			UserID:         "user-1001",
			LoanAmount:     decimal.RequireFromString("120000"),
			TenureMonths:   12,
			Status:         appDomain.StatusAdminApproved,
			SystemDecision: appDomain.DecisionManualReview,
		}, nil
	}

	rec, err := invoke(h.Finalize, http.MethodPost, "/admin/loans/x/finalize",
		`{"interest_rate":"8.5","tenure_months":12}`,
		map[string]string{"app_id": appID},
		asActor("admin-1", "ADMIN"))
	if err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, want 201: %s", rec.Code, rec.Body)
	}

	var dto loanUC.LoanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dto.ApplicationID != appID || dto.Status != "ACTIVE" {
		t.Fatalf("dto = %+v, want ACTIVE loan for the application", dto)
	}
	if !dto.EMIAmount.Equal(decimal.RequireFromString("10466.37")) {
		t.Fatalf("emi = %s, want 10466.37", dto.EMIAmount)
	}
}

func TestLoanHandler_Finalize_ConflictBeforeAdminApproval(t *testing.T) {
	h, apps, _ := newLoanEnv()
	apps.GetByAppIDFn = func(ctx context.Context, id string) (*appDomain.Application, error) {
		return &appDomain.Application{
			AppID:  id,
			UserID: "user-1001",
			Status: appDomain.StatusEscalated,
		}, nil
	}

	rec, err := invoke(h.Finalize, http.MethodPost, "/admin/loans/x/finalize",
		`{"interest_rate":"8.5","tenure_months":12}`,
		map[string]string{"app_id": strings.Repeat("a", 32)},
		asActor("admin-1", "ADMIN"))
	if err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("code = %d, want 409: %s", rec.Code, rec.Body)
	}
}

func TestLoanHandler_Finalize_ValidatesBody(t *testing.T) {
	h, _, _ := newLoanEnv()

	rec, err := invoke(h.Finalize, http.MethodPost, "/admin/loans/x/finalize",
		`{"interest_rate":"-1","tenure_months":0}`,
		map[string]string{"app_id": strings.Repeat("a", 32)},
		asActor("admin-1", "ADMIN"))
	if err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400: %s", rec.Code, rec.Body)
	}
}

func TestLoanHandler_Get_NotFound(t *testing.T) {
	h, _, _ := newLoanEnv()

	rec, err := invoke(h.Get, http.MethodGet, "/active-loans/x", "",
		map[string]string{"loan_id": strings.Repeat("b", 32)})
	if err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
}
