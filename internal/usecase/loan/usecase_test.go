package loan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"loancore/internal/domain/actor"
	domainApp "loancore/internal/domain/application"
	"loancore/internal/domain/audit"
	domain "loancore/internal/domain/loan"
	"loancore/internal/testutil/uowmock"
	"loancore/pkg/clock"
)

var testNow = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

var admin = actor.Actor{ID: "adm-1", Role: actor.RoleAdmin}

func adminApprovedApp(appID string) *domainApp.Application {
	return &domainApp.Application{
		AppID:      appID,
		UserID:     "user-1001",
		LoanAmount: dec("120000"),
		Status:     domainApp.StatusAdminApproved,
	}
}

func TestFinalize_CreatesLoanAndSchedule(t *testing.T) {
	u, apps, loans, _, _, sink := uowmock.New()
	uc := NewUsecase(loans, u, clock.Fixed{T: testNow})

	appID := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	apps.GetByAppIDFn = func(ctx context.Context, id string) (*domainApp.Application, error) {
		return adminApprovedApp(id), nil
	}

	var createdLoan *domain.ActiveLoan
	loans.CreateFn = func(ctx context.Context, l *domain.ActiveLoan) error {
		createdLoan = l
		return nil
	}
	var schedule []domain.Installment
	loans.CreateInstallmentsFn = func(ctx context.Context, batch []domain.Installment) error {
		schedule = batch
		return nil
	}
	var gotTr domainApp.Transition
	apps.TransitionStatusFn = func(ctx context.Context, id string, from []domainApp.Status, expect domainApp.SystemDecision, tr domainApp.Transition) error {
		gotTr = tr
		if len(from) != 1 || from[0] != domainApp.StatusAdminApproved {
			t.Fatalf("from = %v, want [ADMIN_APPROVED]", from)
		}
		return nil
	}

	dto, err := uc.Finalize(context.Background(),
		FinalizeInput{ApplicationID: appID, InterestRate: dec("8.5"), TenureMonths: 12}, admin)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if dto.EMIAmount.StringFixed(2) != "10466.37" {
		t.Fatalf("emi = %s, want 10466.37", dto.EMIAmount.StringFixed(2))
	}
	if createdLoan == nil || createdLoan.Status != domain.StatusActive {
		t.Fatalf("loan not created ACTIVE: %+v", createdLoan)
	}
	if len(schedule) != 12 {
		t.Fatalf("schedule rows = %d, want 12", len(schedule))
	}
	for i, inst := range schedule {
		if inst.Sequence != i+1 {
			t.Fatalf("row %d sequence = %d", i, inst.Sequence)
		}
		wantDue := testNow.Add(time.Duration(i+1) * installmentPeriod)
		if !inst.DueDate.Equal(wantDue) {
			t.Fatalf("row %d due = %v, want %v", i, inst.DueDate, wantDue)
		}
		if inst.Status != domain.InstallmentPending {
			t.Fatalf("row %d status = %s, want PENDING", i, inst.Status)
		}
		if !inst.Amount.Equal(createdLoan.EMIAmount) {
			t.Fatalf("row %d amount = %s, want %s", i, inst.Amount, createdLoan.EMIAmount)
		}
	}
	if gotTr.To != domainApp.StatusFinalized {
		t.Fatalf("application transition = %+v, want FINALIZED", gotTr)
	}
	if got := sink.Actions(); len(got) != 1 || got[0] != audit.ActionLoanFinalize {
		t.Fatalf("audit actions = %v", got)
	}
}

func TestFinalize_ConflictsUnlessAdminApproved(t *testing.T) {
	for _, st := range []domainApp.Status{
		domainApp.StatusPending,
		domainApp.StatusApproved,
		domainApp.StatusEscalated,
		domainApp.StatusAdminRejected,
		domainApp.StatusFinalized,
	} {
		t.Run(string(st), func(t *testing.T) {
			u, apps, loans, _, _, _ := uowmock.New()
			uc := NewUsecase(loans, u, clock.Fixed{T: testNow})
			apps.GetByAppIDFn = func(ctx context.Context, id string) (*domainApp.Application, error) {
				a := adminApprovedApp(id)
				a.Status = st
				return a, nil
			}
			_, err := uc.Finalize(context.Background(),
				FinalizeInput{ApplicationID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", InterestRate: dec("8.5"), TenureMonths: 12}, admin)
			if !errors.Is(err, domainApp.ErrConflict) {
				t.Fatalf("status %s: err = %v, want ErrConflict", st, err)
			}
		})
	}
}

func TestFinalize_RetryReusesLoanAndSkipsSchedule(t *testing.T) {
	u, apps, loans, _, _, _ := uowmock.New()
	uc := NewUsecase(loans, u, clock.Fixed{T: testNow})

	appID := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	apps.GetByAppIDFn = func(ctx context.Context, id string) (*domainApp.Application, error) {
		return adminApprovedApp(id), nil
	}

	existing := &domain.ActiveLoan{
		LoanID:        "llllllllllllllllllllllllllllllll",
		ApplicationID: appID,
		UserID:        "user-1001",
		Principal:     dec("120000"),
		InterestRate:  dec("8.5"),
		TenureMonths:  12,
		EMIAmount:     dec("10466.37"),
		Status:        domain.StatusActive,
		DisbursedAt:   testNow.Add(-time.Hour),
	}
	loans.GetByApplicationIDFn = func(ctx context.Context, id string) (*domain.ActiveLoan, error) {
		return existing, nil
	}
	loans.CreateFn = func(ctx context.Context, l *domain.ActiveLoan) error {
		t.Fatal("Create must not run when the loan already exists")
		return nil
	}
	loans.HasInstallmentsFn = func(ctx context.Context, loanID string) (bool, error) {
		return true, nil
	}
	loans.CreateInstallmentsFn = func(ctx context.Context, batch []domain.Installment) error {
		t.Fatal("schedule must not be regenerated on retry")
		return nil
	}

	dto, err := uc.Finalize(context.Background(),
		FinalizeInput{ApplicationID: appID, InterestRate: dec("8.5"), TenureMonths: 12}, admin)
	if err != nil {
		t.Fatalf("Finalize retry: %v", err)
	}
	if dto.LoanID != existing.LoanID {
		t.Fatalf("loan id = %s, want %s", dto.LoanID, existing.LoanID)
	}
}

func TestFinalize_InvalidTenure(t *testing.T) {
	u, _, loans, _, _, _ := uowmock.New()
	uc := NewUsecase(loans, u, clock.Fixed{T: testNow})
	_, err := uc.Finalize(context.Background(),
		FinalizeInput{ApplicationID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", InterestRate: dec("8.5")}, admin)
	if !errors.Is(err, domainApp.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSchedule_ReturnsOrderedPlan(t *testing.T) {
	u, _, loans, _, _, _ := uowmock.New()
	uc := NewUsecase(loans, u, clock.Fixed{T: testNow})

	loans.GetByLoanIDFn = func(ctx context.Context, loanID string) (*domain.ActiveLoan, error) {
		return &domain.ActiveLoan{LoanID: loanID, Status: domain.StatusActive}, nil
	}
	loans.ListInstallmentsFn = func(ctx context.Context, loanID string) ([]domain.Installment, error) {
		return []domain.Installment{
			{Sequence: 1, Amount: dec("10466.37"), Status: domain.InstallmentPaid},
			{Sequence: 2, Amount: dec("10466.37"), Status: domain.InstallmentPending},
		}, nil
	}

	out, err := uc.Schedule(context.Background(), "llllllllllllllllllllllllllllllll")
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(out) != 2 || out[0].Sequence != 1 || out[1].Status != string(domain.InstallmentPending) {
		t.Fatalf("unexpected schedule: %+v", out)
	}
}
