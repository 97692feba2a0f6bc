package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"loancore/internal/domain/actor"
	domain "loancore/internal/domain/application"
	"loancore/internal/domain/audit"
	"loancore/internal/domain/user"
	"loancore/internal/testutil/rulemock"
	"loancore/internal/testutil/uowmock"
	"loancore/internal/testutil/usermock"
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

func strongInput() CreateInput {
	return CreateInput{
		UserID:         "user-1001",
		LoanType:       "PERSONAL",
		LoanAmount:     dec("120000"),
		TenureMonths:   12,
		MonthlyIncome:  dec("50000"),
		Occupation:     "it",
		IdempotencyKey: "idem-key-00000001",
	}
}

func newTestUsecase() (*Usecase, *uowmock.UoW, *usermock.Repo) {
	u, apps, _, _, _, _ := uowmock.New()
	users := &usermock.Repo{GetByUserIDFn: func(ctx context.Context, id string) (*user.User, error) {
		return usermock.Eligible(id), nil
	}}
	uc := NewUsecase(apps, users, &rulemock.Source{}, u, clock.Fixed{T: testNow})
	return uc, u, users
}

func TestCreate_ScoresAndAutoApproves(t *testing.T) {
	u, apps, _, _, _, sink := uowmock.New()
	users := &usermock.Repo{GetByUserIDFn: func(ctx context.Context, id string) (*user.User, error) {
		return usermock.Eligible(id), nil
	}}
	uc := NewUsecase(apps, users, &rulemock.Source{}, u, clock.Fixed{T: testNow})

	var created *domain.Application
	apps.CreateFn = func(ctx context.Context, a *domain.Application) error {
		created = a
		return nil
	}

	dto, err := uc.Create(context.Background(), strongInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Score != 780 {
		t.Fatalf("score = %d, want 780", dto.Score)
	}
	if dto.SystemDecision != string(domain.DecisionAutoApproved) {
		t.Fatalf("system_decision = %s, want AUTO_APPROVED", dto.SystemDecision)
	}
	if dto.Status != string(domain.StatusPending) {
		t.Fatalf("status = %s, want PENDING", dto.Status)
	}
	if dto.Reused {
		t.Fatal("fresh creation must not be marked reused")
	}
	if created == nil || created.AppID == "" || len(created.AppID) != 32 {
		t.Fatalf("persisted application missing 32-char app id: %+v", created)
	}
	if created.AppliedAt != testNow {
		t.Fatalf("applied_at = %v, want %v", created.AppliedAt, testNow)
	}
	if got := sink.Actions(); len(got) != 1 || got[0] != audit.ActionLoanApplied {
		t.Fatalf("audit actions = %v, want [LOAN_APPLIED]", got)
	}
}

func TestCreate_ManualReviewBand(t *testing.T) {
	u, apps, _, _, _, _ := uowmock.New()
	users := &usermock.Repo{GetByUserIDFn: func(ctx context.Context, id string) (*user.User, error) {
		return usermock.Eligible(id), nil
	}}
	uc := NewUsecase(apps, users, &rulemock.Source{}, u, clock.Fixed{T: testNow})

	// Income short of the request and an existing loan: 300+90+120+60+60 = 630.
	in := strongInput()
	in.MonthlyIncome = dec("5000")
	in.Occupation = "employee"
	in.PriorLoanCount = 0
	in.PendingInstallmentCount = 0
	in.LoanAmount = dec("500000")

	dto, err := uc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Score != 630 {
		t.Fatalf("score = %d, want 630", dto.Score)
	}
	if dto.SystemDecision != string(domain.DecisionManualReview) {
		t.Fatalf("system_decision = %s, want MANUAL_REVIEW", dto.SystemDecision)
	}
}

func TestCreate_EligibilityGates(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*user.User)
	}{
		{"kyc incomplete", func(u *user.User) { u.KYCStatus = user.KYCPending }},
		{"not bank approved", func(u *user.User) { u.ApprovalStatus = user.ApprovalPending }},
		{"minor", func(u *user.User) { u.IsMinor = true }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, _, users := newTestUsecase()
			users.GetByUserIDFn = func(ctx context.Context, id string) (*user.User, error) {
				usr := usermock.Eligible(id)
				tc.mod(usr)
				return usr, nil
			}
			_, err := uc.Create(context.Background(), strongInput())
			var ne *domain.NotEligibleError
			if !errors.As(err, &ne) {
				t.Fatalf("err = %v, want NotEligibleError", err)
			}
		})
	}
}

func TestCreate_InvalidInput(t *testing.T) {
	uc, _, _ := newTestUsecase()

	bad := strongInput()
	bad.LoanAmount = decimal.Zero
	if _, err := uc.Create(context.Background(), bad); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("zero amount: err = %v, want ErrInvalidInput", err)
	}

	bad = strongInput()
	bad.IdempotencyKey = ""
	if _, err := uc.Create(context.Background(), bad); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("missing idempotency key: err = %v, want ErrInvalidInput", err)
	}
}

func TestCreate_ReplaysExistingOnSameKey(t *testing.T) {
	u, apps, _, _, _, _ := uowmock.New()
	users := &usermock.Repo{GetByUserIDFn: func(ctx context.Context, id string) (*user.User, error) {
		return usermock.Eligible(id), nil
	}}
	uc := NewUsecase(apps, users, &rulemock.Source{}, u, clock.Fixed{T: testNow})

	stored := &domain.Application{
		AppID:          "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		UserID:         "user-1001",
		Status:         domain.StatusPending,
		SystemDecision: domain.DecisionAutoApproved,
		Score:          780,
		IdempotencyKey: "idem-key-00000001",
		AppliedAt:      testNow,
	}
	apps.GetByIdempotencyKeyFn = func(ctx context.Context, key string) (*domain.Application, error) {
		if key != stored.IdempotencyKey {
			return nil, domain.ErrNotFound
		}
		return stored, nil
	}
	apps.CreateFn = func(ctx context.Context, a *domain.Application) error {
		t.Fatal("Create must not be called on a replayed key")
		return nil
	}

	dto, err := uc.Create(context.Background(), strongInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !dto.Reused || dto.AppID != stored.AppID {
		t.Fatalf("expected reused application %s, got %+v", stored.AppID, dto)
	}
}

func TestCreate_LosingDuplicateRaceReturnsWinner(t *testing.T) {
	u, apps, _, _, _, _ := uowmock.New()
	users := &usermock.Repo{GetByUserIDFn: func(ctx context.Context, id string) (*user.User, error) {
		return usermock.Eligible(id), nil
	}}
	uc := NewUsecase(apps, users, &rulemock.Source{}, u, clock.Fixed{T: testNow})

	winner := &domain.Application{
		AppID:          "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		UserID:         "user-1001",
		Status:         domain.StatusPending,
		IdempotencyKey: "idem-key-00000001",
	}
	calls := 0
	apps.GetByIdempotencyKeyFn = func(ctx context.Context, key string) (*domain.Application, error) {
		calls++
		if calls == 1 {
			// First check: the concurrent winner has not committed yet.
			return nil, domain.ErrNotFound
		}
		return winner, nil
	}
	apps.CreateFn = func(ctx context.Context, a *domain.Application) error {
		return domain.ErrDuplicateKey
	}

	dto, err := uc.Create(context.Background(), strongInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !dto.Reused || dto.AppID != winner.AppID {
		t.Fatalf("expected winner %s reused, got %+v", winner.AppID, dto)
	}
}

func TestConfirm_RatifiesAutoDecision(t *testing.T) {
	u, apps, _, _, _, sink := uowmock.New()
	uc := NewUsecase(apps, &usermock.Repo{}, &rulemock.Source{}, u, clock.Fixed{T: testNow})

	apps.GetByAppIDFn = func(ctx context.Context, appID string) (*domain.Application, error) {
		return &domain.Application{
			AppID:          appID,
			Status:         domain.StatusPending,
			SystemDecision: domain.DecisionAutoApproved,
			Score:          780,
		}, nil
	}
	var gotTr domain.Transition
	apps.TransitionStatusFn = func(ctx context.Context, appID string, from []domain.Status, expect domain.SystemDecision, tr domain.Transition) error {
		gotTr = tr
		if expect != domain.DecisionAutoApproved {
			t.Fatalf("expectDecision = %s, want AUTO_APPROVED", expect)
		}
		return nil
	}

	mgr := actor.Actor{ID: "mgr-1", Role: actor.RoleLoanManager}
	dto, err := uc.Confirm(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", mgr)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if dto.Status != string(domain.StatusApproved) {
		t.Fatalf("status = %s, want APPROVED", dto.Status)
	}
	if gotTr.DecisionReason == "" {
		t.Fatal("confirm must auto-populate the decision reason")
	}
	if got := sink.Actions(); len(got) != 1 || got[0] != audit.ActionLoanApprove {
		t.Fatalf("audit actions = %v, want [LOAN_APPROVE]", got)
	}
}

func TestConfirm_ConflictsOnManualReview(t *testing.T) {
	u, apps, _, _, _, _ := uowmock.New()
	uc := NewUsecase(apps, &usermock.Repo{}, &rulemock.Source{}, u, clock.Fixed{T: testNow})

	apps.GetByAppIDFn = func(ctx context.Context, appID string) (*domain.Application, error) {
		return &domain.Application{AppID: appID, Status: domain.StatusPending, SystemDecision: domain.DecisionManualReview}, nil
	}
	_, err := uc.Confirm(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		actor.Actor{ID: "mgr-1", Role: actor.RoleLoanManager})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestDecide_ConflictsOutsideManualReview(t *testing.T) {
	u, apps, _, _, _, _ := uowmock.New()
	uc := NewUsecase(apps, &usermock.Repo{}, &rulemock.Source{}, u, clock.Fixed{T: testNow})

	apps.GetByAppIDFn = func(ctx context.Context, appID string) (*domain.Application, error) {
		return &domain.Application{AppID: appID, Status: domain.StatusPending, SystemDecision: domain.DecisionAutoApproved}, nil
	}
	_, err := uc.Decide(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		actor.Actor{ID: "mgr-1", Role: actor.RoleLoanManager}, DecisionApprove, "")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestDecide_RejectRequiresReason(t *testing.T) {
	u, apps, _, _, _, _ := uowmock.New()
	uc := NewUsecase(apps, &usermock.Repo{}, &rulemock.Source{}, u, clock.Fixed{T: testNow})

	apps.GetByAppIDFn = func(ctx context.Context, appID string) (*domain.Application, error) {
		return &domain.Application{AppID: appID, Status: domain.StatusPending, SystemDecision: domain.DecisionManualReview}, nil
	}
	_, err := uc.Decide(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		actor.Actor{ID: "mgr-1", Role: actor.RoleLoanManager}, DecisionReject, "")
	if !errors.Is(err, domain.ErrReasonRequired) {
		t.Fatalf("err = %v, want ErrReasonRequired", err)
	}
}

func TestDecide_ApprovesManualReview(t *testing.T) {
	u, apps, _, _, _, sink := uowmock.New()
	uc := NewUsecase(apps, &usermock.Repo{}, &rulemock.Source{}, u, clock.Fixed{T: testNow})

	apps.GetByAppIDFn = func(ctx context.Context, appID string) (*domain.Application, error) {
		return &domain.Application{AppID: appID, Status: domain.StatusPending, SystemDecision: domain.DecisionManualReview, Score: 630}, nil
	}
	apps.TransitionStatusFn = func(ctx context.Context, appID string, from []domain.Status, expect domain.SystemDecision, tr domain.Transition) error {
		if len(from) != 1 || from[0] != domain.StatusPending {
			t.Fatalf("from = %v, want [PENDING]", from)
		}
		if expect != domain.DecisionManualReview {
			t.Fatalf("expectDecision = %s, want MANUAL_REVIEW", expect)
		}
		return nil
	}

	dto, err := uc.Decide(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		actor.Actor{ID: "mgr-1", Role: actor.RoleLoanManager}, DecisionApprove, "income verified offline")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if dto.Status != string(domain.StatusApproved) {
		t.Fatalf("status = %s, want APPROVED", dto.Status)
	}
	if got := sink.Actions(); len(got) != 1 || got[0] != audit.ActionLoanApprove {
		t.Fatalf("audit actions = %v", got)
	}
}

func TestEscalate_MarksEscalated(t *testing.T) {
	u, apps, _, _, _, sink := uowmock.New()
	uc := NewUsecase(apps, &usermock.Repo{}, &rulemock.Source{}, u, clock.Fixed{T: testNow})

	apps.GetByAppIDFn = func(ctx context.Context, appID string) (*domain.Application, error) {
		return &domain.Application{AppID: appID, Status: domain.StatusPending, SystemDecision: domain.DecisionManualReview}, nil
	}
	var gotTr domain.Transition
	apps.TransitionStatusFn = func(ctx context.Context, appID string, from []domain.Status, expect domain.SystemDecision, tr domain.Transition) error {
		gotTr = tr
		return nil
	}

	err := uc.Escalate(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		actor.Actor{ID: "mgr-1", Role: actor.RoleBankManager}, "needs senior review")
	if err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	if gotTr.To != domain.StatusEscalated || !gotTr.MarkEscalated {
		t.Fatalf("transition = %+v, want ESCALATED with escalated flag", gotTr)
	}
	if got := sink.Actions(); len(got) != 1 || got[0] != audit.ActionLoanEscalate {
		t.Fatalf("audit actions = %v", got)
	}
}

func TestAdminDecide_DoubleDecisionConflicts(t *testing.T) {
	u, apps, _, _, _, _ := uowmock.New()
	uc := NewUsecase(apps, &usermock.Repo{}, &rulemock.Source{}, u, clock.Fixed{T: testNow})

	apps.GetByAppIDFn = func(ctx context.Context, appID string) (*domain.Application, error) {
		return &domain.Application{AppID: appID, Status: domain.StatusEscalated, SystemDecision: domain.DecisionManualReview}, nil
	}
	// Simulate a concurrent admin winning the conditional update.
	apps.TransitionStatusFn = func(ctx context.Context, appID string, from []domain.Status, expect domain.SystemDecision, tr domain.Transition) error {
		return domain.ErrConflict
	}

	_, err := uc.AdminDecide(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		actor.Actor{ID: "adm-1", Role: actor.RoleAdmin}, DecisionApprove, "")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestAdminDecide_RejectWithReason(t *testing.T) {
	u, apps, _, _, _, sink := uowmock.New()
	uc := NewUsecase(apps, &usermock.Repo{}, &rulemock.Source{}, u, clock.Fixed{T: testNow})

	apps.GetByAppIDFn = func(ctx context.Context, appID string) (*domain.Application, error) {
		return &domain.Application{AppID: appID, Status: domain.StatusEscalated, SystemDecision: domain.DecisionManualReview}, nil
	}
	apps.TransitionStatusFn = func(ctx context.Context, appID string, from []domain.Status, expect domain.SystemDecision, tr domain.Transition) error {
		if len(from) != 1 || from[0] != domain.StatusEscalated {
			t.Fatalf("from = %v, want [ESCALATED]", from)
		}
		return nil
	}

	dto, err := uc.AdminDecide(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		actor.Actor{ID: "adm-1", Role: actor.RoleAdmin}, DecisionReject, "income slip mismatch")
	if err != nil {
		t.Fatalf("AdminDecide: %v", err)
	}
	if dto.Status != string(domain.StatusAdminRejected) {
		t.Fatalf("status = %s, want ADMIN_REJECTED", dto.Status)
	}
	if got := sink.Actions(); len(got) != 1 || got[0] != audit.ActionLoanAdminReject {
		t.Fatalf("audit actions = %v", got)
	}
}
