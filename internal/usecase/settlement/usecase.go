package settlement

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"loancore/internal/domain/account"
	"loancore/internal/domain/actor"
	"loancore/internal/domain/audit"
	"loancore/internal/domain/credit"
	domain "loancore/internal/domain/loan"
	"loancore/internal/domain/uow"
	"loancore/pkg/clock"
	"loancore/pkg/id"
)

// Summary reports what a settlement pass did. Failed counts insufficient-fund
// outcomes (a normal business result); Errored counts aborted units of work
// (store faults), which stay eligible for the next run.
type Summary struct {
	Processed int
	Paid      int
	Failed    int
	Skipped   int
	Errored   int
}

// Usecase settles due installments. Users are processed concurrently; a
// single user's installments are settled sequentially so account debits never
// race each other. Each installment is its own transaction: one bad row never
// aborts the rest of the batch.
type Usecase struct {
	loans   domain.Repository
	uow     uow.UnitOfWork
	clk     clock.Clock
	workers int
}

func NewUsecase(loans domain.Repository, tx uow.UnitOfWork, clk clock.Clock, workers int) *Usecase {
	if workers <= 0 {
		workers = 4
	}
	return &Usecase{loans: loans, uow: tx, clk: clk, workers: workers}
}

type outcome int

const (
	outcomePaid outcome = iota
	outcomeFailed
	outcomeSkipped
)

// RunOnce performs one settlement pass over everything due at the injected
// clock's now. Safe to re-run: rows already PAID are skipped, counters are
// only bumped inside the same transaction that settles the row.
func (u *Usecase) RunOnce(ctx context.Context) (Summary, error) {
	now := u.clk.Now()

	due, err := u.loans.ListDue(ctx, now)
	if err != nil {
		return Summary{}, err
	}

	// Per-account serialization: all of a user's due installments go to the
	// same worker, in due order.
	byUser := make(map[string][]domain.Installment)
	order := make([]string, 0)
	for _, inst := range due {
		if _, ok := byUser[inst.UserID]; !ok {
			order = append(order, inst.UserID)
		}
		byUser[inst.UserID] = append(byUser[inst.UserID], inst)
	}

	var (
		mu      sync.Mutex
		sum     Summary
		wg      sync.WaitGroup
		workers = make(chan struct{}, u.workers)
	)

	for _, userID := range order {
		batch := byUser[userID]
		wg.Add(1)
		workers <- struct{}{}
		go func(batch []domain.Installment) {
			defer wg.Done()
			defer func() { <-workers }()

			for _, inst := range batch {
				out, err := u.settleOne(ctx, inst.ID)
				mu.Lock()
				sum.Processed++
				switch {
				case err != nil:
					sum.Errored++
				case out == outcomePaid:
					sum.Paid++
				case out == outcomeFailed:
					sum.Failed++
				default:
					sum.Skipped++
				}
				mu.Unlock()
				if err != nil {
					log.Printf("settlement: installment %d: %v", inst.ID, err)
				}
			}
		}(batch)
	}
	wg.Wait()

	return sum, nil
}

// settleOne settles a single installment in its own transaction.
func (u *Usecase) settleOne(ctx context.Context, instID uint64) (outcome, error) {
	var out outcome
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		inst, err := r.Loans.GetInstallment(ctx, instID)
		if err != nil {
			return err
		}
		// Hard idempotency guard against concurrent or re-run passes.
		if inst.Status == domain.InstallmentPaid {
			out = outcomeSkipped
			return nil
		}

		now := u.clk.Now()

		acct, err := r.Accounts.GetByUserID(ctx, inst.UserID)
		if errors.Is(err, account.ErrNotFound) || (err == nil && acct.Balance.LessThan(inst.Amount)) {
			return u.markFailed(ctx, r, inst, now, &out)
		}
		if err != nil {
			return err
		}

		// Claim the row first; if a concurrent run already settled it the
		// conditional update misses and nothing is debited.
		if err := r.Loans.MarkInstallmentPaid(ctx, inst.ID, now); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				out = outcomeSkipped
				return nil
			}
			return err
		}

		newBalance, err := r.Accounts.Debit(ctx, inst.UserID, inst.Amount, now)
		if err != nil {
			// Includes a debit raced below the read check; the rollback
			// releases the claim and the caller retries the failure path.
			return err
		}

		if err := r.Accounts.CreateTransaction(ctx, &account.Transaction{
			TransactionID: id.NewTransactionID(),
			LoanID:        inst.LoanID,
			UserID:        inst.UserID,
			EMINumber:     inst.Sequence,
			Amount:        inst.Amount,
			Type:          account.TransactionEMI,
			Status:        account.TransactionPaid,
			BalanceAfter:  newBalance,
		}); err != nil {
			return err
		}

		if err := r.Loans.IncrementPaidEMIs(ctx, inst.LoanID); err != nil {
			return err
		}

		l, err := r.Loans.GetByLoanID(ctx, inst.LoanID)
		if err != nil {
			return err
		}
		if l.Status == domain.StatusActive && l.PaidEMIs >= l.TenureMonths {
			if err := r.Loans.Close(ctx, inst.LoanID, now); err != nil {
				return err
			}
			l.Status = domain.StatusClosed
		}

		if err := u.refreshScore(ctx, r, l, now); err != nil {
			return err
		}

		if err := r.Audit.Append(ctx, &audit.Entry{
			ActorID:    string(actor.RoleSystem),
			ActorRole:  string(actor.RoleSystem),
			Action:     audit.ActionEMIDebit,
			EntityType: audit.EntityInstallment,
			EntityID:   inst.LoanID,
			Remarks:    "EMI debited",
			Timestamp:  now,
		}); err != nil {
			return err
		}

		out = outcomePaid
		return nil
	})
	if errors.Is(err, account.ErrInsufficientBalance) {
		// The balance moved between the read check and the debit. The claim
		// was rolled back; record the failure as the normal outcome it is.
		err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
			inst, gerr := r.Loans.GetInstallment(ctx, instID)
			if gerr != nil {
				return gerr
			}
			if inst.Status == domain.InstallmentPaid {
				out = outcomeSkipped
				return nil
			}
			return u.markFailed(ctx, r, inst, u.clk.Now(), &out)
		})
	}
	return out, err
}

// markFailed records an insufficient-balance outcome: FAILED status, attempt
// counter, loan missed counter, score recalculation. Not an error.
func (u *Usecase) markFailed(ctx context.Context, r uow.Repos, inst *domain.Installment, now time.Time, out *outcome) error {
	if err := r.Loans.MarkInstallmentFailed(ctx, inst.ID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			*out = outcomeSkipped
			return nil
		}
		return err
	}
	if err := r.Loans.IncrementMissedEMIs(ctx, inst.LoanID); err != nil {
		return err
	}

	l, err := r.Loans.GetByLoanID(ctx, inst.LoanID)
	if err != nil {
		return err
	}
	if err := u.refreshScore(ctx, r, l, now); err != nil {
		return err
	}

	if err := r.Audit.Append(ctx, &audit.Entry{
		ActorID:    string(actor.RoleSystem),
		ActorRole:  string(actor.RoleSystem),
		Action:     audit.ActionEMIFailed,
		EntityType: audit.EntityInstallment,
		EntityID:   inst.LoanID,
		Remarks:    "EMI auto-debit failed: insufficient balance",
		Timestamp:  now,
	}); err != nil {
		return err
	}

	*out = outcomeFailed
	return nil
}

// refreshScore rebuilds the loan's repayment summary and persists the
// recalculated credit score on the owning user.
func (u *Usecase) refreshScore(ctx context.Context, r uow.Repos, l *domain.ActiveLoan, now time.Time) error {
	total, err := r.Loans.CountInstallments(ctx, l.LoanID, "")
	if err != nil {
		return err
	}
	paid, err := r.Loans.CountInstallments(ctx, l.LoanID, domain.InstallmentPaid)
	if err != nil {
		return err
	}
	missed, err := r.Loans.CountInstallments(ctx, l.LoanID, domain.InstallmentFailed)
	if err != nil {
		return err
	}
	late, err := r.Accounts.CountPaidPenalties(ctx, l.LoanID)
	if err != nil {
		return err
	}

	score := credit.RecalcScore(credit.RepaymentSummary{
		TotalEMIs:       int(total),
		PaidEMIs:        int(paid),
		MissedEMIs:      int(missed),
		LatePayments:    int(late),
		LoanClosedClean: l.Status == domain.StatusClosed && missed == 0,
	})
	return r.Users.UpdateCIBIL(ctx, l.UserID, score, now)
}
