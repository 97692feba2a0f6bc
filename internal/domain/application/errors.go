package application

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("loan application not found")
	// ErrConflict covers every violated state-machine precondition: wrong
	// current status, wrong system decision, or a concurrent request that won
	// the conditional update first.
	ErrConflict = errors.New("loan application already processed or in invalid state for this action")
	// ErrDuplicateKey is returned by Create when the idempotency key already
	// exists; callers resolve it by re-reading the stored application.
	ErrDuplicateKey = errors.New("idempotency key already used")

	ErrReasonRequired = errors.New("rejection reason is mandatory")

	ErrInvalidInput = errors.New("invalid application input")
)

// NotEligibleError names the eligibility precondition that failed.
type NotEligibleError struct {
	Condition string
}

func (e *NotEligibleError) Error() string {
	return fmt.Sprintf("user not eligible for a loan: %s", e.Condition)
}
