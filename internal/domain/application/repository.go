package application

import "context"

type Repository interface {
	// Create inserts a new application. Returns ErrDuplicateKey when the
	// idempotency key is already taken (unique index, not check-then-insert).
	Create(ctx context.Context, a *Application) error

	GetByAppID(ctx context.Context, appID string) (*Application, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*Application, error)

	// TransitionStatus applies tr only if the current status is one of `from`
	// (and, when expectDecision is non-empty, the system decision matches).
	// Returns ErrConflict when the conditional update touched no row.
	TransitionStatus(ctx context.Context, appID string, from []Status, expectDecision SystemDecision, tr Transition) error

	// ListEscalated returns ESCALATED applications, most recently applied first.
	ListEscalated(ctx context.Context) ([]Application, error)
}
