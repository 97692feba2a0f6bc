package auditmock

import (
	"context"
	"sync"

	domain "loancore/internal/domain/audit"
)

var _ domain.Sink = (*Sink)(nil)

// Sink records every appended entry so tests can assert on the trail.
type Sink struct {
	mu      sync.Mutex
	Entries []domain.Entry

	AppendFn func(ctx context.Context, e *domain.Entry) error
}

func (m *Sink) Append(ctx context.Context, e *domain.Entry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, *e)
	return nil
}

// Actions returns the recorded action names in append order.
func (m *Sink) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		out = append(out, e.Action)
	}
	return out
}
