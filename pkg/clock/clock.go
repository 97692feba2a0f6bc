package clock

import "time"

// Clock abstracts "now" so time-sensitive logic (due-date checks, schedule
// generation) can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in UTC.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant.
type Fixed struct{ T time.Time }

func (f Fixed) Now() time.Time { return f.T }
