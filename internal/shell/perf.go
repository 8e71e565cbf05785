package shell

import (
	"time"
)

// Stopwatch times completion script generation.
type Stopwatch struct {
	start time.Time
}

// NewStopwatch creates and starts a stopwatch.
func NewStopwatch() *Stopwatch {
	return &Stopwatch{start: time.Now()}
}

// Elapsed returns the time since the stopwatch started.
func (s *Stopwatch) Elapsed() time.Duration {
	if s == nil {
		return 0
	}
	return time.Since(s.start)
}

// WithinBudget reports whether elapsed time is within budget.
func (s *Stopwatch) WithinBudget(budget time.Duration) bool {
	return s.Elapsed() <= budget
}
