package history

import "time"

// Status is the lifecycle state of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Record is one pipeline invocation.
type Record struct {
	ID            string
	InputPath     string
	OutputMode    string
	OutputBase    string
	Language      string
	SourceLocator string
	JobID         string
	JobOutcome    string
	Delivery      string
	Status        Status
	ErrorMessage  string
	StartedAt     time.Time
	FinishedAt    *time.Time
}

// Duration reports how long the run took, or zero while it is still running.
func (r Record) Duration() time.Duration {
	if r.FinishedAt == nil || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
