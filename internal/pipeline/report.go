package pipeline

import (
	"time"

	"distill/internal/notifications"
	"distill/internal/transcribe"
)

// Report summarizes a finished run for the CLI and run history.
type Report struct {
	RunID          string
	SourceLocator  string
	JobID          string
	JobOutcome     transcribe.Outcome
	Transcript     string
	Summary        string
	OutputPath     string
	TranscriptPath string
	// Delivery is nil when the mode does not post to webhooks.
	Delivery      *notifications.Aggregate
	CleanupErr    error
	TranscriptErr error
	StartedAt     time.Time
	FinishedAt    time.Time
}

// DeliverySummary renders the webhook aggregate for history, or "" when none.
func (r Report) DeliverySummary() string {
	if r.Delivery == nil {
		return ""
	}
	return r.Delivery.String()
}
