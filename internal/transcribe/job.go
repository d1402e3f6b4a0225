package transcribe

import (
	"context"
	"strings"
)

// Status is the lifecycle state reported by the speech-to-text service.
type Status int

const (
	StatusUnknown Status = iota
	StatusSubmitted
	StatusInProgress
	StatusCompleted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSubmitted:
		return "submitted"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Pending reports whether the job has not reached a terminal status yet.
func (s Status) Pending() bool {
	return s == StatusSubmitted || s == StatusInProgress
}

// JobState is one status observation. ResultLocator is only meaningful on
// Completed, FailureReason only on Failed.
type JobState struct {
	Status        Status
	ResultLocator string
	FailureReason string
	// Raw is the provider's own status string, kept for logs.
	Raw string
}

// Service is the speech-to-text collaborator.
type Service interface {
	Submit(ctx context.Context, sourceLocator, languageHint string) (jobID string, err error)
	Status(ctx context.Context, jobID string) (JobState, error)
	Fetch(ctx context.Context, resultLocator string) ([]byte, error)
	Parse(raw []byte) (string, error)
}

// Outcome classifies how Run resolved the job.
type Outcome string

const (
	OutcomeTranscribed      Outcome = "transcribed"
	OutcomeResultMissing    Outcome = "result_missing"
	OutcomeJobFailed        Outcome = "job_failed"
	OutcomeUnexpectedStatus Outcome = "unexpected_status"
)

// Absorbed reports whether the outcome produced sentinel text instead of a transcript.
func (o Outcome) Absorbed() bool {
	return o != OutcomeTranscribed
}

// Sentinel texts returned in place of a transcript.
const (
	ResultMissingText    = "The transcription job completed, but no transcript was available."
	jobFailedPrefix      = "The transcription job failed."
	UnexpectedStatusText = "The transcription job ended with an unexpected status."
)

// JobFailedText renders the failed-job sentinel, appending the reason when known.
func JobFailedText(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return jobFailedPrefix
	}
	return jobFailedPrefix + " Reason: " + reason
}

// Result is what Run hands back to the pipeline.
type Result struct {
	JobID   string
	Text    string
	Outcome Outcome
	// Polls counts status checks, including the terminal one.
	Polls int
}
