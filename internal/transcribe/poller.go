package transcribe

import (
	"context"
	"log/slog"
	"time"

	"distill/internal/logging"
	"distill/internal/services"
)

const stageName = "transcribe"

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Poller drives one transcription job from submission to a terminal status.
type Poller struct {
	svc     Service
	backoff Backoff
	sleep   Sleeper
	logger  *slog.Logger
}

// Option customizes a Poller.
type Option func(*Poller)

// WithBackoff overrides the poll interval policy.
func WithBackoff(b Backoff) Option {
	return func(p *Poller) {
		p.backoff = b.normalized()
	}
}

// WithSleeper replaces the real sleep; tests use it to observe intervals.
func WithSleeper(s Sleeper) Option {
	return func(p *Poller) {
		if s != nil {
			p.sleep = s
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Poller) {
		p.logger = logger
	}
}

// NewPoller constructs a poller around svc.
func NewPoller(svc Service, opts ...Option) *Poller {
	p := &Poller{
		svc:     svc,
		backoff: DefaultBackoff(),
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "transcribe")
	return p
}

// Run submits a job for sourceLocator and polls until it leaves the pending
// states. Completed jobs without a result, failed jobs and unknown statuses
// resolve to sentinel text with a nil error; submit, status, fetch and parse
// failures are returned as ErrTransport.
func (p *Poller) Run(ctx context.Context, sourceLocator, languageHint string) (Result, error) {
	logger := logging.WithContext(ctx, p.logger)

	jobID, err := p.svc.Submit(ctx, sourceLocator, languageHint)
	if err != nil {
		return Result{}, services.Wrap(services.ErrTransport, stageName, "submit", "start transcription job", err)
	}
	logger.Info("transcription job submitted",
		logging.String("job_id", jobID),
		logging.String("source", sourceLocator),
		logging.String("language", languageHint),
	)

	result := Result{JobID: jobID}
	interval := p.backoff.First()
	for {
		state, err := p.svc.Status(ctx, jobID)
		result.Polls++
		if err != nil {
			return result, services.Wrap(services.ErrTransport, stageName, "status", "check job "+jobID, err)
		}
		logger.Debug("transcription job status",
			logging.String("job_id", jobID),
			logging.String("status", state.Status.String()),
			logging.String("raw_status", state.Raw),
			logging.Int("poll", result.Polls),
		)

		switch {
		case state.Status.Pending():
			if err := p.sleep(ctx, interval); err != nil {
				return result, err
			}
			interval = p.backoff.Next(interval)
			continue

		case state.Status == StatusCompleted && state.ResultLocator != "":
			raw, err := p.svc.Fetch(ctx, state.ResultLocator)
			if err != nil {
				return result, services.Wrap(services.ErrTransport, stageName, "fetch", "download transcript", err)
			}
			text, err := p.svc.Parse(raw)
			if err != nil {
				return result, services.Wrap(services.ErrTransport, stageName, "parse", "decode transcript", err)
			}
			result.Text = text
			result.Outcome = OutcomeTranscribed

		case state.Status == StatusCompleted:
			result.Text = ResultMissingText
			result.Outcome = OutcomeResultMissing

		case state.Status == StatusFailed:
			result.Text = JobFailedText(state.FailureReason)
			result.Outcome = OutcomeJobFailed

		default:
			result.Text = UnexpectedStatusText
			result.Outcome = OutcomeUnexpectedStatus
		}

		attrs := []logging.Attr{
			logging.String("job_id", jobID),
			logging.String("outcome", string(result.Outcome)),
			logging.Int("polls", result.Polls),
		}
		if state.FailureReason != "" {
			attrs = append(attrs, logging.String("reason", state.FailureReason))
		}
		if result.Outcome.Absorbed() {
			logging.WarnWithContext(logger, "transcription job did not produce a transcript", "job_outcome", attrs...)
		} else {
			logger.Info("transcription job finished", logging.Args(attrs...)...)
		}
		return result, nil
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
