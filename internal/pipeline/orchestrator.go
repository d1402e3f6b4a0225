package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"distill/internal/config"
	"distill/internal/history"
	"distill/internal/logging"
	"distill/internal/notifications"
	"distill/internal/output"
	"distill/internal/progress"
	"distill/internal/runlock"
	"distill/internal/services"
	"distill/internal/summarize"
	"distill/internal/transcribe"
)

// Stage names used in logs and error details.
const (
	StageUpload         = "upload"
	StageTranscribe     = "transcribe"
	StageSummarize      = "summarize"
	StageDeliver        = "deliver"
	StageCleanup        = "cleanup"
	StageSaveTranscript = "save_transcript"
)

// Storage holds the uploaded source audio.
type Storage interface {
	Put(ctx context.Context, name string, body io.Reader) (string, error)
	Delete(ctx context.Context, locator string) error
}

// Transcriber turns an uploaded object into text. *transcribe.Poller satisfies it.
type Transcriber interface {
	Run(ctx context.Context, sourceLocator, languageHint string) (transcribe.Result, error)
}

// Notifier delivers the summary to webhooks. *notifications.Dispatcher satisfies it.
type Notifier interface {
	Dispatch(ctx context.Context, plan notifications.Plan, text string, opts ...notifications.DispatchOption) notifications.Aggregate
}

// History records runs. *history.Store satisfies it.
type History interface {
	Start(ctx context.Context, rec history.Record) error
	Finish(ctx context.Context, rec history.Record) error
}

// Deps are the orchestrator's collaborators. Slack and Teams are only
// required for modes that use them; History and LockDir are optional.
type Deps struct {
	Storage     Storage
	Transcriber Transcriber
	Summarizer  summarize.Summarizer
	Writer      output.Writer
	Slack       Notifier
	Teams       Notifier
	History     History
	Tracker     *progress.Tracker
	Logger      *slog.Logger

	// JobOutcomePolicy is config.JobOutcomeAbsorb (default) or config.JobOutcomeAbort.
	JobOutcomePolicy string
	// LockDir enables the per-output-base run lock when set.
	LockDir string
}

// Orchestrator runs Upload, Transcribe, Summarize, Deliver and the optional
// Cleanup and SaveTranscript stages strictly in sequence.
type Orchestrator struct {
	deps    Deps
	tracker *progress.Tracker
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// New validates deps and returns an orchestrator.
func New(deps Deps) (*Orchestrator, error) {
	switch {
	case deps.Storage == nil:
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "storage is required", nil)
	case deps.Transcriber == nil:
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "transcriber is required", nil)
	case deps.Summarizer == nil:
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "summarizer is required", nil)
	}
	if deps.Writer == nil {
		deps.Writer = output.NewFileWriter()
	}
	tracker := deps.Tracker
	if tracker == nil {
		tracker = progress.NewTracker(nil, nil)
	}
	return &Orchestrator{
		deps:    deps,
		tracker: tracker,
		logger:  logging.NewComponentLogger(deps.Logger, "pipeline"),
		now:     time.Now,
		newID:   uuid.NewString,
	}, nil
}

// Tracker returns the progress tracker shared with the dispatchers.
func (o *Orchestrator) Tracker() *progress.Tracker {
	return o.tracker
}

// Run executes one pipeline invocation. Webhook failures never make it
// return an error; only fatal stage failures do.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (Report, error) {
	if err := opts.validate(); err != nil {
		return Report{}, err
	}
	if err := o.checkNotifiers(opts.Mode); err != nil {
		return Report{}, err
	}
	lock, err := o.acquireLock(opts.OutputBase)
	if err != nil {
		return Report{}, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			o.logger.Warn("release run lock failed", logging.Error(err))
		}
	}()

	report := Report{RunID: o.newID(), StartedAt: o.now()}
	ctx = services.WithRunID(ctx, report.RunID)
	logger := logging.WithContext(ctx, o.logger)

	o.tracker.Reset()
	o.recordStart(ctx, logger, opts, report)
	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("input", opts.InputPath),
		logging.String("mode", opts.Mode.Name()),
		logging.String("output_base", opts.OutputBase),
		logging.String("language", opts.Language),
	)

	runErr := o.run(ctx, logger, opts, &report)
	report.FinishedAt = o.now()

	var failed *stageError
	if errors.As(runErr, &failed) {
		runErr = failed.err
		o.tracker.Fail(fmt.Sprintf("%s failed: %v", stageLabel(failed.stage), runErr))
	} else if runErr == nil {
		o.tracker.Succeed("Done!")
	}
	o.recordFinish(ctx, logger, opts, report, runErr)
	if runErr != nil {
		logger.Error("run failed",
			logging.String(logging.FieldEventType, "run_failed"),
			logging.Error(runErr),
		)
		return report, runErr
	}
	logger.Info("run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Duration("duration", report.FinishedAt.Sub(report.StartedAt)),
		logging.String("delivery", report.DeliverySummary()),
	)
	return report, nil
}

func (o *Orchestrator) run(ctx context.Context, logger *slog.Logger, opts Options, report *Report) error {
	if err := o.stage(ctx, StageUpload, func(ctx context.Context, logger *slog.Logger) error {
		return o.upload(ctx, logger, opts, report)
	}); err != nil {
		return err
	}

	if err := o.stage(ctx, StageTranscribe, func(ctx context.Context, logger *slog.Logger) error {
		return o.transcribe(ctx, logger, opts, report)
	}); err != nil {
		o.logAbandonedSource(logger, report.SourceLocator)
		return err
	}

	if err := o.stage(ctx, StageSummarize, func(ctx context.Context, logger *slog.Logger) error {
		o.tracker.Update("Summarizing text...")
		summary, err := o.deps.Summarizer.Summarize(ctx, report.Transcript)
		if err != nil {
			return services.Wrap(services.ErrTransport, StageSummarize, o.deps.Summarizer.Provider(), "summarize transcript", err)
		}
		report.Summary = summary
		return nil
	}); err != nil {
		o.logAbandonedSource(logger, report.SourceLocator)
		return err
	}

	deliverErr := o.stage(ctx, StageDeliver, func(ctx context.Context, logger *slog.Logger) error {
		return o.deliver(ctx, opts, report)
	})

	// An interrupt during delivery must not leave the upload behind.
	cleanupCtx := context.WithoutCancel(ctx)
	if opts.DeleteSource {
		_ = o.stage(cleanupCtx, StageCleanup, func(ctx context.Context, logger *slog.Logger) error {
			if err := o.deps.Storage.Delete(ctx, report.SourceLocator); err != nil {
				report.CleanupErr = err
				o.tracker.Log(fmt.Sprintf("Failed to delete %s: %v", report.SourceLocator, err))
				logging.WarnWithContext(logger, "source cleanup failed", "cleanup_failed",
					logging.String("locator", report.SourceLocator),
					logging.Error(err),
					logging.String(logging.FieldImpact, "uploaded audio remains in the bucket"))
			}
			return nil
		})
	}

	if opts.SaveTranscript {
		_ = o.stage(ctx, StageSaveTranscript, func(ctx context.Context, logger *slog.Logger) error {
			path := output.PathFor(opts.OutputBase, output.KindTranscript)
			if err := o.deps.Writer.Write(output.KindTranscript, path, report.Transcript); err != nil {
				report.TranscriptErr = err
				o.tracker.Log(fmt.Sprintf("Error writing transcript file: %v", err))
				logging.WarnWithContext(logger, "transcript save failed", "transcript_failed",
					logging.String("path", path),
					logging.Error(err),
					logging.String(logging.FieldImpact, "full transcript not saved"))
				return nil
			}
			report.TranscriptPath = path
			o.tracker.Log("Full transcript saved to " + path)
			return nil
		})
	}

	return deliverErr
}

func (o *Orchestrator) upload(ctx context.Context, logger *slog.Logger, opts Options, report *Report) error {
	o.tracker.Update("Uploading file to S3...")
	file, err := os.Open(opts.InputPath)
	if err != nil {
		return services.Wrap(services.ErrTransport, StageUpload, "open", "open input", err)
	}
	defer file.Close()

	locator, err := o.deps.Storage.Put(ctx, filepath.Base(opts.InputPath), file)
	if err != nil {
		return services.Wrap(services.ErrTransport, StageUpload, "put", "upload source audio", err)
	}
	report.SourceLocator = locator
	logger.Info("source uploaded", logging.String("locator", locator))
	return nil
}

func (o *Orchestrator) transcribe(ctx context.Context, logger *slog.Logger, opts Options, report *Report) error {
	o.tracker.Update("Transcribing audio...")
	result, err := o.deps.Transcriber.Run(ctx, report.SourceLocator, opts.Language)
	report.JobID = result.JobID
	if err != nil {
		return err
	}
	report.JobOutcome = result.Outcome
	report.Transcript = result.Text
	if result.Outcome.Absorbed() && o.deps.JobOutcomePolicy == config.JobOutcomeAbort {
		return services.Wrap(services.ErrJobOutcome, StageTranscribe, string(result.Outcome), result.Text, nil)
	}
	if result.Outcome.Absorbed() {
		logging.WarnWithContext(logger, "transcription job did not produce a transcript", "job_outcome_absorbed",
			logging.String("job_id", result.JobID),
			logging.String("outcome", string(result.Outcome)),
			logging.String(logging.FieldImpact, "the summary describes the job outcome instead of the audio"))
	}
	logger.Info("transcript ready",
		logging.String("job_id", result.JobID),
		logging.String("outcome", string(result.Outcome)),
		logging.Int("polls", result.Polls),
		logging.Int("characters", len(result.Text)),
	)
	return nil
}

func (o *Orchestrator) deliver(ctx context.Context, opts Options, report *Report) error {
	text := report.Summary
	switch opts.Mode.(type) {
	case Terminal:
		o.tracker.Succeed("Done!")
		o.tracker.Log(fmt.Sprintf("Summary:\n%s\n", text))
		return nil
	case Text:
		return o.writeSummary(opts.OutputBase, output.KindText, text, report, true)
	case Markdown:
		return o.writeSummary(opts.OutputBase, output.KindMarkdown, text, report, true)
	case Word:
		return o.writeSummary(opts.OutputBase, output.KindWord, text, report, true)
	case Slack:
		o.dispatch(ctx, o.deps.Slack, opts.Slack, text, report)
		return nil
	case SlackSplit:
		if err := o.writeSummary(opts.OutputBase, output.KindText, text, report, false); err != nil {
			return err
		}
		o.dispatch(ctx, o.deps.Slack, opts.Slack, text, report)
		return nil
	case Teams:
		o.dispatch(ctx, o.deps.Teams, opts.Teams, text, report,
			notifications.WithTitle(opts.TeamsTitle),
			notifications.WithSuccessMessage("Summary sent to Teams!"))
		return nil
	case TeamsSplit:
		if err := o.writeSummary(opts.OutputBase, output.KindText, text, report, false); err != nil {
			return err
		}
		o.dispatch(ctx, o.deps.Teams, opts.Teams, text, report,
			notifications.WithTitle(opts.TeamsTitle),
			notifications.WithSuccessMessage("Summary sent to Teams and written to output file!"))
		return nil
	default:
		return services.Wrap(services.ErrValidation, StageDeliver, "mode", fmt.Sprintf("unsupported output mode %T", opts.Mode), nil)
	}
}

func (o *Orchestrator) writeSummary(base string, kind output.Kind, text string, report *Report, finalize bool) error {
	path := output.PathFor(base, kind)
	if err := o.deps.Writer.Write(kind, path, text); err != nil {
		return services.Wrap(services.ErrWriter, StageDeliver, kind.String(), "write "+path, err)
	}
	report.OutputPath = path
	if finalize {
		o.tracker.Succeed("Done!")
	}
	o.tracker.Log("Summary written to " + path)
	return nil
}

func (o *Orchestrator) dispatch(ctx context.Context, notifier Notifier, plan notifications.Plan, text string, report *Report, opts ...notifications.DispatchOption) {
	agg := notifier.Dispatch(ctx, plan, text, opts...)
	report.Delivery = &agg
}

// stage wraps fn with start/complete/failed lifecycle logs.
func (o *Orchestrator) stage(ctx context.Context, name string, fn func(context.Context, *slog.Logger) error) error {
	stageCtx := services.WithStage(ctx, name)
	logger := logging.WithContext(stageCtx, o.logger)
	logger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))
	started := o.now()

	if err := fn(stageCtx, logger); err != nil {
		logger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failed"),
			logging.Error(err),
		)
		return &stageError{stage: name, err: err}
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("duration", o.now().Sub(started)),
	)
	return nil
}

func (o *Orchestrator) logAbandonedSource(logger *slog.Logger, locator string) {
	if locator == "" {
		return
	}
	logging.WarnWithContext(logger, "uploaded source left in place", "source_abandoned",
		logging.String("locator", locator),
		logging.String(logging.FieldImpact, "delete the object by hand"))
}

func (o *Orchestrator) checkNotifiers(mode OutputMode) error {
	if UsesSlack(mode) && o.deps.Slack == nil {
		return services.Wrap(services.ErrConfiguration, "options", "mode", "slack dispatcher is not configured", nil)
	}
	if UsesTeams(mode) && o.deps.Teams == nil {
		return services.Wrap(services.ErrConfiguration, "options", "mode", "teams dispatcher is not configured", nil)
	}
	return nil
}

func (o *Orchestrator) acquireLock(base string) (*runlock.Lock, error) {
	if strings.TrimSpace(o.deps.LockDir) == "" {
		return nil, nil
	}
	lock, err := runlock.Acquire(o.deps.LockDir, base)
	if errors.Is(err, runlock.ErrLocked) {
		return nil, services.Wrap(services.ErrValidation, "options", "lock", fmt.Sprintf("another run is writing %s", base), err)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "options", "lock", "acquire run lock", err)
	}
	return lock, nil
}

func (o *Orchestrator) recordStart(ctx context.Context, logger *slog.Logger, opts Options, report Report) {
	if o.deps.History == nil {
		return
	}
	err := o.deps.History.Start(ctx, history.Record{
		ID:         report.RunID,
		InputPath:  opts.InputPath,
		OutputMode: opts.Mode.Name(),
		OutputBase: opts.OutputBase,
		Language:   opts.Language,
		StartedAt:  report.StartedAt.UTC(),
	})
	if err != nil {
		logger.Warn("record run start failed", logging.Error(err))
	}
}

func (o *Orchestrator) recordFinish(ctx context.Context, logger *slog.Logger, opts Options, report Report, runErr error) {
	if o.deps.History == nil {
		return
	}
	finished := report.FinishedAt.UTC()
	rec := history.Record{
		ID:            report.RunID,
		SourceLocator: report.SourceLocator,
		JobID:         report.JobID,
		JobOutcome:    string(report.JobOutcome),
		Delivery:      report.DeliverySummary(),
		Status:        history.StatusSucceeded,
		FinishedAt:    &finished,
	}
	if runErr != nil {
		rec.Status = history.StatusFailed
		rec.ErrorMessage = runErr.Error()
	}
	// The run context may already be cancelled; the record should still land.
	if err := o.deps.History.Finish(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("record run finish failed", logging.Error(err))
	}
}

type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.err.Error() }

func (e *stageError) Unwrap() error { return e.err }

func stageLabel(stage string) string {
	switch stage {
	case StageUpload:
		return "Upload"
	case StageTranscribe:
		return "Transcription"
	case StageSummarize:
		return "Summarization"
	case StageDeliver:
		return "Delivery"
	default:
		return stage
	}
}
