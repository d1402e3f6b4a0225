package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"distill/internal/config"
	"distill/internal/history"
	"distill/internal/logging"
	"distill/internal/notifications"
	"distill/internal/pipeline"
	"distill/internal/progress"
	"distill/internal/services"
	"distill/internal/services/awstranscribe"
	"distill/internal/services/s3store"
	"distill/internal/summarize"
	"distill/internal/transcribe"
)

type bucketChooser func(names []string) (string, error)

// runtime bundles the wired pipeline and the resources the caller must close.
type runtime struct {
	orchestrator *pipeline.Orchestrator
	history      *history.Store
	store        *s3store.Store
	summarizer   summarize.Summarizer
}

func (r *runtime) Close() {
	if r != nil && r.history != nil {
		_ = r.history.Close()
	}
}

func buildRuntime(ctx context.Context, cc *commandContext, cfg *config.Config, tracker *progress.Tracker, choose bucketChooser) (*runtime, error) {
	logger := cc.logger()

	awsCfg, err := cc.awsConfig(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, err
	}
	bucket, err := resolveBucket(ctx, s3.NewFromConfig(awsCfg), cfg.AWS.S3BucketName, choose)
	if err != nil {
		return nil, err
	}
	store, err := s3store.NewFromAWS(ctx, awsCfg, bucket)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "aws", "bucket", "detect bucket region", err)
	}
	logger.Info("bucket resolved",
		logging.String("bucket", store.Bucket()),
		logging.String("region", store.Region()),
	)

	regional := awsCfg.Copy()
	regional.Region = store.Region()
	poller := transcribe.NewPoller(
		awstranscribe.NewFromAWS(regional),
		transcribe.WithBackoff(transcribe.BackoffFromSeconds(
			cfg.Transcribe.PollInitialSeconds,
			cfg.Transcribe.PollIncrementSeconds,
			cfg.Transcribe.PollMaxSeconds,
		)),
		transcribe.WithLogger(logger),
	)

	summarizer, err := summarize.New(ctx, cfg, awsCfg)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "summarize", "init", "", err)
	}

	slack, teams := newDispatchers(cfg, tracker, logger)
	hist := openHistory(cfg, logger)

	deps := pipeline.Deps{
		Storage:          store,
		Transcriber:      poller,
		Summarizer:       summarizer,
		Slack:            slack,
		Teams:            teams,
		Tracker:          tracker,
		Logger:           logger,
		JobOutcomePolicy: cfg.Transcribe.JobOutcomePolicy,
		LockDir:          cfg.Paths.StateDir,
	}
	if hist != nil {
		deps.History = hist
	}
	orch, err := pipeline.New(deps)
	if err != nil {
		if hist != nil {
			_ = hist.Close()
		}
		return nil, err
	}
	return &runtime{orchestrator: orch, history: hist, store: store, summarizer: summarizer}, nil
}

func newDispatchers(cfg *config.Config, tracker *progress.Tracker, logger *slog.Logger) (*notifications.Dispatcher, *notifications.Dispatcher) {
	transport := notifications.NewHTTPTransport(time.Duration(cfg.Notifications.RequestTimeout) * time.Second)
	slack := notifications.NewDispatcher(notifications.SlackRenderer{}, transport, tracker, logger)
	teams := notifications.NewDispatcher(notifications.TeamsRenderer{
		Icon: notifications.Icon{
			Name:  cfg.Teams.IconName,
			Size:  cfg.Teams.IconSize,
			Style: cfg.Teams.IconStyle,
			Color: cfg.Teams.IconColor,
		},
		DefaultTitle: cfg.Teams.CardTitle,
	}, transport, tracker, logger)
	return slack, teams
}

// openHistory is best effort: a run without history still runs.
func openHistory(cfg *config.Config, logger *slog.Logger) *history.Store {
	store, err := history.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not appear in 'distill history'"))
		return nil
	}
	return store
}

// resolveBucket keeps the configured bucket when it exists, otherwise asks
// choose (nil when stdin is not a terminal) to pick from the account's buckets.
func resolveBucket(ctx context.Context, api s3store.API, configured string, choose bucketChooser) (string, error) {
	if configured != "" {
		ok, err := s3store.BucketExists(ctx, api, configured)
		if err != nil {
			return "", services.Wrap(services.ErrConfiguration, "aws", "bucket", "check bucket "+configured, err)
		}
		if ok {
			return configured, nil
		}
		if choose == nil {
			return "", services.Wrap(services.ErrConfiguration, "aws", "bucket", fmt.Sprintf("the configured S3 bucket %q was not found", configured), nil)
		}
	} else if choose == nil {
		return "", services.Wrap(services.ErrConfiguration, "aws", "bucket", "aws.s3_bucket_name is required; set DISTILL_S3_BUCKET or run 'distill config init'", nil)
	}

	names, err := s3store.ListBuckets(ctx, api)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "aws", "bucket", "list buckets", err)
	}
	if len(names) == 0 {
		return "", services.Wrap(services.ErrConfiguration, "aws", "bucket", "no S3 buckets found; create a bucket first", nil)
	}
	name, err := choose(names)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "aws", "bucket", "", err)
	}
	return name, nil
}

// awsRegionOrDefault is used for display when the SDK resolved no region.
func awsRegionOrDefault(cfg aws.Config) string {
	if cfg.Region == "" {
		return s3store.DefaultRegion
	}
	return cfg.Region
}
