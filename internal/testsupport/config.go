package testsupport

import (
	"path/filepath"
	"testing"

	"distill/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.AWS.S3BucketName = "test-bucket"
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBucket overrides the upload bucket.
func WithBucket(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.AWS.S3BucketName = name
	}
}

// WithSlackWebhooks replaces the Slack target list.
func WithSlackWebhooks(hooks ...config.Webhook) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Slack.Webhooks = append([]config.Webhook{}, hooks...)
	}
}

// WithTeamsWebhooks replaces the Teams target list.
func WithTeamsWebhooks(hooks ...config.Webhook) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Teams.Webhooks = append([]config.Webhook{}, hooks...)
	}
}

// WithJobOutcomePolicy sets transcribe.job_outcome_policy.
func WithJobOutcomePolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcribe.JobOutcomePolicy = policy
	}
}

// WithProvider sets the summarization provider.
func WithProvider(provider string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Model.Provider = provider
	}
}

// BaseDir returns the temp root used by the builder; handy for fixtures.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
