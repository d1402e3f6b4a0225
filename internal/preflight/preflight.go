package preflight

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"

	"distill/internal/config"
	"distill/internal/services/s3store"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Env carries the clients the network checks use. Nil fields skip the
// corresponding check with a failed result explaining why.
type Env struct {
	Credentials aws.CredentialsProvider
	Buckets     s3store.API
	// LLMHealth probes the OpenRouter endpoint; only used for that provider.
	LLMHealth func(ctx context.Context) error
}

// RunAll executes every check for cfg in a stable order.
func RunAll(ctx context.Context, cfg *config.Config, env Env) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckCredentials(ctx, env.Credentials),
		CheckBucket(ctx, env.Buckets, cfg.AWS.S3BucketName),
		CheckSummarizer(ctx, cfg, env.LLMHealth),
		CheckWebhooks("Slack", cfg.Slack.WebhookEndpoint, cfg.Slack.Webhooks),
		CheckWebhooks("Teams", cfg.Teams.WebhookEndpoint, cfg.Teams.Webhooks),
	}
	return results
}

// Failed counts results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}
