package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"golang.org/x/sys/unix"

	"distill/internal/config"
	"distill/internal/services/s3store"
)

const (
	credentialTimeout = 10 * time.Second
	llmTimeout        = 30 * time.Second
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCredentials resolves AWS credentials through the SDK's default chain.
func CheckCredentials(ctx context.Context, provider aws.CredentialsProvider) Result {
	const name = "AWS credentials"
	if provider == nil {
		return Result{Name: name, Detail: "no credential provider configured"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, credentialTimeout)
	defer cancel()

	creds, err := provider.Retrieve(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	detail := "resolved"
	if creds.Source != "" {
		detail = "resolved via " + creds.Source
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckBucket verifies the configured upload bucket exists and reports its region.
func CheckBucket(ctx context.Context, api s3store.API, bucket string) Result {
	const name = "S3 bucket"
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return Result{Name: name, Detail: "aws.s3_bucket_name not set (you will be asked to choose one)"}
	}
	if api == nil {
		return Result{Name: name, Detail: bucket + " (not checked: no S3 client)"}
	}
	ok, err := s3store.BucketExists(ctx, api, bucket)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s)", bucket, summarizeError(err))}
	}
	if !ok {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not found)", bucket)}
	}
	region, err := s3store.BucketRegion(ctx, api, bucket)
	if err != nil {
		return Result{Name: name, Passed: true, Detail: bucket + " (region unknown)"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", bucket, region)}
}

// CheckSummarizer verifies the selected provider has what it needs. Only
// OpenRouter is probed over the network; Bedrock relies on the AWS
// credential check and Gemini on its API key.
func CheckSummarizer(ctx context.Context, cfg *config.Config, health func(context.Context) error) Result {
	name := "Summarizer (" + cfg.Model.Provider + ")"
	switch cfg.Model.Provider {
	case config.ProviderOpenRouter:
		llm := cfg.GetLLM()
		if llm.APIKey == "" {
			return Result{Name: name, Detail: "API key missing (set llm.api_key or OPENROUTER_API_KEY)"}
		}
		if health == nil {
			return Result{Name: name, Passed: true, Detail: llm.Model + " (not probed)"}
		}
		checkCtx, cancel := context.WithTimeout(ctx, llmTimeout)
		defer cancel()
		if err := health(checkCtx); err != nil {
			return Result{Name: name, Detail: summarizeError(err)}
		}
		return Result{Name: name, Passed: true, Detail: llm.Model + " (API reachable)"}
	case config.ProviderGemini:
		if strings.TrimSpace(cfg.Gemini.APIKey) == "" {
			return Result{Name: name, Detail: "API key missing (set gemini.api_key or GEMINI_API_KEY)"}
		}
		return Result{Name: name, Passed: true, Detail: cfg.Model.ModelID}
	default:
		return Result{Name: name, Passed: true, Detail: cfg.Model.ModelID}
	}
}

// CheckWebhooks reports how many delivery targets a service has. An
// unconfigured service passes: summaries fall back to the console.
func CheckWebhooks(service, endpoint string, hooks []config.Webhook) Result {
	name := service + " webhooks"
	if hooks == nil {
		if strings.TrimSpace(endpoint) == "" {
			return Result{Name: name, Passed: true, Detail: "not configured"}
		}
		return Result{Name: name, Passed: true, Detail: "single endpoint"}
	}
	usable := 0
	for _, hook := range hooks {
		if strings.TrimSpace(hook.Endpoint) != "" {
			usable++
		}
	}
	if usable == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%d configured, none with an endpoint", len(hooks))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d of %d usable", usable, len(hooks))}
}

func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out (unreachable)"
	}
	return err.Error()
}
