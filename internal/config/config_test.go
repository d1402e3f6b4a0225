package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"distill/internal/config"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"DISTILL_S3_BUCKET", "AWS_REGION", "OPENROUTER_API_KEY", "GEMINI_API_KEY", "DISTILL_SLACK_WEBHOOK", "DISTILL_TEAMS_WEBHOOK"} {
		t.Setenv(key, "")
	}
	return home
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	home := isolateEnv(t)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(home, ".local", "share", "distill")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Transcribe.JobOutcomePolicy != config.JobOutcomeAbsorb {
		t.Fatalf("expected absorb policy by default, got %q", cfg.Transcribe.JobOutcomePolicy)
	}
	if cfg.Model.Provider != config.ProviderBedrock {
		t.Fatalf("expected bedrock provider by default, got %q", cfg.Model.Provider)
	}
	if cfg.Teams.CardTitle != "A meeting from today..." {
		t.Fatalf("unexpected card title %q", cfg.Teams.CardTitle)
	}
	if cfg.Slack.Webhooks != nil {
		t.Fatalf("expected no slack webhooks list by default, got %v", cfg.Slack.Webhooks)
	}
	if err := cfg.RequireBucket(); err == nil {
		t.Fatal("expected missing bucket to be reported")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomTOMLPath(t *testing.T) {
	isolateEnv(t)
	configPath := filepath.Join(t.TempDir(), "distill.toml")

	type webhook struct {
		Name     string `toml:"name"`
		Endpoint string `toml:"endpoint"`
	}
	type payload struct {
		AWS struct {
			Bucket string `toml:"s3_bucket_name"`
		} `toml:"aws"`
		Slack struct {
			Webhooks []webhook `toml:"webhooks"`
		} `toml:"slack"`
		Transcribe struct {
			Policy string `toml:"job_outcome_policy"`
		} `toml:"transcribe"`
	}
	custom := payload{}
	custom.AWS.Bucket = "meetings"
	custom.Transcribe.Policy = "ABORT"
	custom.Slack.Webhooks = []webhook{
		{Name: "eng", Endpoint: "https://hooks.example.com/eng"},
		{Endpoint: "https://hooks.example.com/ops"},
	}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom path to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.AWS.S3BucketName != "meetings" {
		t.Fatalf("unexpected bucket %q", cfg.AWS.S3BucketName)
	}
	if cfg.Transcribe.JobOutcomePolicy != config.JobOutcomeAbort {
		t.Fatalf("expected policy to be lowercased, got %q", cfg.Transcribe.JobOutcomePolicy)
	}
	if len(cfg.Slack.Webhooks) != 2 {
		t.Fatalf("expected 2 webhooks, got %d", len(cfg.Slack.Webhooks))
	}
	if cfg.Slack.Webhooks[1].Name != "Webhook 2" {
		t.Fatalf("expected unnamed webhook to get positional name, got %q", cfg.Slack.Webhooks[1].Name)
	}
	if err := cfg.RequireBucket(); err != nil {
		t.Fatalf("RequireBucket: %v", err)
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	isolateEnv(t)
	configPath := filepath.Join(t.TempDir(), "distill.yaml")
	content := strings.Join([]string{
		"aws:",
		"  s3_bucket_name: recordings",
		"model:",
		"  provider: gemini",
		"  model_id: gemini-2.5-flash",
		"teams:",
		"  webhooks:",
		"    - name: room",
		"      endpoint: https://teams.example.com/hook",
		"",
	}, "\n")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.AWS.S3BucketName != "recordings" {
		t.Fatalf("unexpected bucket %q", cfg.AWS.S3BucketName)
	}
	if cfg.Model.Provider != config.ProviderGemini {
		t.Fatalf("unexpected provider %q", cfg.Model.Provider)
	}
	if cfg.Model.MaxTokens != config.Default().Model.MaxTokens {
		t.Fatalf("expected default max tokens to survive partial YAML, got %d", cfg.Model.MaxTokens)
	}
	if len(cfg.Teams.Webhooks) != 1 || cfg.Teams.Webhooks[0].Name != "room" {
		t.Fatalf("unexpected teams webhooks %+v", cfg.Teams.Webhooks)
	}
}

func TestEnvFallbacks(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DISTILL_S3_BUCKET", "env-bucket")
	t.Setenv("DISTILL_SLACK_WEBHOOK", "https://hooks.example.com/env")
	t.Chdir(t.TempDir())

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.AWS.S3BucketName != "env-bucket" {
		t.Fatalf("expected bucket from env, got %q", cfg.AWS.S3BucketName)
	}
	if cfg.Slack.WebhookEndpoint != "https://hooks.example.com/env" {
		t.Fatalf("expected slack endpoint from env, got %q", cfg.Slack.WebhookEndpoint)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"policy", func(c *config.Config) { c.Transcribe.JobOutcomePolicy = "retry" }, "job_outcome_policy"},
		{"poll cap", func(c *config.Config) { c.Transcribe.PollMaxSeconds = 1; c.Transcribe.PollInitialSeconds = 5 }, "poll_max_seconds"},
		{"provider", func(c *config.Config) { c.Model.Provider = "local" }, "model.provider"},
		{"endpoint", func(c *config.Config) { c.Slack.WebhookEndpoint = "ftp://example.com" }, "slack.webhook_endpoint"},
		{"duplicate", func(c *config.Config) {
			c.Teams.Webhooks = []config.Webhook{{Name: "a", Endpoint: "https://x.example.com"}, {Name: "a", Endpoint: "https://y.example.com"}}
		}, "duplicated"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	for _, name := range []string{"config.toml", "config.yaml"} {
		target := filepath.Join(dir, "nested", name)
		if err := config.CreateSample(target); err != nil {
			t.Fatalf("CreateSample(%s): %v", name, err)
		}
		cfg, _, exists, err := config.Load(target)
		if err != nil {
			t.Fatalf("Load sample %s: %v", name, err)
		}
		if !exists {
			t.Fatalf("expected sample %s to exist", name)
		}
		if cfg.Teams.IconName != "Flash" {
			t.Fatalf("unexpected icon name %q in %s", cfg.Teams.IconName, name)
		}
	}
}
