package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscribe(); err != nil {
		return err
	}
	if err := c.validateModel(); err != nil {
		return err
	}
	if err := c.validateWebhooks("slack", c.Slack.WebhookEndpoint, c.Slack.Webhooks); err != nil {
		return err
	}
	if err := c.validateWebhooks("teams", c.Teams.WebhookEndpoint, c.Teams.Webhooks); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// RequireBucket reports a configuration error when no upload bucket is known.
func (c *Config) RequireBucket() error {
	if strings.TrimSpace(c.AWS.S3BucketName) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/distill/config.toml"
		}
		return fmt.Errorf("aws.s3_bucket_name is required. Set DISTILL_S3_BUCKET or edit %s (create with 'distill config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateTranscribe() error {
	t := c.Transcribe
	if t.PollInitialSeconds <= 0 {
		return errors.New("transcribe.poll_initial_seconds must be positive")
	}
	if t.PollIncrementSeconds < 0 {
		return errors.New("transcribe.poll_increment_seconds must be zero or positive")
	}
	if t.PollMaxSeconds < t.PollInitialSeconds {
		return errors.New("transcribe.poll_max_seconds must be at least poll_initial_seconds")
	}
	switch t.JobOutcomePolicy {
	case JobOutcomeAbsorb, JobOutcomeAbort:
	default:
		return fmt.Errorf("transcribe.job_outcome_policy must be %q or %q", JobOutcomeAbsorb, JobOutcomeAbort)
	}
	return nil
}

func (c *Config) validateModel() error {
	switch c.Model.Provider {
	case ProviderBedrock, ProviderOpenRouter, ProviderGemini:
	default:
		return fmt.Errorf("model.provider must be one of %s, %s, %s", ProviderBedrock, ProviderOpenRouter, ProviderGemini)
	}
	if c.Model.ModelID == "" {
		return errors.New("model.model_id must be set")
	}
	if c.Model.MaxTokens <= 0 {
		return errors.New("model.max_tokens must be positive")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 1 {
		return errors.New("model.temperature must be between 0 and 1")
	}
	if c.Model.TopP < 0 || c.Model.TopP > 1 {
		return errors.New("model.top_p must be between 0 and 1")
	}
	if c.Model.TopK < 0 {
		return errors.New("model.top_k must be zero or positive")
	}
	return nil
}

func (c *Config) validateWebhooks(section, legacy string, hooks []Webhook) error {
	if legacy != "" {
		if err := validateEndpoint(legacy); err != nil {
			return fmt.Errorf("%s.webhook_endpoint %w", section, err)
		}
	}
	seen := make(map[string]struct{}, len(hooks))
	for i, hook := range hooks {
		if _, ok := seen[hook.Name]; ok {
			return fmt.Errorf("%s.webhooks[%d].name %q is duplicated", section, i, hook.Name)
		}
		seen[hook.Name] = struct{}{}
		// Blank endpoints are tolerated and skipped at selection time.
		if hook.Endpoint == "" {
			continue
		}
		if err := validateEndpoint(hook.Endpoint); err != nil {
			return fmt.Errorf("%s.webhooks[%d].endpoint %w", section, i, err)
		}
	}
	return nil
}

func validateEndpoint(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("must be a valid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("must use http or https")
	}
	if parsed.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout < 0 {
		return errors.New("notifications.request_timeout must be zero or positive")
	}
	if c.LLM.TimeoutSeconds < 0 {
		return errors.New("llm.timeout_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
