package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAWS()
	c.normalizeTranscribe()
	c.normalizeModel()
	c.normalizeWebhooks()
	c.normalizeTeamsCard()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAWS() {
	c.AWS.S3BucketName = strings.TrimSpace(c.AWS.S3BucketName)
	if c.AWS.S3BucketName == "" {
		if value, ok := os.LookupEnv("DISTILL_S3_BUCKET"); ok {
			c.AWS.S3BucketName = strings.TrimSpace(value)
		}
	}
	c.AWS.Region = strings.TrimSpace(c.AWS.Region)
	if value, ok := os.LookupEnv("AWS_REGION"); ok && strings.TrimSpace(value) != "" && c.AWS.Region == defaultRegion {
		c.AWS.Region = strings.TrimSpace(value)
	}
	if c.AWS.Region == "" {
		c.AWS.Region = defaultRegion
	}
}

func (c *Config) normalizeTranscribe() {
	c.Transcribe.JobOutcomePolicy = strings.ToLower(strings.TrimSpace(c.Transcribe.JobOutcomePolicy))
	if c.Transcribe.JobOutcomePolicy == "" {
		c.Transcribe.JobOutcomePolicy = defaultJobOutcomePolicy
	}
	c.Transcribe.LanguageCode = strings.TrimSpace(c.Transcribe.LanguageCode)
	if c.Transcribe.LanguageCode == "" {
		c.Transcribe.LanguageCode = defaultLanguageCode
	}
}

func (c *Config) normalizeModel() {
	c.Model.Provider = strings.ToLower(strings.TrimSpace(c.Model.Provider))
	if c.Model.Provider == "" {
		c.Model.Provider = defaultProvider
	}
	c.Model.ModelID = strings.TrimSpace(c.Model.ModelID)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		c.LLM.BaseURL = defaultOpenRouterBaseURL
	}
	if c.Gemini.APIKey == "" {
		if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
			c.Gemini.APIKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeWebhooks() {
	c.Slack.WebhookEndpoint = strings.TrimSpace(c.Slack.WebhookEndpoint)
	if c.Slack.WebhookEndpoint == "" && c.Slack.Webhooks == nil {
		if value, ok := os.LookupEnv("DISTILL_SLACK_WEBHOOK"); ok {
			c.Slack.WebhookEndpoint = strings.TrimSpace(value)
		}
	}
	c.Teams.WebhookEndpoint = strings.TrimSpace(c.Teams.WebhookEndpoint)
	if c.Teams.WebhookEndpoint == "" && c.Teams.Webhooks == nil {
		if value, ok := os.LookupEnv("DISTILL_TEAMS_WEBHOOK"); ok {
			c.Teams.WebhookEndpoint = strings.TrimSpace(value)
		}
	}
	trimWebhooks(c.Slack.Webhooks)
	trimWebhooks(c.Teams.Webhooks)
}

func trimWebhooks(hooks []Webhook) {
	for i := range hooks {
		hooks[i].Name = strings.TrimSpace(hooks[i].Name)
		hooks[i].Endpoint = strings.TrimSpace(hooks[i].Endpoint)
		if hooks[i].Name == "" {
			hooks[i].Name = fmt.Sprintf("Webhook %d", i+1)
		}
	}
}

func (c *Config) normalizeTeamsCard() {
	if strings.TrimSpace(c.Teams.CardTitle) == "" {
		c.Teams.CardTitle = defaultCardTitle
	}
	if strings.TrimSpace(c.Teams.IconName) == "" {
		c.Teams.IconName = defaultIconName
	}
	if strings.TrimSpace(c.Teams.IconSize) == "" {
		c.Teams.IconSize = defaultIconSize
	}
	if strings.TrimSpace(c.Teams.IconStyle) == "" {
		c.Teams.IconStyle = defaultIconStyle
	}
	if strings.TrimSpace(c.Teams.IconColor) == "" {
		c.Teams.IconColor = defaultIconColor
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
		c.Logging.Format = "json"
	default:
		c.Logging.Format = format
	}
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
