package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed sample_config.toml
var sampleConfig string

//go:embed sample_config.yaml
var sampleConfigYAML string

// AWS holds the object storage settings.
type AWS struct {
	Region       string `toml:"region" yaml:"region"`
	S3BucketName string `toml:"s3_bucket_name" yaml:"s3_bucket_name"`
}

// Transcribe tunes the transcription job poller.
type Transcribe struct {
	PollInitialSeconds   int    `toml:"poll_initial_seconds" yaml:"poll_initial_seconds"`
	PollIncrementSeconds int    `toml:"poll_increment_seconds" yaml:"poll_increment_seconds"`
	PollMaxSeconds       int    `toml:"poll_max_seconds" yaml:"poll_max_seconds"`
	JobOutcomePolicy     string `toml:"job_outcome_policy" yaml:"job_outcome_policy"`
	LanguageCode         string `toml:"language_code" yaml:"language_code"`
}

// Model selects the summarization provider and its sampling parameters.
type Model struct {
	Provider    string  `toml:"provider" yaml:"provider"`
	ModelID     string  `toml:"model_id" yaml:"model_id"`
	MaxTokens   int     `toml:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `toml:"temperature" yaml:"temperature"`
	TopP        float64 `toml:"top_p" yaml:"top_p"`
	TopK        int     `toml:"top_k" yaml:"top_k"`
}

// Anthropic holds the message-API fields sent to Bedrock.
type Anthropic struct {
	Version string `toml:"anthropic_version" yaml:"anthropic_version"`
	System  string `toml:"system" yaml:"system"`
}

// Prompt holds the summarization prompt template.
type Prompt struct {
	Template string `toml:"template" yaml:"template"`
}

// LLM contains OpenRouter connection settings used when model.provider is "openrouter".
type LLM struct {
	APIKey         string `toml:"api_key" yaml:"api_key"`
	BaseURL        string `toml:"base_url" yaml:"base_url"`
	Referer        string `toml:"referer" yaml:"referer"`
	Title          string `toml:"title" yaml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// Gemini contains settings used when model.provider is "gemini".
type Gemini struct {
	APIKey string `toml:"api_key" yaml:"api_key"`
}

// Webhook is one named webhook destination.
type Webhook struct {
	Name     string `toml:"name" yaml:"name"`
	Endpoint string `toml:"endpoint" yaml:"endpoint"`
}

// Slack configures Slack delivery. Either the legacy single endpoint or the
// named webhooks list is used; a declared list takes precedence.
type Slack struct {
	WebhookEndpoint string    `toml:"webhook_endpoint" yaml:"webhook_endpoint"`
	Webhooks        []Webhook `toml:"webhooks" yaml:"webhooks"`
}

// Teams configures Microsoft Teams delivery and the adaptive card styling.
type Teams struct {
	WebhookEndpoint string    `toml:"webhook_endpoint" yaml:"webhook_endpoint"`
	Webhooks        []Webhook `toml:"webhooks" yaml:"webhooks"`
	CardTitle       string    `toml:"card_title" yaml:"card_title"`
	IconName        string    `toml:"icon_name" yaml:"icon_name"`
	IconSize        string    `toml:"icon_size" yaml:"icon_size"`
	IconStyle       string    `toml:"icon_style" yaml:"icon_style"`
	IconColor       string    `toml:"icon_color" yaml:"icon_color"`
}

// Notifications holds transport settings shared by all webhook services.
type Notifications struct {
	RequestTimeout int `toml:"request_timeout" yaml:"request_timeout"`
}

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir" yaml:"state_dir"`
	LogDir   string `toml:"log_dir" yaml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" yaml:"format"`
	Level  string `toml:"level" yaml:"level"`
}

// Config encapsulates all configuration values for distill.
//
// Configuration sections by subsystem:
//   - AWS: bucket and region for uploads
//   - Transcribe: poll backoff and job outcome policy
//   - Model, Anthropic, Prompt: summarization request
//   - LLM, Gemini: alternative summarization providers
//   - Slack, Teams, Notifications: webhook delivery
//   - Paths, Logging: local state and log output
type Config struct {
	AWS           AWS           `toml:"aws" yaml:"aws"`
	Transcribe    Transcribe    `toml:"transcribe" yaml:"transcribe"`
	Model         Model         `toml:"model" yaml:"model"`
	Anthropic     Anthropic     `toml:"anthropic" yaml:"anthropic"`
	Prompt        Prompt        `toml:"prompt" yaml:"prompt"`
	LLM           LLM           `toml:"llm" yaml:"llm"`
	Gemini        Gemini        `toml:"gemini" yaml:"gemini"`
	Slack         Slack         `toml:"slack" yaml:"slack"`
	Teams         Teams         `toml:"teams" yaml:"teams"`
	Notifications Notifications `toml:"notifications" yaml:"notifications"`
	Paths         Paths         `toml:"paths" yaml:"paths"`
	Logging       Logging       `toml:"logging" yaml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/distill/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		if err := decodeFile(resolvedPath, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if isYAML(path) {
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse config: %w", err)
		}
		return nil
	}

	if err := toml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	for _, name := range []string{"config.toml", "distill.toml", "distill.yaml"} {
		projectPath, err := filepath.Abs(name)
		if err != nil {
			return "", false, err
		}
		if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
			return projectPath, true, nil
		}
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
// A path ending in .yaml or .yml receives the YAML rendition.
func CreateSample(path string) error {
	sample := sampleConfig
	if isYAML(path) {
		sample = sampleConfigYAML
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains the OpenRouter settings resolved against the model section.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
	MaxTokens      int
	Temperature    float64
	TopP           float64
}

// GetLLM returns the OpenRouter connection settings.
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(c.LLM.APIKey),
		BaseURL:        strings.TrimSpace(c.LLM.BaseURL),
		Model:          strings.TrimSpace(c.Model.ModelID),
		Referer:        strings.TrimSpace(c.LLM.Referer),
		Title:          strings.TrimSpace(c.LLM.Title),
		TimeoutSeconds: c.LLM.TimeoutSeconds,
		MaxTokens:      c.Model.MaxTokens,
		Temperature:    c.Model.Temperature,
		TopP:           c.Model.TopP,
	}
}
