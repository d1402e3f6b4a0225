package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"

	"distill/internal/config"
	"distill/internal/services/bedrock"
	"distill/internal/services/gemini"
	"distill/internal/services/llm"
)

// Summarizer turns a transcript into summary text.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
	Provider() string
}

// Completer sends one fully built prompt to a model.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// BuildPrompt joins the configured template and the transcript.
func BuildPrompt(template, transcript string) string {
	return template + "\n\n" + transcript
}

// Prompted summarizes by sending BuildPrompt's output to a Completer.
type Prompted struct {
	provider  string
	template  string
	completer Completer
}

// NewPrompted wraps completer under the given provider name.
func NewPrompted(provider, template string, completer Completer) *Prompted {
	return &Prompted{provider: provider, template: template, completer: completer}
}

func (p *Prompted) Provider() string { return p.provider }

func (p *Prompted) Summarize(ctx context.Context, transcript string) (string, error) {
	text, err := p.completer.Complete(ctx, BuildPrompt(p.template, transcript))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// openRouter keeps the system prompt as a separate chat message.
type openRouter struct {
	client   *llm.Client
	system   string
	template string
}

func (o *openRouter) Provider() string { return config.ProviderOpenRouter }

func (o *openRouter) Summarize(ctx context.Context, transcript string) (string, error) {
	return o.client.Complete(ctx, o.system, BuildPrompt(o.template, transcript))
}

// New builds the summarizer selected by model.provider. awsCfg is only used
// for the bedrock provider.
func New(ctx context.Context, cfg *config.Config, awsCfg aws.Config) (Summarizer, error) {
	if cfg == nil {
		return nil, errors.New("summarize: config required")
	}
	template := cfg.Prompt.Template
	switch cfg.Model.Provider {
	case config.ProviderBedrock, "":
		client := bedrock.NewFromAWS(awsCfg, bedrock.Config{
			ModelID:          cfg.Model.ModelID,
			AnthropicVersion: cfg.Anthropic.Version,
			System:           cfg.Anthropic.System,
			MaxTokens:        cfg.Model.MaxTokens,
			Temperature:      cfg.Model.Temperature,
			TopP:             cfg.Model.TopP,
			TopK:             cfg.Model.TopK,
		})
		return NewPrompted(config.ProviderBedrock, template, client), nil
	case config.ProviderOpenRouter:
		llmCfg := cfg.GetLLM()
		client := llm.NewClient(llm.Config{
			APIKey:         llmCfg.APIKey,
			BaseURL:        llmCfg.BaseURL,
			Model:          llmCfg.Model,
			Referer:        llmCfg.Referer,
			Title:          llmCfg.Title,
			TimeoutSeconds: llmCfg.TimeoutSeconds,
			MaxTokens:      llmCfg.MaxTokens,
			Temperature:    llmCfg.Temperature,
			TopP:           llmCfg.TopP,
		})
		return &openRouter{client: client, system: cfg.Anthropic.System, template: template}, nil
	case config.ProviderGemini:
		client, err := gemini.New(ctx, gemini.Config{
			APIKey:      cfg.Gemini.APIKey,
			Model:       cfg.Model.ModelID,
			System:      cfg.Anthropic.System,
			MaxTokens:   cfg.Model.MaxTokens,
			Temperature: cfg.Model.Temperature,
			TopP:        cfg.Model.TopP,
			TopK:        cfg.Model.TopK,
		})
		if err != nil {
			return nil, err
		}
		return NewPrompted(config.ProviderGemini, template, client), nil
	default:
		return nil, fmt.Errorf("summarize: unknown provider %q", cfg.Model.Provider)
	}
}

// Func adapts a plain function to Summarizer.
type Func func(ctx context.Context, transcript string) (string, error)

func (f Func) Summarize(ctx context.Context, transcript string) (string, error) {
	return f(ctx, transcript)
}

func (Func) Provider() string { return "func" }
