package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Generator is the slice of the genai Models API used for summaries.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config carries the Gemini model parameters.
type Config struct {
	APIKey      string
	Model       string
	System      string
	MaxTokens   int
	Temperature float64
	TopP        float64
	TopK        int
}

// Client produces text completions through the Gemini API.
type Client struct {
	cfg       Config
	generator Generator
}

// New builds a client backed by the public Gemini API.
func New(ctx context.Context, cfg Config) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key required")
	}
	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return NewWithGenerator(cfg, sdk.Models), nil
}

// NewWithGenerator wires an explicit generator, used by tests.
func NewWithGenerator(cfg Config, generator Generator) *Client {
	cfg.Model = strings.TrimSpace(cfg.Model)
	return &Client{cfg: cfg, generator: generator}
}

// Complete sends prompt and returns the concatenated text of the first candidate.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.cfg.Model == "" {
		return "", errors.New("gemini: model required")
	}
	resp, err := c.generator.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), c.generationConfig())
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}

func (c *Client) generationConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(c.cfg.Temperature)),
	}
	if c.cfg.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(c.cfg.MaxTokens)
	}
	if c.cfg.TopP > 0 {
		cfg.TopP = genai.Ptr(float32(c.cfg.TopP))
	}
	if c.cfg.TopK > 0 {
		cfg.TopK = genai.Ptr(float32(c.cfg.TopK))
	}
	if system := strings.TrimSpace(c.cfg.System); system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	return cfg
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}
