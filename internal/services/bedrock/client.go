package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// InvokeAPI is the subset of the Bedrock runtime client used here.
type InvokeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Config holds the Anthropic-on-Bedrock request parameters.
type Config struct {
	ModelID          string
	AnthropicVersion string
	System           string
	MaxTokens        int
	Temperature      float64
	TopP             float64
	TopK             int
}

// Client invokes Anthropic models hosted on Bedrock.
type Client struct {
	cfg Config
	api InvokeAPI
}

// New wraps an existing Bedrock runtime client.
func New(cfg Config, api InvokeAPI) *Client {
	return &Client{cfg: cfg, api: api}
}

// NewFromAWS builds a client from an AWS SDK configuration.
func NewFromAWS(awsCfg aws.Config, cfg Config) *Client {
	return New(cfg, bedrockruntime.NewFromConfig(awsCfg))
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type invokeRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	System           string    `json:"system,omitempty"`
	Messages         []message `json:"messages"`
	Temperature      float64   `json:"temperature"`
	TopP             float64   `json:"top_p"`
	TopK             int       `json:"top_k"`
}

type invokeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// Complete sends prompt as the single user message and returns the first
// content block's text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(c.cfg.ModelID) == "" {
		return "", errors.New("bedrock: model id required")
	}
	body, err := json.Marshal(c.request(prompt))
	if err != nil {
		return "", fmt.Errorf("bedrock: encode request: %w", err)
	}
	out, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.cfg.ModelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("bedrock: invoke model %s: %w", c.cfg.ModelID, err)
	}
	return parseResponse(out.Body)
}

func (c *Client) request(prompt string) invokeRequest {
	return invokeRequest{
		AnthropicVersion: c.cfg.AnthropicVersion,
		MaxTokens:        c.cfg.MaxTokens,
		System:           strings.TrimSpace(c.cfg.System),
		Messages:         []message{{Role: "user", Content: prompt}},
		Temperature:      c.cfg.Temperature,
		TopP:             c.cfg.TopP,
		TopK:             c.cfg.TopK,
	}
}

func parseResponse(body []byte) (string, error) {
	var resp invokeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("bedrock: decode response: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("bedrock: response has no content (stop_reason=%q)", resp.StopReason)
	}
	// Models sometimes emit escaped newlines inside the text block.
	return strings.ReplaceAll(resp.Content[0].Text, `\n`, "\n"), nil
}
