package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"
)

type fakeGenerator struct {
	model  string
	prompt string
	cfg    *genai.GenerateContentConfig
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.cfg = cfg
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func TestCompleteConcatenatesTextParts(t *testing.T) {
	gen := &fakeGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking", Thought: true},
				{Text: "Hello "},
				{Text: "there."},
			}},
		}},
	}}
	client := NewWithGenerator(Config{Model: "gemini-2.0-flash", MaxTokens: 500, TopK: 40, System: "be brief"}, gen)

	text, err := client.Complete(context.Background(), "Summarize: hi")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "Hello there." {
		t.Fatalf("unexpected text %q", text)
	}
	if gen.model != "gemini-2.0-flash" || gen.prompt != "Summarize: hi" {
		t.Fatalf("unexpected request model=%q prompt=%q", gen.model, gen.prompt)
	}
	if gen.cfg.MaxOutputTokens != 500 || gen.cfg.TopK == nil || *gen.cfg.TopK != 40 {
		t.Fatalf("unexpected generation config %#v", gen.cfg)
	}
	if gen.cfg.SystemInstruction == nil {
		t.Fatal("expected system instruction")
	}
}

func TestCompleteEmptyResponse(t *testing.T) {
	client := NewWithGenerator(Config{Model: "m"}, &fakeGenerator{resp: &genai.GenerateContentResponse{}})
	if _, err := client.Complete(context.Background(), "p"); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty response error, got %v", err)
	}
}

func TestCompleteWrapsGeneratorError(t *testing.T) {
	boom := errors.New("quota exceeded")
	client := NewWithGenerator(Config{Model: "m"}, &fakeGenerator{err: boom})
	if _, err := client.Complete(context.Background(), "p"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(context.Background(), Config{Model: "m"}); err == nil {
		t.Fatal("expected error without api key")
	}
}
