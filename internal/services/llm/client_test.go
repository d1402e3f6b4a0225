package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func chatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []any{
			map[string]any{
				"finish_reason": "stop",
				"message":       map[string]any{"content": content},
			},
		},
	}
}

func TestCompleteSendsPromptsAndParameters(t *testing.T) {
	var got chatCompletionRequest
	var auth, title string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		title = r.Header.Get("X-Title")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(chatResponse("Hi."))
	}))
	defer server.Close()

	client := NewClient(Config{
		APIKey:      "test",
		BaseURL:     server.URL,
		Model:       "anthropic/claude-3.5-sonnet",
		Title:       "distill",
		MaxTokens:   2000,
		Temperature: 0.2,
		TopP:        0.9,
	})
	text, err := client.Complete(context.Background(), "You summarize.", "Summarize this.\n\nHello world")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if text != "Hi." {
		t.Fatalf("unexpected text %q", text)
	}
	if auth != "Bearer test" || title != "distill" {
		t.Fatalf("unexpected headers auth=%q title=%q", auth, title)
	}
	if got.Model != "anthropic/claude-3.5-sonnet" || got.MaxTokens != 2000 {
		t.Fatalf("unexpected request %#v", got)
	}
	if got.TopP == nil || *got.TopP != 0.9 {
		t.Fatalf("expected top_p to be sent, got %v", got.TopP)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || !strings.Contains(got.Messages[1].Content, "Hello world") {
		t.Fatalf("unexpected messages %#v", got.Messages)
	}
}

func TestCompleteRequiresKeyAndPrompt(t *testing.T) {
	if _, err := NewClient(Config{Model: "m"}).Complete(context.Background(), "", "x"); err == nil {
		t.Fatal("expected missing key error")
	}
	if _, err := NewClient(Config{APIKey: "k", Model: "m"}).Complete(context.Background(), "sys", "  "); err == nil {
		t.Fatal("expected missing prompt error")
	}
}

func TestCompleteDoesNotRetryUnauthorized(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"}, WithSleeper(func(time.Duration) {}))
	_, err := client.Complete(context.Background(), "", "hello")
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected 401 error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestClientRetriesOnHTTP429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limited"})
			return
		}
		_ = json.NewEncoder(w).Encode(chatResponse("Summary text"))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(0, 10*time.Second),
		WithRetryMaxAttempts(5),
	)
	text, err := client.Complete(context.Background(), "", "prompt")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if text != "Summary text" {
		t.Fatalf("unexpected text %q", text)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected single sleep of 1s, got %v", slept)
	}
}

func TestClientRetriesOnEmptyContentThenSucceeds(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		content := ""
		if calls >= 3 {
			content = "Finally."
		}
		_ = json.NewEncoder(w).Encode(chatResponse(content))
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithRetryBackoff(0, 0),
		WithSleeper(func(time.Duration) {}),
		WithRetryMaxAttempts(5),
	)
	text, err := client.Complete(context.Background(), "", "prompt")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if text != "Finally." || calls != 3 {
		t.Fatalf("unexpected result %q after %d calls", text, calls)
	}
}

func TestClientEmptyContentExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse(""))
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithRetryBackoff(0, 0),
		WithRetryMaxAttempts(2),
	)
	_, err := client.Complete(context.Background(), "", "prompt")
	if err == nil || !strings.Contains(err.Error(), "empty content") {
		t.Fatalf("expected empty content error, got %v", err)
	}
}

func TestDeltaAndLegacyTextFallbacks(t *testing.T) {
	for name, payload := range map[string]map[string]any{
		"delta":  {"choices": []any{map[string]any{"delta": map[string]any{"content": "from delta"}}}},
		"legacy": {"choices": []any{map[string]any{"text": "from delta"}}},
	} {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(payload)
			}))
			defer server.Close()
			text, err := NewClient(Config{APIKey: "k", BaseURL: server.URL, Model: "m"}).Complete(context.Background(), "", "p")
			if err != nil || text != "from delta" {
				t.Fatalf("got %q, %v", text, err)
			}
		})
	}
}

func TestClientHealthCheck(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req["max_tokens"].(float64) != 8 {
			t.Fatalf("unexpected max_tokens: %v", req["max_tokens"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": "OK"}}},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "key", BaseURL: server.URL, Model: "m"}, WithRetryMaxAttempts(1))
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
	if err := NewClient(Config{BaseURL: server.URL, Model: "m"}).HealthCheck(context.Background()); err == nil {
		t.Fatal("expected missing key error")
	}
}
