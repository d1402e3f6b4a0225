package notifications

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const userAgent = "distill/0.1.0"

// Transport posts a rendered payload to one endpoint.
type Transport interface {
	Post(ctx context.Context, endpoint string, payload []byte) error
}

// HTTPTransport posts JSON over HTTP. Any status >= 300 is a failure.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport builds a transport; timeout <= 0 disables the client timeout.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	client := &http.Client{}
	if timeout > 0 {
		client.Timeout = timeout
	}
	return &HTTPTransport{client: client}
}

// NewHTTPTransportWithClient wraps an existing client, e.g. from httptest.
func NewHTTPTransportWithClient(client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{client: client}
}

func (t *HTTPTransport) Post(ctx context.Context, endpoint string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		detail := strings.TrimSpace(string(body))
		if detail == "" {
			return fmt.Errorf("webhook returned %s", resp.Status)
		}
		return fmt.Errorf("webhook returned %s: %s", resp.Status, detail)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
