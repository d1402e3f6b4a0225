package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"distill/internal/notifications"
)

func TestHTTPTransportPostsJSON(t *testing.T) {
	var gotBody, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	transport := notifications.NewHTTPTransport(5 * time.Second)
	if err := transport.Post(context.Background(), server.URL, []byte(`{"content":"Hi."}`)); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if gotType != "application/json" || gotBody != `{"content":"Hi."}` {
		t.Fatalf("unexpected request type=%q body=%q", gotType, gotBody)
	}
}

func TestHTTPTransportReportsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer server.Close()

	err := notifications.NewHTTPTransportWithClient(server.Client()).Post(context.Background(), server.URL, []byte(`{}`))
	if err == nil {
		t.Fatal("expected error for 403")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "invalid_token") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDispatchOverHTTP(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if strings.HasSuffix(r.URL.Path, "/bad") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	ts := []notifications.Target{
		{Name: "one", Endpoint: server.URL + "/ok"},
		{Name: "two", Endpoint: server.URL + "/bad"},
		{Name: "three", Endpoint: server.URL + "/ok"},
	}
	d, rec, _ := newSlack(t, notifications.NewHTTPTransportWithClient(server.Client()))
	agg := d.Dispatch(context.Background(), multiPlan(ts), "Hi.")
	if agg.Kind != notifications.Partial || agg.Succeeded != 2 || agg.Failed != 1 {
		t.Fatalf("expected Partial(2,1), got %s", agg)
	}
	if hits != 3 {
		t.Fatalf("expected 3 requests, got %d", hits)
	}
	singleStop(t, rec)
}
