package notifications_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"distill/internal/notifications"
	"distill/internal/progress"
	"distill/internal/testsupport"
)

type fakeTransport struct {
	fail  map[string]error
	calls []string
}

func (f *fakeTransport) Post(_ context.Context, endpoint string, _ []byte) error {
	f.calls = append(f.calls, endpoint)
	if err, ok := f.fail[endpoint]; ok {
		return err
	}
	return nil
}

func targets(names ...string) []notifications.Target {
	out := make([]notifications.Target, 0, len(names))
	for _, n := range names {
		out = append(out, notifications.Target{Name: n, Endpoint: "https://hooks.example.com/" + n})
	}
	return out
}

func multiPlan(ts []notifications.Target) notifications.Plan {
	return notifications.Plan{Multi: true, Targets: ts, Selected: ts}
}

func newSlack(t *testing.T, transport notifications.Transport) (*notifications.Dispatcher, *testsupport.Recorder, *progress.Tracker) {
	t.Helper()
	tracker, rec := testsupport.NewTracker()
	return notifications.NewDispatcher(notifications.SlackRenderer{}, transport, tracker, nil), rec, tracker
}

func singleStop(t *testing.T, rec *testsupport.Recorder) testsupport.ProgressEvent {
	t.Helper()
	stops := rec.Stops()
	if len(stops) != 1 {
		t.Fatalf("expected exactly one terminal render, got %d: %#v", len(stops), stops)
	}
	return stops[0]
}

func TestMultiPartialFailure(t *testing.T) {
	ts := targets("a", "b", "c")
	transport := &fakeTransport{fail: map[string]error{ts[1].Endpoint: errors.New("webhook returned 500 Internal Server Error")}}
	d, rec, _ := newSlack(t, transport)

	agg := d.Dispatch(context.Background(), multiPlan(ts), "Hi.")

	if agg.Kind != notifications.Partial || agg.Succeeded != 2 || agg.Failed != 1 {
		t.Fatalf("expected Partial(2,1), got %s", agg)
	}
	if len(transport.calls) != 3 {
		t.Fatalf("expected 3 sends, got %d", len(transport.calls))
	}
	for i, call := range transport.calls {
		if call != ts[i].Endpoint {
			t.Fatalf("sends out of order: %v", transport.calls)
		}
	}
	stop := singleStop(t, rec)
	if stop.Kind != progress.KindWarning || stop.Message != "Sent to 2 Slack webhooks, failed to send to 1 webhooks" {
		t.Fatalf("unexpected terminal message %#v", stop)
	}
	updates := strings.Join(rec.Updates(), "\n")
	for _, want := range []string{
		"Processing 3 Slack webhooks...",
		"Sending to Slack (a)",
		"Successfully sent to Slack (a)",
		"Error sending to Slack (b): webhook returned 500 Internal Server Error",
		"Successfully sent to Slack (c)",
	} {
		if !strings.Contains(updates, want) {
			t.Fatalf("missing update %q in\n%s", want, updates)
		}
	}
}

func TestMultiAllSucceeded(t *testing.T) {
	ts := targets("a", "b", "c")
	d, rec, _ := newSlack(t, &fakeTransport{})
	agg := d.Dispatch(context.Background(), multiPlan(ts), "Hi.")
	if agg.Kind != notifications.AllSucceeded || agg.Succeeded != 3 {
		t.Fatalf("expected AllSucceeded(3), got %s", agg)
	}
	stop := singleStop(t, rec)
	if stop.Kind != progress.KindSuccess || stop.Message != "Summary sent to 3 Slack webhooks" {
		t.Fatalf("unexpected terminal message %#v", stop)
	}
}

func TestMultiAllFailed(t *testing.T) {
	ts := targets("a", "b")
	boom := errors.New("down")
	transport := &fakeTransport{fail: map[string]error{ts[0].Endpoint: boom, ts[1].Endpoint: boom}}
	d, rec, _ := newSlack(t, transport)
	agg := d.Dispatch(context.Background(), multiPlan(ts), "Hi.")
	if agg.Kind != notifications.AllFailed || agg.Failed != 2 {
		t.Fatalf("expected AllFailed(0,2), got %s", agg)
	}
	for _, delivery := range agg.Deliveries {
		if !errors.Is(delivery.Err, boom) {
			t.Fatalf("expected recorded failure, got %v", delivery.Err)
		}
	}
	stop := singleStop(t, rec)
	if stop.Kind != progress.KindFailure || stop.Message != "Failed to send summary to any Slack webhooks!" {
		t.Fatalf("unexpected terminal message %#v", stop)
	}
}

func TestMultiNothingSelected(t *testing.T) {
	transport := &fakeTransport{}
	d, rec, _ := newSlack(t, transport)
	plan := notifications.Plan{Multi: true, Targets: targets("a", "b")}

	agg := d.Dispatch(context.Background(), plan, "Hi.")
	if agg.Kind != notifications.NoTargetsSelected {
		t.Fatalf("expected NoTargetsSelected, got %s", agg)
	}
	if len(transport.calls) != 0 {
		t.Fatalf("expected zero network calls, got %d", len(transport.calls))
	}
	stop := singleStop(t, rec)
	if stop.Message != "No Slack webhooks selected. Skipping Slack notification." {
		t.Fatalf("unexpected terminal message %q", stop.Message)
	}
	if logs := rec.Logs(); len(logs) != 1 || logs[0] != "Summary:\nHi.\n" {
		t.Fatalf("expected console fallback, got %#v", logs)
	}
}

func TestSingleNotConfigured(t *testing.T) {
	transport := &fakeTransport{}
	d, rec, _ := newSlack(t, transport)

	agg := d.Dispatch(context.Background(), notifications.Plan{}, "Hi.")
	if agg.Kind != notifications.NotConfigured {
		t.Fatalf("expected NotConfigured, got %s", agg)
	}
	if len(transport.calls) != 0 {
		t.Fatalf("expected zero network calls, got %d", len(transport.calls))
	}
	stop := singleStop(t, rec)
	if stop.Kind != progress.KindWarning || stop.Message != "Slack webhook endpoint is not configured. Skipping Slack notification." {
		t.Fatalf("unexpected terminal message %#v", stop)
	}
	if logs := rec.Logs(); len(logs) != 1 || !strings.Contains(logs[0], "Hi.") {
		t.Fatalf("expected summary on console, got %#v", logs)
	}
}

func TestSingleSuccessAndFailure(t *testing.T) {
	endpoint := "https://hooks.example.com/legacy"

	d, rec, _ := newSlack(t, &fakeTransport{})
	agg := d.Dispatch(context.Background(), notifications.Plan{Endpoint: endpoint}, "Hi.")
	if agg.Kind != notifications.AllSucceeded || agg.Succeeded != 1 {
		t.Fatalf("expected AllSucceeded(1), got %s", agg)
	}
	if stop := singleStop(t, rec); stop.Message != "Summary sent to Slack!" {
		t.Fatalf("unexpected success message %q", stop.Message)
	}

	failing := &fakeTransport{fail: map[string]error{endpoint: errors.New("webhook returned 403 Forbidden")}}
	d, rec, _ = newSlack(t, failing)
	agg = d.Dispatch(context.Background(), notifications.Plan{Endpoint: endpoint}, "Hi.")
	if agg.Kind != notifications.AllFailed || agg.Failed != 1 {
		t.Fatalf("expected AllFailed(0,1), got %s", agg)
	}
	stop := singleStop(t, rec)
	if stop.Kind != progress.KindFailure || stop.Message != "Failed to send summary to Slack!" {
		t.Fatalf("unexpected failure message %#v", stop)
	}
	if logs := rec.Logs(); len(logs) != 1 || !strings.Contains(logs[0], "403 Forbidden") {
		t.Fatalf("expected error detail on console, got %#v", logs)
	}
}

func TestCustomSuccessMessage(t *testing.T) {
	tracker, rec := testsupport.NewTracker()
	d := notifications.NewDispatcher(notifications.TeamsRenderer{DefaultTitle: "t"}, &fakeTransport{}, tracker, nil)

	d.Dispatch(context.Background(), multiPlan(targets("x", "y")), "Hi.", notifications.WithSuccessMessage("Summary sent to Teams!"))
	if stop := singleStop(t, rec); stop.Message != "Summary sent to Teams! (Sent to 2 webhooks)" {
		t.Fatalf("unexpected message %q", stop.Message)
	}
}

func TestDispatchDoesNotOverrideEarlierFinalize(t *testing.T) {
	d, rec, tracker := newSlack(t, &fakeTransport{})
	tracker.Fail("earlier failure")
	agg := d.Dispatch(context.Background(), multiPlan(targets("a")), "Hi.")
	if agg.Kind != notifications.AllSucceeded {
		t.Fatalf("aggregate should still be computed, got %s", agg)
	}
	stop := singleStop(t, rec)
	if stop.Message != "earlier failure" {
		t.Fatalf("dispatch re-finalized: %#v", rec.Stops())
	}
}
