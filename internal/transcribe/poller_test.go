package transcribe_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"distill/internal/services"
	"distill/internal/transcribe"
)

type fakeService struct {
	submitErr error
	states    []transcribe.JobState
	statusErr error
	fetchErr  error
	parseErr  error
	raw       []byte

	submitted  []string
	statusCall int
	fetched    []string
}

func (f *fakeService) Submit(_ context.Context, locator, hint string) (string, error) {
	f.submitted = append(f.submitted, locator+"|"+hint)
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return "job-1", nil
}

func (f *fakeService) Status(_ context.Context, jobID string) (transcribe.JobState, error) {
	if f.statusErr != nil {
		return transcribe.JobState{}, f.statusErr
	}
	idx := f.statusCall
	f.statusCall++
	if idx >= len(f.states) {
		return f.states[len(f.states)-1], nil
	}
	return f.states[idx], nil
}

func (f *fakeService) Fetch(_ context.Context, locator string) ([]byte, error) {
	f.fetched = append(f.fetched, locator)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.raw, nil
}

func (f *fakeService) Parse(raw []byte) (string, error) {
	if f.parseErr != nil {
		return "", f.parseErr
	}
	return strings.TrimSpace(string(raw)), nil
}

type sleepRecorder struct {
	slept []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.slept = append(s.slept, d)
	return nil
}

func pending(n int) []transcribe.JobState {
	out := make([]transcribe.JobState, 0, n)
	out = append(out, transcribe.JobState{Status: transcribe.StatusSubmitted})
	for len(out) < n {
		out = append(out, transcribe.JobState{Status: transcribe.StatusInProgress})
	}
	return out
}

func TestRunReturnsParsedTextWithCappedBackoff(t *testing.T) {
	svc := &fakeService{
		states: append(pending(8), transcribe.JobState{Status: transcribe.StatusCompleted, ResultLocator: "https://results/job-1.json"}),
		raw:    []byte("Hello world\n"),
	}
	rec := &sleepRecorder{}
	poller := transcribe.NewPoller(svc, transcribe.WithSleeper(rec.sleep))

	res, err := poller.Run(context.Background(), "s3://bucket/a.mp3", "en-US")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Text != "Hello world" || res.Outcome != transcribe.OutcomeTranscribed {
		t.Fatalf("unexpected result %#v", res)
	}
	if res.JobID != "job-1" || res.Polls != 9 {
		t.Fatalf("unexpected job bookkeeping %#v", res)
	}
	if len(svc.fetched) != 1 || svc.fetched[0] != "https://results/job-1.json" {
		t.Fatalf("unexpected fetches %v", svc.fetched)
	}

	if len(rec.slept) != 8 {
		t.Fatalf("expected 8 sleeps, got %d", len(rec.slept))
	}
	want := []time.Duration{2, 4, 6, 8, 10, 10, 10, 10}
	for i, d := range rec.slept {
		if d != want[i]*time.Second {
			t.Fatalf("sleep %d: got %v want %v", i, d, want[i]*time.Second)
		}
		if i > 0 && d < rec.slept[i-1] {
			t.Fatalf("interval decreased at %d: %v < %v", i, d, rec.slept[i-1])
		}
		if d > transcribe.DefaultMaxInterval {
			t.Fatalf("interval %v exceeds cap", d)
		}
	}
}

func TestRunCompletedWithoutLocator(t *testing.T) {
	svc := &fakeService{states: []transcribe.JobState{{Status: transcribe.StatusCompleted}}}
	res, err := transcribe.NewPoller(svc, transcribe.WithSleeper((&sleepRecorder{}).sleep)).Run(context.Background(), "s3://b/k", "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Text != transcribe.ResultMissingText {
		t.Fatalf("expected result-missing sentinel, got %q", res.Text)
	}
	if res.Outcome != transcribe.OutcomeResultMissing || !res.Outcome.Absorbed() {
		t.Fatalf("unexpected outcome %q", res.Outcome)
	}
	if len(svc.fetched) != 0 {
		t.Fatal("no fetch expected without locator")
	}
}

func TestRunFailedJobIncludesReason(t *testing.T) {
	svc := &fakeService{states: []transcribe.JobState{
		{Status: transcribe.StatusInProgress},
		{Status: transcribe.StatusFailed, FailureReason: "Unsupported media format"},
	}}
	res, err := transcribe.NewPoller(svc, transcribe.WithSleeper((&sleepRecorder{}).sleep)).Run(context.Background(), "s3://b/k", "en-US")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Outcome != transcribe.OutcomeJobFailed {
		t.Fatalf("unexpected outcome %q", res.Outcome)
	}
	if res.Text != transcribe.JobFailedText("Unsupported media format") {
		t.Fatalf("unexpected text %q", res.Text)
	}
	if !strings.Contains(res.Text, "Unsupported media format") {
		t.Fatalf("reason missing from %q", res.Text)
	}
	if transcribe.JobFailedText("") == "" || strings.Contains(transcribe.JobFailedText(""), "Reason") {
		t.Fatalf("unexpected reasonless sentinel %q", transcribe.JobFailedText(""))
	}
}

func TestRunUnknownStatus(t *testing.T) {
	svc := &fakeService{states: []transcribe.JobState{{Status: transcribe.StatusUnknown, Raw: "PAUSED"}}}
	res, err := transcribe.NewPoller(svc).Run(context.Background(), "s3://b/k", "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Text != transcribe.UnexpectedStatusText || res.Outcome != transcribe.OutcomeUnexpectedStatus {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestRunTransportFailuresAreFatal(t *testing.T) {
	boom := errors.New("boom")
	completed := []transcribe.JobState{{Status: transcribe.StatusCompleted, ResultLocator: "https://r"}}
	tests := []struct {
		name string
		svc  *fakeService
	}{
		{"submit", &fakeService{submitErr: boom, states: completed}},
		{"status", &fakeService{statusErr: boom}},
		{"fetch", &fakeService{fetchErr: boom, states: completed}},
		{"parse", &fakeService{parseErr: boom, states: completed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transcribe.NewPoller(tt.svc).Run(context.Background(), "s3://b/k", "")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, services.ErrTransport) || !errors.Is(err, boom) {
				t.Fatalf("expected transport-wrapped cause, got %v", err)
			}
		})
	}
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	svc := &fakeService{states: pending(1)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := transcribe.NewPoller(svc).Run(ctx, "s3://b/k", "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestBackoffNormalization(t *testing.T) {
	b := transcribe.BackoffFromSeconds(5, 3, 1)
	if b.First() != 5*time.Second {
		t.Fatalf("first interval %v", b.First())
	}
	if b.Next(5*time.Second) != 5*time.Second {
		t.Fatalf("cap below initial should clamp to initial, got %v", b.Next(5*time.Second))
	}
	zero := transcribe.Backoff{}
	if zero.First() != transcribe.DefaultInitialInterval {
		t.Fatalf("zero policy should use defaults, got %v", zero.First())
	}
}
