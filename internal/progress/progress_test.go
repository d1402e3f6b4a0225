package progress_test

import (
	"bytes"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"distill/internal/progress"
)

func TestTryFinalizeRunsOnce(t *testing.T) {
	coord := progress.NewCoordinator()
	var calls atomic.Int32
	var wg sync.WaitGroup
	var won atomic.Int32
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if coord.TryFinalize(func() { calls.Add(1) }) {
				won.Add(1)
			}
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected action to run once, ran %d times", calls.Load())
	}
	if won.Load() != 1 {
		t.Fatalf("expected exactly one winner, got %d", won.Load())
	}
	if !coord.Finalized() {
		t.Fatal("expected coordinator to be finalized")
	}
}

func TestResetAllowsNextRun(t *testing.T) {
	coord := progress.NewCoordinator()
	if !coord.TryFinalize(nil) {
		t.Fatal("first finalize should win")
	}
	if coord.TryFinalize(nil) {
		t.Fatal("second finalize should be a no-op")
	}
	coord.Reset()
	if coord.Finalized() {
		t.Fatal("reset should clear the flag")
	}
	if !coord.TryFinalize(nil) {
		t.Fatal("finalize after reset should win")
	}
}

func TestTrackerRendersOnlyFirstTerminalMessage(t *testing.T) {
	var buf bytes.Buffer
	tracker := progress.NewTracker(nil, progress.NewLine(&buf))

	tracker.Update("Uploading file...")
	tracker.Update("Uploading file...")
	tracker.Update("Transcribing...")
	if !tracker.Fail("Failed to send summary to Slack!") {
		t.Fatal("expected first terminal message to render")
	}
	if tracker.Succeed("Done!") {
		t.Fatal("expected Done! to be suppressed after failure")
	}

	out := buf.String()
	if strings.Count(out, "Uploading file...") != 1 {
		t.Fatalf("duplicate updates should collapse, got %q", out)
	}
	if !strings.Contains(out, "Failed to send summary to Slack!") {
		t.Fatalf("missing failure line in %q", out)
	}
	if strings.Contains(out, "Done!") {
		t.Fatalf("Done! should not render, got %q", out)
	}
}

func TestTrackerLogPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	tracker := progress.NewTracker(progress.NewCoordinator(), progress.NewLine(&buf))
	tracker.Log("Summary:\nHi.\n")
	if !strings.Contains(buf.String(), "Summary:\nHi.") {
		t.Fatalf("unexpected log output %q", buf.String())
	}
}

func TestNewIndicatorUsesLineForBuffers(t *testing.T) {
	if _, ok := progress.NewIndicator(&bytes.Buffer{}).(*progress.Line); !ok {
		t.Fatal("expected line indicator for non-terminal writer")
	}
}

func TestSpinnerStopsCleanly(t *testing.T) {
	var buf syncBuffer
	spinner := progress.NewSpinner(&buf)
	spinner.Update("Uploading file...")
	spinner.Update("Transcribing...")
	spinner.Log("note")
	spinner.Stop(progress.KindSuccess, "Done!")
	if !strings.Contains(buf.String(), "Done!") {
		t.Fatalf("expected terminal message, got %q", buf.String())
	}
	// A stopped spinner restarts on the next update.
	spinner.Update("again")
	spinner.Stop(progress.KindWarning, "warned")
	if !strings.Contains(buf.String(), "warned") {
		t.Fatalf("expected second terminal message, got %q", buf.String())
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
