package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"distill/internal/testsupport"
)

func TestDrainSettledProcessesSequentiallyAndMoves(t *testing.T) {
	dir := t.TempDir()
	var handled []string
	w, err := New(Options{Dir: dir, Settle: time.Second}, func(_ context.Context, path string) error {
		handled = append(handled, filepath.Base(path))
		if strings.HasPrefix(filepath.Base(path), "bad") {
			return errors.New("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	now := time.Now()
	w.now = func() time.Time { return now }

	testsupport.WriteAudio(t, dir, "b.mp3", "b")
	testsupport.WriteAudio(t, dir, "bad.mp3", "x")
	testsupport.WriteAudio(t, dir, "a.mp3", "a")
	if err := w.scanExisting(); err != nil {
		t.Fatalf("scanExisting: %v", err)
	}

	w.drainSettled(context.Background())
	if len(handled) != 0 {
		t.Fatalf("files must settle before processing, handled %v", handled)
	}

	now = now.Add(2 * time.Second)
	w.drainSettled(context.Background())
	if strings.Join(handled, ",") != "a.mp3,b.mp3,bad.mp3" {
		t.Fatalf("unexpected order %v", handled)
	}
	for _, name := range []string{"a.mp3", "b.mp3"} {
		if _, err := os.Stat(filepath.Join(dir, "processed", name)); err != nil {
			t.Fatalf("expected %s in processed: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "failed", "bad.mp3")); err != nil {
		t.Fatalf("expected bad.mp3 in failed: %v", err)
	}
}

func TestTrackHonoursAcceptAndHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(Options{
		Dir:    dir,
		Accept: func(path string) bool { return strings.HasSuffix(path, ".wav") },
	}, func(context.Context, string) error { return nil })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.track(filepath.Join(dir, "notes.txt"))
	w.track(filepath.Join(dir, ".partial.wav"))
	w.track(filepath.Join(dir, "call.wav"))
	if len(w.pending) != 1 {
		t.Fatalf("expected only call.wav pending, got %v", w.pending)
	}
}

func TestRunPicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	done := make(chan string, 1)
	w, err := New(Options{Dir: dir, Settle: 50 * time.Millisecond}, func(_ context.Context, path string) error {
		done <- filepath.Base(path)
		return nil
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	testsupport.WriteAudio(t, dir, "standup.m4a", "audio")

	select {
	case name := <-done:
		if name != "standup.m4a" {
			t.Fatalf("unexpected file %s", name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handler")
	}
	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run returned %v", err)
	}
}

func TestNewRejectsMissingDirectory(t *testing.T) {
	if _, err := New(Options{Dir: filepath.Join(t.TempDir(), "nope")}, func(context.Context, string) error { return nil }); err == nil {
		t.Fatal("expected error")
	}
}
