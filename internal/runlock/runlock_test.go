package runlock_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"distill/internal/runlock"
)

func TestAcquireIsExclusivePerOutputBase(t *testing.T) {
	state := t.TempDir()
	base := filepath.Join(t.TempDir(), "summarized_output")

	first, err := runlock.Acquire(state, base)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	t.Cleanup(func() { _ = first.Release() })

	if _, err := runlock.Acquire(state, base); !errors.Is(err, runlock.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	other, err := runlock.Acquire(state, base+"-2")
	if err != nil {
		t.Fatalf("different base should not conflict: %v", err)
	}
	_ = other.Release()

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := runlock.Acquire(state, base)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	_ = again.Release()
}

func TestPathForIsInsideLocksDir(t *testing.T) {
	path := runlock.PathFor("/state", "/tmp/My Notes")
	if filepath.Dir(path) != filepath.Join("/state", "locks") {
		t.Fatalf("unexpected lock dir %q", path)
	}
	if !strings.HasSuffix(path, "tmp_my_notes.lock") {
		t.Fatalf("unexpected lock name %q", path)
	}
}

func TestReleaseNil(t *testing.T) {
	var lock *runlock.Lock
	if err := lock.Release(); err != nil {
		t.Fatalf("nil release: %v", err)
	}
}
