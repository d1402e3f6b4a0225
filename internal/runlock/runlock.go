package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"distill/internal/textutil"
)

// ErrLocked reports that another process holds the lock for the same output base.
var ErrLocked = errors.New("another distill run is writing the same output")

// Lock is an acquired per-output-base file lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// PathFor returns the lock file used for an output base inside stateDir.
func PathFor(stateDir, outputBase string) string {
	key := outputBase
	if abs, err := filepath.Abs(outputBase); err == nil {
		key = abs
	}
	return filepath.Join(stateDir, "locks", textutil.Token(key)+".lock")
}

// Acquire takes the lock without blocking. ErrLocked is returned when it is held.
func Acquire(stateDir, outputBase string) (*Lock, error) {
	path := PathFor(stateDir, outputBase)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks. Safe to call on a nil lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
