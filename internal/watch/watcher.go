package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"distill/internal/fileutil"
	"distill/internal/logging"
)

const (
	defaultSettle   = 2 * time.Second
	processedSubdir = "processed"
	failedSubdir    = "failed"
)

// Handler processes one settled file. Returning an error moves the file to
// the failed directory instead of the processed one.
type Handler func(ctx context.Context, path string) error

// Options configure a Watcher.
type Options struct {
	Dir string
	// ProcessedDir defaults to <Dir>/processed.
	ProcessedDir string
	// FailedDir defaults to <Dir>/failed.
	FailedDir string
	// Settle is how long a file must go without events before it is handled.
	Settle time.Duration
	// Accept filters candidate files; nil accepts every regular file.
	Accept func(path string) bool
	Logger *slog.Logger
}

// Watcher hands new files in a drop folder to a Handler, one at a time.
type Watcher struct {
	opts    Options
	handler Handler
	logger  *slog.Logger
	pending map[string]time.Time
	now     func() time.Time
}

// New validates opts and prepares the output directories.
func New(opts Options, handler Handler) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watch: handler required")
	}
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		return nil, errors.New("watch: directory required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", dir)
	}
	opts.Dir = dir
	if opts.ProcessedDir == "" {
		opts.ProcessedDir = filepath.Join(dir, processedSubdir)
	}
	if opts.FailedDir == "" {
		opts.FailedDir = filepath.Join(dir, failedSubdir)
	}
	if opts.Settle <= 0 {
		opts.Settle = defaultSettle
	}
	for _, d := range []string{opts.ProcessedDir, opts.FailedDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("watch: create %s: %w", d, err)
		}
	}
	return &Watcher{
		opts:    opts,
		handler: handler,
		logger:  logging.NewComponentLogger(opts.Logger, "watch"),
		pending: make(map[string]time.Time),
		now:     time.Now,
	}, nil
}

// Run processes files already present, then watches for new ones until ctx
// is cancelled. Handlers run sequentially on the calling goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(w.opts.Dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", w.opts.Dir, err)
	}

	w.logger.Info("watching folder",
		logging.String("dir", w.opts.Dir),
		logging.Duration("settle", w.opts.Settle),
	)
	if err := w.scanExisting(); err != nil {
		return err
	}

	tick := time.NewTicker(w.opts.Settle / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New("watch: events channel closed")
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				w.track(event.Name)
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				delete(w.pending, event.Name)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("watch: errors channel closed")
			}
			w.logger.Warn("watcher error", logging.Error(err))
		case <-tick.C:
			w.drainSettled(ctx)
		}
	}
}

func (w *Watcher) scanExisting() error {
	entries, err := os.ReadDir(w.opts.Dir)
	if err != nil {
		return fmt.Errorf("watch: read %s: %w", w.opts.Dir, err)
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			w.track(filepath.Join(w.opts.Dir, entry.Name()))
		}
	}
	return nil
}

func (w *Watcher) track(path string) {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}
	if w.opts.Accept != nil && !w.opts.Accept(path) {
		w.logger.Debug("ignoring file", logging.String("path", path))
		return
	}
	w.pending[path] = w.now()
}

// drainSettled handles every pending file whose last event is older than
// the settle window, oldest name first.
func (w *Watcher) drainSettled(ctx context.Context) {
	cutoff := w.now().Add(-w.opts.Settle)
	var ready []string
	for path, seen := range w.pending {
		if !seen.After(cutoff) {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)
	for _, path := range ready {
		if ctx.Err() != nil {
			return
		}
		delete(w.pending, path)
		w.process(ctx, path)
	}
}

func (w *Watcher) process(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	logger := w.logger.With(logging.String("path", path))
	logger.Info("processing file", logging.String(logging.FieldEventType, "watch_file"))

	dest := w.opts.ProcessedDir
	if err := w.handler(ctx, path); err != nil {
		logger.Error("file processing failed",
			logging.String(logging.FieldEventType, "watch_failed"),
			logging.Error(err),
		)
		dest = w.opts.FailedDir
	}
	target := filepath.Join(dest, filepath.Base(path))
	if err := fileutil.MoveFile(path, target); err != nil {
		logging.WarnWithContext(logger, "move processed file failed", "watch_move_failed",
			logging.String("target", target),
			logging.Error(err),
			logging.String(logging.FieldImpact, "file stays in the watch folder"))
	}
}
