package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

const spinInterval = 100 * time.Millisecond

// NewIndicator picks a spinner when out is a terminal and a line renderer otherwise.
func NewIndicator(out io.Writer) Indicator {
	if isTerminal(out) {
		return NewSpinner(out)
	}
	return NewLine(out)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func glyph(kind Kind) string {
	switch kind {
	case KindSuccess:
		return color.GreenString("✔")
	case KindWarning:
		return color.YellowString("⚠")
	default:
		return color.RedString("✖")
	}
}

// Spinner animates a progressbar spinner on its own ticker goroutine.
type Spinner struct {
	mu   sync.Mutex
	out  io.Writer
	bar  *progressbar.ProgressBar
	done chan struct{}
	wg   sync.WaitGroup
}

// NewSpinner returns an idle spinner; the first Update starts it.
func NewSpinner(out io.Writer) *Spinner {
	return &Spinner{out: out}
}

func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar != nil {
		s.bar.Describe(message)
		return
	}
	s.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.out),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
	)
	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.spin(s.bar, s.done)
}

func (s *Spinner) spin(bar *progressbar.ProgressBar, done <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(spinInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.bar == bar {
				_ = bar.Add(1)
			}
			s.mu.Unlock()
		}
	}
}

func (s *Spinner) Log(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar != nil {
		_ = s.bar.Clear()
	}
	fmt.Fprintln(s.out, line)
}

func (s *Spinner) Stop(kind Kind, message string) {
	s.mu.Lock()
	bar, done := s.bar, s.done
	s.bar, s.done = nil, nil
	s.mu.Unlock()

	if done != nil {
		close(done)
		s.wg.Wait()
	}
	if bar != nil {
		_ = bar.Finish()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "%s %s\n", glyph(kind), message)
}

// Line writes one line per update; used when stdout is not a terminal.
type Line struct {
	mu   sync.Mutex
	out  io.Writer
	last string
}

func NewLine(out io.Writer) *Line {
	return &Line{out: out}
}

func (l *Line) Update(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if message == l.last {
		return
	}
	l.last = message
	fmt.Fprintf(l.out, "… %s\n", message)
}

func (l *Line) Log(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, line)
}

func (l *Line) Stop(kind Kind, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last = ""
	fmt.Fprintf(l.out, "%s %s\n", glyph(kind), message)
}
