package testsupport

import (
	"sync"

	"distill/internal/progress"
)

// ProgressEvent is one call observed by a Recorder.
type ProgressEvent struct {
	Op      string // "update", "log" or "stop"
	Kind    progress.Kind
	Message string
}

// Recorder is a progress.Indicator that remembers every call.
type Recorder struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Update(message string) {
	r.add(ProgressEvent{Op: "update", Message: message})
}

func (r *Recorder) Log(line string) {
	r.add(ProgressEvent{Op: "log", Message: line})
}

func (r *Recorder) Stop(kind progress.Kind, message string) {
	r.add(ProgressEvent{Op: "stop", Kind: kind, Message: message})
}

func (r *Recorder) add(ev ProgressEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []ProgressEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ProgressEvent(nil), r.events...)
}

// Stops returns only terminal renders.
func (r *Recorder) Stops() []ProgressEvent {
	return r.filter("stop")
}

// Updates returns intermediate messages in order.
func (r *Recorder) Updates() []string {
	var out []string
	for _, ev := range r.filter("update") {
		out = append(out, ev.Message)
	}
	return out
}

// Logs returns console lines in order.
func (r *Recorder) Logs() []string {
	var out []string
	for _, ev := range r.filter("log") {
		out = append(out, ev.Message)
	}
	return out
}

func (r *Recorder) filter(op string) []ProgressEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ProgressEvent
	for _, ev := range r.events {
		if ev.Op == op {
			out = append(out, ev)
		}
	}
	return out
}

// NewTracker returns a tracker wired to a fresh coordinator and recorder.
func NewTracker() (*progress.Tracker, *Recorder) {
	rec := NewRecorder()
	return progress.NewTracker(progress.NewCoordinator(), rec), rec
}
