package progress

// Kind classifies a terminal progress message.
type Kind int

const (
	KindSuccess Kind = iota
	KindWarning
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindWarning:
		return "warning"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Indicator renders progress. Update and Log may be called any number of
// times; Stop renders the terminal message and ends the indicator until the
// next Update.
type Indicator interface {
	Update(message string)
	Log(line string)
	Stop(kind Kind, message string)
}

// Tracker pairs a Coordinator with an Indicator. Intermediate updates bypass
// the coordinator; Succeed, Warn and Fail go through TryFinalize.
type Tracker struct {
	coord     *Coordinator
	indicator Indicator
}

// NewTracker builds a tracker. A nil coordinator gets a fresh one; a nil
// indicator discards output.
func NewTracker(coord *Coordinator, indicator Indicator) *Tracker {
	if coord == nil {
		coord = NewCoordinator()
	}
	if indicator == nil {
		indicator = discard{}
	}
	return &Tracker{coord: coord, indicator: indicator}
}

// Coordinator exposes the shared flag.
func (t *Tracker) Coordinator() *Coordinator {
	return t.coord
}

// Reset clears the finalized flag for a new run.
func (t *Tracker) Reset() {
	t.coord.Reset()
}

// Finalized reports whether a terminal message was rendered this run.
func (t *Tracker) Finalized() bool {
	return t.coord.Finalized()
}

// Update renders an intermediate status message.
func (t *Tracker) Update(message string) {
	t.indicator.Update(message)
}

// Log prints a line above the indicator, e.g. an error detail or console fallback.
func (t *Tracker) Log(line string) {
	t.indicator.Log(line)
}

// Succeed renders a terminal success message unless the run is already finalized.
func (t *Tracker) Succeed(message string) bool {
	return t.finish(KindSuccess, message)
}

// Warn renders a terminal warning unless the run is already finalized.
func (t *Tracker) Warn(message string) bool {
	return t.finish(KindWarning, message)
}

// Fail renders a terminal error unless the run is already finalized.
func (t *Tracker) Fail(message string) bool {
	return t.finish(KindFailure, message)
}

func (t *Tracker) finish(kind Kind, message string) bool {
	return t.coord.TryFinalize(func() {
		t.indicator.Stop(kind, message)
	})
}

type discard struct{}

func (discard) Update(string)     {}
func (discard) Log(string)        {}
func (discard) Stop(Kind, string) {}
