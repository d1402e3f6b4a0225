package progress

import "sync"

// Coordinator owns the per-run "finalized" flag. A run may reach its terminal
// progress message from several call sites; the coordinator lets exactly one
// of them render it.
//
// A Coordinator is shared by reference between the orchestrator and the
// dispatchers of a single run. The zero value is ready to use.
type Coordinator struct {
	mu        sync.Mutex
	finalized bool
}

// NewCoordinator returns a coordinator in the not-finalized state.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Reset clears the flag. Call once at run start, before any stage touches progress.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	c.finalized = false
	c.mu.Unlock()
}

// TryFinalize runs action and marks the run finalized if no earlier call did.
// It reports whether action ran. The check, the action and the store happen
// under one lock, so concurrent callers never both render a terminal message.
func (c *Coordinator) TryFinalize(action func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finalized {
		return false
	}
	if action != nil {
		action()
	}
	c.finalized = true
	return true
}

// Finalized reports whether a terminal message has been rendered.
func (c *Coordinator) Finalized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finalized
}
