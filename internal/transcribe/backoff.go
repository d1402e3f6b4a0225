package transcribe

import "time"

const (
	DefaultInitialInterval = 2 * time.Second
	DefaultIncrement       = 2 * time.Second
	DefaultMaxInterval     = 10 * time.Second
)

// Backoff grows the poll interval linearly up to a cap.
type Backoff struct {
	Initial   time.Duration
	Increment time.Duration
	Max       time.Duration
}

// DefaultBackoff returns 2s, +2s per check, capped at 10s.
func DefaultBackoff() Backoff {
	return Backoff{Initial: DefaultInitialInterval, Increment: DefaultIncrement, Max: DefaultMaxInterval}
}

// BackoffFromSeconds builds a policy from configuration values.
func BackoffFromSeconds(initial, increment, max int) Backoff {
	return Backoff{
		Initial:   time.Duration(initial) * time.Second,
		Increment: time.Duration(increment) * time.Second,
		Max:       time.Duration(max) * time.Second,
	}.normalized()
}

// First is the interval slept after the first pending observation.
func (b Backoff) First() time.Duration {
	b = b.normalized()
	return min(b.Initial, b.Max)
}

// Next returns min(current + Increment, Max). It never returns less than current.
func (b Backoff) Next(current time.Duration) time.Duration {
	b = b.normalized()
	next := current + b.Increment
	if next > b.Max {
		next = b.Max
	}
	if next < current {
		return current
	}
	return next
}

func (b Backoff) normalized() Backoff {
	def := DefaultBackoff()
	if b.Initial <= 0 {
		b.Initial = def.Initial
	}
	if b.Increment < 0 {
		b.Increment = 0
	}
	if b.Max <= 0 {
		b.Max = def.Max
	}
	if b.Max < b.Initial {
		b.Max = b.Initial
	}
	return b
}
