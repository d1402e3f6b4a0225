package notifications

import "fmt"

// AggregateKind summarizes a dispatch.
type AggregateKind string

const (
	AllSucceeded      AggregateKind = "all_succeeded"
	Partial           AggregateKind = "partial"
	AllFailed         AggregateKind = "all_failed"
	NoTargetsSelected AggregateKind = "no_targets_selected"
	NotConfigured     AggregateKind = "not_configured"
)

// Delivery is the outcome of one send attempt. Err is nil on success.
type Delivery struct {
	Target Target
	Err    error
}

// OK reports whether the delivery succeeded.
func (d Delivery) OK() bool {
	return d.Err == nil
}

// Aggregate is computed once per dispatch.
type Aggregate struct {
	Kind       AggregateKind
	Succeeded  int
	Failed     int
	Deliveries []Delivery
}

func (a Aggregate) String() string {
	switch a.Kind {
	case Partial, AllSucceeded, AllFailed:
		return fmt.Sprintf("%s(%d,%d)", a.Kind, a.Succeeded, a.Failed)
	default:
		return string(a.Kind)
	}
}

// aggregate reduces per-target deliveries. Callers handle the empty cases.
func aggregate(deliveries []Delivery) Aggregate {
	agg := Aggregate{Deliveries: deliveries}
	for _, d := range deliveries {
		if d.OK() {
			agg.Succeeded++
		} else {
			agg.Failed++
		}
	}
	switch {
	case agg.Succeeded > 0 && agg.Failed > 0:
		agg.Kind = Partial
	case agg.Failed == 0:
		agg.Kind = AllSucceeded
	default:
		agg.Kind = AllFailed
	}
	return agg
}
