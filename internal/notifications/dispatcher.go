package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"distill/internal/logging"
	"distill/internal/progress"
	"distill/internal/services"
)

// Dispatcher delivers one message per run to a service's webhook targets and
// reduces the per-target results to a single terminal progress message.
// Sends are sequential.
type Dispatcher struct {
	renderer  Renderer
	transport Transport
	tracker   *progress.Tracker
	logger    *slog.Logger
	now       func() time.Time
}

// NewDispatcher wires a renderer and transport to the run's tracker.
func NewDispatcher(renderer Renderer, transport Transport, tracker *progress.Tracker, logger *slog.Logger) *Dispatcher {
	if tracker == nil {
		tracker = progress.NewTracker(nil, nil)
	}
	return &Dispatcher{
		renderer:  renderer,
		transport: transport,
		tracker:   tracker,
		logger:    logging.NewComponentLogger(logger, "notifications"),
		now:       time.Now,
	}
}

// Service names the destination, e.g. "Teams".
func (d *Dispatcher) Service() string {
	return d.renderer.Service()
}

// DispatchOption customizes a single Dispatch call.
type DispatchOption func(*dispatchSettings)

type dispatchSettings struct {
	title   string
	success string
}

// WithTitle sets the card title for renderers that use one.
func WithTitle(title string) DispatchOption {
	return func(s *dispatchSettings) { s.title = title }
}

// WithSuccessMessage replaces the default success text.
func WithSuccessMessage(msg string) DispatchOption {
	return func(s *dispatchSettings) { s.success = msg }
}

// Dispatch sends text according to plan. It never returns an error: failed
// deliveries are recorded in the aggregate and surfaced through progress.
func (d *Dispatcher) Dispatch(ctx context.Context, plan Plan, text string, opts ...DispatchOption) Aggregate {
	var settings dispatchSettings
	for _, opt := range opts {
		opt(&settings)
	}
	msg := Message{Text: text, Title: settings.title, Time: d.now()}
	logger := logging.WithContext(ctx, d.logger).With(logging.String("service", d.Service()))

	if !plan.Multi {
		return d.single(ctx, logger, plan.Endpoint, msg, settings)
	}
	return d.multi(ctx, logger, plan, msg, settings)
}

func (d *Dispatcher) single(ctx context.Context, logger *slog.Logger, endpoint string, msg Message, settings dispatchSettings) Aggregate {
	service := d.Service()
	if endpoint == "" {
		d.tracker.Warn(fmt.Sprintf("%s webhook endpoint is not configured. Skipping %s notification.", service, service))
		d.consoleFallback(msg.Text)
		logging.WarnWithContext(logger, "webhook not configured", "delivery_skipped",
			logging.String(logging.FieldImpact, "summary printed to console instead"))
		return Aggregate{Kind: NotConfigured}
	}

	d.tracker.Update("Sending to " + service)
	target := Target{Name: service, Endpoint: endpoint}
	delivery := d.send(ctx, logger, target, msg)
	if delivery.OK() {
		success := settings.success
		if success == "" {
			success = fmt.Sprintf("Summary sent to %s!", service)
		}
		d.tracker.Succeed(success)
		return Aggregate{Kind: AllSucceeded, Succeeded: 1, Deliveries: []Delivery{delivery}}
	}
	d.tracker.Log(fmt.Sprintf("Error sending summary to %s: %v", service, delivery.Err))
	d.tracker.Fail(fmt.Sprintf("Failed to send summary to %s!", service))
	return Aggregate{Kind: AllFailed, Failed: 1, Deliveries: []Delivery{delivery}}
}

func (d *Dispatcher) multi(ctx context.Context, logger *slog.Logger, plan Plan, msg Message, settings dispatchSettings) Aggregate {
	service := d.Service()
	if len(plan.Targets) == 0 || len(plan.Selected) == 0 {
		d.tracker.Warn(fmt.Sprintf("No %s webhooks selected. Skipping %s notification.", service, service))
		d.consoleFallback(msg.Text)
		logging.WarnWithContext(logger, "no webhooks selected", "delivery_skipped",
			logging.Int("configured", len(plan.Targets)),
			logging.String(logging.FieldImpact, "summary printed to console instead"))
		return Aggregate{Kind: NoTargetsSelected}
	}

	d.tracker.Update(fmt.Sprintf("Processing %d %s webhooks...", len(plan.Selected), service))
	deliveries := make([]Delivery, 0, len(plan.Selected))
	for _, target := range plan.Selected {
		if target.Endpoint == "" {
			continue
		}
		d.tracker.Update(fmt.Sprintf("Sending to %s (%s)", service, target.Name))
		delivery := d.send(ctx, logger, target, msg)
		if delivery.OK() {
			d.tracker.Update(fmt.Sprintf("Successfully sent to %s (%s)", service, target.Name))
		} else {
			d.tracker.Update(fmt.Sprintf("Error sending to %s (%s): %v", service, target.Name, delivery.Err))
		}
		deliveries = append(deliveries, delivery)
	}
	if len(deliveries) == 0 {
		d.tracker.Warn(fmt.Sprintf("No %s webhooks selected. Skipping %s notification.", service, service))
		d.consoleFallback(msg.Text)
		return Aggregate{Kind: NoTargetsSelected}
	}

	agg := aggregate(deliveries)
	switch agg.Kind {
	case Partial:
		d.tracker.Warn(fmt.Sprintf("Sent to %d %s webhooks, failed to send to %d webhooks", agg.Succeeded, service, agg.Failed))
	case AllSucceeded:
		if settings.success != "" {
			d.tracker.Succeed(fmt.Sprintf("%s (Sent to %d webhooks)", settings.success, agg.Succeeded))
		} else {
			d.tracker.Succeed(fmt.Sprintf("Summary sent to %d %s webhooks", agg.Succeeded, service))
		}
	default:
		d.tracker.Fail(fmt.Sprintf("Failed to send summary to any %s webhooks!", service))
	}
	logger.Info("webhook dispatch finished",
		logging.String(logging.FieldEventType, "delivery_complete"),
		logging.String("aggregate", agg.String()),
	)
	return agg
}

func (d *Dispatcher) send(ctx context.Context, logger *slog.Logger, target Target, msg Message) Delivery {
	ctx = services.WithTarget(ctx, target.Name)
	logger = logger.With(logging.String(logging.FieldTarget, target.Name))

	payload, err := d.renderer.Render(msg)
	if err == nil {
		err = d.transport.Post(ctx, target.Endpoint, payload)
	}
	if err != nil {
		logging.WarnWithContext(logger, "webhook delivery failed", "delivery_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "target did not receive the summary"))
		return Delivery{Target: target, Err: err}
	}
	logger.Debug("webhook delivered", logging.String(logging.FieldEventType, "delivery_ok"))
	return Delivery{Target: target}
}

func (d *Dispatcher) consoleFallback(text string) {
	d.tracker.Log(fmt.Sprintf("Summary:\n%s\n", text))
}
