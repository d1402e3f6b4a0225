// Package notifications delivers summaries to chat webhooks.
//
// A Dispatcher pairs a Renderer (Slack workflow content or a Teams adaptive
// card) with a Transport and the run's progress tracker. A Plan carries
// either the legacy single endpoint or a named target list with the user's
// selection. Targets are tried one after another; each outcome is recorded
// as a Delivery, and the set reduces to an Aggregate that drives exactly one
// terminal progress message. Delivery failures never surface as errors.
package notifications
