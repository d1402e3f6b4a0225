// Package progress coordinates the single-line progress display of a run.
//
// Several code paths (file writers, webhook dispatchers, the orchestrator's
// final step) may each decide that the run has reached its terminal message.
// Coordinator guarantees that only the first of them renders it; Tracker
// couples that guarantee to an Indicator, which is either an animated
// spinner (terminals) or a plain line writer (pipes, CI logs).
package progress
