// Package logging assembles structured slog loggers used across distill.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with run IDs, stages, and webhook targets. Log records go to a file
// under paths.log_dir by default so they never interleave with the progress
// line on stdout.
package logging
