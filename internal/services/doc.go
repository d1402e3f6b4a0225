// Package services defines shared utilities consumed by the pipeline stages
// and the external integrations under services/.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and webhook target names
//     for logging.
//   - Structured error markers plus the Wrap helper so callers can tell
//     configuration failures from transport failures with errors.Is.
//
// Subpackages hold the concrete clients for object storage, transcription and
// summarization. Keep them behind the narrow interfaces the pipeline consumes
// so tests can substitute fakes.
package services
