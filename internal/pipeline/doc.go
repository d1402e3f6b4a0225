// Package pipeline orchestrates one summarization run.
//
// Stages run strictly in sequence:
//
//	Upload -> Transcribe -> Summarize -> Deliver -> Cleanup? -> SaveTranscript?
//
// Options are validated before the progress tracker is reset, so
// configuration mistakes never touch progress state. Upload, Transcribe and
// Summarize failures abort the run; the uploaded locator is logged so the
// object can be removed by hand. Deliver switches once over the closed
// OutputMode set: file modes fail the run when the write fails, webhook modes
// never do. Cleanup and SaveTranscript run when requested, regardless of how
// Deliver went, and only report their own failures.
//
// Every run gets a UUID run id carried in the context (and therefore in every
// log line), an optional per-output-base file lock, and a history record.
package pipeline
