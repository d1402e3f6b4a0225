// Package transcribe tracks an asynchronous speech-to-text job to completion.
//
// Poller submits a job through a Service, then checks its status with a
// linear, capped backoff (2s, 4s, ... 10s by default) until the job leaves
// the Submitted/InProgress states. A completed job with a result locator is
// fetched and parsed into text. The other terminal states resolve to fixed
// sentinel texts so the caller can decide, via its job outcome policy,
// whether to summarize them or stop. The poller imposes no deadline of its
// own; cancelling ctx (Ctrl-C) ends the wait.
package transcribe
