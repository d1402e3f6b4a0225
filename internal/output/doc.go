// Package output writes summaries and transcripts to disk as plain text,
// Markdown or Word documents.
package output
