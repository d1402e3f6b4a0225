// Package summarize selects the configured summarization backend and builds
// the prompt sent to it.
//
// The prompt is the configured template, a blank line, then the transcript.
// Bedrock and Gemini receive it as a single prompt with the system text set
// through their own parameters; OpenRouter receives the system text as a
// separate chat message.
package summarize
