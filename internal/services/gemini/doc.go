// Package gemini wraps google.golang.org/genai for summary generation.
package gemini
