// Package language canonicalises the language hint handed to the
// transcription service.
//
// Hints arrive as whatever the user typed ("en", "english", "pt_br") and
// leave as BCP 47 language-REGION codes, with the region inferred from
// likely-subtag data when omitted. DisplayName renders a code for prompts
// and history output.
package language
