// Package awstranscribe implements the transcription service contract on
// Amazon Transcribe.
//
// Jobs are named "distill-<uuid>", the media format is inferred from the
// object extension, and completed transcripts are downloaded from the
// presigned TranscriptFileUri and parsed from results.transcripts.
package awstranscribe
