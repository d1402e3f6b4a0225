package awstranscribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
	"github.com/google/uuid"

	jobs "distill/internal/transcribe"
)

// JobNamePrefix prefixes every transcription job name.
const JobNamePrefix = "distill-"

// API is the subset of the Amazon Transcribe client used here.
type API interface {
	StartTranscriptionJob(ctx context.Context, params *transcribe.StartTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.StartTranscriptionJobOutput, error)
	GetTranscriptionJob(ctx context.Context, params *transcribe.GetTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.GetTranscriptionJobOutput, error)
}

// Service implements transcribe.Service on Amazon Transcribe.
type Service struct {
	api        API
	httpClient *http.Client
	newName    func() string
}

// Option customizes the service.
type Option func(*Service)

// WithHTTPClient overrides the client used to download transcripts.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithJobNamer overrides job name generation.
func WithJobNamer(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newName = fn
		}
	}
}

// New wraps an Amazon Transcribe API.
func New(api API, opts ...Option) *Service {
	s := &Service{
		api:        api,
		httpClient: http.DefaultClient,
		newName:    func() string { return JobNamePrefix + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromAWS builds a service from an AWS SDK configuration.
func NewFromAWS(cfg aws.Config, opts ...Option) *Service {
	return New(transcribe.NewFromConfig(cfg), opts...)
}

// Submit starts a transcription job for the object at sourceLocator. An
// empty languageHint asks the service to identify the language.
func (s *Service) Submit(ctx context.Context, sourceLocator, languageHint string) (string, error) {
	format, err := MediaFormatFor(sourceLocator)
	if err != nil {
		return "", err
	}
	name := s.newName()
	input := &transcribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(name),
		Media:                &types.Media{MediaFileUri: aws.String(sourceLocator)},
		MediaFormat:          format,
	}
	if hint := strings.TrimSpace(languageHint); hint != "" {
		input.LanguageCode = types.LanguageCode(hint)
	} else {
		input.IdentifyLanguage = aws.Bool(true)
	}
	out, err := s.api.StartTranscriptionJob(ctx, input)
	if err != nil {
		return "", fmt.Errorf("start transcription job: %w", err)
	}
	if out.TranscriptionJob != nil && out.TranscriptionJob.TranscriptionJobName != nil {
		name = aws.ToString(out.TranscriptionJob.TranscriptionJobName)
	}
	return name, nil
}

// Status reports the job's current state.
func (s *Service) Status(ctx context.Context, jobID string) (jobs.JobState, error) {
	out, err := s.api.GetTranscriptionJob(ctx, &transcribe.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(jobID),
	})
	if err != nil {
		return jobs.JobState{}, fmt.Errorf("get transcription job %s: %w", jobID, err)
	}
	job := out.TranscriptionJob
	if job == nil {
		return jobs.JobState{Status: jobs.StatusUnknown}, nil
	}
	state := jobs.JobState{
		Status: mapStatus(job.TranscriptionJobStatus),
		Raw:    string(job.TranscriptionJobStatus),
	}
	switch state.Status {
	case jobs.StatusCompleted:
		if job.Transcript != nil {
			state.ResultLocator = aws.ToString(job.Transcript.TranscriptFileUri)
		}
	case jobs.StatusFailed:
		state.FailureReason = aws.ToString(job.FailureReason)
	}
	return state, nil
}

func mapStatus(status types.TranscriptionJobStatus) jobs.Status {
	switch status {
	case types.TranscriptionJobStatusQueued:
		return jobs.StatusSubmitted
	case types.TranscriptionJobStatusInProgress:
		return jobs.StatusInProgress
	case types.TranscriptionJobStatusCompleted:
		return jobs.StatusCompleted
	case types.TranscriptionJobStatusFailed:
		return jobs.StatusFailed
	default:
		return jobs.StatusUnknown
	}
}

// Fetch downloads the transcript document from its presigned URL.
func (s *Service) Fetch(ctx context.Context, resultLocator string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resultLocator, nil)
	if err != nil {
		return nil, fmt.Errorf("build transcript request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download transcript: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("download transcript: http %d", resp.StatusCode)
	}
	return body, nil
}

type transcriptDocument struct {
	JobName string `json:"jobName"`
	Results struct {
		Transcripts []struct {
			Transcript string `json:"transcript"`
		} `json:"transcripts"`
	} `json:"results"`
}

// Parse extracts the transcript text, joining multiple entries with a space.
func (s *Service) Parse(raw []byte) (string, error) {
	var doc transcriptDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("decode transcript: %w", err)
	}
	if len(doc.Results.Transcripts) == 0 {
		return "", errors.New("decode transcript: no transcripts in document")
	}
	parts := make([]string, 0, len(doc.Results.Transcripts))
	for _, entry := range doc.Results.Transcripts {
		if text := strings.TrimSpace(entry.Transcript); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

var mediaFormats = map[string]types.MediaFormat{
	".mp3":  types.MediaFormatMp3,
	".mp4":  types.MediaFormatMp4,
	".m4a":  types.MediaFormatM4a,
	".wav":  types.MediaFormatWav,
	".flac": types.MediaFormatFlac,
	".ogg":  types.MediaFormatOgg,
	".amr":  types.MediaFormatAmr,
	".webm": types.MediaFormatWebm,
}

// MediaFormatFor infers the Transcribe media format from the locator's extension.
func MediaFormatFor(locator string) (types.MediaFormat, error) {
	ext := strings.ToLower(path.Ext(locator))
	if format, ok := mediaFormats[ext]; ok {
		return format, nil
	}
	return "", fmt.Errorf("unsupported media format %q", ext)
}

// SupportedExtension reports whether a file extension can be transcribed.
func SupportedExtension(ext string) bool {
	_, ok := mediaFormats[strings.ToLower(ext)]
	return ok
}
