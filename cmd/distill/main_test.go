package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"distill/internal/services"
	"distill/internal/testsupport"
)

func TestReportErrorInvalidOutputType(t *testing.T) {
	isolateHome(t)
	path := writeConfigFile(t, testsupport.NewConfig(t))
	input := testsupport.WriteAudio(t, t.TempDir(), "meeting.mp3", "audio")
	_, _, err := runCLI(t, []string{"run", "-c", path, "-i", input, "-o", "fax"}, "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var stderr bytes.Buffer
	if code := reportError(&stderr, err); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	requireContains(t, stderr.String(), "output-type")
	requireContains(t, stderr.String(), "distill config validate")
}

func TestReportErrorStageFailureHasNoConfigHint(t *testing.T) {
	var stderr bytes.Buffer
	err := services.Wrap(services.ErrTransport, "transcribe", "start", "", errors.New("throttled"))
	if code := reportError(&stderr, err); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if strings.Contains(stderr.String(), "config validate") {
		t.Fatalf("unexpected config hint: %s", stderr.String())
	}
}

func TestReportErrorCanceledIsSilent(t *testing.T) {
	var stderr bytes.Buffer
	err := fmt.Errorf("run: %w", context.Canceled)
	if code := reportError(&stderr, err); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if stderr.Len() != 0 {
		t.Fatalf("expected no output, got %q", stderr.String())
	}
	if code := reportError(&stderr, nil); code != 0 {
		t.Fatalf("expected exit 0 for nil, got %d", code)
	}
}
