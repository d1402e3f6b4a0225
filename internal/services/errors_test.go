package services_test

import (
	"errors"
	"strings"
	"testing"

	"distill/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransport, "upload", "put object", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"upload", "put object", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport marker by default, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestExitCodeAndConfigClassification(t *testing.T) {
	if code := services.ExitCode(nil); code != 0 {
		t.Fatalf("expected exit 0 for nil error, got %d", code)
	}
	cfgErr := services.Wrap(services.ErrConfiguration, "config", "load", "bucket missing", nil)
	if code := services.ExitCode(cfgErr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !services.IsFatalConfig(cfgErr) {
		t.Fatal("expected configuration error to be classified as fatal config")
	}
	transportErr := services.Wrap(services.ErrTransport, "summarize", "invoke", "", errors.New("503"))
	if services.IsFatalConfig(transportErr) {
		t.Fatal("transport error must not be classified as config")
	}
}
