package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"distill/internal/config"
	"distill/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	isolateHome(t)
	target := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	out, _, err = runCLI(t, []string{"config", "validate", "--config", target}, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+target)
	requireContains(t, out, "Configuration valid")
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	isolateHome(t)
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# mine\n"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	_, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already exists error, got %v", err)
	}
	data, _ := os.ReadFile(target)
	if string(data) != "# mine\n" {
		t.Fatalf("existing config was modified: %q", data)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigInitYAML(t *testing.T) {
	isolateHome(t)
	target := filepath.Join(t.TempDir(), "distill.yaml")
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--format", "yaml"}, ""); err != nil {
		t.Fatalf("config init yaml: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate", "-c", target}, ""); err != nil {
		t.Fatalf("validate yaml sample: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--format", "ini", "--overwrite"}, ""); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestConfigShowMasksSecrets(t *testing.T) {
	isolateHome(t)
	cfg := testsupport.NewConfig(t,
		testsupport.WithSlackWebhooks(config.Webhook{Name: "team", Endpoint: "https://hooks.slack.com/services/SECRET"}),
	)
	cfg.LLM.APIKey = "sk-or-v1-abcdefghijklmnop"
	path := writeConfigFile(t, cfg)

	out, _, err := runCLI(t, []string{"config", "show", "-c", path}, "")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "abcdefghijklmnop") || strings.Contains(out, "services/SECRET") {
		t.Fatalf("secrets leaked:\n%s", out)
	}
	requireContains(t, out, "sk-or-v1****")
	requireContains(t, out, "https://****")
	requireContains(t, out, "test-bucket")
}

func TestMaskValue(t *testing.T) {
	tests := map[string]string{
		"":                  "",
		"short":             "****",
		"  0123456789abc  ": "01234567****",
	}
	for in, want := range tests {
		if got := maskValue(in); got != want {
			t.Fatalf("maskValue(%q) = %q, want %q", in, got, want)
		}
	}
}
