package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteAudio creates a stand-in audio file named name under dir and returns
// its path. Nothing in the pipeline decodes audio, so body is stored as-is;
// an empty body writes a single byte so the input passes the regular-file
// check.
func WriteAudio(t testing.TB, dir, name, body string) string {
	t.Helper()

	if body == "" {
		body = "\x00"
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
