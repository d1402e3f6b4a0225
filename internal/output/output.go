package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"distill/internal/fileutil"
)

// Kind is a file format the writer can produce.
type Kind int

const (
	KindText Kind = iota
	KindMarkdown
	KindWord
	KindTranscript
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindMarkdown:
		return "markdown"
	case KindWord:
		return "word"
	case KindTranscript:
		return "transcript"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Extension returns the file suffix, including the dot.
func (k Kind) Extension() string {
	switch k {
	case KindMarkdown:
		return ".md"
	case KindWord:
		return ".docx"
	case KindTranscript:
		return ".trans"
	default:
		return ".txt"
	}
}

// PathFor appends the kind's extension to base.
func PathFor(base string, kind Kind) string {
	return base + kind.Extension()
}

// Writer persists text in one of the supported formats.
type Writer interface {
	Write(kind Kind, path, text string) error
}

// FileWriter writes to the local filesystem. Every write is atomic.
type FileWriter struct {
	// Mode is applied to created files; zero means 0o644.
	Mode os.FileMode
}

// NewFileWriter returns a writer with default permissions.
func NewFileWriter() *FileWriter {
	return &FileWriter{Mode: 0o644}
}

func (w *FileWriter) Write(kind Kind, path, text string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("write %s: empty path", kind)
	}
	mode := w.Mode
	if mode == 0 {
		mode = 0o644
	}
	switch kind {
	case KindText, KindTranscript:
		return fileutil.WriteFileAtomic(path, []byte(text), mode)
	case KindMarkdown:
		return fileutil.WriteFileAtomic(path, []byte(Markdown(text)), mode)
	case KindWord:
		return writeWord(path, text, mode)
	default:
		return fmt.Errorf("write %s: unsupported kind", kind)
	}
}

// Markdown wraps the summary under a level-one heading.
func Markdown(text string) string {
	return "# Summary\n\n" + text
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return nil
}
