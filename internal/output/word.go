package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	wordFont        = "Calibri"
	wordFontSize    = 11
	wordHeadingSize = 16
)

// writeWord renders a bold "Summary" heading followed by one paragraph per
// non-empty line, saved next to path and renamed into place.
func writeWord(path, text string, mode os.FileMode) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addRun(doc.AddParagraph(""), "Summary", true, wordHeadingSize)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		addRun(doc.AddParagraph(""), trimmed, false, wordFontSize)
	}

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := doc.SaveTo(tmp); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save document: %w", err)
	}
	if err := os.Chmod(tmp, mode); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("chmod document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename document: %w", err)
	}
	return nil
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(wordFont).Size(size)
	if bold {
		run.Bold(true)
	}
}
