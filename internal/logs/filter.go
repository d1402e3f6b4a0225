package logs

import (
	"encoding/json"
	"log/slog"
	"strings"

	"distill/internal/logging"
)

// Filter selects log lines. The zero value matches everything.
type Filter struct {
	// RunID matches run ids by prefix so the short form shown by
	// "distill history" works.
	RunID string
	// MinLevel is nil to accept every level.
	MinLevel slog.Leveler
}

// ParseLevel maps debug/info/warn/error to a slog level.
func ParseLevel(value string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

// Match reports whether line passes the filter.
func (f Filter) Match(line string) bool {
	if f.RunID == "" && f.MinLevel == nil {
		return true
	}
	level, runID, ok := parseJSONLine(line)
	if !ok {
		level, runID = parseConsoleLine(line)
	}
	if f.MinLevel != nil && level < f.MinLevel.Level() {
		return false
	}
	if f.RunID != "" && !strings.HasPrefix(runID, f.RunID) {
		return false
	}
	return true
}

func parseJSONLine(line string) (slog.Level, string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return 0, "", false
	}
	var entry struct {
		Level string `json:"level"`
		RunID string `json:"run_id"`
	}
	if err := json.Unmarshal([]byte(trimmed), &entry); err != nil {
		return 0, "", false
	}
	level, _ := ParseLevel(entry.Level)
	return level, entry.RunID, true
}

// parseConsoleLine reads "ts LEVEL component: message key=value" lines.
func parseConsoleLine(line string) (slog.Level, string) {
	fields := strings.Fields(line)
	level := slog.LevelInfo
	if len(fields) > 1 {
		if parsed, ok := ParseLevel(fields[1]); ok {
			level = parsed
		}
	}
	prefix := logging.FieldRunID + "="
	for _, field := range fields {
		if strings.HasPrefix(field, prefix) {
			return level, strings.Trim(strings.TrimPrefix(field, prefix), `"`)
		}
	}
	return level, ""
}
