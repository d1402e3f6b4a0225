package pipeline

import (
	"fmt"
	"os"
	"strings"

	"distill/internal/language"
	"distill/internal/notifications"
	"distill/internal/services"
)

// Options describe one run.
type Options struct {
	InputPath      string
	Mode           OutputMode
	OutputBase     string
	Language       string
	DeleteSource   bool
	SaveTranscript bool

	Slack      notifications.Plan
	Teams      notifications.Plan
	TeamsTitle string
}

func (o *Options) validate() error {
	o.InputPath = strings.TrimSpace(o.InputPath)
	o.OutputBase = strings.TrimSpace(o.OutputBase)
	if o.InputPath == "" {
		return services.Wrap(services.ErrValidation, "options", "input", "input path is required", nil)
	}
	info, err := os.Stat(o.InputPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "options", "input", fmt.Sprintf("input %s is not readable", o.InputPath), err)
	}
	if !info.Mode().IsRegular() {
		return services.Wrap(services.ErrValidation, "options", "input", fmt.Sprintf("input %s is not a regular file", o.InputPath), nil)
	}
	if o.Mode == nil {
		return services.Wrap(services.ErrValidation, "options", "mode", "output mode is required", nil)
	}
	if o.OutputBase == "" {
		return services.Wrap(services.ErrValidation, "options", "output", "output base name is required", nil)
	}
	if strings.TrimSpace(o.Language) != "" {
		code, err := language.Normalize(o.Language)
		if err != nil {
			return services.Wrap(services.ErrValidation, "options", "language", "unrecognised language hint", err)
		}
		o.Language = code
	}
	return nil
}
