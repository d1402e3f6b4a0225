package pipeline

import (
	"fmt"
	"strings"
)

// OutputMode selects where the summary goes. The set is closed: only the
// types in this file implement it.
type OutputMode interface {
	Name() string
	outputMode()
}

type (
	// Terminal prints the summary to the console.
	Terminal struct{}
	// Text writes <base>.txt.
	Text struct{}
	// Markdown writes <base>.md.
	Markdown struct{}
	// Word writes <base>.docx.
	Word struct{}
	// Slack posts to Slack webhooks.
	Slack struct{}
	// SlackSplit writes <base>.txt and posts to Slack.
	SlackSplit struct{}
	// Teams posts an adaptive card to Teams webhooks.
	Teams struct{}
	// TeamsSplit writes <base>.txt and posts to Teams.
	TeamsSplit struct{}
)

func (Terminal) Name() string   { return "terminal" }
func (Text) Name() string       { return "text" }
func (Markdown) Name() string   { return "markdown" }
func (Word) Name() string       { return "word" }
func (Slack) Name() string      { return "slack" }
func (SlackSplit) Name() string { return "slacksplit" }
func (Teams) Name() string      { return "teams" }
func (TeamsSplit) Name() string { return "teamssplit" }

func (Terminal) outputMode()   {}
func (Text) outputMode()       {}
func (Markdown) outputMode()   {}
func (Word) outputMode()       {}
func (Slack) outputMode()      {}
func (SlackSplit) outputMode() {}
func (Teams) outputMode()      {}
func (TeamsSplit) outputMode() {}

var modes = []OutputMode{Terminal{}, Text{}, Word{}, Markdown{}, Slack{}, SlackSplit{}, Teams{}, TeamsSplit{}}

// ModeNames lists accepted output mode names in help order.
func ModeNames() []string {
	names := make([]string, len(modes))
	for i, mode := range modes {
		names[i] = mode.Name()
	}
	return names
}

// ParseOutputMode resolves a mode name, case-insensitively.
func ParseOutputMode(name string) (OutputMode, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, mode := range modes {
		if mode.Name() == needle {
			return mode, nil
		}
	}
	return nil, fmt.Errorf("unknown output mode %q (expected one of %s)", name, strings.Join(ModeNames(), ", "))
}

// UsesSlack reports whether mode posts to Slack.
func UsesSlack(mode OutputMode) bool {
	switch mode.(type) {
	case Slack, SlackSplit:
		return true
	}
	return false
}

// UsesTeams reports whether mode posts to Teams.
func UsesTeams(mode OutputMode) bool {
	switch mode.(type) {
	case Teams, TeamsSplit:
		return true
	}
	return false
}
