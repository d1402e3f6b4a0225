package notifications

import (
	"encoding/json"
	"time"
)

// Message is what a renderer turns into a webhook payload.
type Message struct {
	Text  string
	Title string
	Time  time.Time
}

// Renderer is the per-service payload strategy.
type Renderer interface {
	// Service is the user-facing name, e.g. "Slack".
	Service() string
	Render(msg Message) ([]byte, error)
}

const slackPreamble = "A summarization job just completed:\n\n"

// SlackRenderer posts the summary as workflow content.
type SlackRenderer struct{}

func (SlackRenderer) Service() string { return "Slack" }

func (SlackRenderer) Render(msg Message) ([]byte, error) {
	return json.Marshal(struct {
		Content string `json:"content"`
	}{Content: slackPreamble + msg.Text})
}

// Icon configures the adaptive card's leading icon.
type Icon struct {
	Name  string
	Size  string
	Style string
	Color string
}

// DefaultIcon is the Fluent "Flash" icon in the accent color.
func DefaultIcon() Icon {
	return Icon{Name: "Flash", Size: "Large", Style: "Filled", Color: "Accent"}
}

// TeamsRenderer posts the summary as an adaptive card.
type TeamsRenderer struct {
	Icon         Icon
	DefaultTitle string
}

func (TeamsRenderer) Service() string { return "Teams" }

func (r TeamsRenderer) Render(msg Message) ([]byte, error) {
	title := msg.Title
	if title == "" {
		title = r.DefaultTitle
	}
	icon := r.Icon
	if icon.Name == "" {
		icon = DefaultIcon()
	}
	when := msg.Time
	if when.IsZero() {
		when = time.Now()
	}
	return json.Marshal(newTeamsCard(title, dateHeader(when), msg.Text, icon))
}

// dateHeader renders "Date: 03-05-2026 02:07:09 PM CET".
func dateHeader(t time.Time) string {
	return "Date: " + t.Format("01-02-2006 03:04:05 PM MST")
}
