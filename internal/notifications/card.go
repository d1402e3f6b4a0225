package notifications

const (
	adaptiveCardSchema  = "http://adaptivecards.io/schemas/adaptive-card.json"
	adaptiveCardVersion = "1.5"
	adaptiveContentType = "application/vnd.microsoft.card.adaptive"
)

type teamsMessage struct {
	Type        string            `json:"type"`
	Attachments []teamsAttachment `json:"attachments"`
}

type teamsAttachment struct {
	ContentType string       `json:"contentType"`
	ContentURL  *string      `json:"contentUrl"`
	Content     adaptiveCard `json:"content"`
}

type adaptiveCard struct {
	Schema  string       `json:"$schema"`
	Type    string       `json:"type"`
	Version string       `json:"version"`
	MSTeams msTeamsProps `json:"msteams"`
	Body    []any        `json:"body"`
}

type msTeamsProps struct {
	Width string `json:"width"`
}

type columnSet struct {
	Type    string   `json:"type"`
	Columns []column `json:"columns"`
}

type column struct {
	Type                     string `json:"type"`
	Spacing                  string `json:"spacing,omitempty"`
	VerticalContentAlignment string `json:"verticalContentAlignment,omitempty"`
	Items                    []any  `json:"items"`
	Width                    string `json:"width"`
}

type iconElement struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Size  string `json:"size"`
	Style string `json:"style"`
	Color string `json:"color"`
}

type textBlock struct {
	Type     string `json:"type"`
	Wrap     bool   `json:"wrap"`
	Style    string `json:"style,omitempty"`
	Weight   string `json:"weight,omitempty"`
	Size     string `json:"size,omitempty"`
	MaxLines int    `json:"maxLines,omitempty"`
	Text     string `json:"text"`
}

type container struct {
	Type           string `json:"type"`
	ShowBorder     bool   `json:"showBorder"`
	RoundedCorners bool   `json:"roundedCorners"`
	MaxHeight      string `json:"maxHeight"`
	Items          []any  `json:"items"`
}

func newTeamsCard(title, date, text string, icon Icon) teamsMessage {
	header := columnSet{
		Type: "ColumnSet",
		Columns: []column{
			{
				Type: "Column",
				Items: []any{iconElement{
					Type:  "Icon",
					Name:  icon.Name,
					Size:  icon.Size,
					Style: icon.Style,
					Color: icon.Color,
				}},
				Width: "auto",
			},
			{
				Type:                     "Column",
				Spacing:                  "medium",
				VerticalContentAlignment: "center",
				Items: []any{textBlock{
					Type:   "TextBlock",
					Wrap:   true,
					Style:  "heading",
					Weight: "Bolder",
					Size:   "Large",
					Text:   title,
				}},
				Width: "auto",
			},
		},
	}
	dateBlock := textBlock{
		Type:   "TextBlock",
		Wrap:   true,
		Style:  "heading",
		Weight: "Bolder",
		Size:   "Medium",
		Text:   date,
	}
	body := container{
		Type:           "Container",
		ShowBorder:     true,
		RoundedCorners: true,
		MaxHeight:      "400px",
		Items: []any{textBlock{
			Type:     "TextBlock",
			Wrap:     true,
			MaxLines: 100,
			Text:     text,
		}},
	}
	return teamsMessage{
		Type: "message",
		Attachments: []teamsAttachment{{
			ContentType: adaptiveContentType,
			Content: adaptiveCard{
				Schema:  adaptiveCardSchema,
				Type:    "AdaptiveCard",
				Version: adaptiveCardVersion,
				MSTeams: msTeamsProps{Width: "Full"},
				Body:    []any{header, dateBlock, body},
			},
		}},
	}
}
