package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// words maps English language names to base tags. Speech services expect
// BCP 47 codes; users tend to type "english".
var words = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"russian":    "ru",
	"arabic":     "ar",
	"hindi":      "hi",
	"dutch":      "nl",
	"polish":     "pl",
	"swedish":    "sv",
	"danish":     "da",
	"norwegian":  "no",
	"finnish":    "fi",
}

// Normalize canonicalises a language hint to language-REGION form
// ("en" -> "en-US", "english" -> "en-US", "pt_br" -> "pt-BR"). A missing
// region is filled with the most likely one. Empty input returns "".
func Normalize(hint string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(hint))
	if value == "" {
		return "", nil
	}
	if base, ok := words[value]; ok {
		value = base
	}
	value = strings.ReplaceAll(value, "_", "-")

	tag, err := language.Parse(value)
	if err != nil {
		return "", fmt.Errorf("unrecognized language %q: %w", hint, err)
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return "", fmt.Errorf("unrecognized language %q", hint)
	}
	region, _ := tag.Region()
	if region.String() == "ZZ" {
		return base.String(), nil
	}
	return base.String() + "-" + region.String(), nil
}

// DisplayName returns an English name such as "English (United States)".
// Returns "Unknown" for empty input, or the uppercased input when it does not parse.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	tag, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return strings.ToUpper(trimmed)
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		return strings.ToUpper(trimmed)
	}
	return name
}
