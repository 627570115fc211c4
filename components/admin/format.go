package admin

import (
	"net/url"
	"strings"
	"time"
	"unicode"
)

// InvalidDate is displayed in place of dates that cannot be parsed.
const InvalidDate = "Invalid date"

// DisplayDateLayout is the human readable date format used in listings.
const DisplayDateLayout = "Jan 2, 2006"

// FormatDate renders a YYYY-MM-DD or RFC3339 value for display. Malformed
// input degrades to InvalidDate.
func FormatDate(value string) string {
	value = strings.TrimSpace(value)
	for _, layout := range []string{DateLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(DisplayDateLayout)
		}
	}
	return InvalidDate
}

// FormatTime renders t for display, degrading the zero time to InvalidDate.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return InvalidDate
	}
	return t.Format(DisplayDateLayout)
}

// AvatarBaseURL is the generated avatar service used for users.
const AvatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg"

// AvatarURL derives the avatar of a user from the lowercased name with all
// whitespace removed.
func AvatarURL(name string) string {
	seed := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(name))
	return AvatarBaseURL + "?seed=" + url.QueryEscape(seed)
}

var modelLabels = map[string]string{
	"gpt-3.5":  "GPT-3.5",
	"gpt-4":    "GPT-4",
	"claude-2": "Claude-2",
}

// ModelLabel maps a widget builder model id to the label shown in listings.
func ModelLabel(modelID string) string {
	if label, ok := modelLabels[strings.ToLower(strings.TrimSpace(modelID))]; ok {
		return label
	}
	return "Custom Model"
}
