package history

import (
	"encoding/json"
	"time"
)

// MaxEntries bounds the retained history; older records are pruned.
const MaxEntries = 30

// maxTextLen is how much of the analyzed paragraph a record keeps.
const maxTextLen = 100

// Record is one past analysis, newest first in listings.
type Record struct {
	ID     string          `json:"id"`
	Time   time.Time       `json:"time"`
	Text   string          `json:"text"`
	Result json.RawMessage `json:"result"`
}

// TruncateText shortens the paragraph preview stored with a record,
// counting runes so multibyte text keeps valid UTF-8.
func TruncateText(text string) string {
	if runes := []rune(text); len(runes) > maxTextLen {
		return string(runes[:maxTextLen])
	}
	return text
}
