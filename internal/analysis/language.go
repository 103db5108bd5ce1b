package analysis

import (
	"strings"
	"unicode"
)

// Detected languages. The heuristic only distinguishes Korean from
// English; anything without letters is unknown.
const (
	LangKorean  = "korean"
	LangEnglish = "english"
	LangUnknown = "unknown"
)

// DetectLanguage classifies text by the share of Hangul syllables among
// its letters. 30 percent or more reads as Korean.
func DetectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return LangUnknown
	}

	var korean, letters int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if r >= 0xAC00 && r <= 0xD7A3 {
			korean++
		}
	}
	if letters == 0 {
		return LangUnknown
	}
	if float64(korean)/float64(letters) >= 0.3 {
		return LangKorean
	}
	return LangEnglish
}
