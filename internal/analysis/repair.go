package analysis

import (
	"fmt"
	"regexp"
	"strings"
)

// Model output arrives as loosely-typed JSON. The helpers below coerce
// each field to its expected shape, substituting typed defaults for
// anything missing or mistyped so a sloppy reply still yields a result.

func fieldString(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func fieldStringSlice(obj map[string]any, key string) []string {
	items, ok := obj[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// fieldInt accepts JSON numbers and numeric strings; everything else is 0.
func fieldInt(obj map[string]any, key string) int {
	switch v := obj[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%d", &n); err == nil {
			return n
		}
	}
	return 0
}

// fieldSection returns a *string so an absent section stays null in output.
func fieldSection(obj map[string]any, key string) *string {
	s, ok := obj[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

var sentenceSplit = regexp.MustCompile(`[.!?]+\s+`)

// fallbackClaim recovers a claim from the paragraph itself when the
// model fails to produce one: the first sentence, truncated to 200
// characters, or the first 200 characters of the text. Truncation
// counts runes so Korean text is never cut mid-character.
func fallbackClaim(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "Unable to extract claim"
	}

	sentences := sentenceSplit.Split(trimmed, -1)
	if len(sentences) > 0 && strings.TrimSpace(sentences[0]) != "" {
		claim := strings.TrimSpace(sentences[0])
		if runes := []rune(claim); len(runes) > 200 {
			return string(runes[:197]) + "..."
		}
		return claim
	}

	if runes := []rune(trimmed); len(runes) > 200 {
		return string(runes[:200]) + "..."
	}
	return trimmed
}

func parseParaphrase(obj map[string]any) Paraphrase {
	out := Paraphrase{
		Section: fieldSection(obj, "section"),
		Styles:  []StyleVariant{},
	}
	items, ok := obj["styles"].([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out.Styles = append(out.Styles, StyleVariant{
			Name:        fieldString(m, "name"),
			Text:        fieldString(m, "text"),
			Translation: fieldString(m, "translation"),
		})
	}
	return out
}

// parseClaimCheck repairs the claim analysis. An empty claim falls back
// to extraction from the paragraph so the field is never blank.
func parseClaimCheck(obj map[string]any, text string, found []string) ClaimCheck {
	out := ClaimCheck{
		Section:             fieldSection(obj, "section"),
		Claim:               strings.TrimSpace(fieldString(obj, "claim")),
		Score:               fieldInt(obj, "score"),
		Issues:              fieldStringSlice(obj, "issues"),
		Suggestions:         fieldStringSlice(obj, "suggestions"),
		FoundOverstatements: found,
	}
	if out.Claim == "" {
		out.Claim = fallbackClaim(text)
	}
	return out
}

func parseJournalFit(obj map[string]any) *JournalFit {
	return &JournalFit{
		Section:   fieldSection(obj, "section"),
		Score:     fieldInt(obj, "score"),
		Matches:   fieldStringSlice(obj, "matches"),
		Gaps:      fieldStringSlice(obj, "gaps"),
		Revised:   fieldString(obj, "revised"),
		RevisedEN: fieldString(obj, "revised_en"),
	}
}

// parseDirections repairs each expansion direction per field. A missing
// type gets an ordinal name; the shared section is attached to every
// direction that survives.
func parseDirections(obj map[string]any) []Direction {
	items, ok := obj["directions"].([]any)
	if !ok {
		return []Direction{}
	}
	section := fieldString(obj, "section")

	out := []Direction{}
	for idx, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		d := Direction{
			Type:        strings.TrimSpace(fieldString(m, "type")),
			Claim:       fieldString(m, "claim"),
			Pro:         fieldString(m, "pro"),
			Con:         fieldString(m, "con"),
			Reason:      fieldString(m, "reason"),
			Experiments: fieldStringSlice(m, "experiments"),
		}
		if d.Type == "" {
			d.Type = fmt.Sprintf("Direction %d", idx+1)
		}
		if section != "" {
			d.Section = section
		}
		out = append(out, d)
	}
	return out
}

func parseReviewer(obj map[string]any) (questions []ReviewerQuestion, section, feedback *string) {
	questions = []ReviewerQuestion{}
	items, ok := obj["questions"].([]any)
	if ok {
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			questions = append(questions, ReviewerQuestion{
				Q:        fieldString(m, "q"),
				Severity: fieldString(m, "severity"),
				Reason:   fieldString(m, "reason"),
			})
		}
	}
	section = fieldSection(obj, "section")
	if fb := strings.TrimSpace(fieldString(obj, "positive_feedback")); fb != "" {
		feedback = &fb
	}
	return questions, section, feedback
}

func parsePriorWork(obj map[string]any) PriorWorkAnalysis {
	out := emptyPriorWork()
	out.Differentiation = fieldStringSlice(obj, "differentiation")
	out.Overlaps = parsePriorWorkItems(obj, "overlaps")
	out.Improvements = parsePriorWorkItems(obj, "improvements")
	return out
}

func parsePriorWorkItems(obj map[string]any, key string) []PriorWorkItem {
	items, ok := obj[key].([]any)
	if !ok {
		return []PriorWorkItem{}
	}
	out := []PriorWorkItem{}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, PriorWorkItem{
			Aspect:    fieldString(m, "aspect"),
			PriorWork: fieldString(m, "prior_work"),
			Detail:    fieldString(m, "detail"),
		})
	}
	return out
}
