package analysis

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFallbackClaimFirstSentence(t *testing.T) {
	got := fallbackClaim("The device achieves 95% yield. Further tests are planned.")
	if got != "The device achieves 95% yield" {
		t.Fatalf("got %q", got)
	}
}

func TestFallbackClaimLongSentenceTruncated(t *testing.T) {
	long := strings.Repeat("a", 300) + ". Second sentence."
	got := fallbackClaim(long)
	if len(got) != 200 {
		t.Fatalf("len = %d, want 200", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("got %q", got)
	}
}

func TestFallbackClaimNoSentenceBreak(t *testing.T) {
	long := strings.Repeat("b", 250)
	got := fallbackClaim(long)
	if !strings.HasSuffix(got, "...") || len(got) != 200 {
		t.Fatalf("got %q (len %d)", got, len(got))
	}
}

func TestFallbackClaimKoreanSentenceTruncated(t *testing.T) {
	long := strings.Repeat("가", 250) + ". 다음 문장입니다."
	got := fallbackClaim(long)
	if !utf8.ValidString(got) {
		t.Fatalf("claim is not valid UTF-8: %q", got)
	}
	if runes := []rune(got); len(runes) != 200 {
		t.Fatalf("rune len = %d, want 200", len(runes))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("got %q", got)
	}
}

func TestFallbackClaimKoreanNoFirstSentence(t *testing.T) {
	// A leading break empties the first split segment, so truncation
	// runs on the whole trimmed text instead.
	long := "? " + strings.Repeat("나", 250)
	got := fallbackClaim(long)
	if !utf8.ValidString(got) {
		t.Fatalf("claim is not valid UTF-8: %q", got)
	}
	if runes := []rune(got); len(runes) != 203 {
		t.Fatalf("rune len = %d, want 203", len(runes))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("got %q", got)
	}
}

func TestFallbackClaimBlankText(t *testing.T) {
	if got := fallbackClaim("   "); got != "Unable to extract claim" {
		t.Fatalf("got %q", got)
	}
}

func TestParseClaimCheckRepairsFields(t *testing.T) {
	obj := map[string]any{
		"claim":  "",
		"score":  "7",
		"issues": "not a list",
	}
	got := parseClaimCheck(obj, "First sentence here. Second.", []string{"best"})
	if got.Claim != "First sentence here" {
		t.Fatalf("claim = %q", got.Claim)
	}
	if got.Score != 7 {
		t.Fatalf("score = %d", got.Score)
	}
	if got.Issues == nil || len(got.Issues) != 0 {
		t.Fatalf("issues = %v", got.Issues)
	}
	if len(got.FoundOverstatements) != 1 || got.FoundOverstatements[0] != "best" {
		t.Fatalf("found = %v", got.FoundOverstatements)
	}
}

func TestParseDirectionsRepairsEachField(t *testing.T) {
	obj := map[string]any{
		"section": "Results",
		"directions": []any{
			map[string]any{"claim": "New claim"},
			"not a direction",
			map[string]any{"type": "Practical Application", "experiments": []any{"exp1"}},
		},
	}
	got := parseDirections(obj)
	if len(got) != 2 {
		t.Fatalf("got %d directions", len(got))
	}
	if got[0].Type != "Direction 1" {
		t.Fatalf("type = %q", got[0].Type)
	}
	if got[0].Experiments == nil || len(got[0].Experiments) != 0 {
		t.Fatalf("experiments = %v", got[0].Experiments)
	}
	if got[0].Section != "Results" || got[1].Section != "Results" {
		t.Fatalf("sections = %q, %q", got[0].Section, got[1].Section)
	}
	if got[1].Type != "Practical Application" {
		t.Fatalf("type = %q", got[1].Type)
	}
}

func TestParseReviewerEmptyFeedbackIsNil(t *testing.T) {
	qs, section, feedback := parseReviewer(map[string]any{
		"section":           "Methodology",
		"questions":         []any{map[string]any{"q": "Why?", "severity": "major", "reason": "r"}},
		"positive_feedback": "",
	})
	if len(qs) != 1 || qs[0].Severity != "major" {
		t.Fatalf("questions = %v", qs)
	}
	if section == nil || *section != "Methodology" {
		t.Fatalf("section = %v", section)
	}
	if feedback != nil {
		t.Fatalf("feedback = %v", *feedback)
	}
}

func TestRenderPromptBasics(t *testing.T) {
	got := renderPrompt("analyze {text} for {journal_name}", map[string]string{
		"text":         "paragraph",
		"journal_name": "JMEMS",
	})
	if got != "analyze paragraph for JMEMS" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderPromptClaimSectionFillsClaim(t *testing.T) {
	got := renderPrompt("claim: {claim}", map[string]string{
		"claim_section": "[Core claim]\nX",
	})
	if !strings.Contains(got, "[Core claim]\nX") {
		t.Fatalf("got %q", got)
	}
}

func TestRenderPromptStripsLeftoverClaim(t *testing.T) {
	got := renderPrompt("use {claim} and {{claim_section}} and {CLAIM}", map[string]string{
		"text": "t",
	})
	if strings.Contains(got, "{") {
		t.Fatalf("placeholders left: %q", got)
	}
}

func TestRenderPromptLeavesMisspelledPlaceholders(t *testing.T) {
	// Misspellings are normalized when a journal is registered, not at
	// render time.
	got := renderPrompt("use {calim}", map[string]string{"text": "t"})
	if got != "use {calim}" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderPromptDoubleBraces(t *testing.T) {
	got := renderPrompt("see {{text}}", map[string]string{"text": "body"})
	if got != "see body" {
		t.Fatalf("got %q", got)
	}
}

func TestFieldInt(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{float64(8), 8},
		{"5", 5},
		{" 9 ", 9},
		{"not a number", 0},
		{nil, 0},
		{true, 0},
	}
	for _, tc := range cases {
		if got := fieldInt(map[string]any{"score": tc.in}, "score"); got != tc.want {
			t.Errorf("fieldInt(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
