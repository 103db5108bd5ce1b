package journals

import (
	"context"
	"strings"
	"testing"
)

// scriptedClient returns a fixed JSON object for any prompt.
type scriptedClient struct {
	result map[string]any
	err    error
	asked  []string
}

func (c *scriptedClient) Ask(ctx context.Context, prompt string) (map[string]any, error) {
	c.asked = append(c.asked, prompt)
	return c.result, c.err
}

func validGeneration() map[string]any {
	return map[string]any{
		"journal_keywords":    []any{"mems", "sensors"},
		"target_audience":     "device engineers",
		"preferred_style":     "concise experimental",
		"evaluation_criteria": []any{"novelty", "rigor"},
		"prompts": map[string]any{
			"paraphrase":  "Rewrite {text} in the journal style ({preferred_style}).",
			"claim_check": "Evaluate the claims in {text}.",
			"journal_fit": "Score {text} against the scope of {journal_name}.",
			"expansion":   "Expand {text} from the claim {claim}.",
			"reviewer":    "Review {text} critically.",
		},
	}
}

func TestNormalizePlaceholders(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"analyze {{text}} now", "analyze {text} now"},
		{"use {{{ text }}}", "use {text}"},
		{"the claim is {Calim}", "the claim is {claim}"},
		{"the claim is {{cliam}}", "the claim is {claim}"},
		{"journal {{ journal_name }}", "journal {journal_name}"},
		{"works {{prior_works}} and {claim_section}", "works {prior_works} and {claim_section}"},
	}
	for _, tc := range cases {
		if got := NormalizePlaceholders(tc.in); got != tc.want {
			t.Errorf("NormalizePlaceholders(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidatePromptRequiresText(t *testing.T) {
	if _, err := ValidatePrompt(PromptClaimCheck, "no placeholder at all"); err == nil {
		t.Fatal("expected error for missing {text}")
	}
	got, err := ValidatePrompt(PromptClaimCheck, "check {{text}} please")
	if err != nil {
		t.Fatal(err)
	}
	if got != "check {text} please" {
		t.Fatalf("got %q", got)
	}
}

func TestValidateExpansionRequiresClaim(t *testing.T) {
	if _, err := ValidatePrompt(PromptExpansion, "expand {text} only"); err == nil {
		t.Fatal("expected error for missing {claim}")
	}
	if _, err := ValidatePrompt(PromptExpansion, "expand {text} via {claim_section}"); err != nil {
		t.Fatalf("claim_section should satisfy the claim requirement: %v", err)
	}
}

func TestGeneratePromptsBakesConstants(t *testing.T) {
	client := &scriptedClient{result: validGeneration()}

	gen, err := GeneratePrompts(context.Background(), client, "JMEMS", "MEMS devices and fabrication", "")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(gen.Prompts[PromptParaphrase], "{preferred_style}") {
		t.Fatalf("preferred_style not substituted: %q", gen.Prompts[PromptParaphrase])
	}
	if !strings.Contains(gen.Prompts[PromptParaphrase], "concise experimental") {
		t.Fatalf("style missing from paraphrase prompt: %q", gen.Prompts[PromptParaphrase])
	}
	if strings.Contains(gen.Prompts[PromptJournalFit], "{journal_name}") {
		t.Fatalf("journal_name not substituted: %q", gen.Prompts[PromptJournalFit])
	}
	if !strings.Contains(gen.Prompts[PromptJournalFit], "JMEMS") {
		t.Fatalf("journal name missing: %q", gen.Prompts[PromptJournalFit])
	}
	if len(gen.Keywords) != 2 || gen.Audience != "device engineers" {
		t.Fatalf("profile fields = %+v", gen)
	}
}

func TestGeneratePromptsRepairsMissingText(t *testing.T) {
	result := validGeneration()
	result["prompts"].(map[string]any)["reviewer"] = "Review the paragraph critically."
	client := &scriptedClient{result: result}

	gen, err := GeneratePrompts(context.Background(), client, "J", "scope", "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(gen.Prompts[PromptReviewer], "{text}") {
		t.Fatalf("reviewer prompt not repaired: %q", gen.Prompts[PromptReviewer])
	}
}

func TestGeneratePromptsRepairsExpansionClaim(t *testing.T) {
	result := validGeneration()
	result["prompts"].(map[string]any)["expansion"] = "Propose directions for {text}."
	client := &scriptedClient{result: result}

	gen, err := GeneratePrompts(context.Background(), client, "J", "scope", "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(gen.Prompts[PromptExpansion], "{claim}") {
		t.Fatalf("expansion prompt not repaired: %q", gen.Prompts[PromptExpansion])
	}
}

func TestGeneratePromptsRejectsMissingType(t *testing.T) {
	result := validGeneration()
	delete(result["prompts"].(map[string]any), "reviewer")
	client := &scriptedClient{result: result}

	if _, err := GeneratePrompts(context.Background(), client, "J", "scope", ""); err == nil {
		t.Fatal("expected error for missing required prompt type")
	}
}

func TestGeneratePromptsRejectsParseFailure(t *testing.T) {
	client := &scriptedClient{result: map[string]any{
		"raw": "garbage", "error": "parse_failed", "error_detail": "bad json",
	}}
	if _, err := GeneratePrompts(context.Background(), client, "J", "scope", ""); err == nil {
		t.Fatal("expected error on parse failure")
	}
}
