package journals

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"paragraph-backend/internal/llm"
)

// generatePromptsTemplate drives the one-shot profile generation at
// registration time. The model rewrites five base analysis prompts
// around the journal's aims and scope while keeping every JSON output
// contract and placeholder intact.
const generatePromptsTemplate = `You are an expert in academic journal analysis and prompt engineering.
Using the journal information and the base prompt templates below, produce a customized prompt set for this journal as a JSON object.

[Journal]
Name: %[1]s
Aims & Scope:
%[2]s

[Custom requirements]
%[3]s

[Instructions]
1. Base every prompt on the corresponding base template below.
2. Never change a template's JSON output contract or its required placeholders ({text}, {claim}, {journal_name}, {scope}). Keeping the structure intact matters more than anything else.
3. Rewrite the instructions and evaluation criteria inside each prompt so they reflect this journal's aims, scope, and review culture.

[Base templates]
1. paraphrase: rewrite the paragraph {text} in the journal's preferred style ({preferred_style}). Output {"section": "...", "styles": [{"name": "...", "text": "...", "translation": "..."}]}.
2. claim_check: judge whether the claims in {text} are overstated by this journal's review standards. Output {"section": "...", "claim": "one-sentence core claim in English", "score": 0-10, "issues": [...], "suggestions": [...]}.
3. journal_fit: score how well {text} fits the scope of {journal_name} out of 10. Output {"section": "...", "score": 0, "matches": [...], "gaps": [...], "revised": "...", "revised_en": "..."}.
4. expansion: given {text} and its core claim {claim}, propose 3-5 next-level research directions the journal would value. Output {"section": "...", "directions": [{"type": "...", "claim": "...", "pro": "...", "con": "...", "reason": "...", "experiments": [...]}]}.
5. reviewer: as a demanding reviewer for this journal, write 3-5 critical questions and one positive remark about {text}. Output {"section": "...", "positive_feedback": "...", "questions": [{"q": "...", "severity": "critical|major|minor", "reason": "..."}]}.

[Final output]
Respond with pure JSON only, no markdown fences:
{
  "journal_keywords": ["keyword1", "keyword2", "keyword3"],
  "target_audience": "who reads this journal",
  "preferred_style": "the writing style this journal rewards",
  "prompts": {
    "paraphrase": "...", "claim_check": "...", "journal_fit": "...", "expansion": "...", "reviewer": "..."
  },
  "evaluation_criteria": ["criterion1", "criterion2", "criterion3"]
}`

// Generated is the model's journal profile output after validation.
type Generated struct {
	Prompts  map[string]string
	Keywords []string
	Audience string
	Style    string
	Criteria []string
}

// Models drift on placeholder spelling; collapse brace stacks and fix
// the typos seen in practice so rendering never misses a slot.
var placeholderFixes = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`\{+\s*text\s*\}+`), "{text}"},
	{regexp.MustCompile(`(?i)\{+\s*calim\s*\}+`), "{claim}"},
	{regexp.MustCompile(`(?i)\{+\s*cliam\s*\}+`), "{claim}"},
	{regexp.MustCompile(`\{+\s*claim\s*\}+`), "{claim}"},
	{regexp.MustCompile(`\{+\s*journal_name\s*\}+`), "{journal_name}"},
	{regexp.MustCompile(`\{+\s*scope\s*\}+`), "{scope}"},
	{regexp.MustCompile(`\{+\s*prior_works\s*\}+`), "{prior_works}"},
	{regexp.MustCompile(`\{+\s*claim_section\s*\}+`), "{claim_section}"},
}

// NormalizePlaceholders unifies placeholder spelling inside a generated prompt.
func NormalizePlaceholders(prompt string) string {
	for _, fix := range placeholderFixes {
		prompt = fix.re.ReplaceAllString(prompt, fix.replacement)
	}
	return prompt
}

// repairPlaceholders injects required placeholders the model forgot
// instead of failing the registration outright.
func repairPlaceholders(ptype, prompt string) string {
	if prompt == "" {
		return prompt
	}
	if !strings.Contains(prompt, "{text}") {
		prompt = "[Input paragraph]\n{text}\n\n" + prompt
	}
	if ptype == PromptExpansion &&
		!strings.Contains(prompt, "{claim}") && !strings.Contains(prompt, "{claim_section}") {
		prompt += "\n\n[Core claim]\n{claim}\n"
	}
	return prompt
}

// ValidatePrompt normalizes a generated prompt and verifies its
// required placeholders are present.
func ValidatePrompt(ptype, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt %q is empty", ptype)
	}
	prompt = NormalizePlaceholders(prompt)

	switch ptype {
	case PromptParaphrase, PromptClaimCheck, PromptJournalFit, PromptReviewer:
		if !strings.Contains(prompt, "{text}") {
			return "", fmt.Errorf("prompt %q is missing the {text} placeholder", ptype)
		}
	case PromptExpansion:
		hasClaim := strings.Contains(prompt, "{claim}") || strings.Contains(prompt, "{claim_section}")
		if !strings.Contains(prompt, "{text}") || !hasClaim {
			return "", fmt.Errorf("prompt %q is missing the {text} or {claim} placeholder", ptype)
		}
	}
	return prompt, nil
}

// GeneratePrompts asks the model for a journal-specific prompt set and
// validates the result. One model call produces the whole profile.
func GeneratePrompts(ctx context.Context, client llm.Client, name, aimsScope, customMethodology string) (Generated, error) {
	prompt := fmt.Sprintf(generatePromptsTemplate, name, aimsScope, customMethodology)

	result, err := client.Ask(ctx, prompt)
	if err != nil {
		return Generated{}, fmt.Errorf("generate journal prompts: %w", err)
	}
	if llm.IsParseFailure(result) {
		detail, _ := result["error_detail"].(string)
		return Generated{}, fmt.Errorf("generate journal prompts: model output unparseable: %s", detail)
	}

	rawPrompts, ok := result["prompts"].(map[string]any)
	if !ok || len(rawPrompts) == 0 {
		return Generated{}, fmt.Errorf("generate journal prompts: result has no prompts")
	}

	validated := make(map[string]string, len(rawPrompts))
	for ptype, raw := range rawPrompts {
		text, _ := raw.(string)
		text = repairPlaceholders(ptype, text)
		text, err := ValidatePrompt(ptype, text)
		if err != nil {
			return Generated{}, fmt.Errorf("generate journal prompts: %w", err)
		}
		validated[ptype] = text
	}

	for _, ptype := range RequiredPromptTypes {
		if _, ok := validated[ptype]; !ok {
			return Generated{}, fmt.Errorf("generate journal prompts: required prompt %q was not generated", ptype)
		}
	}

	style := asString(result["preferred_style"])
	if style == "" {
		style = "Analyzed Journal Style"
	}
	// {preferred_style} and {journal_name} are profile constants, not
	// per-analysis inputs, so they are baked in at registration time.
	if p, ok := validated[PromptParaphrase]; ok {
		p = strings.ReplaceAll(p, "{preferred_style}", style)
		validated[PromptParaphrase] = strings.ReplaceAll(p, "{{preferred_style}}", style)
	}
	if p, ok := validated[PromptJournalFit]; ok {
		p = strings.ReplaceAll(p, "{journal_name}", name)
		validated[PromptJournalFit] = strings.ReplaceAll(p, "{{journal_name}}", name)
	}

	return Generated{
		Prompts:  validated,
		Keywords: asStringSlice(result["journal_keywords"]),
		Audience: asString(result["target_audience"]),
		Style:    asString(result["preferred_style"]),
		Criteria: asStringSlice(result["evaluation_criteria"]),
	}, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
