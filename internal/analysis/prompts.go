package analysis

import (
	"regexp"
	"strings"
)

// Default prompts used when no journal profile supplies a customized
// one. Each locks the model into a JSON contract the repair layer
// understands.

const defaultParaphrasePrompt = `You are an expert academic writer for engineering journals.
Rewrite the following paragraph in 5 different academic styles IN ENGLISH.

[Original Paragraph]
{text}

[Section Detection]
First, determine which section of an academic paper this paragraph belongs to. Possible sections: Introduction, Related Work, Methodology, Results, Discussion, Conclusion, Abstract

[5 Styles Required]
1. **Assertive**: Strong claims. "demonstrates", "confirms", "establishes"
2. **Objective**: Neutral, passive voice. "was observed", "was measured"
3. **Connective**: Logical flow. "Therefore", "Consequently", "In contrast"
4. **Hedged**: Cautious. "suggests", "may indicate", "potentially"
5. **Concise**: 30% shorter, key points only.

Output JSON only:
{"section": "Introduction|Related Work|Methodology|Results|Discussion|Conclusion|Abstract", "styles": [{"name": "Assertive", "text": "...", "translation": "Korean translation of the rewritten text"}, {"name": "Objective", "text": "...", "translation": "..."}, {"name": "Connective", "text": "...", "translation": "..."}, {"name": "Hedged", "text": "...", "translation": "..."}, {"name": "Concise", "text": "...", "translation": "..."}]}`

const defaultClaimCheckPrompt = `You are an experienced reviewer for major engineering journals such as IEEE and ACM. Analyze the following paragraph rigorously.

[Paragraph]
{text}

[Section Detection]
First, determine which section of an academic paper this paragraph belongs to. Possible sections: Introduction, Related Work, Methodology, Results, Discussion, Conclusion, Abstract

[Instructions]
1. **Core claim (required)**: extract the paragraph's central claim as exactly one English sentence. The "claim" field must never be empty; if extraction is hard, summarize the main point in one sentence.
2. **Overstatement score (1-10)**: 1-3 appropriate strength, 4-6 somewhat inflated, 7-10 serious overclaiming (missing evidence, absolute wording).
3. **Issues (2-3)**: concrete problems such as overlap with prior work, methodological limits, or gaps between claim and evidence.
4. **Suggestions (2-3)**: specific, actionable revisions that temper or support the claim.

[Output]
Respond with JSON only, no markdown fences. The "claim" field is required and must be one English sentence:
{"section": "Introduction|Related Work|Methodology|Results|Discussion|Conclusion|Abstract", "claim": "one-sentence core claim in English", "score": 0, "issues": ["issue 1", "issue 2"], "suggestions": ["suggestion 1", "suggestion 2"]}`

const defaultJournalFitPrompt = `You are the senior editor of {journal_name}. Judge precisely how well the submitted paragraph fits this journal's aims, scope, and style.

[Submitted Paragraph]
{text}

[Target Journal]
Name: {journal_name}
Aims & Scope: {scope}

[Section Detection]
First, determine which section of an academic paper this paragraph belongs to (Introduction, Related Work, Methodology, Results, Discussion, Conclusion, Abstract).

[Criteria]
1. **Fit score (0-10)**: 10 is a perfect topical and stylistic match; 0-3 means a different journal would serve the work better.
2. **Specific matches**: point at the exact scope keywords or sentences the paragraph aligns with, not generic praise.
3. **Gaps**: where the paragraph falls short of what this journal's readership expects in depth or emphasis.
4. **Revised versions**: "revised" rewritten to match the journal's tone, and "revised_en" in polished, journal-ready academic English.

[Output]
Respond with JSON only:
{"section": "...", "score": 8, "matches": ["specific match 1"], "gaps": ["gap 1"], "revised": "revised paragraph", "revised_en": "Revised paragraph in English (highly polished, journal-ready)"}`

const defaultExpansionPrompt = `You are a world-class scholar and research strategy consultant. Propose next-level research directions that would make this paragraph's claim far stronger and more impactful.

[Paragraph]
{text}

{claim_section}

[Target Journal Context]
Journal: {journal_name}
Focus: {aims_scope}

[Strategic Directions]
Expand the claim along these four perspectives:
1. **Theoretical Deepening**: move beyond observation to fundamental mechanisms or mathematical modeling.
2. **Methodological Generalization**: extend a case-specific method so it holds across domains and conditions.
3. **Practical Application / Impact**: connect the result to concrete industrial or societal problems.
4. **Interdisciplinary Fusion**: import theory or methods from another field for a new angle.

[Required fields per direction]
- **type**: one of the four strategies above.
- **claim**: the new core claim if pursued, 2-3 sentences of polished academic English.
- **pro**: why this direction raises the work's value.
- **con**: the expected difficulties or limits.
- **reason**: the strategic rationale, tied to the journal's focus.
- **experiments**: the concrete experiments or analyses that would prove the claim.

[Output]
Respond with JSON only:
{"section": "...", "directions": [{"type": "...", "claim": "High-level academic English claim", "pro": "...", "con": "...", "reason": "...", "experiments": ["..."]}]}`

const defaultReviewerPrompt = `You are an experienced reviewer for major engineering journals such as IEEE and ACM. Review the following paragraph and produce 3-5 pointed questions for the authors plus one piece of positive feedback.

[Paragraph]
{text}

[Section Detection]
First, determine which section of an academic paper this paragraph belongs to. Possible sections: Introduction, Related Work, Methodology, Results, Discussion, Conclusion, Abstract

[Question guide]
Weigh experimental validity, fairness of baselines, statistical soundness, reproducibility, methodological reliability, differentiation from prior work, and the evidence behind each claim.

[Positive feedback guide]
Find one genuine strength: an innovative method, solid validation, clear logic, or a meaningful contribution over prior work.

[Severity]
- **critical**: a flaw that undermines the core claim; unpublishable without a fix.
- **major**: a substantial but fixable problem, e.g. a missing experiment or an unfair baseline.
- **minor**: a small improvement such as clearer wording or an added reference.

[Output]
Respond with JSON only. 3-5 questions, each concrete and actionable, and exactly one positive remark:
{"section": "Introduction|Related Work|Methodology|Results|Discussion|Conclusion|Abstract", "questions": [{"q": "specific actionable question", "severity": "critical|major|minor", "reason": "why this severity"}], "positive_feedback": "one specific strength of the paragraph"}`

const defaultPriorWorkPrompt = `You are a journal reviewer comparing a paragraph against related prior work. Identify overlaps, improvements, and differentiation strategies.

[Paragraph]
{text}

[Related prior work]
{prior_works}

[Instructions]
1. **Overlaps (2-3)**: which prior work overlaps with what part of the paragraph, how strongly, and why it matters.
2. **Improvements (2-3)**: where the paragraph advances beyond the prior work, with quantitative or qualitative grounds.
3. **Differentiation strategies (2-3)**: what to emphasize or additionally demonstrate to stand apart at submission time.

[Output]
Respond with JSON only:
{"overlaps": [{"aspect": "what overlaps", "prior_work": "author or title", "detail": "how and why it matters"}],
 "improvements": [{"aspect": "what improved", "prior_work": "compared against", "detail": "why it is better"}],
 "differentiation": ["actionable strategy 1", "actionable strategy 2"]}`

const searchQueryPrompt = `Extract 3-5 English keywords for academic paper search from this paragraph.

[Paragraph]
{text}

Output JSON only: {"query": "keyword1 keyword2 keyword3"}`

const defaultTranslationPrompt = `You are a professional academic translator. Translate the following English academic paragraph into natural Korean.

[Paragraph]
{text}

[Requirements]
1. Preserve the precise academic meaning while reading naturally in Korean.
2. Use established Korean translations for technical terms; keep the English original in parentheses when a translation would be unclear.
3. Restructure sentences for Korean word order without losing the logical flow.
4. Keep the scholarly tone and the original emphasis.

Output JSON only, no markdown fences:
{"translation": "the translated Korean paragraph"}`

// Leftover claim placeholders are stripped when no claim value is
// available. Misspelled placeholders never reach this point: journal
// registration normalizes them before a template is stored.
var reClaimLeftover = regexp.MustCompile(`(?i)\{+\s*claim(?:_section)?\s*\}+`)

// renderPrompt substitutes the provided variables into the template.
// Only the keys a node actually passes are replaced; a claim_section
// value also satisfies a bare {claim} slot, and any claim placeholder
// still unresolved afterwards is removed rather than sent to the model.
func renderPrompt(template string, vars map[string]string) string {
	if _, ok := vars["claim"]; !ok {
		if cs, ok := vars["claim_section"]; ok {
			vars["claim"] = cs
		}
	}

	out := template
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
		out = strings.ReplaceAll(out, "{"+key+"}", value)
	}

	return reClaimLeftover.ReplaceAllString(out, "")
}
