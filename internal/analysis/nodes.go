package analysis

import (
	"context"
	"fmt"
	"strings"

	"paragraph-backend/internal/journals"
	"paragraph-backend/internal/llm"
	"paragraph-backend/internal/scholar"
	"paragraph-backend/internal/settings"
	"paragraph-backend/internal/shared/metrics"
	"paragraph-backend/internal/shared/telemetry"
)

type journalProfile = journals.Profile

// JournalResolver looks up a journal profile by name; a miss means the
// analysis runs with default prompts.
type JournalResolver interface {
	Resolve(ctx context.Context, name string) (journals.Profile, bool)
}

// SettingsProvider supplies the effective runtime settings.
type SettingsProvider interface {
	Get(ctx context.Context) (settings.Settings, error)
}

// engine holds the gateways the pipeline nodes call out to.
type engine struct {
	client   llm.Client
	journals JournalResolver
	settings SettingsProvider
	scholar  scholar.Gateway
}

// promptFor prefers the journal's customized prompt over the default.
func (e *engine) promptFor(s *pipelineState, ptype, def string) string {
	if s.hasJournal {
		if custom := strings.TrimSpace(s.journal.Prompts[ptype]); custom != "" {
			return custom
		}
	}
	return def
}

// ask wraps the model call with the degradation bookkeeping every node
// shares: transport errors and unparseable replies are logged, counted,
// and reported as a miss rather than propagated.
func (e *engine) ask(ctx context.Context, node, prompt string) (map[string]any, bool) {
	obj, err := e.client.Ask(ctx, prompt)
	if err != nil {
		telemetry.Error("analysis.node_failed", map[string]any{"node": node, "error": err.Error()})
		metrics.IncNodeFallback(node)
		return nil, false
	}
	if llm.IsParseFailure(obj) {
		telemetry.Warn("analysis.node_parse_failed", map[string]any{
			"node":   node,
			"detail": fieldString(obj, "error_detail"),
		})
		metrics.IncNodeFallback(node)
		return nil, false
	}
	return obj, true
}

func (e *engine) loadJournal(ctx context.Context, s *pipelineState) {
	if strings.TrimSpace(s.journalName) == "" {
		return
	}
	s.journal, s.hasJournal = e.journals.Resolve(ctx, s.journalName)
}

func (e *engine) checkClaim(ctx context.Context, s *pipelineState) {
	found := FindOverstatements(s.text)

	prompt := renderPrompt(
		e.promptFor(s, journals.PromptClaimCheck, defaultClaimCheckPrompt),
		map[string]string{"text": s.text},
	)
	obj, err := e.client.Ask(ctx, prompt)
	if err != nil {
		telemetry.Error("analysis.node_failed", map[string]any{"node": nodeClaim, "error": err.Error()})
		metrics.IncNodeFallback(nodeClaim)
		s.result.Claim = ClaimCheck{
			Claim:               fallbackClaim(s.text),
			Issues:              []string{},
			Suggestions:         []string{},
			FoundOverstatements: found,
			Error:               err.Error(),
		}
		return
	}
	if llm.IsParseFailure(obj) {
		telemetry.Warn("analysis.node_parse_failed", map[string]any{
			"node":   nodeClaim,
			"detail": fieldString(obj, "error_detail"),
		})
		metrics.IncNodeFallback(nodeClaim)
		obj = map[string]any{}
	}

	s.result.Claim = parseClaimCheck(obj, s.text, found)
	s.result.ClaimSection = s.result.Claim.Section
}

func (e *engine) paraphrase(ctx context.Context, s *pipelineState) {
	prompt := renderPrompt(
		e.promptFor(s, journals.PromptParaphrase, defaultParaphrasePrompt),
		map[string]string{"text": s.text},
	)
	obj, ok := e.ask(ctx, nodeParaphrase, prompt)
	if !ok {
		return
	}
	s.result.Paraphrases = parseParaphrase(obj)
}

func (e *engine) matchJournal(ctx context.Context, s *pipelineState) {
	if !s.hasJournal {
		return
	}

	name := s.journal.FullName
	if name == "" {
		name = s.journal.Name
	}
	prompt := renderPrompt(
		e.promptFor(s, journals.PromptJournalFit, defaultJournalFitPrompt),
		map[string]string{
			"text":         s.text,
			"journal_name": name,
			"scope":        s.journal.AimsScope,
		},
	)
	obj, ok := e.ask(ctx, nodeJournalFit, prompt)
	if !ok {
		return
	}
	s.result.JournalMatch = parseJournalFit(obj)
}

// expandClaim always uses the default expansion template with the
// journal's context injected. The generated per-journal expansion
// prompt proved less robust than the hybrid, so it is ignored here.
func (e *engine) expandClaim(ctx context.Context, s *pipelineState) {
	targetJournal := "General Academic Context"
	targetScope := "Broad impact and rigorous methodology"
	if s.hasJournal {
		targetJournal = s.journal.FullName
		if targetJournal == "" {
			targetJournal = s.journal.Name
		}
		targetScope = s.journal.AimsScope
	}

	claim := strings.TrimSpace(s.result.Claim.Claim)
	claimSection := "[Core claim]\n(Extract the core claim from the paragraph and base the analysis on it)"
	if claim != "" {
		claimSection = "[Core claim]\n" + claim
	}

	vars := map[string]string{
		"text":          s.text,
		"claim_section": claimSection,
		"journal_name":  targetJournal,
		"aims_scope":    targetScope,
	}
	if claim != "" {
		vars["claim"] = claim
	}

	obj, ok := e.ask(ctx, nodeExpand, renderPrompt(defaultExpansionPrompt, vars))
	if !ok {
		return
	}
	s.result.Expansions = parseDirections(obj)
}

func (e *engine) findReferences(ctx context.Context, s *pipelineState) {
	cfg, err := e.settings.Get(ctx)
	if err != nil {
		telemetry.Error("analysis.node_failed", map[string]any{"node": nodeReferences, "error": err.Error()})
		return
	}
	if !cfg.EnableReferences {
		return
	}

	obj, ok := e.ask(ctx, nodeReferences, renderPrompt(searchQueryPrompt, map[string]string{"text": s.text}))
	if !ok {
		return
	}
	query := strings.TrimSpace(fieldString(obj, "query"))
	if query == "" {
		return
	}

	if refs := e.scholar.Search(ctx, query, cfg.ResultLimit, cfg.MinCitations); refs != nil {
		s.result.References = refs
	}
}

func (e *engine) reviewerQuestions(ctx context.Context, s *pipelineState) {
	prompt := renderPrompt(
		e.promptFor(s, journals.PromptReviewer, defaultReviewerPrompt),
		map[string]string{"text": s.text},
	)
	obj, ok := e.ask(ctx, nodeReviewer, prompt)
	if !ok {
		return
	}
	s.result.ReviewerQs, s.result.ReviewerSection, s.result.PositiveFeedback = parseReviewer(obj)
}

func (e *engine) detectVague(ctx context.Context, s *pipelineState) {
	s.result.Vague = DetectVague(s.text)
}

func (e *engine) analyzePriorWork(ctx context.Context, s *pipelineState) {
	refs := s.result.References
	if len(refs) == 0 {
		return
	}
	if len(refs) > 5 {
		refs = refs[:5]
	}

	lines := make([]string, 0, len(refs))
	for _, r := range refs {
		doi := r.DOI
		if doi == "" {
			doi = "N/A"
		}
		lines = append(lines, fmt.Sprintf("- %s (%d) | %s | DOI: %s", r.Title, r.Year, r.Venue, doi))
	}

	prompt := renderPrompt(
		e.promptFor(s, "prior_work", defaultPriorWorkPrompt),
		map[string]string{
			"text":        s.text,
			"prior_works": strings.Join(lines, "\n"),
		},
	)
	obj, ok := e.ask(ctx, nodePriorWork, prompt)
	if !ok {
		return
	}
	s.result.PriorWork = parsePriorWork(obj)
}

// translate renders the paragraph into Korean when the input is
// English. A Korean input skips translation; an undetectable language
// or a failed call is flagged as an error, and the two flags let the
// caller tell the cases apart.
func (e *engine) translate(ctx context.Context, s *pipelineState) {
	switch DetectLanguage(s.text) {
	case LangKorean:
		s.result.TranslationSkippedKorean = true
		return
	case LangUnknown:
		s.result.TranslationError = true
		return
	}

	obj, ok := e.ask(ctx, nodeTranslation, renderPrompt(defaultTranslationPrompt, map[string]string{"text": s.text}))
	if !ok {
		s.result.TranslationError = true
		return
	}
	translation := strings.TrimSpace(fieldString(obj, "translation"))
	if translation == "" {
		telemetry.Warn("analysis.translation_empty", nil)
		s.result.TranslationError = true
		return
	}
	s.result.Translation = &translation
}
