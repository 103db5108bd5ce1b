package analysis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"paragraph-backend/internal/journals"
	"paragraph-backend/internal/scholar"
	"paragraph-backend/internal/settings"
)

// routedClient matches prompts by substring and replies with the
// scripted object, standing in for the model gateway.
type route struct {
	match string
	obj   map[string]any
	err   error
}

type routedClient struct {
	mu      sync.Mutex
	routes  []route
	prompts []string
}

func (c *routedClient) Ask(ctx context.Context, prompt string) (map[string]any, error) {
	c.mu.Lock()
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()
	for _, r := range c.routes {
		if strings.Contains(prompt, r.match) {
			return r.obj, r.err
		}
	}
	return nil, errors.New("no route for prompt")
}

func (c *routedClient) askedContaining(substr string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.prompts {
		if strings.Contains(p, substr) {
			return true
		}
	}
	return false
}

// Markers unique to each default prompt template.
const (
	markClaim       = "Core claim (required)"
	markParaphrase  = "5 different academic styles"
	markJournalFit  = "senior editor"
	markExpansion   = "research strategy consultant"
	markReviewer    = "one piece of positive feedback"
	markPriorWork   = "related prior work"
	markSearchQuery = "Extract 3-5 English keywords"
	markTranslation = "professional academic translator"
)

func happyRoutes() []route {
	return []route{
		{match: markClaim, obj: map[string]any{
			"section": "Results", "claim": "The device improves yield by 12%.",
			"score": float64(4), "issues": []any{"overlap with prior work"}, "suggestions": []any{"hedge the claim"},
		}},
		{match: markParaphrase, obj: map[string]any{
			"section": "Results",
			"styles": []any{
				map[string]any{"name": "Assertive", "text": "It demonstrates.", "translation": "시연한다."},
				map[string]any{"name": "Hedged", "text": "It may suggest.", "translation": "시사할 수 있다."},
			},
		}},
		{match: markJournalFit, obj: map[string]any{
			"section": "Results", "score": float64(8),
			"matches": []any{"MEMS fabrication"}, "gaps": []any{"no statistics"},
			"revised": "수정본", "revised_en": "Revised.",
		}},
		{match: markExpansion, obj: map[string]any{
			"section": "Results",
			"directions": []any{map[string]any{
				"type": "Theoretical Deepening", "claim": "A first-principles model.",
				"pro": "stronger", "con": "harder", "reason": "fits scope", "experiments": []any{"derive model"},
			}},
		}},
		{match: markReviewer, obj: map[string]any{
			"section":           "Results",
			"questions":         []any{map[string]any{"q": "Baseline fairness?", "severity": "major", "reason": "comparison"}},
			"positive_feedback": "Solid experimental design.",
		}},
		{match: markPriorWork, obj: map[string]any{
			"overlaps":        []any{map[string]any{"aspect": "method", "prior_work": "Kim 2021", "detail": "same etch"}},
			"improvements":    []any{map[string]any{"aspect": "yield", "prior_work": "Kim 2021", "detail": "12% higher"}},
			"differentiation": []any{"emphasize yield"},
		}},
		{match: markSearchQuery, obj: map[string]any{"query": "mems yield optimization"}},
		{match: markTranslation, obj: map[string]any{"translation": "이 장치는 수율을 12% 개선한다."}},
	}
}

type fakeResolver struct {
	profiles map[string]journals.Profile
}

func (f *fakeResolver) Resolve(ctx context.Context, name string) (journals.Profile, bool) {
	p, ok := f.profiles[name]
	return p, ok
}

type fakeSettings struct {
	s   settings.Settings
	err error
}

func (f *fakeSettings) Get(ctx context.Context) (settings.Settings, error) {
	return f.s, f.err
}

type fakeScholar struct {
	mu           sync.Mutex
	papers       []scholar.Paper
	query        string
	limit        int
	minCitations int
}

func (f *fakeScholar) Search(ctx context.Context, query string, limit, minCitations int) []scholar.Paper {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query, f.limit, f.minCitations = query, limit, minCitations
	return f.papers
}

type fakeHistory struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeHistory) Record(ctx context.Context, text string, result any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
}

type fakeQueue struct {
	ids []string
	err error
}

func (f *fakeQueue) EnqueueAnalysis(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.ids = append(f.ids, id)
	return nil
}

type fakeDocs struct {
	texts map[string]string
}

func (f *fakeDocs) GetText(ctx context.Context, id string) (string, error) {
	text, ok := f.texts[id]
	if !ok {
		return "", errors.New("document not found")
	}
	return text, nil
}

type testDeps struct {
	client   *routedClient
	resolver *fakeResolver
	settings *fakeSettings
	scholar  *fakeScholar
	history  *fakeHistory
	queue    *fakeQueue
	docs     *fakeDocs
	repo     *MemoryRepo
}

func newTestService(t *testing.T, deps *testDeps) *Service {
	t.Helper()
	if deps.client == nil {
		deps.client = &routedClient{routes: happyRoutes()}
	}
	if deps.resolver == nil {
		deps.resolver = &fakeResolver{profiles: map[string]journals.Profile{}}
	}
	if deps.settings == nil {
		deps.settings = &fakeSettings{s: settings.Defaults()}
	}
	if deps.scholar == nil {
		deps.scholar = &fakeScholar{}
	}
	if deps.repo == nil {
		deps.repo = NewMemoryRepo()
	}
	var history HistoryRecorder
	if deps.history != nil {
		history = deps.history
	}
	var queue Enqueuer
	if deps.queue != nil {
		queue = deps.queue
	}
	var docs DocumentTexts
	if deps.docs != nil {
		docs = deps.docs
	}
	svc, err := NewService(deps.client, deps.resolver, deps.settings, deps.scholar, deps.repo, history, queue, docs)
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

const sampleText = "The device improves yield by 12%. Additional wafers were processed to confirm the effect."

func TestAnalyzeHappyPath(t *testing.T) {
	deps := &testDeps{history: &fakeHistory{}}
	svc := newTestService(t, deps)

	result, err := svc.Analyze(context.Background(), sampleText, "")
	if err != nil {
		t.Fatal(err)
	}

	if result.Claim.Claim != "The device improves yield by 12%." {
		t.Fatalf("claim = %q", result.Claim.Claim)
	}
	if result.ClaimSection == nil || *result.ClaimSection != "Results" {
		t.Fatalf("claim section = %v", result.ClaimSection)
	}
	if len(result.Paraphrases.Styles) != 2 {
		t.Fatalf("styles = %v", result.Paraphrases.Styles)
	}
	if len(result.Expansions) != 1 || result.Expansions[0].Type != "Theoretical Deepening" {
		t.Fatalf("expansions = %v", result.Expansions)
	}
	if len(result.ReviewerQs) != 1 || result.PositiveFeedback == nil {
		t.Fatalf("reviewer = %v / %v", result.ReviewerQs, result.PositiveFeedback)
	}
	if result.JournalMatch != nil {
		t.Fatalf("journal match without journal = %v", result.JournalMatch)
	}
	if len(result.References) != 0 {
		t.Fatalf("references should be empty by default: %v", result.References)
	}
	if len(result.PriorWork.Overlaps) != 0 {
		t.Fatalf("prior work without references = %v", result.PriorWork)
	}
	if result.Translation == nil || !strings.Contains(*result.Translation, "수율") {
		t.Fatalf("translation = %v", result.Translation)
	}
	if result.TranslationSkippedKorean || result.TranslationError {
		t.Fatalf("translation flags set: %+v", result)
	}

	// The expansion prompt carries the extracted claim downstream.
	if !deps.client.askedContaining("[Core claim]\nThe device improves yield by 12%.") {
		t.Fatal("expansion prompt did not include the claim")
	}
	if len(deps.history.texts) != 1 {
		t.Fatalf("history records = %d", len(deps.history.texts))
	}
}

func TestAnalyzeBlankTextRejected(t *testing.T) {
	svc := newTestService(t, &testDeps{})
	if _, err := svc.Analyze(context.Background(), "   \n ", ""); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("err = %v", err)
	}
}

func TestAnalyzeNodeFailuresAreContained(t *testing.T) {
	client := &routedClient{routes: []route{
		{match: markClaim, err: errors.New("model unavailable")},
		{match: markParaphrase, obj: map[string]any{
			"raw": "rambling", "error": "parse_failed", "error_detail": "invalid json",
		}},
		{match: markExpansion, err: errors.New("model unavailable")},
		{match: markReviewer, err: errors.New("model unavailable")},
		{match: markTranslation, err: errors.New("model unavailable")},
	}}
	svc := newTestService(t, &testDeps{client: client})

	result, err := svc.Analyze(context.Background(), "Clearly the best device ever built. It works.", "")
	if err != nil {
		t.Fatalf("node failures must not fail the analysis: %v", err)
	}

	// Claim falls back to the first sentence and records the error.
	if result.Claim.Claim != "Clearly the best device ever built" {
		t.Fatalf("fallback claim = %q", result.Claim.Claim)
	}
	if result.Claim.Error == "" {
		t.Fatal("claim error not recorded")
	}
	if len(result.Claim.FoundOverstatements) == 0 {
		t.Fatal("overstatements missing from degraded claim")
	}
	if len(result.Paraphrases.Styles) != 0 || result.Paraphrases.Styles == nil {
		t.Fatalf("paraphrase should degrade to empty styles: %v", result.Paraphrases.Styles)
	}
	if len(result.Expansions) != 0 || result.Expansions == nil {
		t.Fatalf("expansions = %v", result.Expansions)
	}
	if len(result.ReviewerQs) != 0 || result.ReviewerQs == nil {
		t.Fatalf("reviewer qs = %v", result.ReviewerQs)
	}
	if !result.TranslationError {
		t.Fatal("translation failure not flagged")
	}
	// Local nodes still ran.
	if len(result.Vague) == 0 {
		t.Fatalf("vague = %v", result.Vague)
	}
}

func TestAnalyzeKoreanSkipsTranslation(t *testing.T) {
	deps := &testDeps{client: &routedClient{routes: happyRoutes()}}
	svc := newTestService(t, deps)

	result, err := svc.Analyze(context.Background(), "이 연구는 새로운 소자 구조를 제안하고 실험으로 검증한다.", "")
	if err != nil {
		t.Fatal(err)
	}
	if !result.TranslationSkippedKorean || result.TranslationError {
		t.Fatalf("flags = skipped:%v error:%v", result.TranslationSkippedKorean, result.TranslationError)
	}
	if result.Translation != nil {
		t.Fatalf("translation = %v", *result.Translation)
	}
	if deps.client.askedContaining(markTranslation) {
		t.Fatal("translation prompt sent for Korean input")
	}
}

func TestAnalyzeUnknownLanguageFlagsError(t *testing.T) {
	svc := newTestService(t, &testDeps{})
	result, err := svc.Analyze(context.Background(), "3.14 2.71 1.41 9.81", "")
	if err != nil {
		t.Fatal(err)
	}
	if !result.TranslationError || result.TranslationSkippedKorean {
		t.Fatalf("flags = skipped:%v error:%v", result.TranslationSkippedKorean, result.TranslationError)
	}
}

func TestAnalyzeReferencesEnabled(t *testing.T) {
	papers := []scholar.Paper{
		{Title: "Prior A", Year: 2020, Venue: "JMEMS", DOI: "10.1/a", CitationCount: 120},
		{Title: "Prior B", Year: 2021, Venue: "Sensors", CitationCount: 80},
	}
	deps := &testDeps{
		settings: &fakeSettings{s: settings.Settings{EnableReferences: true, MinCitations: 50, ResultLimit: 2}},
		scholar:  &fakeScholar{papers: papers},
		client:   &routedClient{routes: happyRoutes()},
	}
	svc := newTestService(t, deps)

	result, err := svc.Analyze(context.Background(), sampleText, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.References) != 2 {
		t.Fatalf("references = %v", result.References)
	}
	if deps.scholar.query != "mems yield optimization" {
		t.Fatalf("scholar query = %q", deps.scholar.query)
	}
	if deps.scholar.limit != 2 || deps.scholar.minCitations != 50 {
		t.Fatalf("scholar args = limit:%d min:%d", deps.scholar.limit, deps.scholar.minCitations)
	}
	// Prior work ran off the found references.
	if len(result.PriorWork.Overlaps) != 1 || result.PriorWork.Overlaps[0].PriorWork != "Kim 2021" {
		t.Fatalf("prior work = %+v", result.PriorWork)
	}
	if !deps.client.askedContaining("- Prior A (2020) | JMEMS | DOI: 10.1/a") {
		t.Fatal("prior work prompt missing formatted reference")
	}
	if !deps.client.askedContaining("DOI: N/A") {
		t.Fatal("missing DOI not rendered as N/A")
	}
}

func TestAnalyzeReferencesDisabledSkipsSearch(t *testing.T) {
	deps := &testDeps{client: &routedClient{routes: happyRoutes()}}
	svc := newTestService(t, deps)

	if _, err := svc.Analyze(context.Background(), sampleText, ""); err != nil {
		t.Fatal(err)
	}
	if deps.client.askedContaining(markSearchQuery) {
		t.Fatal("search query prompt sent with references disabled")
	}
}

func TestAnalyzeWithJournalProfile(t *testing.T) {
	profile := journals.Profile{
		Name:      "JMEMS",
		FullName:  "Journal of Microelectromechanical Systems",
		AimsScope: "MEMS devices and fabrication",
		Prompts: map[string]string{
			journals.PromptClaimCheck: "CUSTOM CLAIM PROMPT Core claim (required) {text}",
			journals.PromptJournalFit: "CUSTOM FIT PROMPT senior editor {text} {scope}",
			journals.PromptExpansion:  "GENERATED EXPANSION {text} {claim}",
		},
	}
	deps := &testDeps{
		resolver: &fakeResolver{profiles: map[string]journals.Profile{"JMEMS": profile}},
		client:   &routedClient{routes: happyRoutes()},
	}
	svc := newTestService(t, deps)

	result, err := svc.Analyze(context.Background(), sampleText, "JMEMS")
	if err != nil {
		t.Fatal(err)
	}

	if result.JournalMatch == nil || result.JournalMatch.Score != 8 {
		t.Fatalf("journal match = %+v", result.JournalMatch)
	}
	if !deps.client.askedContaining("CUSTOM CLAIM PROMPT") {
		t.Fatal("custom claim prompt not used")
	}
	if !deps.client.askedContaining("CUSTOM FIT PROMPT") {
		t.Fatal("custom journal fit prompt not used")
	}
	if !deps.client.askedContaining("MEMS devices and fabrication") {
		t.Fatal("scope not rendered into journal fit prompt")
	}
	// Expansion keeps the hybrid default template and only takes the
	// journal context from the profile.
	if deps.client.askedContaining("GENERATED EXPANSION") {
		t.Fatal("generated expansion prompt should be ignored")
	}
	if !deps.client.askedContaining("Journal: Journal of Microelectromechanical Systems") {
		t.Fatal("expansion prompt missing journal context")
	}
}

func TestAnalyzeUnknownJournalFallsBack(t *testing.T) {
	svc := newTestService(t, &testDeps{})
	result, err := svc.Analyze(context.Background(), sampleText, "UNKNOWN")
	if err != nil {
		t.Fatal(err)
	}
	if result.JournalMatch != nil {
		t.Fatalf("journal match = %+v", result.JournalMatch)
	}
}

func TestSubmitEnqueuesJob(t *testing.T) {
	queue := &fakeQueue{}
	deps := &testDeps{queue: queue}
	svc := newTestService(t, deps)

	job, err := svc.Submit(context.Background(), sampleText, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if job.Status != StatusQueued {
		t.Fatalf("status = %s", job.Status)
	}
	if len(queue.ids) != 1 || queue.ids[0] != job.ID {
		t.Fatalf("queue ids = %v", queue.ids)
	}
}

func TestSubmitWithDocumentID(t *testing.T) {
	docID := "doc-1"
	deps := &testDeps{
		queue: &fakeQueue{},
		docs:  &fakeDocs{texts: map[string]string{docID: sampleText}},
	}
	svc := newTestService(t, deps)

	job, err := svc.Submit(context.Background(), "", "", &docID)
	if err != nil {
		t.Fatal(err)
	}
	if job.Text != sampleText {
		t.Fatalf("text = %q", job.Text)
	}
	if job.DocumentID == nil || *job.DocumentID != docID {
		t.Fatalf("document id = %v", job.DocumentID)
	}
}

func TestSubmitWithUnknownDocumentID(t *testing.T) {
	docID := "missing"
	deps := &testDeps{docs: &fakeDocs{texts: map[string]string{}}}
	svc := newTestService(t, deps)

	_, err := svc.Submit(context.Background(), "", "", &docID)
	if !errors.Is(err, ErrDocumentUnavailable) {
		t.Fatalf("err = %v, want ErrDocumentUnavailable", err)
	}
}

func TestSubmitEnqueueFailureMarksJobFailed(t *testing.T) {
	deps := &testDeps{queue: &fakeQueue{err: errors.New("sqs down")}}
	svc := newTestService(t, deps)

	_, err := svc.Submit(context.Background(), sampleText, "", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	jobs, _ := deps.repo.List(context.Background(), 10)
	if len(jobs) != 1 || jobs[0].Status != StatusFailed {
		t.Fatalf("jobs = %+v", jobs)
	}
	if jobs[0].ErrorCode != "enqueue_failed" {
		t.Fatalf("error code = %q", jobs[0].ErrorCode)
	}
}

func TestProcessCompletesJob(t *testing.T) {
	queue := &fakeQueue{}
	deps := &testDeps{queue: queue}
	svc := newTestService(t, deps)

	job, err := svc.Submit(context.Background(), sampleText, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Process(context.Background(), job.ID); err != nil {
		t.Fatal(err)
	}

	done, err := svc.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != StatusCompleted {
		t.Fatalf("status = %s", done.Status)
	}
	if done.Result == nil || done.Result.Claim.Claim == "" {
		t.Fatalf("result = %+v", done.Result)
	}
	if done.StartedAt == nil || done.CompletedAt == nil {
		t.Fatal("timestamps not set")
	}

	// Redelivery of a completed job is a no-op.
	if err := svc.Process(context.Background(), job.ID); err != nil {
		t.Fatal(err)
	}
}

func TestProcessUnknownJob(t *testing.T) {
	svc := newTestService(t, &testDeps{queue: &fakeQueue{}})
	if err := svc.Process(context.Background(), "missing"); !errors.Is(err, ErrAnalysisNotFound) {
		t.Fatalf("err = %v", err)
	}
}
