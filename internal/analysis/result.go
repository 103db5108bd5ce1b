package analysis

import "paragraph-backend/internal/scholar"

// StyleVariant is one rewritten version of the paragraph.
type StyleVariant struct {
	Name        string `json:"name"`
	Text        string `json:"text"`
	Translation string `json:"translation"`
}

// Paraphrase carries the detected section and the style rewrites.
type Paraphrase struct {
	Section *string        `json:"section"`
	Styles  []StyleVariant `json:"styles"`
}

// ClaimCheck is the overstatement analysis of the paragraph's core claim.
type ClaimCheck struct {
	Section             *string  `json:"section"`
	Claim               string   `json:"claim"`
	Score               int      `json:"score"`
	Issues              []string `json:"issues"`
	Suggestions         []string `json:"suggestions"`
	FoundOverstatements []string `json:"found_overstatements"`
	Error               string   `json:"error,omitempty"`
}

// JournalFit scores how well the paragraph matches a journal's scope.
type JournalFit struct {
	Section   *string  `json:"section"`
	Score     int      `json:"score"`
	Matches   []string `json:"matches"`
	Gaps      []string `json:"gaps"`
	Revised   string   `json:"revised"`
	RevisedEN string   `json:"revised_en"`
}

// Direction is one proposed way to extend the paragraph's claim.
type Direction struct {
	Type        string   `json:"type"`
	Claim       string   `json:"claim"`
	Pro         string   `json:"pro"`
	Con         string   `json:"con"`
	Reason      string   `json:"reason"`
	Experiments []string `json:"experiments"`
	Section     string   `json:"section,omitempty"`
}

// ReviewerQuestion is one critical question with its severity.
type ReviewerQuestion struct {
	Q        string `json:"q"`
	Severity string `json:"severity"`
	Reason   string `json:"reason"`
}

// PriorWorkItem relates one aspect of the paragraph to a prior work.
type PriorWorkItem struct {
	Aspect    string `json:"aspect"`
	PriorWork string `json:"prior_work"`
	Detail    string `json:"detail"`
}

// PriorWorkAnalysis compares the paragraph against found references.
type PriorWorkAnalysis struct {
	Overlaps        []PriorWorkItem `json:"overlaps"`
	Improvements    []PriorWorkItem `json:"improvements"`
	Differentiation []string        `json:"differentiation"`
}

// Result aggregates every node's output. All slots are always present;
// a failed node contributes its typed empty value, never an error.
type Result struct {
	Paraphrases              Paraphrase         `json:"paraphrases"`
	Claim                    ClaimCheck         `json:"claim"`
	ClaimSection             *string            `json:"claim_section"`
	JournalMatch             *JournalFit        `json:"journal_match"`
	Expansions               []Direction        `json:"expansions"`
	References               []scholar.Paper    `json:"references"`
	ReviewerQs               []ReviewerQuestion `json:"reviewer_qs"`
	ReviewerSection          *string            `json:"reviewer_section"`
	PositiveFeedback         *string            `json:"positive_feedback"`
	Vague                    []VagueHit         `json:"vague"`
	PriorWork                PriorWorkAnalysis  `json:"prior_work_analysis"`
	Translation              *string            `json:"translation"`
	TranslationSkippedKorean bool               `json:"translation_skipped_korean"`
	TranslationError         bool               `json:"translation_error"`
}

func emptyPriorWork() PriorWorkAnalysis {
	return PriorWorkAnalysis{
		Overlaps:        []PriorWorkItem{},
		Improvements:    []PriorWorkItem{},
		Differentiation: []string{},
	}
}

// emptyResult pre-fills every slot with its typed empty value so node
// failures degrade to presence, not absence.
func emptyResult() Result {
	return Result{
		Paraphrases: Paraphrase{Styles: []StyleVariant{}},
		Claim: ClaimCheck{
			Issues:              []string{},
			Suggestions:         []string{},
			FoundOverstatements: []string{},
		},
		Expansions: []Direction{},
		References: []scholar.Paper{},
		ReviewerQs: []ReviewerQuestion{},
		Vague:      []VagueHit{},
		PriorWork:  emptyPriorWork(),
	}
}
