package journals

import "strings"

// Prompt types every registered journal must carry. Each maps to one
// analysis node that prefers a journal-specific prompt over the default.
const (
	PromptParaphrase = "paraphrase"
	PromptClaimCheck = "claim_check"
	PromptJournalFit = "journal_fit"
	PromptExpansion  = "expansion"
	PromptReviewer   = "reviewer"
)

// RequiredPromptTypes lists the prompt set a profile is incomplete without.
var RequiredPromptTypes = []string{
	PromptParaphrase,
	PromptClaimCheck,
	PromptJournalFit,
	PromptExpansion,
	PromptReviewer,
}

// Profile describes a target journal and its generated prompt set.
type Profile struct {
	Name              string            `json:"name"`
	FullName          string            `json:"full_name"`
	AimsScope         string            `json:"aims_scope"`
	CustomMethodology string            `json:"custom_methodology"`
	Prompts           map[string]string `json:"prompts"`
	Keywords          []string          `json:"keywords"`
	Audience          string            `json:"audience"`
	Style             string            `json:"style"`
	Criteria          []string          `json:"criteria"`
}

// MissingPromptTypes returns the required prompt types absent from the profile.
func (p Profile) MissingPromptTypes() []string {
	var missing []string
	for _, ptype := range RequiredPromptTypes {
		if strings.TrimSpace(p.Prompts[ptype]) == "" {
			missing = append(missing, ptype)
		}
	}
	return missing
}
