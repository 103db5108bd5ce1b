package settings

// Settings holds user-tunable configuration persisted as a single record.
type Settings struct {
	GeminiAPIKey     string `json:"gemini_api_key"`
	ScholarAPIKey    string `json:"ss_api_key"`
	EnableReferences bool   `json:"enable_references"`
	MinCitations     int    `json:"ss_min_citations"`
	ResultLimit      int    `json:"ss_result_limit"`
}

// Defaults returns the settings used before the user has saved anything.
func Defaults() Settings {
	return Settings{
		EnableReferences: false,
		MinCitations:     30,
		ResultLimit:      3,
	}
}

// Normalize back-fills zero values with defaults so older saved records
// missing newer fields still behave sensibly.
func (s Settings) Normalize() Settings {
	d := Defaults()
	if s.MinCitations <= 0 {
		s.MinCitations = d.MinCitations
	}
	if s.ResultLimit <= 0 {
		s.ResultLimit = d.ResultLimit
	}
	return s
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	GeminiAPIKey     *string `json:"gemini_api_key"`
	ScholarAPIKey    *string `json:"ss_api_key"`
	EnableReferences *bool   `json:"enable_references"`
	MinCitations     *int    `json:"ss_min_citations"`
	ResultLimit      *int    `json:"ss_result_limit"`
}

// Apply merges the patch into s and returns the result.
func (p Patch) Apply(s Settings) Settings {
	if p.GeminiAPIKey != nil {
		s.GeminiAPIKey = *p.GeminiAPIKey
	}
	if p.ScholarAPIKey != nil {
		s.ScholarAPIKey = *p.ScholarAPIKey
	}
	if p.EnableReferences != nil {
		s.EnableReferences = *p.EnableReferences
	}
	if p.MinCitations != nil {
		s.MinCitations = *p.MinCitations
	}
	if p.ResultLimit != nil {
		s.ResultLimit = *p.ResultLimit
	}
	return s.Normalize()
}
