package analysis

import "strings"

// overstatementWords flag absolute or hype-laden phrasing that reviewers
// push back on. Korean entries cover mixed-language drafts.
var overstatementWords = []string{
	"always", "never", "perfectly", "proven", "clearly",
	"revolutionary", "breakthrough", "novel", "first", "best",
	"항상", "절대", "완벽", "확실히", "혁신적", "획기적", "최초",
}

// VagueHit pairs a vague word with a concrete fix suggestion.
type VagueHit struct {
	Word string `json:"word"`
	Fix  string `json:"fix"`
}

// vagueWords maps imprecise wording to the quantification it should
// be replaced with.
var vagueWords = []VagueHit{
	{Word: "significant", Fix: "state the p-value or effect size"},
	{Word: "fast", Fix: "give the time in ms or s"},
	{Word: "efficient", Fix: "give the percentage figure"},
	{Word: "better", Fix: "name the baseline and the margin"},
	{Word: "high", Fix: "give the concrete number"},
	{Word: "low", Fix: "give the concrete number"},
	{Word: "상당한", Fix: "give the percentage figure"},
	{Word: "빠른", Fix: "give the latency in ms"},
	{Word: "우수한", Fix: "give the score or rank"},
	{Word: "많은", Fix: "give the count"},
}

// FindOverstatements returns the overstatement words present in the
// text, case-insensitively, in lexicon order.
func FindOverstatements(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, w := range overstatementWords {
		if strings.Contains(lower, strings.ToLower(w)) {
			found = append(found, w)
		}
	}
	return found
}

// DetectVague runs locally without the model and returns every vague
// word found along with its fix suggestion.
func DetectVague(text string) []VagueHit {
	lower := strings.ToLower(text)
	found := []VagueHit{}
	for _, v := range vagueWords {
		if strings.Contains(lower, strings.ToLower(v.Word)) {
			found = append(found, v)
		}
	}
	return found
}
