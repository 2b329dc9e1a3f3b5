// Package summarize implements the survey summarization pipeline:
// prompt construction, model invocation with bounded retry, output
// normalization, and result assembly.
package summarize

import "encoding/json"

// ParseErrorTheme is the literal theme label used for sentinel records
// emitted when model output cannot be parsed.
const ParseErrorTheme = "Parse Error"

// NoSummaryPlaceholder is emitted when free-text output contains no
// recognizable theme blocks.
const NoSummaryPlaceholder = "No summary generated."

// Theme is one qualitative category extracted from a batch of
// responses. It is only ever built from a fully valid parse.
type Theme struct {
	Theme   string   `json:"theme"`
	Summary string   `json:"summary"`
	Samples []string `json:"samples"`
}

// SummaryRecord is one row of the summary output table. Parse failures
// are carried as records with Theme == ParseErrorTheme rather than
// dropped.
type SummaryRecord struct {
	Cohort        string
	Question      string
	QuestionShort string
	Theme         string
	Summary       string
	Samples       string
}

// MarshalJSON renders the record as the flat 6-field tuple the response
// body uses.
func (r SummaryRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string{r.Cohort, r.Question, r.QuestionShort, r.Theme, r.Summary, r.Samples})
}

// RecommendationRecord is one row of the recommendations output table.
type RecommendationRecord struct {
	Cohort string
	Text   string
}

func (r RecommendationRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string{r.Cohort, r.Text})
}

// Result is the externally observable output of one pipeline run,
// serialized directly as the response body.
type Result struct {
	Summary         []SummaryRecord        `json:"summary"`
	Recommendations []RecommendationRecord `json:"recommendations"`
}
