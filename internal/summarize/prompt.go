package summarize

import (
	"fmt"
	"strings"
)

// ParseMode selects the output contract requested from the model and
// the matching normalization strategy.
type ParseMode int

const (
	// FreeText asks for keyword-structured prose parsed by marker scan.
	FreeText ParseMode = iota
	// JSONStrict asks for schema-conforming JSON validated on parse.
	JSONStrict
)

// ParseModeFromString maps the config value to a ParseMode.
func ParseModeFromString(s string) (ParseMode, error) {
	switch s {
	case "free_text":
		return FreeText, nil
	case "json_strict":
		return JSONStrict, nil
	}
	return FreeText, fmt.Errorf("unknown parse mode %q", s)
}

const responseDelimiter = "\n---\n"

// summarySchema is embedded verbatim in JSON-strict prompts to steer
// the model toward machine-parseable output.
const summarySchema = `{
  "themes": [
    {"theme": "string", "summary": "string", "samples": ["string"]}
  ],
  "recommendations": ["string"]
}`

// BuildSummaryPrompt renders the theme-extraction instruction for one
// (cohort, question) batch of responses. Pure: same inputs always yield
// the same string, with every response embedded verbatim.
func BuildSummaryPrompt(cohort, question string, responses []string, mode ParseMode) string {
	joined := strings.Join(responses, responseDelimiter)

	if mode == JSONStrict {
		return fmt.Sprintf(`Summarize the following responses to the question %q from cohort %q. Identify 3-5 main themes. For each theme provide:
- "theme": the theme name
- "summary": starting with "X respondents similarly mentioned:" where X is the number of similar responses, followed by a concise summary
- "samples": 3-4 verbatim quoted snippets from the responses

Return ONLY valid JSON matching this schema and nothing else. No prose, no explanations, no markdown fences:
%s

Responses:
%s`, question, cohort, summarySchema, joined)
	}

	return fmt.Sprintf(`Summarize the following responses to the question %q from cohort %q. Identify 3-5 main themes. For each theme, provide:
- Theme name
- Summarised feedback: Start with "X respondents similarly mentioned:" where X is the number of similar responses, followed by a concise summary.
- Sample Responses: 3-4 quoted snippets from responses, each on a new line.

Output in a structured list, one theme per block, like:
Theme: [name]
Summarised feedback: [X respondents similarly mentioned: text]
Sample Responses:
"[sample1]"
"[sample2]"
etc.

Responses:
%s`, question, cohort, joined)
}

// BuildRecommendationPrompt renders the improvement-recommendation
// instruction over a cohort's accumulated feedback texts.
func BuildRecommendationPrompt(cohort string, feedback []string, mode ParseMode) string {
	joined := strings.Join(feedback, responseDelimiter)

	if mode == JSONStrict {
		return fmt.Sprintf(`Based on all open-ended feedback from cohort %q below, generate 3-4 actionable recommendations to improve the program. Each recommendation should be concise and specific.

Return ONLY valid JSON matching this schema and nothing else. No prose, no explanations, no markdown fences:
%s

Leave "themes" as an empty array.

Feedback:
%s`, cohort, summarySchema, joined)
	}

	return fmt.Sprintf(`Based on all open-ended feedback from cohort %q below, generate 3-4 actionable recommendations to improve the program. Each recommendation should be concise and specific. Output as a numbered list:
1. [rec1]
2. [rec2]
etc.

Feedback:
%s`, cohort, joined)
}
