package summarize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const rawExcerptLimit = 200

// themeMarkerRE locates each "Theme:" marker case-insensitively; a
// block runs from one marker to the next marker or end of text.
var themeMarkerRE = regexp.MustCompile(`(?i)theme:`)

// summaryResponse is the JSON-strict output contract.
type summaryResponse struct {
	Themes          []Theme  `json:"themes"`
	Recommendations []string `json:"recommendations"`
}

// stripFences removes a wrapping markdown code fence, which models add
// around JSON output even when told not to.
func stripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}

func joinSamples(samples []string) string {
	return strings.Join(samples, "\n")
}

func joinParts(parts []string) string {
	return strings.Join(parts, "\n\n")
}

func truncateRaw(raw string) string {
	if len(raw) > rawExcerptLimit {
		return raw[:rawExcerptLimit]
	}
	return raw
}

// ParseJSONOutput parses raw model text against the strict schema,
// validating every theme for non-empty title and summary. The error
// describes the decode or shape failure; callers convert it to a
// sentinel record.
func ParseJSONOutput(raw string) ([]Theme, []string, error) {
	cleaned := stripFences(raw)

	var resp summaryResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		parseFailuresTotal.Inc()
		return nil, nil, fmt.Errorf("invalid JSON: %v", err)
	}
	for i, th := range resp.Themes {
		if strings.TrimSpace(th.Theme) == "" {
			parseFailuresTotal.Inc()
			return nil, nil, fmt.Errorf("theme %d has an empty title", i)
		}
		if strings.TrimSpace(th.Summary) == "" {
			parseFailuresTotal.Inc()
			return nil, nil, fmt.Errorf("theme %d (%s) has an empty summary", i, th.Theme)
		}
	}
	return resp.Themes, resp.Recommendations, nil
}

// ParseErrorRecord builds the sentinel summary record for a failed
// parse, carrying the failure description and a truncated raw excerpt
// for diagnosis.
func ParseErrorRecord(cohort, question, short, raw string, parseErr error) SummaryRecord {
	return SummaryRecord{
		Cohort:        cohort,
		Question:      question,
		QuestionShort: short,
		Theme:         ParseErrorTheme,
		Summary:       parseErr.Error(),
		Samples:       truncateRaw(raw),
	}
}

// ParseFreeTextSummary extracts every "Theme:"-marked block from raw
// text, collapses internal newlines to spaces, and joins the blocks
// with a blank line into one aggregate summary. Zero matches yield the
// NoSummaryPlaceholder literal.
func ParseFreeTextSummary(raw string) string {
	locs := themeMarkerRE.FindAllStringIndex(raw, -1)
	var blocks []string
	for i, loc := range locs {
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		block := strings.TrimSpace(raw[loc[1]:end])
		if block == "" {
			continue
		}
		block = strings.Join(strings.Fields(block), " ")
		blocks = append(blocks, "Theme: "+block)
	}
	if len(blocks) == 0 {
		return NoSummaryPlaceholder
	}
	return strings.Join(blocks, "\n\n")
}

// ParseNumberedRecommendations extracts recommendations from a
// free-text numbered list. Only single-digit "1."-"9." markers count;
// the marker is stripped from the returned text.
func ParseNumberedRecommendations(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 2 || line[0] < '1' || line[0] > '9' || line[1] != '.' {
			continue
		}
		if text := strings.TrimSpace(line[2:]); text != "" {
			out = append(out, text)
		}
	}
	return out
}
