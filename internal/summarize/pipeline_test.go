package summarize

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/chuqudee-sand/feedback-summarizer/config"
	"github.com/chuqudee-sand/feedback-summarizer/internal/survey"
	"github.com/chuqudee-sand/feedback-summarizer/provider"
)

func pipelineConfig(mode string) config.PipelineConfig {
	return config.PipelineConfig{
		CohortColumn:   "Cohort",
		ChunkSize:      20,
		ParseMode:      mode,
		MaxRetries:     3,
		ThemesPerChunk: 3,
	}
}

func newTestPipeline(t *testing.T, stub *stubProvider, cfg config.PipelineConfig) *Pipeline {
	t.Helper()
	iv, _ := testInvoker(stub)
	p, err := NewPipeline(iv, cfg, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p
}

const stubThemeJSON = `{"themes":[{"theme":"Quality","summary":"2 respondents similarly mentioned: quality matters.","samples":["great"]}],"recommendations":["Improve onboarding"]}`

func TestPipelineTwoCohorts(t *testing.T) {
	stub := &stubProvider{out: func(string) string { return stubThemeJSON }}
	p := newTestPipeline(t, stub, pipelineConfig("json_strict"))

	tbl, err := survey.NewTable([]string{"Cohort", "Q1"}, [][]string{
		{"A", "great"}, {"A", "good"}, {"B", "bad"},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	result, err := p.Run(context.Background(), tbl, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// One summary prompt per cohort-question pair, one recommendation
	// prompt per cohort.
	var summaryPrompts, recPrompts []string
	for _, pr := range stub.prompts {
		if strings.Contains(pr, "actionable recommendations") {
			recPrompts = append(recPrompts, pr)
		} else {
			summaryPrompts = append(summaryPrompts, pr)
		}
	}
	if len(summaryPrompts) != 2 || len(recPrompts) != 2 {
		t.Fatalf("expected 2 summary + 2 recommendation prompts, got %d + %d", len(summaryPrompts), len(recPrompts))
	}
	if !strings.Contains(summaryPrompts[0], "great\n---\ngood") {
		t.Fatalf("cohort A prompt missing batched responses:\n%s", summaryPrompts[0])
	}
	if !strings.Contains(summaryPrompts[1], "bad") || strings.Contains(summaryPrompts[1], "great") {
		t.Fatalf("cohort B prompt wrong:\n%s", summaryPrompts[1])
	}

	if len(result.Summary) != 2 {
		t.Fatalf("expected one theme record per cohort, got %d", len(result.Summary))
	}
	if result.Summary[0].Cohort != "A" || result.Summary[1].Cohort != "B" {
		t.Fatalf("cohorts out of order: %+v", result.Summary)
	}
	if result.Summary[0].Theme != "Quality" || result.Summary[0].Samples != "great" {
		t.Fatalf("theme fields not carried: %+v", result.Summary[0])
	}
	if len(result.Recommendations) != 2 || result.Recommendations[0].Text != "Improve onboarding" {
		t.Fatalf("unexpected recommendations: %+v", result.Recommendations)
	}
}

func TestPipelineEmptyCellExcludedFromOneQuestionOnly(t *testing.T) {
	stub := &stubProvider{out: func(string) string { return stubThemeJSON }}
	p := newTestPipeline(t, stub, pipelineConfig("json_strict"))

	tbl, err := survey.NewTable([]string{"Cohort", "Q1", "Q2"}, [][]string{
		{"A", "", "still here"},
		{"A", "answered", "and here"},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	if _, err := p.Run(context.Background(), tbl, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var q1Prompt, q2Prompt string
	for _, pr := range stub.prompts {
		if strings.Contains(pr, `"Q1"`) {
			q1Prompt = pr
		}
		if strings.Contains(pr, `"Q2"`) {
			q2Prompt = pr
		}
	}
	if q1Prompt == "" || q2Prompt == "" {
		t.Fatalf("expected prompts for both questions, got %d prompts", len(stub.prompts))
	}
	if strings.Contains(q1Prompt, "still here") {
		t.Fatalf("empty-cell row leaked into Q1 batch:\n%s", q1Prompt)
	}
	if !strings.Contains(q2Prompt, "still here\n---\nand here") {
		t.Fatalf("row with empty Q1 cell missing from Q2 batch:\n%s", q2Prompt)
	}
}

func TestPipelineParseFailureStopsChunksForPair(t *testing.T) {
	stub := &stubProvider{out: func(prompt string) string {
		if strings.Contains(prompt, "actionable recommendations") {
			return stubThemeJSON
		}
		return "not json at all"
	}}
	cfg := pipelineConfig("json_strict")
	cfg.ChunkSize = 1 // three responses -> three potential chunks
	p := newTestPipeline(t, stub, cfg)

	tbl, err := survey.NewTable([]string{"Cohort", "Q1"}, [][]string{
		{"A", "r1"}, {"A", "r2"}, {"A", "r3"},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	result, err := p.Run(context.Background(), tbl, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var summaryCalls int
	for _, pr := range stub.prompts {
		if !strings.Contains(pr, "actionable recommendations") {
			summaryCalls++
		}
	}
	if summaryCalls != 1 {
		t.Fatalf("expected first parse failure to stop remaining chunks, got %d summary calls", summaryCalls)
	}
	if len(result.Summary) != 1 || result.Summary[0].Theme != ParseErrorTheme {
		t.Fatalf("expected exactly one parse-error record, got %+v", result.Summary)
	}
	// Recommendations for the cohort still ran.
	if len(result.Recommendations) != 1 {
		t.Fatalf("expected recommendation processing to continue, got %+v", result.Recommendations)
	}
}

func TestPipelineFreeTextMode(t *testing.T) {
	stub := &stubProvider{out: func(prompt string) string {
		if strings.Contains(prompt, "actionable recommendations") {
			return "1. Hire more mentors.\n2. Shorten lectures."
		}
		return "Theme: Mentors\nSummarised feedback: 2 respondents similarly mentioned: mentors are great.\nTheme: Length\nSummarised feedback: 1 respondent mentioned: lectures run long."
	}}
	p := newTestPipeline(t, stub, pipelineConfig("free_text"))

	tbl, err := survey.NewTable([]string{"Cohort", "Q1"}, [][]string{
		{"A", "great"}, {"A", "long lectures"},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	result, err := p.Run(context.Background(), tbl, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Summary) != 1 {
		t.Fatalf("expected one aggregate record per pair, got %d", len(result.Summary))
	}
	agg := result.Summary[0].Summary
	if !strings.Contains(agg, "Mentors") || !strings.Contains(agg, "Length") {
		t.Fatalf("aggregate missing theme blocks: %q", agg)
	}
	if !strings.Contains(agg, "\n\n") {
		t.Fatalf("blocks not joined by blank line: %q", agg)
	}

	want := []string{"Hire more mentors.", "Shorten lectures."}
	if len(result.Recommendations) != 2 || result.Recommendations[0].Text != want[0] || result.Recommendations[1].Text != want[1] {
		t.Fatalf("numbered prefixes not stripped: %+v", result.Recommendations)
	}
}

func TestPipelineNoCohortColumn(t *testing.T) {
	stub := &stubProvider{}
	p := newTestPipeline(t, stub, pipelineConfig("json_strict"))

	tbl, err := survey.NewTable([]string{"Name", "Q1"}, [][]string{{"x", "y"}})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if _, err := p.Run(context.Background(), tbl, nil); err == nil {
		t.Fatal("expected cohort-column error")
	}
	if stub.calls != 0 {
		t.Fatalf("no model calls expected, got %d", stub.calls)
	}
}

func TestPipelineQuotaExhaustionSurfacesAsParseError(t *testing.T) {
	stub := &stubProvider{errs: []error{
		// every attempt of the single summary call is rate limited
		provider.ErrRateLimited, provider.ErrRateLimited, provider.ErrRateLimited,
	}, out: func(string) string { return stubThemeJSON }}
	p := newTestPipeline(t, stub, pipelineConfig("json_strict"))

	tbl, err := survey.NewTable([]string{"Cohort", "Q1"}, [][]string{{"A", "r1"}})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	result, err := p.Run(context.Background(), tbl, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Summary) != 1 || result.Summary[0].Theme != ParseErrorTheme {
		t.Fatalf("expected visible parse-error record for quota sentinel, got %+v", result.Summary)
	}
	if !strings.Contains(result.Summary[0].Samples, QuotaExhaustedText) {
		t.Fatalf("raw excerpt should carry the sentinel text: %+v", result.Summary[0])
	}
}
