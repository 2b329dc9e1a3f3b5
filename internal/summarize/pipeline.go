package summarize

import (
	"context"
	"fmt"
	"log"

	"github.com/chuqudee-sand/feedback-summarizer/config"
	"github.com/chuqudee-sand/feedback-summarizer/internal/survey"
)

// Pipeline runs the full summarization flow for one request: cohort
// grouping, per-question chunked summarization, and per-cohort
// recommendation generation. Processing is strictly sequential.
type Pipeline struct {
	Invoker *Invoker
	Mode    ParseMode
	Cfg     config.PipelineConfig
	Logger  *log.Logger
}

// NewPipeline wires a pipeline from config and an invoker.
func NewPipeline(inv *Invoker, cfg config.PipelineConfig, logger *log.Logger) (*Pipeline, error) {
	mode, err := ParseModeFromString(cfg.ParseMode)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[PIPELINE] ", log.LstdFlags)
	}
	return &Pipeline{Invoker: inv, Mode: mode, Cfg: cfg, Logger: logger}, nil
}

// Run processes the table: cohorts ascending, questions in header
// order, chunks in order. Per-pair parse failures become sentinel
// records and skip that pair's remaining chunks; only payload-shape and
// cohort-column failures abort the whole run.
func (p *Pipeline) Run(ctx context.Context, table *survey.Table, shortLabels map[string]string) (*Result, error) {
	cohortCol, err := survey.DetectCohortColumn(table.Headers, p.Cfg.CohortColumn)
	if err != nil {
		return nil, err
	}
	groups, err := survey.GroupByCohort(table, cohortCol)
	if err != nil {
		return nil, err
	}
	labels := p.Cfg.QuestionLabels
	if len(shortLabels) > 0 {
		labels = shortLabels
	}
	questions := survey.DeriveQuestions(table.Headers, cohortCol, labels)

	result := &Result{Summary: []SummaryRecord{}, Recommendations: []RecommendationRecord{}}
	for _, group := range groups {
		var cohortFeedback []string
		for _, q := range questions {
			responses := group.Responses(q.Column)
			if len(responses) == 0 {
				continue
			}
			cohortFeedback = append(cohortFeedback, responses...)
			records, err := p.summarizeQuestion(ctx, group.Cohort, q, responses)
			if err != nil {
				return nil, err
			}
			result.Summary = append(result.Summary, records...)
		}

		if len(cohortFeedback) == 0 {
			continue
		}
		recs, err := p.recommend(ctx, group.Cohort, cohortFeedback)
		if err != nil {
			return nil, err
		}
		result.Recommendations = append(result.Recommendations, recs...)
	}
	return result, nil
}

// summarizeQuestion runs every chunk of one (cohort, question) pair
// through the model and normalizes the output per the configured mode.
func (p *Pipeline) summarizeQuestion(ctx context.Context, cohort string, q survey.Question, responses []string) ([]SummaryRecord, error) {
	chunks := survey.Chunks(responses, p.Cfg.ChunkSize)
	var records []SummaryRecord
	var freeTextParts []string

	for i, chunk := range chunks {
		prompt := BuildSummaryPrompt(cohort, q.Full, chunk, p.Mode)
		raw, err := p.Invoker.Invoke(ctx, prompt, nil)
		if err != nil {
			return nil, fmt.Errorf("summarize cohort %q question %q: %w", cohort, q.Short, err)
		}

		switch p.Mode {
		case JSONStrict:
			themes, _, parseErr := ParseJSONOutput(raw)
			if parseErr != nil {
				p.Logger.Printf("parse failure for cohort %q question %q chunk %d: %v", cohort, q.Short, i, parseErr)
				records = append(records, ParseErrorRecord(cohort, q.Full, q.Short, raw, parseErr))
				// First failure aborts this pair's remaining chunks.
				return records, nil
			}
			if p.Cfg.ThemesPerChunk > 0 && len(themes) > p.Cfg.ThemesPerChunk {
				themes = themes[:p.Cfg.ThemesPerChunk]
			}
			for _, th := range themes {
				records = append(records, SummaryRecord{
					Cohort:        cohort,
					Question:      q.Full,
					QuestionShort: q.Short,
					Theme:         th.Theme,
					Summary:       th.Summary,
					Samples:       joinSamples(th.Samples),
				})
			}
		case FreeText:
			freeTextParts = append(freeTextParts, ParseFreeTextSummary(raw))
		}
	}

	if p.Mode == FreeText && len(freeTextParts) > 0 {
		records = append(records, SummaryRecord{
			Cohort:        cohort,
			Question:      q.Full,
			QuestionShort: q.Short,
			Theme:         "Summary",
			Summary:       joinParts(freeTextParts),
		})
	}
	return records, nil
}

// recommend generates the cohort's recommendation records from its
// accumulated feedback.
func (p *Pipeline) recommend(ctx context.Context, cohort string, feedback []string) ([]RecommendationRecord, error) {
	prompt := BuildRecommendationPrompt(cohort, feedback, p.Mode)
	raw, err := p.Invoker.Invoke(ctx, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("recommend cohort %q: %w", cohort, err)
	}

	var texts []string
	switch p.Mode {
	case JSONStrict:
		_, recs, parseErr := ParseJSONOutput(raw)
		if parseErr != nil {
			p.Logger.Printf("recommendation parse failure for cohort %q: %v", cohort, parseErr)
			return []RecommendationRecord{{Cohort: cohort, Text: ParseErrorTheme + ": " + parseErr.Error()}}, nil
		}
		texts = recs
	case FreeText:
		texts = ParseNumberedRecommendations(raw)
	}

	records := make([]RecommendationRecord, 0, len(texts))
	for _, t := range texts {
		records = append(records, RecommendationRecord{Cohort: cohort, Text: t})
	}
	return records, nil
}
