package survey

// Question describes one free-text survey question: the column holding
// its answers, the full question text, and a short label for reports.
type Question struct {
	Column string
	Full   string
	Short  string
}

// DeriveQuestions builds question specs from the table headers, skipping
// the cohort column. Short labels come from the caller-supplied map when
// present, otherwise the column name doubles as both full text and label.
func DeriveQuestions(headers []string, cohortColumn string, shortLabels map[string]string) []Question {
	var qs []Question
	for _, h := range headers {
		if h == cohortColumn {
			continue
		}
		short := h
		if s, ok := shortLabels[h]; ok && s != "" {
			short = s
		}
		qs = append(qs, Question{Column: h, Full: h, Short: short})
	}
	return qs
}
