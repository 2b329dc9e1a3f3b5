package summarize

import (
	"strings"
	"testing"
)

func TestBuildSummaryPromptDeterministic(t *testing.T) {
	responses := []string{"great mentors", "too fast", "loved it"}
	a := BuildSummaryPrompt("Jan 2024", "How was the program?", responses, FreeText)
	b := BuildSummaryPrompt("Jan 2024", "How was the program?", responses, FreeText)
	if a != b {
		t.Fatal("same inputs must produce the same prompt")
	}

	if !strings.Contains(a, "great mentors\n---\ntoo fast\n---\nloved it") {
		t.Fatalf("responses not embedded verbatim with --- delimiter:\n%s", a)
	}
	if !strings.Contains(a, "3-5 main themes") {
		t.Fatalf("theme count contract missing:\n%s", a)
	}
	if !strings.Contains(a, `"Jan 2024"`) || !strings.Contains(a, `"How was the program?"`) {
		t.Fatalf("cohort or question missing:\n%s", a)
	}
}

func TestBuildSummaryPromptJSONSchemaEmbedded(t *testing.T) {
	p := BuildSummaryPrompt("A", "Q", []string{"r"}, JSONStrict)
	for _, want := range []string{`"themes"`, `"theme"`, `"summary"`, `"samples"`, `"recommendations"`, "ONLY valid JSON"} {
		if !strings.Contains(p, want) {
			t.Fatalf("expected %q in JSON-strict prompt:\n%s", want, p)
		}
	}
}

func TestBuildRecommendationPrompt(t *testing.T) {
	p := BuildRecommendationPrompt("A", []string{"fix payments", "more mentors"}, FreeText)
	if !strings.Contains(p, "3-4 actionable recommendations") {
		t.Fatalf("recommendation contract missing:\n%s", p)
	}
	if !strings.Contains(p, "numbered list") {
		t.Fatalf("numbered list instruction missing:\n%s", p)
	}
	if !strings.Contains(p, "fix payments\n---\nmore mentors") {
		t.Fatalf("feedback not embedded:\n%s", p)
	}

	j := BuildRecommendationPrompt("A", []string{"x"}, JSONStrict)
	if !strings.Contains(j, "ONLY valid JSON") {
		t.Fatalf("JSON contract missing:\n%s", j)
	}
}
