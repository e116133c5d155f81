package tasks_test

import (
	"strings"
	"testing"

	"github.com/sharanyaa23/DocSense/internal/tasks"
)

const sectionedDocument = `INTRODUCTION

This report examines quarterly revenue trends across all regions and
establishes the analytical framing used throughout.

METHODOLOGY

Revenue figures were collected from regional ledgers and normalized
against prior-year baselines before aggregation.

CONCLUSION

Revenue grew in every region, with the strongest gains concentrated in
the final month of the quarter.`

func TestSummarizeAnalyzeDetectsSections(t *testing.T) {
	run := makeRun(t, sectionedDocument, tasks.Options{})
	analyze(t, tasks.Summarize{}, run)

	sections, ok := run.Analysis.([]string)
	if !ok {
		t.Fatalf("analysis: got %T, want []string", run.Analysis)
	}

	want := []string{"INTRODUCTION", "METHODOLOGY", "CONCLUSION"}
	if len(sections) != len(want) {
		t.Fatalf("sections: got %v, want %v", sections, want)
	}
	for i := range want {
		if sections[i] != want[i] {
			t.Errorf("section %d: got %s, want %s", i, sections[i], want[i])
		}
	}
}

func TestSummarizeValidatePassesWhenSectionsCovered(t *testing.T) {
	run := makeRun(t, sectionedDocument, tasks.Options{})
	analyze(t, tasks.Summarize{}, run)

	output := "The report opens with an introduction to revenue framing, " +
		"explains its methodology for normalizing ledger figures, and closes " +
		"with the conclusion that revenue grew in every region."

	result := tasks.Summarize{}.Validate(run, output)
	if !result.Passed {
		t.Errorf("expected pass, got reason %q", result.Reason)
	}
}

func TestSummarizeValidateFailsOnMissingSection(t *testing.T) {
	run := makeRun(t, sectionedDocument, tasks.Options{})
	analyze(t, tasks.Summarize{}, run)

	output := "The introduction frames revenue trends; in conclusion, " +
		"revenue grew in every region."

	result := tasks.Summarize{}.Validate(run, output)
	if result.Passed {
		t.Fatal("expected failure for missing methodology section")
	}
	if !strings.Contains(result.Reason, "METHODOLOGY") {
		t.Errorf("reason should name the missing section, got %q", result.Reason)
	}
	if result.Hint == "" {
		t.Error("failed validation should carry a repair hint")
	}
	if result.Escalate {
		t.Error("missing section should retry, not escalate")
	}
}

func TestSummarizeValidateFailsOnEmptyOutput(t *testing.T) {
	run := makeRun(t, sectionedDocument, tasks.Options{})
	analyze(t, tasks.Summarize{}, run)

	result := tasks.Summarize{}.Validate(run, "   ")
	if result.Passed {
		t.Fatal("expected failure for empty summary")
	}
}

func TestSummarizeValidateNoSectionsAlwaysCovered(t *testing.T) {
	run := makeRun(t, "just a plain paragraph of prose without any headings at all, going on for a while.", tasks.Options{})
	analyze(t, tasks.Summarize{}, run)

	result := tasks.Summarize{}.Validate(run, "A short prose paragraph.")
	if !result.Passed {
		t.Errorf("expected pass with no detected sections, got %q", result.Reason)
	}
}

func TestSummarizeFinalizeStripsMarkdown(t *testing.T) {
	run := makeRun(t, sectionedDocument, tasks.Options{})
	analyze(t, tasks.Summarize{}, run)

	value, err := tasks.Summarize{}.Finalize(run, "**Summary** of the *report*")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	result, ok := value.(*tasks.SummarizeResult)
	if !ok {
		t.Fatalf("got %T, want *SummarizeResult", value)
	}
	if result.Summary != "Summary of the report" {
		t.Errorf("summary: got %q", result.Summary)
	}
	if !result.SectionsVerified {
		t.Error("sections were detected, SectionsVerified should be true")
	}
	if result.WordCount != run.Request.Document.WordCount() {
		t.Errorf("word count: got %d", result.WordCount)
	}
}

func TestSummarizePrompt(t *testing.T) {
	run := makeRun(t, sectionedDocument, tasks.Options{})
	analyze(t, tasks.Summarize{}, run)

	plan, err := tasks.Summarize{}.Prepare(run)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	run.Selected = plan.Chunks

	prompt, err := tasks.Summarize{}.BuildPrompt(run, nil)
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}
	if !strings.Contains(prompt, "quarterly revenue") {
		t.Error("prompt should carry document text")
	}
	if strings.Contains(prompt, "failed review") {
		t.Error("first attempt should not mention a prior failure")
	}

	run.Hint = "The summary must cover the section titled \"METHODOLOGY\"."
	prompt, err = tasks.Summarize{}.BuildPrompt(run, nil)
	if err != nil {
		t.Fatalf("build prompt with hint: %v", err)
	}
	if !strings.Contains(prompt, "METHODOLOGY") {
		t.Error("retry prompt should carry the repair hint")
	}
}
