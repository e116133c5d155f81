package tasks_test

import (
	"strings"
	"testing"

	"github.com/sharanyaa23/DocSense/internal/tasks"
)

const extractDocument = `Invoice from Maria Santos, issued 2024-03-15.
Contact: maria.santos@example.com or (555) 123-4567.
Total due: $1,250.00 by April 30, 2024.
Payment covers consulting on data migration and system integration.`

func TestExtractAnalyzeSeedsPatternTypes(t *testing.T) {
	run := makeRun(t, extractDocument, tasks.Options{})
	analyze(t, tasks.Extract{}, run)

	plan, err := tasks.Extract{}.Prepare(run)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	run.Selected = plan.Chunks

	prompt, err := tasks.Extract{}.BuildPrompt(run, nil)
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}
	if !strings.Contains(prompt, "names") || !strings.Contains(prompt, "keywords") {
		t.Error("prompt should request the model-resolved types")
	}
	if strings.Contains(prompt, "Requested types: emails") {
		t.Error("pattern types should not be requested from the model")
	}
}

func TestExtractShortCircuitPatternOnly(t *testing.T) {
	run := makeRun(t, extractDocument, tasks.Options{
		ExtractTypes: []string{"emails", "amounts"},
	})
	analyze(t, tasks.Extract{}, run)

	value, done := tasks.Extract{}.ShortCircuit(run)
	if !done {
		t.Fatal("pattern-only extraction should skip inference")
	}

	result, ok := value.(*tasks.ExtractResult)
	if !ok {
		t.Fatalf("got %T, want *ExtractResult", value)
	}
	if result.ExtractionType != "emails,amounts" {
		t.Errorf("extraction type: got %s", result.ExtractionType)
	}

	emails := result.Extracted["emails"]
	if len(emails) != 1 || emails[0] != "maria.santos@example.com" {
		t.Errorf("emails: got %v", emails)
	}
	if len(result.Extracted["amounts"]) != 1 {
		t.Errorf("amounts: got %v", result.Extracted["amounts"])
	}
}

func TestExtractNoShortCircuitWithModelTypes(t *testing.T) {
	run := makeRun(t, extractDocument, tasks.Options{})
	analyze(t, tasks.Extract{}, run)

	if _, done := (tasks.Extract{}).ShortCircuit(run); done {
		t.Error("runs with model types must reach inference")
	}
}

func TestExtractValidateRejectsHallucination(t *testing.T) {
	run := makeRun(t, extractDocument, tasks.Options{})
	analyze(t, tasks.Extract{}, run)

	output := `{"names": ["Maria Santos", "John Invented"], "keywords": ["consulting"]}`

	result := tasks.Extract{}.Validate(run, output)
	if result.Passed {
		t.Fatal("expected failure for hallucinated name")
	}
	if !strings.Contains(result.Reason, "John Invented") {
		t.Errorf("reason should name the hallucinated item, got %q", result.Reason)
	}
	if !strings.Contains(result.Hint, "John Invented") {
		t.Errorf("hint should name the items to remove, got %q", result.Hint)
	}
}

func TestExtractValidatePassesSourceItems(t *testing.T) {
	run := makeRun(t, extractDocument, tasks.Options{})
	analyze(t, tasks.Extract{}, run)

	output := `{"names": ["Maria Santos"], "keywords": ["data migration", "system integration"]}`

	result := tasks.Extract{}.Validate(run, output)
	if !result.Passed {
		t.Errorf("expected pass, got reason %q", result.Reason)
	}
}

func TestExtractValidateRequiresAllTypes(t *testing.T) {
	run := makeRun(t, extractDocument, tasks.Options{})
	analyze(t, tasks.Extract{}, run)

	result := tasks.Extract{}.Validate(run, `{"names": ["Maria Santos"]}`)
	if result.Passed {
		t.Fatal("expected failure for missing keywords key")
	}
	if !strings.Contains(result.Reason, "keywords") {
		t.Errorf("reason should name the missing type, got %q", result.Reason)
	}
}

func TestExtractValidateMalformedOutput(t *testing.T) {
	run := makeRun(t, extractDocument, tasks.Options{})
	analyze(t, tasks.Extract{}, run)

	result := tasks.Extract{}.Validate(run, "the names are Maria Santos")
	if result.Passed {
		t.Fatal("expected failure for non-JSON output")
	}
	if result.Escalate {
		t.Error("malformed output should retry, not escalate")
	}
}

func TestExtractMergeUnionsChunkOutputs(t *testing.T) {
	merged, err := tasks.Extract{}.Merge([]string{
		`{"names": ["Maria Santos"], "keywords": ["consulting"]}`,
		`{"names": ["Maria Santos", "Chen Wei"], "keywords": ["migration"]}`,
	})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	if !strings.Contains(merged, "Chen Wei") {
		t.Error("merge should union items across chunks")
	}
	if strings.Count(merged, "Maria Santos") != 1 {
		t.Error("merge should dedupe repeated items")
	}
}

func TestExtractMergeFallsBackToRawOutput(t *testing.T) {
	merged, err := tasks.Extract{}.Merge([]string{"not json", "also not json"})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if merged != "not json" {
		t.Errorf("got %q, want first raw output", merged)
	}
}

func TestExtractFinalizeMergesPatternAndModelItems(t *testing.T) {
	run := makeRun(t, extractDocument, tasks.Options{})
	analyze(t, tasks.Extract{}, run)

	output := `{"names": ["Maria Santos"], "keywords": ["consulting"]}`
	value, err := tasks.Extract{}.Finalize(run, output)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	result, ok := value.(*tasks.ExtractResult)
	if !ok {
		t.Fatalf("got %T, want *ExtractResult", value)
	}
	if result.ExtractionType != "all" {
		t.Errorf("extraction type: got %s, want all", result.ExtractionType)
	}

	for _, key := range []string{"emails", "dates", "phone_numbers", "amounts", "names", "keywords"} {
		if _, ok := result.Extracted[key]; !ok {
			t.Errorf("missing extracted type %s", key)
		}
	}

	if got := result.Extracted["names"]; len(got) != 1 || got[0] != "Maria Santos" {
		t.Errorf("names: got %v", got)
	}
	if got := result.Extracted["dates"]; len(got) < 2 {
		t.Errorf("dates: got %v, want ISO and written date", got)
	}
}
