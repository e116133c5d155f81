package tasks_test

import (
	"strings"
	"testing"

	"github.com/sharanyaa23/DocSense/internal/tasks"
)

const invoiceDocument = `Invoice #2041 issued to Acme Corp for services rendered.
Line items: consulting hours, infrastructure setup, support retainer.
Total due within 30 days of receipt.`

func TestClassifyValidatePasses(t *testing.T) {
	run := makeRun(t, invoiceDocument, tasks.Options{})

	output := `{"category": "invoice", "confidence": "high", "indicators": ["line items", "total due"]}`
	result := tasks.Classify{}.Validate(run, output)
	if !result.Passed {
		t.Errorf("expected pass, got reason %q", result.Reason)
	}
}

func TestClassifyValidateOutOfSetLabelEscalates(t *testing.T) {
	run := makeRun(t, invoiceDocument, tasks.Options{})

	output := `{"category": "receipt", "confidence": "high", "indicators": []}`
	result := tasks.Classify{}.Validate(run, output)
	if result.Passed {
		t.Fatal("expected failure for out-of-set label")
	}
	if !result.Escalate {
		t.Error("out-of-set label should demand escalation")
	}
}

func TestClassifyValidateUncertainEscalates(t *testing.T) {
	run := makeRun(t, invoiceDocument, tasks.Options{})

	output := `{"category": "uncertain", "confidence": "high", "indicators": []}`
	result := tasks.Classify{}.Validate(run, output)
	if result.Passed || !result.Escalate {
		t.Errorf("uncertain answer should escalate, got passed=%v escalate=%v", result.Passed, result.Escalate)
	}
}

func TestClassifyValidateLowConfidenceEscalates(t *testing.T) {
	run := makeRun(t, invoiceDocument, tasks.Options{})

	output := `{"category": "invoice", "confidence": "low", "indicators": []}`
	result := tasks.Classify{}.Validate(run, output)
	if result.Passed || !result.Escalate {
		t.Errorf("low confidence should escalate, got passed=%v escalate=%v", result.Passed, result.Escalate)
	}
}

func TestClassifyValidateMissingFieldsRetry(t *testing.T) {
	run := makeRun(t, invoiceDocument, tasks.Options{})

	tests := []struct {
		name   string
		output string
	}{
		{"missing category", `{"confidence": "high"}`},
		{"missing confidence", `{"category": "invoice"}`},
		{"invalid confidence", `{"category": "invoice", "confidence": "certain"}`},
		{"not json", "this is an invoice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tasks.Classify{}.Validate(run, tt.output)
			if result.Passed {
				t.Fatal("expected failure")
			}
			if result.Escalate {
				t.Error("shape problems should retry, not escalate")
			}
			if result.Hint == "" {
				t.Error("failed validation should carry a repair hint")
			}
		})
	}
}

func TestClassifyValidateCustomLabels(t *testing.T) {
	run := makeRun(t, invoiceDocument, tasks.Options{
		Labels: []string{"billing", "legal", "other"},
	})

	output := `{"category": "invoice", "confidence": "high", "indicators": []}`
	result := tasks.Classify{}.Validate(run, output)
	if result.Passed {
		t.Fatal("default label should fail against a custom set")
	}

	output = `{"category": "billing", "confidence": "medium", "indicators": []}`
	result = tasks.Classify{}.Validate(run, output)
	if !result.Passed {
		t.Errorf("expected pass for custom label, got %q", result.Reason)
	}
}

func TestClassifyFinalizeNormalizesLabel(t *testing.T) {
	run := makeRun(t, invoiceDocument, tasks.Options{
		Labels: []string{"Billing", "Legal"},
	})

	output := `{"category": "BILLING", "confidence": "High", "indicators": ["total due"]}`
	value, err := tasks.Classify{}.Finalize(run, output)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	result, ok := value.(*tasks.ClassifyResult)
	if !ok {
		t.Fatalf("got %T, want *ClassifyResult", value)
	}
	if result.Category != "Billing" {
		t.Errorf("category: got %s, want configured form Billing", result.Category)
	}
	if result.Confidence != "high" {
		t.Errorf("confidence: got %s, want high", result.Confidence)
	}
	if result.DocumentLength != run.Request.Document.Length {
		t.Errorf("document length: got %d", result.DocumentLength)
	}
}

func TestClassifyEscalatedPrompt(t *testing.T) {
	run := makeRun(t, invoiceDocument, tasks.Options{})
	run.Escalated = true

	plan, err := tasks.Classify{}.Prepare(run)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	run.Selected = plan.Chunks

	prompt, err := tasks.Classify{}.BuildPrompt(run, nil)
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}
	if !strings.Contains(prompt, "Allowed labels: resume, invoice") {
		t.Error("prompt should list the allowed labels")
	}
}
