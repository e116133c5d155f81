package processing_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sharanyaa23/DocSense/internal/documents"
	"github.com/sharanyaa23/DocSense/internal/inference"
	"github.com/sharanyaa23/DocSense/internal/processing"
	"github.com/sharanyaa23/DocSense/internal/tasks"
	"github.com/sharanyaa23/DocSense/internal/workflow"
	"github.com/sharanyaa23/DocSense/pkg/routes"
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

const passingSummary = "The introduction frames quarterly revenue, the methodology " +
	"normalizes ledger figures, and the conclusion reports growth in every region."

const incompleteSummary = "The introduction frames quarterly revenue and the " +
	"conclusion reports growth in every region."

const maxUploadSize = 10 << 20

func newServer(t *testing.T, provider inference.Provider) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rt := &workflow.Runtime{
		Provider: provider,
		Tasks:    tasks.NewRegistry(0),
		Engine:   workflow.Config{RetryLimit: 2, EscalateLimit: 1},
		Chunker:  documents.Config{Size: 500, Overlap: 50},
		Logger:   logger,
	}

	sys := processing.New(rt, "test-model", logger)

	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler(maxUploadSize).Routes())

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

type filePart struct {
	field    string
	filename string
	content  string
}

func postMultipart(t *testing.T, url string, files []filePart, fields map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(f.content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write form field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	resp, err := http.Post(url, writer.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestSummarizeEndpoint(t *testing.T) {
	stub := inference.NewStub(passingSummary)
	server := newServer(t, stub)

	resp := postMultipart(t, server.URL+"/summarize", []filePart{
		{field: "file", filename: "report.txt", content: sectionedDocument},
	}, nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var result struct {
		Kind     string `json:"kind"`
		Attempts []struct {
			Strategy string `json:"strategy"`
		} `json:"attempts"`
		Value struct {
			Summary string `json:"summary"`
		} `json:"value"`
	}
	decodeBody(t, resp, &result)

	if result.Kind != "summarize" {
		t.Errorf("kind: got %q, want summarize", result.Kind)
	}
	if len(result.Attempts) != 1 {
		t.Errorf("attempts: got %d, want 1", len(result.Attempts))
	}
	if result.Value.Summary == "" {
		t.Error("value should carry the accepted summary")
	}
	if stub.Calls() != 1 {
		t.Errorf("provider calls: got %d, want 1", stub.Calls())
	}
}

func TestClassifyOptionsForwarded(t *testing.T) {
	stub := inference.NewStub(`{"label": "shipping notice", "confidence": "high", "reasoning": "matches the allowed set"}`)
	server := newServer(t, stub)

	resp := postMultipart(t, server.URL+"/classify", []filePart{
		{field: "file", filename: "notice.txt", content: "Your package shipped today and arrives Friday via ground freight."},
	}, map[string]string{"labels": "shipping notice, receipt"})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	prompts := stub.Prompts()
	if len(prompts) == 0 {
		t.Fatal("expected at least one prompt")
	}
	if !strings.Contains(prompts[0], "shipping notice") || !strings.Contains(prompts[0], "receipt") {
		t.Error("prompt should carry the custom label set")
	}
}

func TestMissingFileRejected(t *testing.T) {
	server := newServer(t, inference.NewStub("unused"))

	resp := postMultipart(t, server.URL+"/summarize", nil, map[string]string{"labels": "invoice"})

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", resp.StatusCode)
	}

	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	if !strings.Contains(body.Error, "file") {
		t.Errorf("error should name the missing field: %q", body.Error)
	}
}

func TestCompareRequiresSecondFile(t *testing.T) {
	server := newServer(t, inference.NewStub("unused"))

	resp := postMultipart(t, server.URL+"/compare", []filePart{
		{field: "file", filename: "a.txt", content: "The first agreement text."},
	}, nil)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", resp.StatusCode)
	}

	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	if !strings.Contains(body.Error, "file2") {
		t.Errorf("error should name the missing field: %q", body.Error)
	}
}

func TestUnsupportedFormatRejected(t *testing.T) {
	server := newServer(t, inference.NewStub("unused"))

	resp := postMultipart(t, server.URL+"/summarize", []filePart{
		{field: "file", filename: "slides.pptx", content: "not a document"},
	}, nil)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestExhaustedRunReportsAttempts(t *testing.T) {
	stub := inference.NewStub(incompleteSummary)
	server := newServer(t, stub)

	resp := postMultipart(t, server.URL+"/summarize", []filePart{
		{field: "file", filename: "report.txt", content: sectionedDocument},
	}, nil)

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want 422", resp.StatusCode)
	}

	var body struct {
		Error    string `json:"error"`
		Attempts []struct {
			Strategy string `json:"strategy"`
		} `json:"attempts"`
	}
	decodeBody(t, resp, &body)

	if !strings.Contains(body.Error, "METHODOLOGY") {
		t.Errorf("error should carry the last rejection reason: %q", body.Error)
	}
	if len(body.Attempts) != 4 {
		t.Errorf("attempts: got %d, want 4", len(body.Attempts))
	}
	if stub.Calls() != 4 {
		t.Errorf("provider calls: got %d, want 4", stub.Calls())
	}
}

func TestProviderFailureMapsToBadGateway(t *testing.T) {
	stub := inference.NewScriptedStub(inference.ScriptStep{Err: inference.ErrProvider})
	server := newServer(t, stub)

	resp := postMultipart(t, server.URL+"/summarize", []filePart{
		{field: "file", filename: "report.txt", content: sectionedDocument},
	}, nil)

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status: got %d, want 502", resp.StatusCode)
	}
}

func TestPreviewEndpoint(t *testing.T) {
	server := newServer(t, inference.NewStub("unused"))

	resp := postMultipart(t, server.URL+"/preview", []filePart{
		{field: "file", filename: "notes.txt", content: "A short note about nothing in particular."},
	}, nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var body struct {
		Preview     string `json:"preview"`
		TotalLength int    `json:"total_length"`
		Truncated   bool   `json:"truncated"`
	}
	decodeBody(t, resp, &body)

	if body.Preview != "A short note about nothing in particular." {
		t.Errorf("preview: got %q", body.Preview)
	}
	if body.Truncated {
		t.Error("short document should not be truncated")
	}
	if body.TotalLength != len(body.Preview) {
		t.Errorf("total length: got %d, want %d", body.TotalLength, len(body.Preview))
	}
}

func TestPreviewTruncatesLongDocuments(t *testing.T) {
	server := newServer(t, inference.NewStub("unused"))

	line := strings.Repeat("All work and no play makes for a very long report. ", 200)
	resp := postMultipart(t, server.URL+"/preview", []filePart{
		{field: "file", filename: "long.txt", content: line},
	}, nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var body struct {
		Preview   string `json:"preview"`
		Truncated bool   `json:"truncated"`
	}
	decodeBody(t, resp, &body)

	if !body.Truncated {
		t.Error("long document should be truncated")
	}
	if got := len([]rune(body.Preview)); got != processing.PreviewRunes {
		t.Errorf("preview length: got %d runes, want %d", got, processing.PreviewRunes)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newServer(t, inference.NewStub("unused"))

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var body struct {
		Status   string `json:"status"`
		Provider string `json:"provider"`
		Model    string `json:"model"`
	}
	decodeBody(t, resp, &body)

	if body.Status != "ok" {
		t.Errorf("status: got %q, want ok", body.Status)
	}
	if body.Provider != "stub" {
		t.Errorf("provider: got %q, want stub", body.Provider)
	}
	if body.Model != "test-model" {
		t.Errorf("model: got %q, want test-model", body.Model)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid request", tasks.ErrInvalidRequest, http.StatusBadRequest},
		{"empty document", documents.ErrEmptyDocument, http.StatusUnprocessableEntity},
		{"validation exhausted", workflow.ErrValidationExhausted, http.StatusUnprocessableEntity},
		{"provider timeout", inference.ErrProviderTimeout, http.StatusGatewayTimeout},
		{"provider failure", inference.ErrProvider, http.StatusBadGateway},
		{"unknown", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := processing.MapHTTPStatus(tc.err); got != tc.want {
				t.Errorf("status: got %d, want %d", got, tc.want)
			}
		})
	}
}
