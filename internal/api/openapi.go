package api

import (
	"github.com/sharanyaa23/DocSense/internal/config"
	"github.com/sharanyaa23/DocSense/pkg/openapi"
)

// BuildSpec generates the OpenAPI specification for the task endpoints.
func BuildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"DocumentUpload": {
			Type:        "object",
			Description: "Document upload with optional task parameters",
			Properties: map[string]*openapi.Schema{
				"file": {Type: "string", Format: "binary", Description: "Document file (.pdf, .docx, .txt, .md)"},
			},
			Required: []string{"file"},
		},
		"ExtractUpload": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"file":            {Type: "string", Format: "binary", Description: "Document file (.pdf, .docx, .txt, .md)"},
				"extraction_type": {Type: "string", Description: "Comma-separated types: emails, dates, names, phone_numbers, amounts, keywords. Defaults to all."},
			},
			Required: []string{"file"},
		},
		"ClassifyUpload": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"file":   {Type: "string", Format: "binary", Description: "Document file (.pdf, .docx, .txt, .md)"},
				"labels": {Type: "string", Description: "Comma-separated label set. Defaults to the built-in categories."},
			},
			Required: []string{"file"},
		},
		"ConvertUpload": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"file":            {Type: "string", Format: "binary", Description: "Document file (.pdf, .docx, .txt, .md)"},
				"required_fields": {Type: "string", Description: "Comma-separated fields the JSON output must populate. Defaults to main_content."},
			},
			Required: []string{"file"},
		},
		"CompareUpload": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"file":  {Type: "string", Format: "binary", Description: "Original document"},
				"file2": {Type: "string", Format: "binary", Description: "Revised document"},
			},
			Required: []string{"file", "file2"},
		},
		"TaskResponse": {
			Type:        "object",
			Description: "Validated task result with attempt history",
			Properties: map[string]*openapi.Schema{
				"kind":         {Type: "string", Description: "Task kind", Example: "summarize"},
				"document_id":  {Type: "string", Description: "Identifier assigned to the uploaded document"},
				"value":        {Type: "object", Description: "Task-specific result payload"},
				"attempts":     {Type: "array", Items: openapi.SchemaRef("Attempt")},
				"retries":      {Type: "integer", Description: "Retry attempts consumed"},
				"escalations":  {Type: "integer", Description: "Escalation attempts consumed"},
				"completed_at": {Type: "string", Format: "date-time"},
			},
		},
		"Attempt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"number":   {Type: "integer", Description: "1-indexed attempt number"},
				"strategy": {Type: "string", Enum: []any{"initial", "retry", "escalate"}},
				"chunks":   {Type: "array", Items: &openapi.Schema{Type: "integer"}, Description: "Chunk indices included in the prompt"},
				"output":   {Type: "string", Description: "Raw model output"},
				"validation": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"passed": {Type: "boolean"},
						"reason": {Type: "string"},
					},
				},
			},
		},
		"ExhaustedResponse": {
			Type:        "object",
			Description: "Returned when validation never passed within the retry and escalation budget",
			Properties: map[string]*openapi.Schema{
				"error":    {Type: "string"},
				"attempts": {Type: "array", Items: openapi.SchemaRef("Attempt")},
			},
		},
		"PreviewResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"preview":      {Type: "string", Description: "Extracted text, truncated for display"},
				"total_length": {Type: "integer", Description: "Full extracted text length in runes"},
				"truncated":    {Type: "boolean"},
			},
		},
		"HealthResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"status":   {Type: "string", Enum: []any{"ok", "degraded"}},
				"provider": {Type: "string"},
				"model":    {Type: "string"},
				"error":    {Type: "string"},
			},
		},
	})

	spec.Components.AddResponses(map[string]*openapi.Response{
		"Exhausted": {
			Description: "Validation budget exhausted",
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: openapi.SchemaRef("ExhaustedResponse")},
			},
		},
	})

	spec.Paths["/summarize"] = taskPath(
		"Summarize a document",
		"Produces a validated summary covering every detected document section.",
		"DocumentUpload",
	)
	spec.Paths["/extract"] = taskPath(
		"Extract structured data",
		"Extracts emails, dates, names, phone numbers, amounts, and keywords, rejecting values absent from the document.",
		"ExtractUpload",
	)
	spec.Paths["/classify"] = taskPath(
		"Classify a document",
		"Assigns one label from the configured set with a calibrated confidence level.",
		"ClassifyUpload",
	)
	spec.Paths["/convert-json"] = taskPath(
		"Convert a document to JSON",
		"Produces structured JSON with all required fields populated.",
		"ConvertUpload",
	)
	spec.Paths["/compare"] = taskPath(
		"Compare two documents",
		"Aligns both documents and describes every addition, deletion, and modification.",
		"CompareUpload",
	)

	spec.Paths["/preview"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Preview extracted text",
			Description: "Extracts text from the uploaded file without running any task.",
			Tags:        []string{"documents"},
			RequestBody: openapi.RequestBodyMultipart("DocumentUpload", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Extracted text preview", "PreviewResponse"),
				400: openapi.ResponseRef("BadRequest"),
				422: openapi.ResponseRef("UnprocessableEntity"),
			},
		},
	}

	spec.Paths["/health"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:     "Provider health",
			Description: "Reports reachability of the configured inference provider.",
			Tags:        []string{"service"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Provider reachable", "HealthResponse"),
				503: openapi.ResponseJSON("Provider unreachable", "HealthResponse"),
			},
		},
	}

	return spec
}

func taskPath(summary, description, uploadSchema string) *openapi.PathItem {
	return &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     summary,
			Description: description,
			Tags:        []string{"tasks"},
			RequestBody: openapi.RequestBodyMultipart(uploadSchema, true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Validated task result", "TaskResponse"),
				400: openapi.ResponseRef("BadRequest"),
				422: openapi.ResponseRef("Exhausted"),
				502: openapi.ResponseRef("BadGateway"),
				504: openapi.ResponseRef("GatewayTimeout"),
			},
		},
	}
}
