package tasks

// SummarizeResult is the accepted output of a summarize run.
type SummarizeResult struct {
	Summary          string `json:"summary"`
	WordCount        int    `json:"word_count"`
	SectionsVerified bool   `json:"sections_verified"`
}

// ExtractResult is the accepted output of an extract run. Extracted maps
// each requested type to its source-verified items.
type ExtractResult struct {
	Extracted      map[string][]string `json:"extracted"`
	ExtractionType string              `json:"extraction_type"`
	TotalItems     int                 `json:"total_items"`
}

// ClassifyResult is the accepted output of a classify run.
type ClassifyResult struct {
	Category       string   `json:"category"`
	Confidence     string   `json:"confidence"`
	Indicators     []string `json:"indicators"`
	DocumentLength int      `json:"document_length"`
}

// ConvertResult is the accepted output of a JSON conversion run.
type ConvertResult struct {
	JSON        map[string]any `json:"json"`
	JSONString  string         `json:"json_string"`
	FieldsCount int            `json:"fields_count"`
	RetriesUsed int            `json:"retries_used"`
}

// ChangeEntry is one narrated alignment pair in a comparison result.
// Position is the pair's index in the computed alignment.
type ChangeEntry struct {
	Position    int    `json:"position"`
	Before      string `json:"before,omitempty"`
	After       string `json:"after,omitempty"`
	Description string `json:"description,omitempty"`
}

// CompareResult is the accepted output of a comparison run. The change
// lists come from the computed alignment; the model contributes only the
// descriptions and the overall summary.
type CompareResult struct {
	Additions       []ChangeEntry `json:"additions"`
	Deletions       []ChangeEntry `json:"deletions"`
	Modifications   []ChangeEntry `json:"modifications"`
	OverallSummary  string        `json:"overall_summary"`
	SimilarityScore float64       `json:"similarity_score"`
	Doc1Length      int           `json:"doc1_length"`
	Doc2Length      int           `json:"doc2_length"`
	TotalChanges    int           `json:"total_changes"`
}
