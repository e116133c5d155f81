package loaders

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// extractPDF validates the PDF structurally via pdfcpu, then pulls plain
// text from every page. Encrypted or malformed files fail as corrupt rather
// than yielding garbage text.
func extractPDF(name string, data []byte) (string, error) {
	if _, err := api.PageCount(bytes.NewReader(data), nil); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrCorruptFile, name, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrCorruptFile, name, err)
	}

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %s: extract text: %w", ErrCorruptFile, name, err)
	}

	var sb bytes.Buffer
	if _, err := sb.ReadFrom(content); err != nil {
		return "", fmt.Errorf("%w: %s: read text: %w", ErrCorruptFile, name, err)
	}

	return sb.String(), nil
}
