// Package loaders turns uploaded file bytes into normalized Documents. It
// detects the format from the filename extension with a content sniff
// fallback, extracts plain text per format, and rejects unsupported or
// unreadable files before any task processing begins.
package loaders

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sharanyaa23/DocSense/internal/documents"
)

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

// Load extracts text from file bytes and builds a normalized Document named
// after the file. The declared filename drives format detection; files with
// no usable extension fall back to a content sniff.
func Load(name string, data []byte) (*documents.Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", documents.ErrEmptyDocument, name)
	}

	text, err := extract(name, data)
	if err != nil {
		return nil, err
	}

	return documents.New(name, text)
}

func extract(name string, data []byte) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".pdf":
		return extractPDF(name, data)
	case ".docx":
		return extractDOCX(name, data)
	case ".txt", ".md":
		return extractText(data), nil
	case "":
		return sniff(name, data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// sniff resolves extensionless uploads by magic bytes, treating anything
// that is not a PDF or OOXML archive as plain text.
func sniff(name string, data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return extractPDF(name, data)
	case bytes.HasPrefix(data, zipMagic):
		return extractDOCX(name, data)
	default:
		return extractText(data), nil
	}
}
