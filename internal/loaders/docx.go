package loaders

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const documentEntry = "word/document.xml"

// extractDOCX reads paragraph text out of the OOXML document body: text runs
// concatenate within a paragraph, paragraphs become lines, explicit tabs and
// breaks become whitespace.
func extractDOCX(name string, data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrCorruptFile, name, err)
	}

	entry, err := archive.Open(documentEntry)
	if err != nil {
		return "", fmt.Errorf("%w: %s: missing %s", ErrCorruptFile, name, documentEntry)
	}
	defer entry.Close()

	text, err := decodeDocumentXML(entry)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrCorruptFile, name, err)
	}

	return text, nil
}

func decodeDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var sb strings.Builder
	inText := false

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}
