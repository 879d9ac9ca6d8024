// Package extract converts PDF and DOCX byte streams into plain text for the
// ingestion pipeline. Extraction is structural only: no OCR, so scanned
// image-only PDFs yield ErrEmptyContent.
package extract

import (
	"fmt"
	"strings"

	"github.com/aroha-health/docpipe/internal/domain"
)

// Extractor dispatches to a format-specific parser by file extension.
type Extractor struct{}

// New creates a text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the plain text of content, declared by fileName's extension.
// Unsupported extensions fail fast before any parsing attempt. A structurally
// valid file whose text is only whitespace fails with ErrEmptyContent so the
// pipeline aborts before any embedding cost.
func (e *Extractor) Extract(fileName string, content []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch domain.FileExtension(fileName) {
	case ".pdf":
		text, err = parsePDF(content)
	case ".docx":
		text, err = parseDOCX(content)
	default:
		return "", fmt.Errorf("%s: %w", fileName, domain.ErrUnsupportedFormat)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", fileName, domain.ErrEmptyContent)
	}
	return text, nil
}
