package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/aroha-health/docpipe/internal/domain"
)

// parsePDF extracts text page by page, joined with a newline between pages.
// Pages with no extractable text contribute nothing.
func parsePDF(content []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs; surface those as
	// ErrExtraction like any other parse failure.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("parse pdf: %v: %w", r, domain.ErrExtraction)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %v: %w", err, domain.ErrExtraction)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil || pageText == "" {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
