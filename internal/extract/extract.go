// Package extract pulls plain text out of uploaded manuscripts so
// paragraphs can be fed to the analysis pipeline.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Text extracts readable text from an uploaded file based on its MIME
// type. Plain text passes through; PDFs go through the PDF reader.
func Text(mimeType string, data []byte) (string, error) {
	switch normalizeMime(mimeType) {
	case "application/pdf":
		return fromPDF(data)
	case "text/plain", "text/markdown":
		return string(data), nil
	default:
		return "", fmt.Errorf("extract: unsupported content type %q", mimeType)
	}
}

// Supported reports whether Text can handle the MIME type.
func Supported(mimeType string) bool {
	switch normalizeMime(mimeType) {
	case "application/pdf", "text/plain", "text/markdown":
		return true
	}
	return false
}

func normalizeMime(mimeType string) string {
	mimeType = strings.TrimSpace(strings.ToLower(mimeType))
	if idx := strings.IndexByte(mimeType, ';'); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	return mimeType
}

func fromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("extract: open pdf: %w", err)
	}

	var b strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("extract: pdf contains no extractable text")
	}
	return text, nil
}
