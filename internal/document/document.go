// Package document turns uploaded tender files into plain text for the
// analysis pipeline. Parsing happens once at upload; everything downstream
// works on the extracted text.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrNoText            = errors.New("document contains no extractable text")
)

// Parsed is the result of extracting a tender document.
type Parsed struct {
	Text      string
	PageCount int
}

// Parse extracts text from an uploaded tender file. PDF is the primary
// format; plain text files pass through untouched.
func Parse(data []byte, fileName string) (*Parsed, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return parsePDF(data)
	case ".txt":
		text := strings.TrimSpace(string(data))
		if text == "" {
			return nil, ErrNoText
		}
		return &Parsed{Text: text, PageCount: 1}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(fileName))
	}
}

func parsePDF(data []byte) (*Parsed, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("reading pdf: %w", err)
	}

	var sb strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// Scanned or malformed pages are skipped; the remaining
			// pages may still carry the specification text.
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, ErrNoText
	}
	return &Parsed{Text: text, PageCount: pages}, nil
}
