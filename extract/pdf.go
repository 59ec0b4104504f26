// Package extract pulls plain text out of uploaded PDF bytes. Nothing is
// written to disk; extraction runs entirely over the in-memory buffer.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	ltpdf "github.com/ledongthuc/pdf"
	rscpdf "rsc.io/pdf"
)

// ExtractionError reports that both extraction strategies failed. Scanned
// image-only PDFs have no text layer and end up here via the empty-output
// path; there is no OCR fallback.
type ExtractionError struct {
	Primary   error
	Secondary error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not extract PDF text: primary: %v; fallback: %v", e.Primary, e.Secondary)
}

// Text extracts the text layer from data, trying the primary parser first
// and falling back to the secondary one. Page texts are concatenated with
// newline separators, skipping empty pages.
func Text(data []byte) (string, error) {
	text, primaryErr := primaryText(data)
	if primaryErr == nil && text != "" {
		return text, nil
	}
	if primaryErr == nil {
		primaryErr = fmt.Errorf("no text extracted")
	}

	text, secondaryErr := secondaryText(data)
	if secondaryErr == nil && text != "" {
		return text, nil
	}
	if secondaryErr == nil {
		secondaryErr = fmt.Errorf("no text extracted")
	}

	return "", &ExtractionError{Primary: primaryErr, Secondary: secondaryErr}
}

// primaryText extracts page-by-page via ledongthuc/pdf.
func primaryText(data []byte) (text string, err error) {
	// The parser panics on some malformed inputs; surface that as an error
	// so the fallback gets its turn.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()

	r, err := ltpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		txt, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if txt = strings.TrimSpace(txt); txt != "" {
			pages = append(pages, txt)
		}
	}
	return strings.Join(pages, "\n"), nil
}

// secondaryText extracts positioned text runs via rsc.io/pdf.
func secondaryText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()

	r, err := rscpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		var sb strings.Builder
		var lastY float64
		for _, t := range page.Content().Text {
			if sb.Len() > 0 {
				if t.Y != lastY {
					sb.WriteByte('\n')
				} else {
					sb.WriteByte(' ')
				}
			}
			sb.WriteString(t.S)
			lastY = t.Y
		}
		if txt := strings.TrimSpace(sb.String()); txt != "" {
			pages = append(pages, txt)
		}
	}
	return strings.Join(pages, "\n"), nil
}
