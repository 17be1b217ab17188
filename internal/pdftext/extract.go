// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts the embedded text layer from PDF files.
// Extraction is best-effort: scanned or malformed PDFs yield empty text,
// which the quality gate then routes to OCR.
package pdftext

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// lineBreakDelta is the vertical distance between two text runs, in PDF
// units, above which a line break is inserted.
const lineBreakDelta = 0.5

// Result holds the outcome of text-layer extraction.
type Result struct {
	// Text is the extracted text, post-processed. Empty when the PDF has
	// no usable text layer.
	Text string

	// PageCount is the number of pages in the PDF, zero when the file
	// could not be opened.
	PageCount int
}

// Extract reads the embedded text layer of the PDF at path. Any failure,
// including panics from malformed PDFs, degrades to an empty Result so the
// caller falls through to OCR instead of aborting.
func Extract(path string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{}
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return Result{}
	}
	defer f.Close()

	res.PageCount = r.NumPage()

	var pages []string
	for i := 1; i <= res.PageCount; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text := assemblePage(p.Content().Text)
		if text != "" {
			pages = append(pages, text)
		}
	}

	res.Text = postProcess(strings.Join(pages, "\n\n"))
	return res
}

// assemblePage reconstructs reading order from positioned text runs. Runs
// are sorted top-to-bottom by Y (PDF Y grows upward), with line breaks
// inserted when the vertical position shifts by more than lineBreakDelta.
// Runs on the same line are joined with single spaces; postProcess
// collapses any doubling.
func assemblePage(runs []pdf.Text) string {
	if len(runs) == 0 {
		return ""
	}

	sorted := make([]pdf.Text, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var b strings.Builder
	lastY := sorted[0].Y
	for i, run := range sorted {
		if i > 0 {
			if lastY-run.Y > lineBreakDelta {
				b.WriteString("\n")
			} else {
				b.WriteString(" ")
			}
		}
		lastY = run.Y
		b.WriteString(decodeRun(run.S))
	}
	return b.String()
}

// decodeRun undoes percent-encoding that some PDF producers leave in text
// runs. Runs that fail to decode are kept verbatim.
func decodeRun(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// postProcess normalizes extracted text: horizontal whitespace collapsed
// within lines, leading whitespace stripped, blank lines dropped.
func postProcess(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(collapseSpace(line))
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// collapseSpace replaces runs of spaces and tabs with a single space.
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// PageCount reports the page count of the PDF at path without extracting
// text. Returns an error when the file cannot be opened as a PDF.
func PageCount(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()
	return r.NumPage(), nil
}
