// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge combines the extracted text layer with OCR output into
// the final document text.
package merge

import (
	"strings"

	"github.com/pdiddy/docharvest/pkg/types"
)

const (
	// shortTextLen is the text-layer length at or below which the layer is
	// considered vestigial and OCR output replaces it outright.
	shortTextLen = 100

	// minOCRLen is the minimum OCR output length worth merging.
	minOCRLen = 50

	// hybridSeparator joins the two layers in hybrid mode.
	hybridSeparator = "\n\n--- OCR Content ---\n\n"
)

// Result is the merged document text with its provenance.
type Result struct {
	// Text is the final text.
	Text string

	// Method records how the text was produced.
	Method types.ProcessingMethod

	// Confidence carries the OCR confidence when OCR contributed, zero
	// otherwise.
	Confidence float64
}

// Merge combines extracted text with an OCR outcome. A nil outcome means
// OCR never ran (or failed); the extracted text stands alone.
//
// With both layers present: a vestigial text layer is replaced by OCR
// output, a substantial one is kept with OCR appended after a separator.
// OCR output too short to matter leaves the text layer untouched.
func Merge(extracted string, outcome *types.OCROutcome) Result {
	extracted = strings.TrimSpace(extracted)
	if outcome == nil {
		return Result{Text: extracted, Method: types.MethodTextExtraction}
	}

	ocrText := strings.TrimSpace(outcome.Text)
	if len(ocrText) <= minOCRLen {
		return Result{Text: extracted, Method: types.MethodTextExtraction}
	}

	if len(extracted) <= shortTextLen {
		return Result{
			Text:       ocrText,
			Method:     types.MethodOCR,
			Confidence: outcome.Confidence,
		}
	}

	return Result{
		Text:       extracted + hybridSeparator + ocrText,
		Method:     types.MethodHybrid,
		Confidence: outcome.Confidence,
	}
}
