// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ProcessingMethod identifies which text source is authoritative for a
// processed document. Exactly one of the three tags applies.
type ProcessingMethod string

const (
	// MethodTextExtraction means the direct PDF text extraction alone
	// produced the final text.
	MethodTextExtraction ProcessingMethod = "text-extraction"

	// MethodOCR means extraction yielded nothing usable and the final text
	// comes from an OCR engine.
	MethodOCR ProcessingMethod = "ocr"

	// MethodHybrid means both extraction and OCR contributed and the final
	// text contains both, joined by an explicit separator.
	MethodHybrid ProcessingMethod = "hybrid"
)

// DocumentContent holds the final text of a processed document.
type DocumentContent struct {
	// Text is the single final text blob. It is never empty fragments or
	// the literal "undefined"; the merger always produces one blob.
	Text string `json:"text" yaml:"text"`

	// PageCount is the number of pages in the source PDF, when known.
	PageCount int `json:"page_count" yaml:"page_count"`

	// ExtractedAt records when extraction completed.
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`
}

// DocumentMetadata holds optional descriptive metadata for a document.
type DocumentMetadata struct {
	Author       string `json:"author,omitempty" yaml:"author,omitempty"`
	CreationDate string `json:"creation_date,omitempty" yaml:"creation_date,omitempty"`
}

// DocumentStructure is the lightweight structure derived from the final text.
// Slices are capped by the structure analyzer to bound output size.
type DocumentStructure struct {
	Abstract   string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Sections   []string `json:"sections" yaml:"sections"`
	References []string `json:"references" yaml:"references"`
	Figures    []string `json:"figures" yaml:"figures"`
	Tables     []string `json:"tables" yaml:"tables"`
}

// ProcessingInfo records how the final text was produced.
type ProcessingInfo struct {
	// Method is exactly one of text-extraction, ocr, or hybrid, and
	// determines which text sources are authoritative.
	Method ProcessingMethod `json:"method" yaml:"method"`

	// OCRConfidence is the confidence reported by the contributing OCR
	// engine, clamped to [0,1]. Zero when OCR did not contribute.
	OCRConfidence float64 `json:"ocr_confidence,omitempty" yaml:"ocr_confidence,omitempty"`

	// OCREngine names the engine that produced the OCR text, when any.
	OCREngine string `json:"ocr_engine,omitempty" yaml:"ocr_engine,omitempty"`

	// ProcessingMS is the wall-clock pipeline time for this document in
	// milliseconds.
	ProcessingMS int64 `json:"processing_ms" yaml:"processing_ms"`
}

// ProcessedDocument is the durable record the pipeline produces. It is
// created once, persisted verbatim to the result store, and immutable
// thereafter; re-processing creates a new value.
type ProcessedDocument struct {
	// ID is the stable identity derived from source and source-native ID.
	ID string `json:"id" yaml:"id"`

	Title  string `json:"title" yaml:"title"`
	URL    string `json:"url" yaml:"url"`
	Source string `json:"source" yaml:"source"`

	Content    DocumentContent   `json:"content" yaml:"content"`
	Metadata   DocumentMetadata  `json:"metadata" yaml:"metadata"`
	Structure  DocumentStructure `json:"structure" yaml:"structure"`
	Processing ProcessingInfo    `json:"processing" yaml:"processing"`
}
