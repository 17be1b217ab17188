// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ocr runs optical character recognition over PDF documents,
// selecting among multiple engines and falling back down a cost-ascending
// chain when an engine fails or times out.
package ocr

import (
	"context"

	"github.com/pdiddy/docharvest/pkg/types"
)

// Options carries per-run settings an engine may honor.
type Options struct {
	// Languages lists language hints (ISO 639-2 codes, e.g. "eng").
	Languages []string

	// MaxPages caps the pages processed. Zero means all pages.
	MaxPages int

	// FastMode trades accuracy for speed: engines skip enhancement passes
	// and respect MaxPages aggressively.
	FastMode bool
}

// Engine is a single OCR backend. Engines are stateless; one instance
// serves concurrent Process calls.
type Engine interface {
	// Name returns the registry name of the engine.
	Name() string

	// Available reports whether the engine can run right now: binaries on
	// PATH for local engines, API key configured for hosted engines.
	Available() bool

	// Process runs OCR over the PDF at pdfPath. An outcome with empty
	// text and a nil error is still treated as a failure by the manager.
	Process(ctx context.Context, pdfPath string, opts Options) (types.OCROutcome, error)

	// Describe returns static engine metadata for status output.
	Describe() types.EngineInfo
}
