// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates the full document path: download, text
// extraction, quality gate, OCR fallback, merge, structure analysis, and
// persistence. One failing document never aborts the batch.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/docharvest/internal/fetch"
	"github.com/pdiddy/docharvest/internal/merge"
	"github.com/pdiddy/docharvest/internal/pdftext"
	"github.com/pdiddy/docharvest/internal/quality"
	"github.com/pdiddy/docharvest/internal/structure"
	"github.com/pdiddy/docharvest/pkg/types"
)

// OCRRunner runs the OCR fallback chain over one PDF.
type OCRRunner interface {
	Process(ctx context.Context, pdfPath string) (types.OCROutcome, error)
}

// DocumentStore persists processed documents.
type DocumentStore interface {
	Write(doc types.ProcessedDocument) error
}

// Failure records one candidate the batch could not process.
type Failure struct {
	ID  string
	Err error
}

// BatchResult summarizes a pipeline run.
type BatchResult struct {
	Processed []string
	Failed    []Failure
}

// Total returns the number of candidates attempted.
func (r BatchResult) Total() int { return len(r.Processed) + len(r.Failed) }

// HasFailures reports whether any candidate failed.
func (r BatchResult) HasFailures() bool { return len(r.Failed) > 0 }

// Pipeline processes candidates end to end.
type Pipeline struct {
	Client *http.Client
	Cfg    types.PipelineConfig
	OCR    OCRRunner // nil disables OCR; gated documents keep their text layer
	Store  DocumentStore
	Out    io.Writer

	fetchFn   func(ctx context.Context, client *http.Client, cand types.Candidate, cfg types.AcquisitionConfig, w io.Writer) (string, bool, error)
	extractFn func(path string) pdftext.Result
}

// New constructs a pipeline over the given store and OCR runner.
func New(client *http.Client, cfg types.PipelineConfig, ocr OCRRunner, store DocumentStore, out io.Writer) *Pipeline {
	return &Pipeline{
		Client:    client,
		Cfg:       cfg,
		OCR:       ocr,
		Store:     store,
		Out:       out,
		fetchFn:   fetch.Fetch,
		extractFn: pdftext.Extract,
	}
}

// Run processes candidates sequentially, pausing between downloads to be
// polite to the sources. Failures are recorded and the batch continues.
func (p *Pipeline) Run(ctx context.Context, candidates []types.Candidate) BatchResult {
	var result BatchResult
	for i, cand := range candidates {
		if err := ctx.Err(); err != nil {
			for _, rest := range candidates[i:] {
				result.Failed = append(result.Failed, Failure{ID: rest.DocumentID(), Err: err})
			}
			break
		}

		doc, cached, err := p.ProcessCandidate(ctx, cand)
		if err != nil {
			fmt.Fprintf(p.Out, "failed: %s: %v\n", cand.DocumentID(), err)
			result.Failed = append(result.Failed, Failure{ID: cand.DocumentID(), Err: err})
		} else {
			fmt.Fprintf(p.Out, "processed: %s (%s)\n", doc.ID, doc.Processing.Method)
			result.Processed = append(result.Processed, doc.ID)
		}

		if !cached && i < len(candidates)-1 && p.Cfg.Acquisition.DownloadDelay > 0 {
			select {
			case <-time.After(p.Cfg.Acquisition.DownloadDelay):
			case <-ctx.Done():
			}
		}
	}
	return result
}

// ProcessCandidate runs the full pipeline for one candidate. The returned
// cached flag reports whether the PDF came from the local cache.
func (p *Pipeline) ProcessCandidate(ctx context.Context, cand types.Candidate) (types.ProcessedDocument, bool, error) {
	start := time.Now()

	pdfPath, cached, err := p.fetchFn(ctx, p.Client, cand, p.Cfg.Acquisition, p.Out)
	if err != nil {
		return types.ProcessedDocument{}, cached, fmt.Errorf("acquisition: %w", err)
	}

	extracted := p.extractFn(pdfPath)
	decision := quality.EvaluateWithOverrides(extracted.Text, p.Cfg.Quality)

	var outcome *types.OCROutcome
	if decision.NeedsOCR {
		fmt.Fprintf(p.Out, "ocr needed: %s (%s)\n", cand.DocumentID(), decision.Reason)
		if p.OCR == nil {
			fmt.Fprintf(p.Out, "ocr unavailable, keeping extracted text\n")
		} else if o, err := p.OCR.Process(ctx, pdfPath); err != nil {
			// OCR exhaustion is not fatal; the text layer, if any, stands.
			fmt.Fprintf(p.Out, "ocr failed: %v\n", err)
		} else {
			outcome = &o
		}
	}

	merged := merge.Merge(extracted.Text, outcome)
	if merged.Text == "" {
		return types.ProcessedDocument{}, cached, fmt.Errorf("no usable text for %s", cand.DocumentID())
	}

	doc := types.ProcessedDocument{
		ID:     cand.DocumentID(),
		Title:  cand.Title,
		URL:    cand.URL,
		Source: cand.Source,
		Content: types.DocumentContent{
			Text:        merged.Text,
			PageCount:   extracted.PageCount,
			ExtractedAt: time.Now().UTC(),
		},
		Structure: structure.Analyze(merged.Text),
		Processing: types.ProcessingInfo{
			Method:        merged.Method,
			OCRConfidence: merged.Confidence,
			ProcessingMS:  time.Since(start).Milliseconds(),
		},
	}
	if outcome != nil && merged.Method != types.MethodTextExtraction {
		doc.Processing.OCREngine = outcome.Engine
	}
	if outcome != nil && outcome.Pages > doc.Content.PageCount {
		doc.Content.PageCount = outcome.Pages
	}

	if err := p.Store.Write(doc); err != nil {
		return types.ProcessedDocument{}, cached, fmt.Errorf("persisting %s: %w", doc.ID, err)
	}
	return doc, cached, nil
}
