// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "docharvest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the source aggregation stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of candidates to return (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// EnableArxiv controls whether the arXiv strategy is used.
	EnableArxiv bool `json:"enable_arxiv" yaml:"enable_arxiv"`

	// EnablePubMed controls whether the PubMed strategy is used.
	EnablePubMed bool `json:"enable_pubmed" yaml:"enable_pubmed"`

	// EnableWeb controls whether the scraped web-search strategy is used.
	EnableWeb bool `json:"enable_web" yaml:"enable_web"`

	// NCBIAPIKey is an optional key for higher PubMed rate limits.
	NCBIAPIKey string `json:"ncbi_api_key,omitempty" yaml:"ncbi_api_key,omitempty"`

	// InterStrategyDelay is the delay between launching strategies (default 0).
	InterStrategyDelay time.Duration `json:"inter_strategy_delay" yaml:"inter_strategy_delay"`
}

// AcquisitionConfig holds settings for the download stage.
type AcquisitionConfig struct {
	HTTPConfig `yaml:",inline"`

	// DocsDir is the base directory for documents (contains raw/ and metadata/).
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`

	// MinPDFSize is the minimum viable PDF size in bytes. Smaller payloads
	// are rejected as error pages (default 1024).
	MinPDFSize int64 `json:"min_pdf_size" yaml:"min_pdf_size"`

	// DownloadDelay is the delay between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`
}

// QualityConfig holds the explicit quality-gate overrides. Both default to
// false; they exist for debugging and tests, never as silent side effects.
type QualityConfig struct {
	// ForceOCR routes every document through OCR regardless of extraction
	// quality.
	ForceOCR bool `json:"force_ocr" yaml:"force_ocr"`

	// Bypass skips the gate entirely: OCR never triggers.
	Bypass bool `json:"bypass" yaml:"bypass"`
}

// OCRConfig holds settings for the OCR engine manager.
type OCRConfig struct {
	// PrimaryEngine is the preferred engine name, or "auto" to pick the
	// first available engine from the cost-ascending priority list.
	PrimaryEngine string `json:"primary_engine" yaml:"primary_engine"`

	// FallbackEngines is the ordered list of engines to try after the
	// selected engine fails.
	FallbackEngines []string `json:"fallback_engines" yaml:"fallback_engines"`

	// EnableFallback controls whether the fallback chain runs at all.
	EnableFallback bool `json:"enable_fallback" yaml:"enable_fallback"`

	// AttemptTimeout bounds each engine attempt (default 120s). Fast mode
	// halves it.
	AttemptTimeout time.Duration `json:"attempt_timeout" yaml:"attempt_timeout"`

	// FastMode shortens the attempt timeout, caps the page count, and
	// disables accuracy-enhancing engine options.
	FastMode bool `json:"fast_mode" yaml:"fast_mode"`

	// MaxPages caps the pages processed in fast mode (default 10).
	MaxPages int `json:"max_pages" yaml:"max_pages"`

	// Languages lists language hints passed to engines (default ["eng"]).
	Languages []string `json:"languages" yaml:"languages"`

	// MistralAPIKey authenticates the Mistral OCR engine.
	MistralAPIKey string `json:"mistral_api_key,omitempty" yaml:"mistral_api_key,omitempty"`

	// OCRSpaceAPIKey authenticates the OCR.space engine.
	OCRSpaceAPIKey string `json:"ocrspace_api_key,omitempty" yaml:"ocrspace_api_key,omitempty"`
}

// StoreConfig holds settings for the result store.
type StoreConfig struct {
	// StoreDir is the directory holding the SQLite database.
	StoreDir string `json:"store_dir" yaml:"store_dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Search      SearchConfig      `json:"search" yaml:"search"`
	Acquisition AcquisitionConfig `json:"acquisition" yaml:"acquisition"`
	Quality     QualityConfig     `json:"quality" yaml:"quality"`
	OCR         OCRConfig         `json:"ocr" yaml:"ocr"`
	Store       StoreConfig       `json:"store" yaml:"store"`
}
