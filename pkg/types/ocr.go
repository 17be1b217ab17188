// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OCROutcome is the result of exactly one OCR engine invocation. It is
// consumed immediately by the content merger and not persisted on its own.
type OCROutcome struct {
	// Text is the recognized text.
	Text string `json:"text" yaml:"text"`

	// Confidence is the engine-reported confidence clamped to [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// ProcessingMS is the engine processing time in milliseconds.
	ProcessingMS int64 `json:"processing_ms" yaml:"processing_ms"`

	// Engine is the name of the engine that produced this outcome. The
	// manager tags it on acceptance.
	Engine string `json:"engine" yaml:"engine"`

	// Pages is the number of pages the engine processed, when known.
	Pages int `json:"pages,omitempty" yaml:"pages,omitempty"`

	// Language is the detected or requested dominant language, when known.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// Clamp normalizes the confidence into [0,1].
func (o *OCROutcome) Clamp() {
	if o.Confidence < 0 {
		o.Confidence = 0
	}
	if o.Confidence > 1 {
		o.Confidence = 1
	}
}

// EngineKind distinguishes local engines from remote API engines.
type EngineKind string

const (
	EngineLocal EngineKind = "local"
	EngineAPI   EngineKind = "api"
)

// EngineInfo describes a registered OCR engine.
type EngineInfo struct {
	// Name is the registry key (e.g. "tesseract", "mistral").
	Name string `json:"name" yaml:"name"`

	// Kind reports whether the engine runs locally or calls a remote API.
	Kind EngineKind `json:"kind" yaml:"kind"`

	// Description is a short human-readable summary.
	Description string `json:"description" yaml:"description"`

	// RequiresKey names the secret the engine needs, when any
	// (e.g. "mistral-api-key").
	RequiresKey string `json:"requires_key,omitempty" yaml:"requires_key,omitempty"`

	// Available reports whether the engine could run at the time the
	// status was gathered.
	Available bool `json:"available" yaml:"available"`
}
