// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quality decides whether extracted text is usable or the document
// needs OCR. The gate runs a fixed sequence of cheap heuristics; the first
// one that fires wins, and its reason is carried into logs.
package quality

import (
	"strings"
	"unicode"

	"github.com/pdiddy/docharvest/pkg/types"
)

const (
	minChars         = 500
	minNonEmptyLines = 10
	minAlphaRatio    = 0.6
	repeatMinLen     = 10
	repeatMaxLen     = 60
	repeatCount      = 3
	maxUnusualRatio  = 0.1
	minAvgWordLen    = 3.0
	maxAvgWordLen    = 15.0
	shortLineLen     = 20
	maxShortLineFrac = 0.7
)

// Decision is the gate verdict for one document.
type Decision struct {
	// NeedsOCR is true when the text layer is absent or degenerate.
	NeedsOCR bool

	// Reason names the heuristic that fired, or the override applied.
	// Empty when the text passed every check.
	Reason string
}

// Evaluate runs the heuristic sequence over extracted text. Checks run in
// a fixed order from cheapest to most specific; evaluation stops at the
// first failure.
func Evaluate(text string) Decision {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Decision{NeedsOCR: true, Reason: "no text layer"}
	}
	if len(trimmed) < minChars {
		return Decision{NeedsOCR: true, Reason: "text too short"}
	}

	lines := nonEmptyLines(trimmed)
	if len(lines) < minNonEmptyLines {
		return Decision{NeedsOCR: true, Reason: "too few lines"}
	}
	if alphaRatio(trimmed) < minAlphaRatio {
		return Decision{NeedsOCR: true, Reason: "low alphabetic ratio"}
	}
	if hasRepeatedRun(trimmed) {
		return Decision{NeedsOCR: true, Reason: "repeated garbage pattern"}
	}
	if unusualRatio(trimmed) > maxUnusualRatio {
		return Decision{NeedsOCR: true, Reason: "too many unusual characters"}
	}
	if avg := avgWordLength(trimmed); avg < minAvgWordLen || avg > maxAvgWordLen {
		return Decision{NeedsOCR: true, Reason: "implausible word lengths"}
	}
	if shortLineFraction(lines) > maxShortLineFrac {
		return Decision{NeedsOCR: true, Reason: "fragmented lines"}
	}
	return Decision{}
}

// EvaluateWithOverrides applies the explicit configuration overrides
// before consulting the heuristics. ForceOCR wins over Bypass.
func EvaluateWithOverrides(text string, cfg types.QualityConfig) Decision {
	if cfg.ForceOCR {
		return Decision{NeedsOCR: true, Reason: "forced by configuration"}
	}
	if cfg.Bypass {
		return Decision{NeedsOCR: false, Reason: "gate bypassed by configuration"}
	}
	return Evaluate(text)
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// alphaRatio is the fraction of non-whitespace runes that are letters.
// Garbled extraction output is dominated by symbols and digit noise.
func alphaRatio(text string) float64 {
	var alpha, total int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(alpha) / float64(total)
}

// hasRepeatedRun reports whether some substring of length repeatMinLen to
// repeatMaxLen occurs at least repeatCount times consecutively. Broken
// extractors emit the same fragment over and over.
func hasRepeatedRun(text string) bool {
	n := len(text)
	for l := repeatMinLen; l <= repeatMaxLen; l++ {
		limit := n - l*repeatCount
		for i := 0; i <= limit; i++ {
			// Quick rejection: consecutive copies imply text[i] == text[i+l].
			if text[i] != text[i+l] {
				continue
			}
			if isRepeatedAt(text, i, l) {
				return true
			}
		}
	}
	return false
}

func isRepeatedAt(text string, i, l int) bool {
	first := text[i : i+l]
	for k := 1; k < repeatCount; k++ {
		start := i + k*l
		if text[start:start+l] != first {
			return false
		}
	}
	return true
}

// unusualRatio is the fraction of runes outside the printable ASCII range,
// common whitespace, and letters (accented text stays usual).
func unusualRatio(text string) float64 {
	var unusual, total int
	for _, r := range text {
		total++
		switch {
		case r >= 0x20 && r < 0x7f:
		case r == '\n' || r == '\t' || r == '\r':
		case unicode.IsLetter(r):
		default:
			unusual++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(unusual) / float64(total)
}

// avgWordLength is the mean length in runes of whitespace-separated words.
func avgWordLength(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	var total int
	for _, w := range words {
		total += len([]rune(w))
	}
	return float64(total) / float64(len(words))
}

// shortLineFraction is the fraction of non-empty lines shorter than
// shortLineLen runes. Column-confused extraction shreds text into
// fragments.
func shortLineFraction(lines []string) float64 {
	if len(lines) == 0 {
		return 0
	}
	var short int
	for _, line := range lines {
		if len([]rune(strings.TrimSpace(line))) < shortLineLen {
			short++
		}
	}
	return float64(short) / float64(len(lines))
}
