// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package structure derives a lightweight document outline from merged
// text: abstract, section headings, references, figures, and tables.
// The analysis is heuristic and never fails; absent elements simply stay
// empty.
package structure

import (
	"regexp"
	"strings"

	"github.com/pdiddy/docharvest/pkg/types"
)

const (
	maxSections   = 10
	maxReferences = 20
	maxFigures    = 10
	maxTables     = 10

	abstractMaxLen = 1500
)

var (
	// sectionPattern matches numbered headings ("1. Introduction",
	// "2.3 Methods"), chapter headings, short all-caps or Title Case
	// lines, and the conventional unnumbered ones.
	sectionPattern = regexp.MustCompile(`(?m)^(?:\d+(?:\.\d+)*\.?\s+[A-Z][^\n]{2,80}|Chapter\s+\d+[^\n]{0,60}|[A-Z][A-Z0-9 ]{3,40}|[A-Z][a-z]*(?:\s+(?:[A-Z][a-z]*|of|and|the|in|for|on|to|a|an|with)){1,6}|(?:Abstract|Introduction|Background|Methods|Results|Discussion|Conclusion|Conclusions|References|Acknowledgments|Appendix)\b[^\n]{0,40})$`)

	// referencePattern matches bracketed and numbered bibliography entries.
	// A year requirement keeps numbered section headings out.
	referencePattern = regexp.MustCompile(`(?m)^\s*(?:\[\d+\]|\d+\.)\s+[A-Z][^\n]{10,300}$`)
	refYearPattern   = regexp.MustCompile(`(?:19|20)\d{2}`)

	// refIDPattern catches unmarked reference lines that carry a DOI or
	// arXiv identifier.
	refIDPattern = regexp.MustCompile(`(?mi)^[^\n]{0,200}(?:doi\.org/|doi:\s*10\.|arxiv:)[^\n]{0,120}$`)

	// refAuthorPattern catches unmarked author-year entries, either a
	// "Surname, X." opening or an "et al." citation with a year in parens.
	refAuthorPattern = regexp.MustCompile(`(?m)^\s*(?:[A-Z][A-Za-z'-]+,\s[^\n]{0,80}?\((?:19|20)\d{2}\)|[^\n]{0,120}\bet al\.[^\n]{0,80}\((?:19|20)\d{2}\))[^\n]{0,200}$`)

	figurePattern = regexp.MustCompile(`(?mi)^\s*(?:Figure|Fig\.?)\s+\d+[.:][^\n]{0,200}`)
	tablePattern  = regexp.MustCompile(`(?mi)^\s*Table\s+\d+[.:][^\n]{0,200}`)

	abstractHeading = regexp.MustCompile(`(?mi)^abstract\b[.:]?\s*$`)
)

// Analyze extracts the document outline from text.
func Analyze(text string) types.DocumentStructure {
	return types.DocumentStructure{
		Abstract:   findAbstract(text),
		Sections:   capped(dedupe(sectionPattern.FindAllString(text, -1)), maxSections),
		References: findReferences(text),
		Figures:    capped(trimAll(figurePattern.FindAllString(text, -1)), maxFigures),
		Tables:     capped(trimAll(tablePattern.FindAllString(text, -1)), maxTables),
	}
}

// findAbstract returns the paragraph following an "Abstract" heading, or
// the first substantial paragraph as a fallback.
func findAbstract(text string) string {
	if loc := abstractHeading.FindStringIndex(text); loc != nil {
		rest := text[loc[1]:]
		if para := firstParagraph(rest); para != "" {
			return clip(para, abstractMaxLen)
		}
	}
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if len(para) >= 200 {
			return clip(para, abstractMaxLen)
		}
	}
	return ""
}

// findReferences collects bibliography entries, keeping the leading
// entries when the list overflows the cap.
func findReferences(text string) []string {
	var refs []string
	for _, m := range trimAll(referencePattern.FindAllString(text, -1)) {
		if refYearPattern.MatchString(m) {
			refs = append(refs, m)
		}
	}
	refs = append(refs, trimAll(refAuthorPattern.FindAllString(text, -1))...)
	refs = append(refs, trimAll(refIDPattern.FindAllString(text, -1))...)
	return capped(dedupe(refs), maxReferences)
}

func firstParagraph(text string) string {
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para != "" {
			return para
		}
	}
	return ""
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func capped(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
