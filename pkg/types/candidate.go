// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the docharvest pipeline.
package types

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Candidate is an unprocessed, ranked reference to a document found during
// source aggregation, prior to download and extraction. Candidates are
// created by one search strategy, consumed once by acquisition, and never
// mutated afterwards.
type Candidate struct {
	// ID is the source-native identifier (arXiv ID, PubMed UID, or URL).
	ID string `json:"id" yaml:"id"`

	// Title is the document title as reported by the source.
	Title string `json:"title" yaml:"title"`

	// URL is the canonical URL of the document. Deduplication compares
	// canonical URLs case-insensitively.
	URL string `json:"url" yaml:"url"`

	// Source identifies which strategy found this candidate
	// (e.g. "arxiv", "pubmed", "web").
	Source string `json:"source" yaml:"source"`

	// Relevance is a value between 0.0 and 1.0 indicating relevance to
	// the query.
	Relevance float64 `json:"relevance" yaml:"relevance"`

	// DownloadURL is an optional direct PDF link. When empty, acquisition
	// derives download locations from URL.
	DownloadURL string `json:"download_url,omitempty" yaml:"download_url,omitempty"`

	// Size is the declared document size in bytes, when the source reports
	// one. Zero means unknown.
	Size int64 `json:"size,omitempty" yaml:"size,omitempty"`
}

// DocumentID derives the stable document identity from source and
// source-native ID. The identity doubles as the filename stem for the raw
// PDF and the primary key in the result store.
func (c Candidate) DocumentID() string {
	id := strings.TrimSpace(c.ID)
	if id == "" {
		id = c.URL
	}
	if isURLLike(id) {
		return c.Source + "-" + urlHashSlug(id)
	}
	return c.Source + "-" + sanitizeSlug(id)
}

func isURLLike(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// sanitizeSlug replaces filesystem-hostile characters in an identifier.
func sanitizeSlug(s string) string {
	return strings.NewReplacer("/", "-", ":", "-", " ", "-", "?", "-", "&", "-").Replace(s)
}

func urlHashSlug(rawURL string) string {
	h := sha256.Sum256([]byte(rawURL))
	return fmt.Sprintf("%x", h[:8])
}
