// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads candidate documents and validates that they are
// genuine PDFs before handing them to extraction.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docharvest/pkg/types"
)

const (
	rawDir      = "raw"
	metadataDir = "metadata"

	// defaultMinPDFSize rejects payloads too small to be a real document;
	// error pages and login walls are typically a few hundred bytes.
	defaultMinPDFSize = 1024
)

// pdfMagic is the required first four bytes of a PDF file.
var pdfMagic = []byte("%PDF")

// Record is the metadata sidecar written next to each downloaded PDF.
type Record struct {
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title"`
	URL       string    `yaml:"url"`
	SourceURL string    `yaml:"source_url"`
	Source    string    `yaml:"source"`
	Size      int64     `yaml:"size"`
	FetchedAt time.Time `yaml:"fetched_at"`
}

// Fetch downloads a single candidate. If the PDF already exists at the
// expected local path, the download is skipped and cached is true.
//
// The primary URL (DownloadURL when set, otherwise URL) is tried first,
// then each mirror template in order. Every failure is recoverable: the
// caller receives an error only after all URLs are exhausted, and skips
// the candidate.
func Fetch(ctx context.Context, client *http.Client, cand types.Candidate, cfg types.AcquisitionConfig, w io.Writer) (pdfPath string, cached bool, err error) {
	id := cand.DocumentID()
	pdfPath = filepath.Join(cfg.DocsDir, rawDir, id+".pdf")
	metaPath := filepath.Join(cfg.DocsDir, metadataDir, id+".yaml")

	if _, statErr := os.Stat(pdfPath); statErr == nil {
		fmt.Fprintf(w, "cached: %s\n", id)
		return pdfPath, true, nil
	}

	for _, dir := range []string{
		filepath.Join(cfg.DocsDir, rawDir),
		filepath.Join(cfg.DocsDir, metadataDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", false, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	urls := candidateURLs(cand)
	if len(urls) == 0 {
		return "", false, fmt.Errorf("candidate %s has no download URL", id)
	}

	var lastErr error
	for i, u := range urls {
		if i == 0 {
			fmt.Fprintf(w, "downloading: %s (%s)\n", id, cand.Source)
		} else {
			fmt.Fprintf(w, "  mirror %d: %s\n", i, u)
		}

		size, dlErr := downloadPDF(ctx, client, u, pdfPath, cfg)
		if dlErr != nil {
			lastErr = dlErr
			continue
		}

		rec := Record{
			ID:        id,
			Title:     cand.Title,
			URL:       cand.URL,
			SourceURL: u,
			Source:    cand.Source,
			Size:      size,
			FetchedAt: time.Now().UTC(),
		}
		if err := writeRecord(rec, metaPath); err != nil {
			return "", false, fmt.Errorf("writing metadata for %s: %w", id, err)
		}
		return pdfPath, false, nil
	}

	return "", false, fmt.Errorf("downloading %s: %w", id, lastErr)
}

// candidateURLs returns the ordered URL list for a candidate: the direct
// download URL (or canonical URL) first, then source-specific mirrors.
func candidateURLs(cand types.Candidate) []string {
	primary := cand.DownloadURL
	if primary == "" {
		primary = cand.URL
	}
	if primary == "" {
		return nil
	}
	urls := []string{primary}
	for _, m := range mirrorURLs(primary, cand.Source) {
		if m != primary {
			urls = append(urls, m)
		}
	}
	return urls
}

// downloadPDF fetches url to destPath using a temporary file, validating
// the payload is a genuine PDF before the rename. On any failure the temp
// file is removed and destPath is untouched.
func downloadPDF(ctx context.Context, client *http.Client, url, destPath string, cfg types.AcquisitionConfig) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	minSize := cfg.MinPDFSize
	if minSize <= 0 {
		minSize = defaultMinPDFSize
	}
	if resp.ContentLength > 0 && resp.ContentLength < minSize {
		return 0, fmt.Errorf("declared size %d below minimum %d", resp.ContentLength, minSize)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	written, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := validatePDF(tmpPath, written, minSize); err != nil {
		os.Remove(tmpPath)
		return 0, err
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}
	return written, nil
}

// validatePDF checks the downloaded payload against the minimum size and
// the PDF magic number. HTML payloads (redirect pages, login walls) are
// called out explicitly since they are the common failure.
func validatePDF(path string, size, minSize int64) error {
	if size < minSize {
		return fmt.Errorf("payload %d bytes, below minimum %d", size, minSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reopening download: %w", err)
	}
	defer f.Close()

	head := make([]byte, 4)
	if _, err := io.ReadFull(f, head); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	if !bytes.Equal(head, pdfMagic) {
		if looksLikeHTML(head) {
			return fmt.Errorf("payload is HTML, not a PDF")
		}
		return fmt.Errorf("missing %%PDF magic number (got %q)", head)
	}
	return nil
}

func looksLikeHTML(head []byte) bool {
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '<'
}

// writeRecord writes the metadata sidecar as YAML.
func writeRecord(rec Record, path string) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRecord reads a metadata sidecar. Returns nil when the file does not
// exist or cannot be parsed.
func ReadRecord(cfg types.AcquisitionConfig, docID string) *Record {
	path := filepath.Join(cfg.DocsDir, metadataDir, docID+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil
	}
	return &rec
}
