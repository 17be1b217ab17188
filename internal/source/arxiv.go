// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/docharvest/internal/httputil"
	"github.com/pdiddy/docharvest/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// arxivAbsBase is the canonical abstract page prefix.
var arxivAbsBase = "https://arxiv.org/abs/"

// arxivPDFBase is the direct PDF download prefix.
var arxivPDFBase = "https://arxiv.org/pdf/"

// ArxivStrategy queries the arXiv API.
type ArxivStrategy struct {
	Client *http.Client
}

// Name returns the strategy identifier.
func (s *ArxivStrategy) Name() string { return "arxiv" }

// Search queries the arXiv API and returns candidates. When the query
// carries a date range, it is forwarded best-effort as a submittedDate
// filter; the aggregator still applies the strict client-side filter.
func (s *ArxivStrategy) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Candidate, error) {
	q := buildArxivQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = cfg.MaxResults
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	url := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, q, maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	total := len(feed.Entries)
	var candidates []types.Candidate
	for i, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}

		c := types.Candidate{
			ID:          arxivID,
			Title:       collapseSpace(entry.Title),
			URL:         arxivAbsBase + arxivID,
			Source:      "arxiv",
			DownloadURL: arxivPDFBase + arxivID,
		}

		// Position-based relevance score.
		if total > 1 {
			c.Relevance = 1.0 - float64(i)/float64(total-1)*0.9
		} else {
			c.Relevance = 1.0
		}

		candidates = append(candidates, c)
	}
	return candidates, nil
}

// buildArxivQuery constructs the search_query parameter, including a
// best-effort submittedDate window when the query has a date range.
func buildArxivQuery(q Query) string {
	var parts []string

	if q.Text != "" {
		terms := strings.Fields(q.Text)
		parts = append(parts, "all:"+strings.Join(terms, "+"))
	}

	if q.Dates != nil && (!q.Dates.From.IsZero() || !q.Dates.To.IsZero()) {
		from := "190001010000"
		to := time.Now().UTC().Format("200601021504")
		if !q.Dates.From.IsZero() {
			from = q.Dates.From.UTC().Format("200601021504")
		}
		if !q.Dates.To.IsZero() {
			to = q.Dates.To.UTC().Format("200601021504")
		}
		parts = append(parts, fmt.Sprintf("submittedDate:[%s+TO+%s]", from, to))
	}

	return strings.Join(parts, "+AND+")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Published string `xml:"published"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}

// collapseSpace trims a value and folds internal whitespace runs, which the
// arXiv feed uses for line wrapping inside titles.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
