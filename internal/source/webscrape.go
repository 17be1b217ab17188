// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/docharvest/internal/httputil"
	"github.com/pdiddy/docharvest/pkg/types"
)

// webSearchBase is the HTML search endpoint scraped for the unstructured
// source class. Declared as a var so tests can substitute an httptest server.
var webSearchBase = "https://html.duckduckgo.com/html/"

// WebStrategy scrapes an HTML search engine results page for PDF links.
// It covers source classes with no structured API (institutional
// repositories, personal pages, conference sites).
type WebStrategy struct {
	Client *http.Client
}

// Name returns the strategy identifier.
func (s *WebStrategy) Name() string { return "web" }

// Search runs a filetype:pdf web search and parses the result list. The
// backend has no date parameter, so date filtering for this strategy is
// entirely client-side in the aggregator.
func (s *WebStrategy) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Candidate, error) {
	params := url.Values{"q": {query.Text + " filetype:pdf"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, webSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("web search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing results page: %w", err)
	}

	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = cfg.MaxResults
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	var candidates []types.Candidate
	doc.Find("div.result").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		link := sel.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}
		target := resolveRedirect(href)
		if target == "" {
			return true
		}

		c := types.Candidate{
			ID:     target,
			Title:  strings.TrimSpace(link.Text()),
			URL:    target,
			Source: "web",
		}
		if strings.Contains(strings.ToLower(target), ".pdf") {
			c.DownloadURL = target
		}
		candidates = append(candidates, c)
		return len(candidates) < maxResults
	})

	// Position-based relevance score.
	total := len(candidates)
	for i := range candidates {
		if total > 1 {
			candidates[i].Relevance = 1.0 - float64(i)/float64(total-1)*0.9
		} else {
			candidates[i].Relevance = 1.0
		}
	}
	return candidates, nil
}

// resolveRedirect unwraps the engine's redirect links
// (//duckduckgo.com/l/?uddg=<encoded target>) to the target URL. Plain
// links pass through unchanged.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return href
	}
	return ""
}
