// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/docharvest/internal/httputil"
	"github.com/pdiddy/docharvest/pkg/types"
)

// PubMed E-utilities endpoints. Declared as vars so tests can substitute
// httptest servers.
var (
	pubmedSearchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	pubmedSummaryBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esummary.fcgi"
	pubmedArticleBase = "https://pubmed.ncbi.nlm.nih.gov/"
)

// PubMedStrategy queries the NCBI E-utilities API in two steps: esearch for
// UIDs, then esummary for titles and dates.
type PubMedStrategy struct {
	Client *http.Client
}

// Name returns the strategy identifier.
func (s *PubMedStrategy) Name() string { return "pubmed" }

// Search queries PubMed and returns candidates. A date range is forwarded
// best-effort via the pdat datetype parameters.
func (s *PubMedStrategy) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Candidate, error) {
	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = cfg.MaxResults
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	uids, err := s.search(ctx, query, maxResults, cfg)
	if err != nil {
		return nil, err
	}
	if len(uids) == 0 {
		return nil, nil
	}

	summaries, err := s.summaries(ctx, uids, cfg)
	if err != nil {
		return nil, err
	}

	total := len(uids)
	var candidates []types.Candidate
	for i, uid := range uids {
		sum, ok := summaries[uid]
		if !ok {
			continue
		}
		c := types.Candidate{
			ID:     uid,
			Title:  strings.TrimSpace(sum.Title),
			URL:    pubmedArticleBase + uid + "/",
			Source: "pubmed",
		}
		if total > 1 {
			c.Relevance = 1.0 - float64(i)/float64(total-1)*0.9
		} else {
			c.Relevance = 1.0
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (s *PubMedStrategy) search(ctx context.Context, query Query, maxResults int, cfg types.SearchConfig) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query.Text},
		"retmax":  {fmt.Sprintf("%d", maxResults)},
		"retmode": {"json"},
	}
	if cfg.NCBIAPIKey != "" {
		params.Set("api_key", cfg.NCBIAPIKey)
	}
	if query.Dates != nil {
		params.Set("datetype", "pdat")
		if !query.Dates.From.IsZero() {
			params.Set("mindate", query.Dates.From.Format("2006/01/02"))
		}
		if !query.Dates.To.IsZero() {
			params.Set("maxdate", query.Dates.To.Format("2006/01/02"))
		}
	}

	var body struct {
		ESearchResult struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := s.getJSON(ctx, pubmedSearchBase+"?"+params.Encode(), cfg, &body); err != nil {
		return nil, fmt.Errorf("PubMed esearch: %w", err)
	}
	return body.ESearchResult.IDList, nil
}

// pubmedSummary is the subset of an esummary record this strategy uses.
type pubmedSummary struct {
	Title   string `json:"title"`
	PubDate string `json:"pubdate"`
}

func (s *PubMedStrategy) summaries(ctx context.Context, uids []string, cfg types.SearchConfig) (map[string]pubmedSummary, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(uids, ",")},
		"retmode": {"json"},
	}
	if cfg.NCBIAPIKey != "" {
		params.Set("api_key", cfg.NCBIAPIKey)
	}

	// The esummary result object maps each UID to its record, plus a
	// "uids" index entry, so decode into raw messages first.
	var body struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := s.getJSON(ctx, pubmedSummaryBase+"?"+params.Encode(), cfg, &body); err != nil {
		return nil, fmt.Errorf("PubMed esummary: %w", err)
	}

	summaries := make(map[string]pubmedSummary, len(uids))
	for _, uid := range uids {
		raw, ok := body.Result[uid]
		if !ok {
			continue
		}
		var sum pubmedSummary
		if err := json.Unmarshal(raw, &sum); err != nil {
			continue
		}
		summaries[uid] = sum
	}
	return summaries, nil
}

func (s *PubMedStrategy) getJSON(ctx context.Context, rawURL string, cfg types.SearchConfig, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
