// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source queries document search backends and returns unified,
// deduplicated, ranked candidates.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/docharvest/pkg/types"
)

// Strategy searches a single backend. Each strategy (arXiv, PubMed, scraped
// web search) implements this interface.
type Strategy interface {
	Name() string
	Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Candidate, error)
}

// DateRange restricts candidates to a publication window. Zero bounds are
// open-ended.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// Query holds the search parameters.
type Query struct {
	Text       string
	MaxResults int
	Dates      *DateRange
}

// IsEmpty reports whether the query contains no searchable terms.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == ""
}

// Output holds the aggregated candidates and per-strategy statistics.
type Output struct {
	Candidates     []types.Candidate
	DupsRemoved    int
	DateFiltered   int
	StrategyErrors []string
}

// Aggregate fans the query out to all strategies concurrently, deduplicates
// the combined candidates, applies client-side date filtering, ranks by
// relevance, and truncates to MaxResults.
//
// Candidates are concatenated in strategy order regardless of completion
// order, so first-occurrence-wins deduplication reflects strategy order,
// not relevance. A failing strategy contributes nothing; its error is
// recorded and printed as a warning, never propagated.
func Aggregate(ctx context.Context, query Query, strategies []Strategy, cfg types.SearchConfig, w io.Writer) (Output, error) {
	if query.IsEmpty() {
		return Output{}, fmt.Errorf("query is empty: provide search terms")
	}
	if len(strategies) == 0 {
		return Output{}, fmt.Errorf("no search strategies configured")
	}

	results := make([][]types.Candidate, len(strategies))
	errs := make([]error, len(strategies))
	var wg sync.WaitGroup

	for i, s := range strategies {
		if i > 0 && cfg.InterStrategyDelay > 0 {
			time.Sleep(cfg.InterStrategyDelay)
		}
		wg.Add(1)
		go func(i int, s Strategy) {
			defer wg.Done()
			results[i], errs[i] = s.Search(ctx, query, cfg)
		}(i, s)
	}
	wg.Wait()

	var all []types.Candidate
	var strategyErrors []string
	for i, s := range strategies {
		if errs[i] != nil {
			msg := fmt.Sprintf("%s: %v", s.Name(), errs[i])
			strategyErrors = append(strategyErrors, msg)
			fmt.Fprintf(w, "warning: strategy %s failed: %v\n", s.Name(), errs[i])
			continue
		}
		all = append(all, results[i]...)
	}

	deduped, removed := Dedupe(all)

	dateFiltered := 0
	if query.Dates != nil {
		deduped, dateFiltered = filterByDate(deduped, *query.Dates)
	}

	// Stable: ties preserve prior (strategy) order.
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Relevance > deduped[j].Relevance
	})

	max := query.MaxResults
	if max <= 0 {
		max = cfg.MaxResults
	}
	if max > 0 && len(deduped) > max {
		deduped = deduped[:max]
	}

	return Output{
		Candidates:     deduped,
		DupsRemoved:    removed,
		DateFiltered:   dateFiltered,
		StrategyErrors: strategyErrors,
	}, nil
}

// Dedupe removes candidates whose canonical URL matches an earlier one,
// compared case-insensitively. The first occurrence wins.
func Dedupe(candidates []types.Candidate) ([]types.Candidate, int) {
	seen := make(map[string]bool)
	var deduped []types.Candidate
	removed := 0

	for _, c := range candidates {
		key := strings.ToLower(strings.TrimSpace(c.URL))
		if key != "" && seen[key] {
			removed++
			continue
		}
		if key != "" {
			seen[key] = true
		}
		deduped = append(deduped, c)
	}
	return deduped, removed
}

// filterByDate keeps only candidates whose date falls inside the range.
// A candidate whose date cannot be extracted from its URL or title is
// excluded outright; when a range is requested, an unknown date is treated
// as a miss.
func filterByDate(candidates []types.Candidate, r DateRange) ([]types.Candidate, int) {
	var kept []types.Candidate
	dropped := 0
	for _, c := range candidates {
		t, ok := ExtractDate(c)
		if !ok || !r.Contains(t) {
			dropped++
			continue
		}
		kept = append(kept, c)
	}
	return kept, dropped
}

// FormatTable writes candidates as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Candidates) == 0 {
		fmt.Fprintln(w, "No candidates found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-6s  %-8s  %s\n", "Rank", "Title", "Score", "Source", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, c := range out.Candidates {
		title := c.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-6.2f  %-8s  %s\n", i+1, title, c.Relevance, c.Source, c.URL)
	}

	fmt.Fprintf(w, "\n%d candidates", len(out.Candidates))
	if out.DupsRemoved > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", out.DupsRemoved)
	}
	if out.DateFiltered > 0 {
		fmt.Fprintf(w, " (%d outside date range)", out.DateFiltered)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes candidates as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Candidates)
}
