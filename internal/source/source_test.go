// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/docharvest/pkg/types"
)

// --- mock strategy ---

type mockStrategy struct {
	name       string
	candidates []types.Candidate
	err        error
}

func (m *mockStrategy) Name() string { return m.name }

func (m *mockStrategy) Search(_ context.Context, _ Query, _ types.SearchConfig) ([]types.Candidate, error) {
	return m.candidates, m.err
}

func testCfg() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		MaxResults: 20,
	}
}

// --- Query ---

func TestQueryIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  bool
	}{
		{"empty", Query{}, true},
		{"whitespace only", Query{Text: "   "}, true},
		{"text", Query{Text: "attention"}, false},
		{"dates only is empty", Query{Dates: &DateRange{From: time.Now()}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- Deduplication ---

func TestDedupeCaseInsensitiveFirstWins(t *testing.T) {
	candidates := []types.Candidate{
		{URL: "https://arxiv.org/abs/2301.07041", Source: "arxiv", Relevance: 0.9},
		{URL: "https://ARXIV.org/abs/2301.07041", Source: "web", Relevance: 0.95},
		{URL: "https://arxiv.org/abs/2301.99999", Source: "arxiv", Relevance: 0.7},
	}

	deduped, removed := Dedupe(candidates)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if len(deduped) != 2 {
		t.Fatalf("len(deduped) = %d, want 2", len(deduped))
	}
	// First occurrence wins, even with a lower relevance score.
	if deduped[0].Source != "arxiv" || deduped[0].Relevance != 0.9 {
		t.Errorf("deduped[0] = %+v, want the first-seen arxiv candidate", deduped[0])
	}
}

func TestDedupePreservesOrder(t *testing.T) {
	candidates := []types.Candidate{
		{URL: "https://a.example/1", Relevance: 0.5},
		{URL: "https://b.example/2", Relevance: 0.5},
		{URL: "https://c.example/3", Relevance: 0.5},
	}

	deduped, removed := Dedupe(candidates)
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	for i, want := range []string{"https://a.example/1", "https://b.example/2", "https://c.example/3"} {
		if deduped[i].URL != want {
			t.Errorf("deduped[%d].URL = %q, want %q", i, deduped[i].URL, want)
		}
	}
}

// --- Aggregate ---

func TestAggregateRanksAndTruncates(t *testing.T) {
	strategies := []Strategy{
		&mockStrategy{name: "a", candidates: []types.Candidate{
			{URL: "https://x.example/low", Relevance: 0.2},
			{URL: "https://x.example/high", Relevance: 0.9},
		}},
		&mockStrategy{name: "b", candidates: []types.Candidate{
			{URL: "https://x.example/mid", Relevance: 0.5},
		}},
	}

	out, err := Aggregate(context.Background(), Query{Text: "q", MaxResults: 2}, strategies, testCfg(), io.Discard)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(out.Candidates) != 2 {
		t.Fatalf("len = %d, want 2 (truncated)", len(out.Candidates))
	}
	if out.Candidates[0].URL != "https://x.example/high" || out.Candidates[1].URL != "https://x.example/mid" {
		t.Errorf("ranking wrong: %+v", out.Candidates)
	}
}

func TestAggregateStableTies(t *testing.T) {
	// Equal scores keep strategy order after the stable sort.
	strategies := []Strategy{
		&mockStrategy{name: "a", candidates: []types.Candidate{
			{URL: "https://x.example/first", Relevance: 0.5},
		}},
		&mockStrategy{name: "b", candidates: []types.Candidate{
			{URL: "https://x.example/second", Relevance: 0.5},
		}},
	}

	out, err := Aggregate(context.Background(), Query{Text: "q"}, strategies, testCfg(), io.Discard)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if out.Candidates[0].URL != "https://x.example/first" {
		t.Errorf("tie order not preserved: %+v", out.Candidates)
	}
}

func TestAggregateStrategyFailureIsWarning(t *testing.T) {
	strategies := []Strategy{
		&mockStrategy{name: "broken", err: context.DeadlineExceeded},
		&mockStrategy{name: "ok", candidates: []types.Candidate{
			{URL: "https://x.example/1", Relevance: 0.8},
		}},
	}

	var buf strings.Builder
	out, err := Aggregate(context.Background(), Query{Text: "q"}, strategies, testCfg(), &buf)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(out.Candidates) != 1 {
		t.Errorf("len = %d, want 1", len(out.Candidates))
	}
	if len(out.StrategyErrors) != 1 || !strings.Contains(out.StrategyErrors[0], "broken") {
		t.Errorf("StrategyErrors = %v", out.StrategyErrors)
	}
	if !strings.Contains(buf.String(), "warning") {
		t.Errorf("expected warning output, got %q", buf.String())
	}
}

func TestAggregateEmptyQuery(t *testing.T) {
	_, err := Aggregate(context.Background(), Query{}, []Strategy{&mockStrategy{name: "a"}}, testCfg(), io.Discard)
	if err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestAggregateNoStrategies(t *testing.T) {
	_, err := Aggregate(context.Background(), Query{Text: "q"}, nil, testCfg(), io.Discard)
	if err == nil {
		t.Fatal("expected error for no strategies")
	}
}

// --- Date filtering ---

func TestAggregateDateFilterStrict(t *testing.T) {
	dates := &DateRange{
		From: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	strategies := []Strategy{
		&mockStrategy{name: "a", candidates: []types.Candidate{
			// arXiv ID in URL: January 2023 — inside the range.
			{URL: "https://arxiv.org/abs/2301.07041", Relevance: 0.9},
			// 2019 in URL — outside the range.
			{URL: "https://repo.example/2019/paper.pdf", Relevance: 0.8},
			// No extractable date — excluded by the strict policy.
			{URL: "https://repo.example/paper.pdf", Title: "Untitled notes", Relevance: 0.99},
		}},
	}

	out, err := Aggregate(context.Background(), Query{Text: "q", Dates: dates}, strategies, testCfg(), io.Discard)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(out.Candidates) != 1 {
		t.Fatalf("len = %d, want 1: %+v", len(out.Candidates), out.Candidates)
	}
	if out.Candidates[0].URL != "https://arxiv.org/abs/2301.07041" {
		t.Errorf("wrong survivor: %+v", out.Candidates[0])
	}
	if out.DateFiltered != 2 {
		t.Errorf("DateFiltered = %d, want 2", out.DateFiltered)
	}
}

func TestAggregateNoDateRangeKeepsUndated(t *testing.T) {
	strategies := []Strategy{
		&mockStrategy{name: "a", candidates: []types.Candidate{
			{URL: "https://repo.example/paper.pdf", Title: "Untitled notes", Relevance: 0.9},
		}},
	}

	out, err := Aggregate(context.Background(), Query{Text: "q"}, strategies, testCfg(), io.Discard)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(out.Candidates) != 1 {
		t.Errorf("len = %d, want 1", len(out.Candidates))
	}
}
