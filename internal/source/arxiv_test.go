// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const arxivFeedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>Attention   Is
      All You Need, Revisited</title>
    <published>2023-01-17T12:00:00Z</published>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/1706.03762v5</id>
    <title>Attention Is All You Need</title>
    <published>2017-06-12T12:00:00Z</published>
  </entry>
</feed>`

func TestArxivSearch(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, arxivFeedFixture)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	s := &ArxivStrategy{Client: ts.Client()}
	candidates, err := s.Search(context.Background(), Query{Text: "attention transformers"}, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("len = %d, want 2", len(candidates))
	}

	first := candidates[0]
	if first.ID != "2301.07041" {
		t.Errorf("ID = %q, want version suffix stripped", first.ID)
	}
	if first.URL != "https://arxiv.org/abs/2301.07041" {
		t.Errorf("URL = %q", first.URL)
	}
	if first.DownloadURL != "https://arxiv.org/pdf/2301.07041" {
		t.Errorf("DownloadURL = %q", first.DownloadURL)
	}
	if first.Title != "Attention Is All You Need, Revisited" {
		t.Errorf("Title = %q, want whitespace collapsed", first.Title)
	}
	if first.Relevance != 1.0 {
		t.Errorf("Relevance = %f, want 1.0 for first entry", first.Relevance)
	}
	if candidates[1].Relevance >= first.Relevance {
		t.Errorf("relevance should decay by position")
	}

	if !strings.Contains(gotQuery, "all:attention+transformers") {
		t.Errorf("query = %q, want terms joined with +", gotQuery)
	}
}

func TestArxivSearchForwardsDateRange(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `<feed xmlns="http://www.w3.org/2005/Atom"></feed>`)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	q := Query{Text: "ocr", Dates: &DateRange{
		From: mustDate(t, "2023-01-01"),
		To:   mustDate(t, "2023-06-30"),
	}}
	s := &ArxivStrategy{Client: ts.Client()}
	if _, err := s.Search(context.Background(), q, testCfg()); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !strings.Contains(gotQuery, "submittedDate") {
		t.Errorf("query = %q, want submittedDate filter", gotQuery)
	}
}

func TestArxivSearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	s := &ArxivStrategy{Client: ts.Client()}
	if _, err := s.Search(context.Background(), Query{Text: "x"}, testCfg()); err == nil {
		t.Fatal("expected error on HTTP 500")
	}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"http://arxiv.org/abs/2301.07041", "2301.07041"},
		{"https://example.com/nothing", ""},
	}
	for _, tt := range tests {
		if got := extractArxivID(tt.in); got != tt.want {
			t.Errorf("extractArxivID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
