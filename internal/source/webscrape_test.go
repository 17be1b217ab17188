// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

const resultsPageFixture = `<html><body>
<div class="result">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Frepo.example%2Fthesis.pdf&rut=abc">Thesis on OCR quality</a>
  <a class="result__snippet" href="#">Snippet text</a>
</div>
<div class="result">
  <a class="result__a" href="https://other.example/papers/survey.pdf">Survey paper</a>
</div>
<div class="result">
  <a class="result__a" href="javascript:void(0)">Bogus link</a>
</div>
</body></html>`

func TestWebSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("q"); q != "ocr quality filetype:pdf" {
			t.Errorf("q = %q", q)
		}
		io.WriteString(w, resultsPageFixture)
	}))
	defer ts.Close()

	old := webSearchBase
	webSearchBase = ts.URL
	defer func() { webSearchBase = old }()

	s := &WebStrategy{Client: ts.Client()}
	candidates, err := s.Search(context.Background(), Query{Text: "ocr quality"}, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("len = %d, want 2 (bogus link skipped)", len(candidates))
	}

	first := candidates[0]
	if first.URL != "https://repo.example/thesis.pdf" {
		t.Errorf("URL = %q, want redirect unwrapped", first.URL)
	}
	if first.Title != "Thesis on OCR quality" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.DownloadURL != "https://repo.example/thesis.pdf" {
		t.Errorf("DownloadURL = %q, want direct PDF link", first.DownloadURL)
	}
	if first.Source != "web" {
		t.Errorf("Source = %q", first.Source)
	}
}

func TestWebSearchRespectsMaxResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, resultsPageFixture)
	}))
	defer ts.Close()

	old := webSearchBase
	webSearchBase = ts.URL
	defer func() { webSearchBase = old }()

	s := &WebStrategy{Client: ts.Client()}
	candidates, err := s.Search(context.Background(), Query{Text: "x", MaxResults: 1}, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(candidates) != 1 {
		t.Errorf("len = %d, want 1", len(candidates))
	}
}

func TestResolveRedirect(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"//duckduckgo.com/l/?uddg=https%3A%2F%2Fa.example%2Fp.pdf", "https://a.example/p.pdf"},
		{"https://direct.example/p.pdf", "https://direct.example/p.pdf"},
		{"javascript:void(0)", ""},
		{"%%%", ""},
	}
	for _, tt := range tests {
		if got := resolveRedirect(tt.in); got != tt.want {
			t.Errorf("resolveRedirect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
