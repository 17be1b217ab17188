// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPubMedSearch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("db"); got != "pubmed" {
			t.Errorf("db = %q, want pubmed", got)
		}
		fmt.Fprint(w, `{"esearchresult":{"idlist":["36000001","36000002"]}}`)
	})
	mux.HandleFunc("/esummary", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "36000001,36000002" {
			t.Errorf("id = %q", got)
		}
		fmt.Fprint(w, `{"result":{
			"uids":["36000001","36000002"],
			"36000001":{"title":"Deep learning in radiology","pubdate":"2023 Jan"},
			"36000002":{"title":"OCR for clinical notes","pubdate":"2022 Nov"}
		}}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	oldSearch, oldSummary := pubmedSearchBase, pubmedSummaryBase
	pubmedSearchBase = ts.URL + "/esearch"
	pubmedSummaryBase = ts.URL + "/esummary"
	defer func() { pubmedSearchBase, pubmedSummaryBase = oldSearch, oldSummary }()

	s := &PubMedStrategy{Client: ts.Client()}
	candidates, err := s.Search(context.Background(), Query{Text: "deep learning"}, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("len = %d, want 2", len(candidates))
	}
	if candidates[0].Title != "Deep learning in radiology" {
		t.Errorf("Title = %q", candidates[0].Title)
	}
	if candidates[0].URL != "https://pubmed.ncbi.nlm.nih.gov/36000001/" {
		t.Errorf("URL = %q", candidates[0].URL)
	}
	if candidates[0].Source != "pubmed" {
		t.Errorf("Source = %q", candidates[0].Source)
	}
	if candidates[0].Relevance <= candidates[1].Relevance {
		t.Errorf("relevance should decay by position")
	}
}

func TestPubMedSearchForwardsDateRange(t *testing.T) {
	var gotSearch string
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch", func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.RawQuery
		fmt.Fprint(w, `{"esearchresult":{"idlist":[]}}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	old := pubmedSearchBase
	pubmedSearchBase = ts.URL + "/esearch"
	defer func() { pubmedSearchBase = old }()

	q := Query{Text: "ocr", Dates: &DateRange{From: mustDate(t, "2022-01-01"), To: mustDate(t, "2022-12-31")}}
	s := &PubMedStrategy{Client: ts.Client()}
	candidates, err := s.Search(context.Background(), q, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if candidates != nil {
		t.Errorf("candidates = %v, want nil for empty idlist", candidates)
	}
	for _, want := range []string{"datetype=pdat", "mindate=2022%2F01%2F01", "maxdate=2022%2F12%2F31"} {
		if !strings.Contains(gotSearch, want) {
			t.Errorf("query %q missing %q", gotSearch, want)
		}
	}
}

func TestPubMedSearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	old := pubmedSearchBase
	pubmedSearchBase = ts.URL
	defer func() { pubmedSearchBase = old }()

	s := &PubMedStrategy{Client: ts.Client()}
	if _, err := s.Search(context.Background(), Query{Text: "x"}, testCfg()); err == nil {
		t.Fatal("expected error on HTTP 502")
	}
}
