// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"reflect"
	"testing"

	"github.com/pdiddy/docharvest/pkg/types"
)

func TestMirrorURLs(t *testing.T) {
	tests := []struct {
		name    string
		primary string
		source  string
		want    []string
	}{
		{
			name:    "arxiv abs page",
			primary: "https://arxiv.org/abs/2301.07041",
			source:  "arxiv",
			want: []string{
				"https://arxiv.org/pdf/2301.07041",
				"https://export.arxiv.org/pdf/2301.07041",
			},
		},
		{
			name:    "arxiv pdf url already",
			primary: "https://arxiv.org/pdf/2301.07041",
			source:  "arxiv",
			want:    []string{"https://export.arxiv.org/pdf/2301.07041"},
		},
		{
			name:    "export mirror already",
			primary: "https://export.arxiv.org/pdf/2301.07041",
			source:  "arxiv",
			want:    nil,
		},
		{
			name:    "web landing page",
			primary: "https://repo.example/record/42",
			source:  "web",
			want: []string{
				"https://repo.example/record/42/download",
				"https://repo.example/record/42/pdf",
				"https://repo.example/record/42?download=1",
			},
		},
		{
			name:    "web direct pdf has no mirrors",
			primary: "https://repo.example/files/thesis.PDF",
			source:  "web",
			want:    nil,
		},
		{
			name:    "unknown source has no mirrors",
			primary: "https://somewhere.example/doc",
			source:  "other",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mirrorURLs(tt.primary, tt.source)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("mirrorURLs(%q, %q) = %v, want %v", tt.primary, tt.source, got, tt.want)
			}
		})
	}
}

func TestCandidateURLsDedupesPrimary(t *testing.T) {
	cand := types.Candidate{ID: "2301.07041", Source: "arxiv", DownloadURL: "https://arxiv.org/pdf/2301.07041"}
	urls := candidateURLs(cand)
	want := []string{
		"https://arxiv.org/pdf/2301.07041",
		"https://export.arxiv.org/pdf/2301.07041",
	}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("candidateURLs = %v, want %v", urls, want)
	}
}
