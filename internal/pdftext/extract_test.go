// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"testing"

	"github.com/ledongthuc/pdf"
)

func TestAssemblePage(t *testing.T) {
	runs := []pdf.Text{
		{S: "world", X: 40, Y: 700},
		{S: "Hello ", X: 10, Y: 700},
		{S: "Second line", X: 10, Y: 680},
		{S: "Title", X: 10, Y: 720},
	}
	// The two Y=700 runs keep their input order; sorting is stable.
	got := assemblePage(runs)
	want := "Title\nworld Hello \nSecond line"
	if got != want {
		t.Errorf("assemblePage = %q, want %q", got, want)
	}
}

func TestAssemblePageSameLineNoBreak(t *testing.T) {
	runs := []pdf.Text{
		{S: "a", Y: 100.0},
		{S: "b", Y: 99.8},
		{S: "c", Y: 99.1},
	}
	got := assemblePage(runs)
	want := "a b\nc"
	if got != want {
		t.Errorf("assemblePage = %q, want %q", got, want)
	}
}

func TestAssemblePageEmpty(t *testing.T) {
	if got := assemblePage(nil); got != "" {
		t.Errorf("assemblePage(nil) = %q", got)
	}
}

func TestDecodeRun(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"caf%C3%A9", "café"},
		{"100% legitimate", "100% legitimate"},
	}
	for _, tt := range tests {
		if got := decodeRun(tt.in); got != tt.want {
			t.Errorf("decodeRun(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPostProcess(t *testing.T) {
	in := "  Title   with    gaps\n\n\n\tIndented  line\n   \nlast"
	want := "Title with gaps\nIndented line\nlast"
	if got := postProcess(in); got != want {
		t.Errorf("postProcess = %q, want %q", got, want)
	}
}

func TestCollapseSpace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a  b\t\tc", "a b c"},
		{"   leading", "leading"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := collapseSpace(tt.in); got != tt.want {
			t.Errorf("collapseSpace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractMissingFile(t *testing.T) {
	res := Extract("/nonexistent/file.pdf")
	if res.Text != "" || res.PageCount != 0 {
		t.Errorf("Extract on missing file = %+v, want zero Result", res)
	}
}

func TestPageCountMissingFile(t *testing.T) {
	if _, err := PageCount("/nonexistent/file.pdf"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
