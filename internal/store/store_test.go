// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docharvest/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDoc(id string, extractedAt time.Time) types.ProcessedDocument {
	return types.ProcessedDocument{
		ID:     id,
		Title:  "A Title",
		URL:    "https://example.com/doc",
		Source: "arxiv",
		Content: types.DocumentContent{
			Text:        "the final text",
			PageCount:   7,
			ExtractedAt: extractedAt,
		},
		Metadata: types.DocumentMetadata{Author: "J. Smith", CreationDate: "2023-01-17"},
		Structure: types.DocumentStructure{
			Abstract:   "short abstract",
			Sections:   []string{"1. Introduction", "2. Methods"},
			References: []string{"[1] Smith, J. (2020)."},
		},
		Processing: types.ProcessingInfo{
			Method:        types.MethodHybrid,
			OCRConfidence: 0.82,
			OCREngine:     "tesseract",
			ProcessingMS:  1234,
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	want := sampleDoc("arxiv-2301.07041", time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, s.Write(want))

	got, err := s.Read(want.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Content.Text, got.Content.Text)
	assert.Equal(t, want.Content.PageCount, got.Content.PageCount)
	assert.True(t, want.Content.ExtractedAt.Equal(got.Content.ExtractedAt))
	assert.Equal(t, want.Metadata, got.Metadata)
	assert.Equal(t, want.Structure, got.Structure)
	assert.Equal(t, want.Processing, got.Processing)
}

func TestReadMissingReturnsNil(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Read("no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWriteReplacesEarlierVersion(t *testing.T) {
	s := openTestStore(t)
	doc := sampleDoc("web-abc", time.Now().UTC())
	require.NoError(t, s.Write(doc))

	doc.Content.Text = "re-processed text"
	doc.Processing.Method = types.MethodOCR
	require.NoError(t, s.Write(doc))

	got, err := s.Read(doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "re-processed text", got.Content.Text)
	assert.Equal(t, types.MethodOCR, got.Processing.Method)

	entries, err := s.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestListOrdersByRecency(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Write(sampleDoc("older", base)))
	require.NoError(t, s.Write(sampleDoc("newer", base.Add(time.Hour))))

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "newer", entries[0].ID)
	assert.Equal(t, "older", entries[1].ID)
	assert.Equal(t, types.MethodHybrid, entries[0].Method)
	assert.Equal(t, 7, entries[0].PageCount)
}

func TestListEmptyStore(t *testing.T) {
	s := openTestStore(t)
	entries, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
