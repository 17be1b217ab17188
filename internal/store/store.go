// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists processed documents in a local SQLite database.
// Documents are written once and read back verbatim; re-processing a
// document replaces its row.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/docharvest/pkg/types"
)

const dbFile = "documents.db"

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	url            TEXT NOT NULL,
	source         TEXT NOT NULL,
	text           TEXT NOT NULL,
	page_count     INTEGER NOT NULL,
	extracted_at   TIMESTAMP NOT NULL,
	author         TEXT NOT NULL DEFAULT '',
	creation_date  TEXT NOT NULL DEFAULT '',
	structure      TEXT NOT NULL,
	method         TEXT NOT NULL,
	ocr_confidence REAL NOT NULL DEFAULT 0,
	ocr_engine     TEXT NOT NULL DEFAULT '',
	processing_ms  INTEGER NOT NULL DEFAULT 0
);
`

// Store is a SQLite-backed document store. Safe for use from a single
// process; SQLite serializes concurrent writers.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	path := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Write persists a processed document, replacing any earlier version.
func (s *Store) Write(doc types.ProcessedDocument) error {
	structJSON, err := json.Marshal(doc.Structure)
	if err != nil {
		return fmt.Errorf("encoding structure: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO documents
		(id, title, url, source, text, page_count, extracted_at,
		 author, creation_date, structure, method, ocr_confidence, ocr_engine, processing_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Title, doc.URL, doc.Source,
		doc.Content.Text, doc.Content.PageCount, doc.Content.ExtractedAt,
		doc.Metadata.Author, doc.Metadata.CreationDate,
		string(structJSON),
		string(doc.Processing.Method), doc.Processing.OCRConfidence,
		doc.Processing.OCREngine, doc.Processing.ProcessingMS,
	)
	if err != nil {
		return fmt.Errorf("writing document %s: %w", doc.ID, err)
	}
	return nil
}

// Read loads one document by ID. A missing document returns (nil, nil).
func (s *Store) Read(id string) (*types.ProcessedDocument, error) {
	row := s.db.QueryRow(`
		SELECT id, title, url, source, text, page_count, extracted_at,
		       author, creation_date, structure, method, ocr_confidence, ocr_engine, processing_ms
		FROM documents WHERE id = ?`, id)

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", id, err)
	}
	return doc, nil
}

// Entry is a summary row for listing.
type Entry struct {
	ID          string
	Title       string
	Source      string
	Method      types.ProcessingMethod
	PageCount   int
	ExtractedAt time.Time
}

// List returns summaries of all stored documents, most recent first.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, title, source, method, page_count, extracted_at
		FROM documents ORDER BY extracted_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var method string
		if err := rows.Scan(&e.ID, &e.Title, &e.Source, &method, &e.PageCount, &e.ExtractedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Method = types.ProcessingMethod(method)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*types.ProcessedDocument, error) {
	var doc types.ProcessedDocument
	var structJSON, method string

	err := row.Scan(
		&doc.ID, &doc.Title, &doc.URL, &doc.Source,
		&doc.Content.Text, &doc.Content.PageCount, &doc.Content.ExtractedAt,
		&doc.Metadata.Author, &doc.Metadata.CreationDate,
		&structJSON, &method, &doc.Processing.OCRConfidence,
		&doc.Processing.OCREngine, &doc.Processing.ProcessingMS,
	)
	if err != nil {
		return nil, err
	}

	doc.Processing.Method = types.ProcessingMethod(method)
	if err := json.Unmarshal([]byte(structJSON), &doc.Structure); err != nil {
		return nil, fmt.Errorf("decoding structure: %w", err)
	}
	return &doc, nil
}
