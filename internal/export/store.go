// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes optional snapshot artifacts next to the report:
// a SQLite database of the paper table, YAML/JSON snapshot files, and a
// CSL-YAML bibliography. Every artifact describes the current run only;
// nothing is ever read back on a later run.
package export

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meshintel/metascholar/pkg/types"
)

const dbFile = "snapshot.db"

// WriteDatabase writes the snapshot papers into a fresh SQLite database
// at dir/snapshot.db and returns the written path. An existing database
// from an earlier run is replaced, not appended to.
func WriteDatabase(dir, query string, papers []types.Paper) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, dbFile)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("removing previous database: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return "", fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	statements := []string{
		`CREATE TABLE snapshot (
			query TEXT,
			created_at TEXT
		)`,
		`CREATE TABLE papers (
			position INTEGER PRIMARY KEY,
			title TEXT,
			abstract TEXT,
			year INTEGER,
			citation_count INTEGER,
			authors TEXT,
			venue TEXT,
			url TEXT,
			clean_text TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return "", fmt.Errorf("creating schema: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO snapshot (query, created_at) VALUES (?, ?)`,
		query, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return "", fmt.Errorf("inserting snapshot row: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO papers
		(position, title, abstract, year, citation_count, authors, venue, url, clean_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range papers {
		authors, err := json.Marshal(p.Authors)
		if err != nil {
			return "", fmt.Errorf("encoding authors for paper %d: %w", i, err)
		}
		if _, err := stmt.Exec(
			i, p.Title, p.Abstract, nullableInt(p.Year), nullableInt(p.CitationCount),
			string(authors), p.Venue, p.URL, p.CleanText,
		); err != nil {
			return "", fmt.Errorf("inserting paper %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing papers: %w", err)
	}
	return path, nil
}

// nullableInt maps a missing optional field onto SQL NULL.
func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
