// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists extracted calendar records in SQLite with a
// full-text index over event name, meeting place and person.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/calparse/pkg/types"
)

const (
	defaultDBPath     = "calendar.db"
	defaultMaxResults = 100
)

// Store manages the calendar SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
	now        func() time.Time
}

// Open opens or creates the database at cfg.DBPath and creates the schema
// if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			source TEXT PRIMARY KEY,
			ingested_at TEXT NOT NULL,
			records INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL REFERENCES documents(source) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			date TEXT NOT NULL,
			event_name TEXT NOT NULL DEFAULT '',
			meeting_place TEXT NOT NULL DEFAULT '',
			person TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_date ON events(date)`,
		`CREATE INDEX IF NOT EXISTS idx_events_source ON events(source)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='events_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE events_fts USING fts5(
			event_name, meeting_place, person,
			content=events, content_rowid=rowid
		)`,
		`CREATE TRIGGER events_ai AFTER INSERT ON events BEGIN
			INSERT INTO events_fts(rowid, event_name, meeting_place, person)
			VALUES (new.rowid, new.event_name, new.meeting_place, new.person);
		END`,
		`CREATE TRIGGER events_ad AFTER DELETE ON events BEGIN
			INSERT INTO events_fts(events_fts, rowid, event_name, meeting_place, person)
			VALUES ('delete', old.rowid, old.event_name, old.meeting_place, old.person);
		END`,
		`CREATE TRIGGER events_au AFTER UPDATE ON events BEGIN
			INSERT INTO events_fts(events_fts, rowid, event_name, meeting_place, person)
			VALUES ('delete', old.rowid, old.event_name, old.meeting_place, old.person);
			INSERT INTO events_fts(rowid, event_name, meeting_place, person)
			VALUES (new.rowid, new.event_name, new.meeting_place, new.person);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// Ingest replaces everything stored for source with records, in one
// transaction. It reports whether the source had been ingested before.
func (s *Store) Ingest(ctx context.Context, source string, records []types.Record) (replaced bool, err error) {
	if source == "" {
		return false, fmt.Errorf("ingesting records: source name is empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT count(*) FROM documents WHERE source = ?`, source,
	).Scan(&n); err != nil {
		return false, fmt.Errorf("looking up %s: %w", source, err)
	}
	replaced = n > 0

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE source = ?`, source); err != nil {
		return false, fmt.Errorf("deleting old events: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (source, ingested_at, records) VALUES (?, ?, ?)
		 ON CONFLICT(source) DO UPDATE SET ingested_at=excluded.ingested_at, records=excluded.records`,
		source, s.now().UTC().Format(time.RFC3339), len(records),
	)
	if err != nil {
		return false, fmt.Errorf("upserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (source, seq, date, event_name, meeting_place, person)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return false, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx,
			source, i, r.DateString(), r.EventName, r.MeetingPlace, r.Person,
		); err != nil {
			return false, fmt.Errorf("inserting event %d of %s: %w", i, source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing %s: %w", source, err)
	}
	return replaced, nil
}

// Document describes one ingested source.
type Document struct {
	Source     string    `json:"source" yaml:"source"`
	IngestedAt time.Time `json:"ingested_at" yaml:"ingested_at"`
	Records    int       `json:"records" yaml:"records"`
}

// Documents lists the ingested sources in name order.
func (s *Store) Documents(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, ingested_at, records FROM documents ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			d  Document
			at string
		)
		if err := rows.Scan(&d.Source, &at, &d.Records); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		d.IngestedAt, _ = time.Parse(time.RFC3339, at)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
