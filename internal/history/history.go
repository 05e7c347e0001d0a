// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a journal of conversion runs in a local SQLite
// database. Recording is best-effort: the pipeline logs a warning and
// carries on when the journal is unavailable.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/heic-convert/pkg/types"
)

const dbFile = "history.db"

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at stateDir/history.db,
// creating the schema when missing.
func Open(stateDir string) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	dbPath := filepath.Join(stateDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			started TEXT NOT NULL,
			finished TEXT NOT NULL,
			converted INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_files (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			source TEXT NOT NULL,
			output TEXT,
			status TEXT NOT NULL,
			reason TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_files_run_id ON run_files(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is one recorded pipeline run.
type Run struct {
	ID        int64
	Mode      string
	Started   time.Time
	Finished  time.Time
	Converted int
	Skipped   int
	Failed    int
}

// RecordRun stores a run and its per-file outcomes, returning the run ID.
func (s *Store) RecordRun(ctx context.Context, mode string, started, finished time.Time, results []types.ConversionResult) (int64, error) {
	var converted, skipped, failed int
	for _, r := range results {
		switch r.Status {
		case types.StatusConverted:
			converted++
		case types.StatusSkipped:
			skipped++
		case types.StatusFailed:
			failed++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (mode, started, finished, converted, skipped, failed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		mode,
		started.UTC().Format(time.RFC3339Nano),
		finished.UTC().Format(time.RFC3339Nano),
		converted, skipped, failed,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, r := range results {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_files (run_id, source, output, status, reason)
			 VALUES (?, ?, ?, ?, ?)`,
			runID, r.Source, r.Output, string(r.Status), r.Reason,
		); err != nil {
			return 0, fmt.Errorf("inserting run file: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs returns the most recent runs, newest first, up to limit.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, started, finished, converted, skipped, failed
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Mode, &started, &finished, &r.Converted, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Started, _ = time.Parse(time.RFC3339Nano, started)
		r.Finished, _ = time.Parse(time.RFC3339Nano, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunFiles returns the per-file outcomes of one run in insertion order.
func (s *Store) RunFiles(ctx context.Context, runID int64) ([]types.ConversionResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, output, status, reason FROM run_files
		 WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run files: %w", err)
	}
	defer rows.Close()

	var results []types.ConversionResult
	for rows.Next() {
		var r types.ConversionResult
		var status string
		if err := rows.Scan(&r.Source, &r.Output, &status, &r.Reason); err != nil {
			return nil, fmt.Errorf("scanning run file: %w", err)
		}
		r.Status = types.ConversionStatus(status)
		results = append(results, r)
	}
	return results, rows.Err()
}
