// Copyright Kampmann Lab, 2026. All rights reserved.

// Package catalog keeps a local SQLite history of pipeline runs and the
// artifacts they wrote. The catalog is a fetch log only; nothing is
// ever served back from it in place of an API call.
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kampmann-lab/stringnet/internal/pipeline"
)

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating the
// parent directory and schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
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
			started TEXT NOT NULL,
			mode TEXT NOT NULL,
			input TEXT,
			prefix TEXT NOT NULL,
			genes INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS artifacts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			step TEXT NOT NULL,
			path TEXT NOT NULL,
			bytes INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_artifacts_run_id ON artifacts(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is one recorded pipeline run with its artifacts.
type Run struct {
	ID        int64
	Started   time.Time
	Mode      string
	Input     string
	Prefix    string
	Genes     int
	Artifacts []pipeline.Artifact
}

// Record inserts a completed run and its artifacts, returning the run id.
func (s *Store) Record(opts pipeline.Options, result *pipeline.Result) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (started, mode, input, prefix, genes) VALUES (?, ?, ?, ?, ?)`,
		result.Started.UTC().Format(time.RFC3339Nano), result.Mode, opts.Input, opts.Prefix, result.Genes,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, a := range result.Artifacts {
		if _, err := tx.Exec(
			`INSERT INTO artifacts (run_id, step, path, bytes) VALUES (?, ?, ?, ?)`,
			runID, a.Step, a.Path, a.Bytes,
		); err != nil {
			return 0, fmt.Errorf("inserting artifact %s: %w", a.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// List returns the most recent runs, newest first, each with its
// artifacts. A non-positive limit defaults to 20.
func (s *Store) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, started, mode, input, prefix, genes FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.Mode, &r.Input, &r.Prefix, &r.Genes); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339Nano, started); parseErr == nil {
			r.Started = t
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		artifacts, err := s.artifactsFor(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Artifacts = artifacts
	}
	return runs, nil
}

func (s *Store) artifactsFor(runID int64) ([]pipeline.Artifact, error) {
	rows, err := s.db.Query(
		`SELECT step, path, bytes FROM artifacts WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []pipeline.Artifact
	for rows.Next() {
		var a pipeline.Artifact
		if err := rows.Scan(&a.Step, &a.Path, &a.Bytes); err != nil {
			return nil, fmt.Errorf("scanning artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}
