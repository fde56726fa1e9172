// Package history records every translation run in a SQLite database so
// earlier runs and their diagnostics can be listed later.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ginjaninja78/excel-translation-tool/internal/converter"
	"github.com/ginjaninja78/excel-translation-tool/internal/types"
)

// Run statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at DATETIME NOT NULL,
	duration_ms INTEGER NOT NULL,
	status TEXT NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	input_file TEXT NOT NULL,
	lookup_file TEXT NOT NULL,
	output_file TEXT NOT NULL DEFAULT '',
	source_rows INTEGER NOT NULL DEFAULT 0,
	lookup_entries INTEGER NOT NULL DEFAULT 0,
	warnings INTEGER NOT NULL DEFAULT 0,
	notices INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_diagnostics (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES runs(id),
	seq INTEGER NOT NULL,
	severity TEXT NOT NULL,
	stage TEXT NOT NULL,
	row_number INTEGER NOT NULL,
	column_name TEXT NOT NULL,
	message TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_run_diagnostics_run ON run_diagnostics(run_id, seq);
`

// Run is one recorded run.
type Run struct {
	ID            string
	StartedAt     time.Time
	Duration      time.Duration
	Status        string
	Error         string
	InputFile     string
	LookupFile    string
	OutputFile    string
	SourceRows    int
	LookupEntries int
	Warnings      int
	Notices       int
}

// Store is the run history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a run result and its diagnostics.
func (s *Store) Record(ctx context.Context, result converter.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	status, errText := StatusSuccess, ""
	if result.Error != nil {
		status, errText = StatusFailed, result.Error.Error()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, duration_ms, status, error, input_file, lookup_file,
			output_file, source_rows, lookup_entries, warnings, notices)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID, result.StartedAt.UTC(), result.Stats.ProcessingTime.Milliseconds(), status, errText,
		result.InputFile, result.LookupFile, result.OutputFile,
		result.Stats.SourceRows, result.Stats.LookupEntries, result.Stats.Warnings, result.Stats.Notices)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_diagnostics (run_id, seq, severity, stage, row_number, column_name, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare diagnostic insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range result.Diagnostics {
		if _, err := stmt.ExecContext(ctx, result.RunID, i, d.Severity.String(), string(d.Stage), d.Row, d.Column, d.Message); err != nil {
			return fmt.Errorf("failed to insert diagnostic: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, duration_ms, status, error, input_file, lookup_file, output_file,
			source_rows, lookup_entries, warnings, notices
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		if err := rows.Scan(&r.ID, &r.StartedAt, &durationMS, &r.Status, &r.Error, &r.InputFile, &r.LookupFile,
			&r.OutputFile, &r.SourceRows, &r.LookupEntries, &r.Warnings, &r.Notices); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Diagnostics returns the diagnostics of one run in their original order.
func (s *Store) Diagnostics(ctx context.Context, runID string) ([]types.Diagnostic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT severity, stage, row_number, column_name, message
		FROM run_diagnostics WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query diagnostics: %w", err)
	}
	defer rows.Close()

	var diags []types.Diagnostic
	for rows.Next() {
		var d types.Diagnostic
		var severity, stage string
		if err := rows.Scan(&severity, &stage, &d.Row, &d.Column, &d.Message); err != nil {
			return nil, fmt.Errorf("failed to scan diagnostic: %w", err)
		}
		d.Severity = parseSeverity(severity)
		d.Stage = types.Stage(stage)
		diags = append(diags, d)
	}
	return diags, rows.Err()
}

func parseSeverity(s string) types.Severity {
	if s == types.SeverityWarning.String() {
		return types.SeverityWarning
	}
	return types.SeverityInfo
}
