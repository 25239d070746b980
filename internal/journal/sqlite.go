// Package journal persists per-run summaries and skipped-row details to a
// local SQLite database, so operators can audit which observations never
// made it into a BUFR file and reprocess them after fixing the cause.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/promice/aws2bufr/internal/pipeline"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id           TEXT PRIMARY KEY,
	input            TEXT NOT NULL,
	rows_read        INTEGER NOT NULL,
	messages_written INTEGER NOT NULL,
	unmapped_columns TEXT NOT NULL,
	started_at       TIMESTAMP NOT NULL,
	finished_at      TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS skipped_rows (
	run_id  TEXT NOT NULL REFERENCES runs(run_id),
	line    INTEGER NOT NULL,
	reason  TEXT NOT NULL,
	detail  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_skipped_rows_run ON skipped_rows(run_id);
`

// Journal records run outcomes in SQLite.
type Journal struct {
	log *slog.Logger
	db  *sql.DB
}

// Open creates the journal database and schema if needed.
func Open(path string, log *slog.Logger) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &Journal{log: log, db: db}, nil
}

// RecordRun stores one run summary and its skipped rows atomically.
func (j *Journal) RecordRun(ctx context.Context, s pipeline.Summary) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin journal tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, input, rows_read, messages_written, unmapped_columns, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, s.Input, s.RowsRead, s.MessagesWritten,
		joinColumns(s.UnmappedColumns), s.StartedAt.UTC(), s.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", s.RunID, err)
	}

	for _, row := range s.SkippedRows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO skipped_rows (run_id, line, reason, detail) VALUES (?, ?, ?, ?)`,
			s.RunID, row.Line, row.Reason, row.Detail,
		); err != nil {
			return fmt.Errorf("insert skipped row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit journal tx: %w", err)
	}
	j.log.Debug("run journaled", "run_id", s.RunID, "skipped", len(s.SkippedRows))
	return nil
}

// RunSummary is a journaled run as read back for audit tooling.
type RunSummary struct {
	RunID           string
	Input           string
	RowsRead        int
	MessagesWritten int
	UnmappedColumns string
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Runs returns the most recent runs, newest first.
func (j *Journal) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT run_id, input, rows_read, messages_written, unmapped_columns, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.Input, &r.RowsRead, &r.MessagesWritten,
			&r.UnmappedColumns, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SkippedRows returns the skipped rows of one run.
func (j *Journal) SkippedRows(ctx context.Context, runID string) ([]pipeline.SkippedRow, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT line, reason, detail FROM skipped_rows WHERE run_id = ? ORDER BY line`, runID)
	if err != nil {
		return nil, fmt.Errorf("query skipped rows: %w", err)
	}
	defer rows.Close()

	var out []pipeline.SkippedRow
	for rows.Next() {
		var r pipeline.SkippedRow
		if err := rows.Scan(&r.Line, &r.Reason, &r.Detail); err != nil {
			return nil, fmt.Errorf("scan skipped row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ",")
}
