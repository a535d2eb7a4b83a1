package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Run is one recorded pipeline execution.
type Run struct {
	ID          string    `json:"id"`
	Command     string    `json:"command"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	Files       int       `json:"files"`
	Symbols     int       `json:"symbols"`
	ParseErrors int       `json:"parseErrors"`
	Cycles      int       `json:"cycles"`
	Drifted     int       `json:"drifted"`
	Status      string    `json:"status"`
}

func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS runs (
				id TEXT PRIMARY KEY,
				command TEXT NOT NULL,
				started_at TEXT NOT NULL,
				finished_at TEXT NOT NULL,
				files INTEGER NOT NULL,
				symbols INTEGER NOT NULL,
				parse_errors INTEGER NOT NULL,
				cycles INTEGER NOT NULL,
				drifted INTEGER NOT NULL,
				status TEXT NOT NULL
			)
		`)
		if err != nil {
			return fmt.Errorf("failed to create runs table: %w", err)
		}
		_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC)`)
		if err != nil {
			return fmt.Errorf("failed to create runs index: %w", err)
		}
		return nil
	})
}

// InsertRun records a completed run.
func (db *DB) InsertRun(run Run) error {
	return db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO runs (id, command, started_at, finished_at, files, symbols, parse_errors, cycles, drifted, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID, run.Command,
			run.StartedAt.UTC().Format(time.RFC3339),
			run.FinishedAt.UTC().Format(time.RFC3339),
			run.Files, run.Symbols, run.ParseErrors, run.Cycles, run.Drifted, run.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
		}
		return nil
	})
}

// RecentRuns returns up to limit runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, command, started_at, finished_at, files, symbols, parse_errors, cycles, drifted, status
		FROM runs
		ORDER BY started_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string
		if err := rows.Scan(&run.ID, &run.Command, &started, &finished,
			&run.Files, &run.Symbols, &run.ParseErrors, &run.Cycles, &run.Drifted, &run.Status); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
