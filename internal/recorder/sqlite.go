package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the export journal to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS export_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			source      TEXT NOT NULL,
			job         TEXT,
			tickers     TEXT NOT NULL,
			start_date  TEXT NOT NULL,
			end_date    TEXT NOT NULL,
			row_count   INTEGER,
			duration_ms INTEGER,
			output      TEXT,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_export_ts ON export_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordExport(evt *ExportEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := evt.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO export_runs
		(timestamp, source, job, tickers, start_date, end_date, row_count, duration_ms, output, error)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		at.Unix(), evt.Source, evt.Job, strings.Join(evt.Tickers, ","),
		evt.Start.Format(time.DateOnly), evt.End.Format(time.DateOnly),
		evt.Rows, evt.Duration.Milliseconds(), evt.Output, evt.Err,
	)
	return err
}

// Recent returns the latest runs, newest first.
func (r *SQLiteRecorder) Recent(limit int) ([]ExportEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT timestamp, source, job, tickers, start_date, end_date,
		row_count, duration_ms, output, error
		FROM export_runs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query export runs: %w", err)
	}
	defer rows.Close()

	var out []ExportEvent
	for rows.Next() {
		var (
			ts, durMs            int64
			tickers, start, end  string
			job, output, errText sql.NullString
			evt                  ExportEvent
		)
		if err := rows.Scan(&ts, &evt.Source, &job, &tickers, &start, &end,
			&evt.Rows, &durMs, &output, &errText); err != nil {
			return nil, fmt.Errorf("scan export run: %w", err)
		}
		evt.At = time.Unix(ts, 0)
		evt.Job = job.String
		evt.Output = output.String
		evt.Err = errText.String
		if tickers != "" {
			evt.Tickers = strings.Split(tickers, ",")
		}
		evt.Start, _ = time.Parse(time.DateOnly, start)
		evt.End, _ = time.Parse(time.DateOnly, end)
		evt.Duration = time.Duration(durMs) * time.Millisecond
		out = append(out, evt)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
