// Package storage keeps a local sqlite history of fetched vendor quotes
// and spreadsheet update runs. The history is an audit trail; nothing in
// the lookup or merge path reads from it.
package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"pricedb/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS quotes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  part TEXT NOT NULL,
  source TEXT NOT NULL,
  price TEXT NOT NULL,
  lot TEXT,
  fetchedAt TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_quotes_part ON quotes(part);
CREATE INDEX IF NOT EXISTS idx_quotes_fetchedAt ON quotes(fetchedAt);

CREATE TABLE IF NOT EXISTS update_runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  startedAt TEXT NOT NULL,
  finishedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  written INTEGER NOT NULL,
  appended INTEGER NOT NULL,
  skipped INTEGER NOT NULL,
  failed INTEGER NOT NULL
);
`
	_, err := d.conn.Exec(schema)
	return err
}

// RecordQuote appends one fetched quote to the history.
func (d *DB) RecordQuote(part string, q internal.Quote) error {
	_, err := d.conn.Exec(`
INSERT INTO quotes (part, source, price, lot, fetchedAt) VALUES (?, ?, ?, ?, ?)
`, part, q.Source, q.Price, q.Lot, q.Date.UTC().Format(time.RFC3339))
	return err
}

// QuotesForPart returns the recorded history for one part, newest first.
func (d *DB) QuotesForPart(part string, limit int) ([]internal.Quote, error) {
	rows, err := d.conn.Query(`
SELECT source, price, lot, fetchedAt FROM quotes
WHERE part = ? ORDER BY fetchedAt DESC LIMIT ?
`, part, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Quote
	for rows.Next() {
		var q internal.Quote
		var fetchedAt string
		if err := rows.Scan(&q.Source, &q.Price, &q.Lot, &fetchedAt); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, fetchedAt); err == nil {
			q.Date = t
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// RecordUpdateRun stores the outcome counters of one spreadsheet update.
func (d *DB) RecordUpdateRun(startedAt time.Time, summary internal.UpdateSummary) error {
	_, err := d.conn.Exec(`
INSERT INTO update_runs (startedAt, written, appended, skipped, failed)
VALUES (?, ?, ?, ?, ?)
`, startedAt.UTC().Format(time.RFC3339), summary.Written, summary.Appended, summary.Skipped, summary.Failed)
	return err
}
