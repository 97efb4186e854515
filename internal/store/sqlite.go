package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS flags (
	name       TEXT PRIMARY KEY,
	value      INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS transactions (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_transactions_applied_at ON transactions(applied_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetFlag returns false for a flag that was never set.
func (s *SQLiteStore) GetFlag(ctx context.Context, name string) (bool, error) {
	var v int
	err := s.db.QueryRowContext(ctx, `SELECT value FROM flags WHERE name = ?`, name).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: get flag %s", name)
	}
	return v != 0, nil
}

func (s *SQLiteStore) SetFlag(ctx context.Context, name string, value bool) error {
	v := 0
	if value {
		v = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO flags (name, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		name, v, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: set flag %s", name)
}

// RecordTransaction inserts txn and reports whether it was new. A transaction
// ID that is already present is left untouched.
func (s *SQLiteStore) RecordTransaction(ctx context.Context, txn Transaction) (bool, error) {
	if txn.ID == "" {
		return false, eris.New("sqlite: transaction id is required")
	}
	if txn.AppliedAt.IsZero() {
		txn.AppliedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, kind, applied_at) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		txn.ID, txn.Kind, txn.AppliedAt,
	)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: record transaction %s", txn.ID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "rows affected")
	}
	return n > 0, nil
}

func (s *SQLiteStore) ListTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, applied_at FROM transactions ORDER BY applied_at, id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list transactions")
	}
	defer rows.Close() //nolint:errcheck

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Kind, &t.AppliedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan transaction")
		}
		out = append(out, t)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list transactions iterate")
}
