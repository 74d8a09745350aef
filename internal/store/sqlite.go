package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	kind       TEXT    NOT NULL,
	id         TEXT    NOT NULL,
	data       BLOB    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (kind, id)
);`

// SQLite is the default Store: a single embedded database file, the closest
// server-side analogue of the browser-local storage the service replaces.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// The records table is tiny and access is single-writer; one connection
	// avoids SQLITE_BUSY churn between concurrent transactions.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, kind, id string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM records WHERE kind = ? AND id = ?`, kind, id)
	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *SQLite) List(ctx context.Context, kind string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data, updated_at FROM records WHERE kind = ? ORDER BY updated_at DESC, id`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var rec Record
		var updated int64
		if err := rows.Scan(&rec.ID, &rec.Data, &updated); err != nil {
			return nil, err
		}
		rec.Kind = kind
		rec.UpdatedAt = time.UnixMilli(updated).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLite) Update(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&sqliteTx{ctx: ctx, tx: tx, now: time.Now}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// sqliteTx adapts a database/sql transaction to the Tx contract.
type sqliteTx struct {
	ctx context.Context
	tx  *sql.Tx
	now func() time.Time
}

func (t *sqliteTx) Get(kind, id string) ([]byte, error) {
	row := t.tx.QueryRowContext(t.ctx, `SELECT data FROM records WHERE kind = ? AND id = ?`, kind, id)
	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (t *sqliteTx) Put(kind, id string, data []byte) error {
	_, err := t.tx.ExecContext(t.ctx, `INSERT INTO records (kind, id, data, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (kind, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		kind, id, data, t.now().UTC().UnixMilli())
	return err
}

func (t *sqliteTx) Delete(kind, id string) error {
	_, err := t.tx.ExecContext(t.ctx, `DELETE FROM records WHERE kind = ? AND id = ?`, kind, id)
	return err
}
