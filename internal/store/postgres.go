package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS records (
	kind       TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	data       BYTEA       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (kind, id)
);`

// Postgres is a Store backed by a pgx connection pool, for deployments that
// already run a shared database instead of the embedded file store.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects using databaseURL and ensures the records table exists.
func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Get(ctx context.Context, kind, id string) ([]byte, error) {
	row := p.pool.QueryRow(ctx, `SELECT data FROM records WHERE kind = $1 AND id = $2`, kind, id)
	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (p *Postgres) List(ctx context.Context, kind string) ([]Record, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, data, updated_at FROM records WHERE kind = $1 ORDER BY updated_at DESC, id`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		rec := Record{Kind: kind}
		if err := rows.Scan(&rec.ID, &rec.Data, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *Postgres) Update(ctx context.Context, fn func(Tx) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(&pgTx{ctx: ctx, tx: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

type pgTx struct {
	ctx context.Context
	tx  pgx.Tx
}

func (t *pgTx) Get(kind, id string) ([]byte, error) {
	row := t.tx.QueryRow(t.ctx, `SELECT data FROM records WHERE kind = $1 AND id = $2 FOR UPDATE`, kind, id)
	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (t *pgTx) Put(kind, id string, data []byte) error {
	_, err := t.tx.Exec(t.ctx, `INSERT INTO records (kind, id, data, updated_at) VALUES ($1, $2, $3, NOW())
ON CONFLICT (kind, id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`, kind, id, data)
	return err
}

func (t *pgTx) Delete(kind, id string) error {
	_, err := t.tx.Exec(t.ctx, `DELETE FROM records WHERE kind = $1 AND id = $2`, kind, id)
	return err
}
