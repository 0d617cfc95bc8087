package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DBConn interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

// PostgresBackend shares sessions between kiosk terminals through a single
// client_sessions table.
type PostgresBackend struct {
	db      DBConn
	closeFn func()
}

func NewPostgresBackend(db DBConn, closeFn func()) *PostgresBackend {
	return &PostgresBackend{db: db, closeFn: closeFn}
}

const createSessionsTable = `
        CREATE TABLE IF NOT EXISTS client_sessions (
            key        TEXT PRIMARY KEY,
            value      TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL
        )
    `

func (p *PostgresBackend) Migrate(ctx context.Context) error {
	_, err := p.db.Exec(ctx, createSessionsTable)
	return err
}

func (p *PostgresBackend) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM client_sessions WHERE key = $1`
	var value string
	err := p.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (p *PostgresBackend) Set(ctx context.Context, key, value string) error {
	query := `
        INSERT INTO client_sessions (key, value, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
    `
	_, err := p.db.Exec(ctx, query, key, value, time.Now().UTC())
	return err
}

func (p *PostgresBackend) Delete(ctx context.Context, key string) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM client_sessions WHERE key = $1`, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresBackend) Close() error {
	if p.closeFn != nil {
		p.closeFn()
	}
	return nil
}
