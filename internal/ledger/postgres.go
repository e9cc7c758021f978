package ledger

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// pgxPool is the subset of pgxpool.Pool the ledger uses; pgxmock satisfies
// it in tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresLedger implements Ledger on a pgx pool.
type PostgresLedger struct {
	pool pgxPool
}

// NewPostgres connects to databaseURL and ensures the ledger table exists.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresLedger, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "ledger: connect postgres")
	}

	l := &PostgresLedger{pool: pool}
	if err := l.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return l, nil
}

// NewPostgresFromPool wraps an existing pool (tests use pgxmock here).
// The caller is responsible for the schema.
func NewPostgresFromPool(pool pgxPool) *PostgresLedger {
	return &PostgresLedger{pool: pool}
}

func (l *PostgresLedger) migrate(ctx context.Context) error {
	_, err := l.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS processed_products (
	external_id  TEXT PRIMARY KEY,
	processed_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	return eris.Wrap(err, "ledger: migrate postgres")
}

func (l *PostgresLedger) Contains(ctx context.Context, externalID string) (bool, error) {
	var exists bool
	err := l.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM processed_products WHERE external_id = $1)`,
		externalID).Scan(&exists)
	if err != nil {
		return false, eris.Wrapf(err, "ledger: lookup %s", externalID)
	}
	return exists, nil
}

func (l *PostgresLedger) Add(ctx context.Context, externalID string) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO processed_products (external_id) VALUES ($1) ON CONFLICT DO NOTHING`,
		externalID)
	return eris.Wrapf(err, "ledger: add %s", externalID)
}

func (l *PostgresLedger) Len(ctx context.Context) (int, error) {
	var n int
	err := l.pool.QueryRow(ctx, `SELECT COUNT(*) FROM processed_products`).Scan(&n)
	return n, eris.Wrap(err, "ledger: count")
}

func (l *PostgresLedger) Remove(ctx context.Context, externalID string) error {
	_, err := l.pool.Exec(ctx,
		`DELETE FROM processed_products WHERE external_id = $1`, externalID)
	return eris.Wrapf(err, "ledger: remove %s", externalID)
}

func (l *PostgresLedger) Close() error {
	l.pool.Close()
	return nil
}
