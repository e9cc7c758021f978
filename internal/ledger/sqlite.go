package ledger

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteLedger implements Ledger on modernc.org/sqlite.
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) a ledger database at path and
// configures WAL mode.
func NewSQLite(path string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "ledger: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "ledger: exec %s", pragma)
		}
	}

	const migration = `
CREATE TABLE IF NOT EXISTS processed_products (
	external_id  TEXT PRIMARY KEY,
	processed_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`
	if _, err := db.Exec(migration); err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "ledger: migrate sqlite")
	}

	return &SQLiteLedger{db: db}, nil
}

func (l *SQLiteLedger) Contains(ctx context.Context, externalID string) (bool, error) {
	var one int
	err := l.db.QueryRowContext(ctx,
		`SELECT 1 FROM processed_products WHERE external_id = ?`, externalID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "ledger: lookup %s", externalID)
	}
	return true, nil
}

func (l *SQLiteLedger) Add(ctx context.Context, externalID string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO processed_products (external_id) VALUES (?)`, externalID)
	return eris.Wrapf(err, "ledger: add %s", externalID)
}

func (l *SQLiteLedger) Len(ctx context.Context) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM processed_products`).Scan(&n)
	return n, eris.Wrap(err, "ledger: count")
}

func (l *SQLiteLedger) Remove(ctx context.Context, externalID string) error {
	_, err := l.db.ExecContext(ctx,
		`DELETE FROM processed_products WHERE external_id = ?`, externalID)
	return eris.Wrapf(err, "ledger: remove %s", externalID)
}

func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}
