// Package ledger tracks which supplier product ids have already been applied
// to the storefront, so interrupted batches resume where they stopped. Every
// Add flushes durably before returning: the ledger must never claim an id
// that was not actually applied, and an id missing after a crash only costs
// one redundant (idempotent) reconcile.
package ledger

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/twp-acessorios/garimpo-cli/internal/config"
)

// Ledger records processed supplier product ids.
type Ledger interface {
	// Contains reports whether the id has been applied before.
	Contains(ctx context.Context, externalID string) (bool, error)
	// Add durably records the id. Adding an existing id is a no-op.
	Add(ctx context.Context, externalID string) error
	// Len returns the number of recorded ids.
	Len(ctx context.Context) (int, error)
	// Remove deletes one id, forcing its next reconcile to run.
	Remove(ctx context.Context, externalID string) error
	// Close releases the underlying store.
	Close() error
}

// Open creates a Ledger for the configured driver.
func Open(ctx context.Context, cfg config.LedgerConfig) (Ledger, error) {
	switch cfg.Driver {
	case "", "sqlite":
		path := cfg.Path
		if path == "" {
			path = "garimpo-ledger.db"
		}
		return NewSQLite(path)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, eris.Errorf("ledger: unknown driver %q", cfg.Driver)
	}
}
