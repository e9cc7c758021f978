package catalog

import (
	"errors"
	"fmt"
)

// ErrorKind classifies reconcile failures for the batch report.
type ErrorKind string

const (
	// KindNotFound means the remote product does not exist.
	KindNotFound ErrorKind = "not_found"
	// KindRateLimitExceeded means throttling persisted past the retry budget.
	KindRateLimitExceeded ErrorKind = "rate_limit_exceeded"
	// KindTransientNetwork means a network fault survived all retries.
	KindTransientNetwork ErrorKind = "transient_network"
	// KindPartialUpdate means some calls applied before a later one failed;
	// the product is in a mixed state and must be reconciled again.
	KindPartialUpdate ErrorKind = "partial_update"
	// KindInvalidInput means the desired state cannot be applied as given.
	KindInvalidInput ErrorKind = "invalid_input"
	// KindLedgerWrite means the product applied remotely but recording it in
	// the local ledger failed; the next run redoes an idempotent reconcile.
	KindLedgerWrite ErrorKind = "ledger_write"
)

// ReconcileError carries the failure classification for one product.
type ReconcileError struct {
	Kind ErrorKind
	Err  error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("catalog: %s: %v", e.Kind, e.Err)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// KindOf extracts the ErrorKind from an error chain, "" when absent.
func KindOf(err error) ErrorKind {
	var re *ReconcileError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}
