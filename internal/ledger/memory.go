package ledger

import (
	"context"
	"sync"
)

// MemoryLedger is an in-process Ledger for dry runs and tests. Entries do
// not survive the process.
type MemoryLedger struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewMemory creates an empty in-memory ledger.
func NewMemory() *MemoryLedger {
	return &MemoryLedger{ids: make(map[string]struct{})}
}

func (l *MemoryLedger) Contains(_ context.Context, externalID string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.ids[externalID]
	return ok, nil
}

func (l *MemoryLedger) Add(_ context.Context, externalID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ids[externalID] = struct{}{}
	return nil
}

func (l *MemoryLedger) Len(_ context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ids), nil
}

func (l *MemoryLedger) Remove(_ context.Context, externalID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.ids, externalID)
	return nil
}

func (l *MemoryLedger) Close() error {
	return nil
}
